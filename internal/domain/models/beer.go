package models

import "time"

type Beer struct {
	ID             int64
	Name           string
	Abv            *float64
	Style          string
	Description    string
	ManufacturerID int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BeerInput is the upsert payload. On update, nil/blank fields keep the stored
// value.
type BeerInput struct {
	Name        string   `json:"name"`
	Abv         *float64 `json:"abv"`
	Style       string   `json:"style"`
	Description string   `json:"description"`
}

type BeerUpsertResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BeerReadResponse struct {
	Name        string   `json:"name"`
	Abv         *float64 `json:"abv"`
	Style       string   `json:"style"`
	Description string   `json:"description"`
}

type BeerListResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Abv            *float64 `json:"abv"`
	Style          string   `json:"style"`
	Description    string   `json:"description"`
	ManufacturerID int64    `json:"manufacturerId"`
}
