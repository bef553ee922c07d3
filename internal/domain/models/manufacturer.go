package models

import "time"

// Manufacturer is a brewery owning beers. Its own ID is the owner scope for
// every beer it publishes.
type Manufacturer struct {
	ID        int64
	Name      string
	Country   string
	UserID    *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ManufacturerInput is the upsert payload. Account fields are only used on
// create and, sparsely, on update.
type ManufacturerInput struct {
	UserName    string `json:"userName"`
	Password    string `json:"password"`
	UserEnabled *bool  `json:"userEnabled"`
	Name        string `json:"name"`
	Country     string `json:"country"`
}

type ManufacturerUpsertResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ManufacturerReadResponse struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type ManufacturerListResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}
