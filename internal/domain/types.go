package domain

// ManufacturerFilter narrows manufacturer listings. Empty fields mean no
// constraint.
type ManufacturerFilter struct {
	Name    string `form:"name"`
	Country string `form:"country"`
}

// BeerFilter narrows beer listings. Nil pointers and empty strings mean no
// constraint.
type BeerFilter struct {
	Name           string   `form:"name"`
	Style          string   `form:"style"`
	ManufacturerID *int64   `form:"manufacturerId"`
	MinAbv         *float64 `form:"minAbv"`
	MaxAbv         *float64 `form:"maxAbv"`
}
