package models

import "time"

// Point is a recycling drop-off location. Lat/Lon are nil until geocoded.
type Point struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Lat       *float64  `json:"lat"`
	Lon       *float64  `json:"lon"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes"`
	SourceURL string    `json:"source_url"`
	UpdatedAt time.Time `json:"-"`
}

func (p *Point) HasCoordinates() bool {
	return p.Lat != nil && p.Lon != nil
}
