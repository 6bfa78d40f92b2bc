package dtos

import "github.com/katara/mono-repo/backend/shared/go-models"

// NearestPoint is a point annotated for the "nearest" listing. DistanceKm is
// null for points that have not been geocoded.
type NearestPoint struct {
	models.Point
	DistanceKm    *float64 `json:"distance_km"`
	SearchURL     string   `json:"search_url"`
	DirectionsURL string   `json:"directions_url"`
}

type MapConfigResponse struct {
	Provider   string `json:"provider"`
	APIKey     string `json:"apiKey"`
	BasemapURL string `json:"basemapUrl"`
	Tiles      string `json:"tiles"`
}
