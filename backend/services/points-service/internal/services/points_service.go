package services

import (
	"context"
	"sort"

	"github.com/katara/mono-repo/backend/services/points-service/internal/dtos"
	internal_utils "github.com/katara/mono-repo/backend/services/points-service/internal/utils"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
)

const (
	DefaultNearestLimit = 10
	MaxNearestLimit     = 100

	arcgisBasemapURL = "https://basemaps-api.arcgis.com/arcgis/rest/services/styles/ArcGIS:Streets?type=style"
	arcgisTilesURL   = "https://server.arcgisonline.com/ArcGIS/rest/services/World_Street_Map/MapServer/tile/{z}/{y}/{x}"
)

type PointsService interface {
	ListPoints(ctx context.Context) ([]*models.Point, error)
	// Nearest ranks every point by distance from (lat, lon) and returns the
	// first k. Points without coordinates sort last in id order.
	Nearest(ctx context.Context, lat, lon float64, k int) ([]dtos.NearestPoint, error)
	MapConfig() dtos.MapConfigResponse
}

type pointsService struct {
	repo         repositories.PointRepository
	arcgisAPIKey string
}

func NewPointsService(repo repositories.PointRepository, arcgisAPIKey string) PointsService {
	return &pointsService{repo: repo, arcgisAPIKey: arcgisAPIKey}
}

func (s *pointsService) ListPoints(ctx context.Context) ([]*models.Point, error) {
	points, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []*models.Point{}
	}
	return points, nil
}

func ClampLimit(k int) int {
	switch {
	case k < 1:
		return 1
	case k > MaxNearestLimit:
		return MaxNearestLimit
	}
	return k
}

func (s *pointsService) Nearest(ctx context.Context, lat, lon float64, k int) ([]dtos.NearestPoint, error) {
	points, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.NearestPoint, 0, len(points))
	for _, p := range points {
		item := dtos.NearestPoint{
			Point:     *p,
			SearchURL: internal_utils.SearchURL(p.Address),
		}
		if p.HasCoordinates() {
			d := internal_utils.DistanceKm(lat, lon, *p.Lat, *p.Lon)
			item.DistanceKm = &d
			item.DirectionsURL = internal_utils.DirectionsURL(lat, lon, *p.Lat, *p.Lon)
		} else {
			item.DirectionsURL = item.SearchURL
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DistanceKm, out[j].DistanceKm
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a < *b
	})

	if k = ClampLimit(k); len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (s *pointsService) MapConfig() dtos.MapConfigResponse {
	return dtos.MapConfigResponse{
		Provider:   "arcgis",
		APIKey:     maskKey(s.arcgisAPIKey),
		BasemapURL: arcgisBasemapURL,
		Tiles:      arcgisTilesURL,
	}
}

// maskKey keeps the first six characters.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) > 6 {
		key = key[:6]
	}
	return key + "..."
}
