package seeding

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type seedPoint struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Category  string   `json:"category"`
	Notes     string   `json:"notes"`
	SourceURL string   `json:"source_url"`
}

// LoadPointsFile reads a JSON array of points. name, address and category are required.
func LoadPointsFile(path string) ([]*models.Point, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read points seed file: %w", err)
	}
	var in []seedPoint
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("parse points seed file: %w", err)
	}

	out := make([]*models.Point, 0, len(in))
	for i, p := range in {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Address) == "" || strings.TrimSpace(p.Category) == "" {
			return nil, fmt.Errorf("points seed entry %d: name, address and category are required", i)
		}
		if (p.Lat == nil) != (p.Lon == nil) {
			return nil, fmt.Errorf("points seed entry %d (%s): lat and lon must be set together", i, p.Name)
		}
		out = append(out, &models.Point{
			Name:      p.Name,
			Address:   p.Address,
			Lat:       p.Lat,
			Lon:       p.Lon,
			Category:  p.Category,
			Notes:     p.Notes,
			SourceURL: p.SourceURL,
		})
	}
	return out, nil
}

// SeedPointsIfEmpty loads the seed file into an empty points table.
// Returns the number of inserted points; a non-empty table is left untouched.
func SeedPointsIfEmpty(ctx context.Context, repo repositories.PointRepository, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		utils.Logger.Debugf("Points table already has %d rows; skipping seed", n)
		return 0, nil
	}

	points, err := LoadPointsFile(path)
	if err != nil {
		return 0, err
	}
	if err := repo.CreateBatch(ctx, points); err != nil {
		return 0, fmt.Errorf("insert seed points: %w", err)
	}
	utils.Logger.Infof("Seeded %d points from %s", len(points), path)
	return len(points), nil
}
