package controllers

import (
	"net/http"
	"strconv"

	"github.com/katara/mono-repo/backend/services/points-service/internal/services"
	internal_utils "github.com/katara/mono-repo/backend/services/points-service/internal/utils"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type PointsController struct {
	pointsService services.PointsService
}

func NewPointsController(pointsService services.PointsService) *PointsController {
	return &PointsController{pointsService: pointsService}
}

// ListHandler => GET /points
func (c *PointsController) ListHandler(w http.ResponseWriter, r *http.Request) {
	points, err := c.pointsService.ListPoints(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to list points", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, points)
}

// NearestHandler => GET /points/nearest?lat=..&lon=..&k=..
func (c *PointsController) NearestHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "lat and lon are required numbers", nil)
		return
	}
	if code, msg := internal_utils.ValidateCoordinates(lat, lon); code != "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, code, msg, nil)
		return
	}

	k := services.DefaultNearestLimit
	if raw := q.Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "k must be an integer", nil)
			return
		}
		k = parsed
	}

	points, err := c.pointsService.Nearest(r.Context(), lat, lon, k)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to rank points", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, points)
}

// MapConfigHandler => GET /points/map-config
func (c *PointsController) MapConfigHandler(w http.ResponseWriter, _ *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.pointsService.MapConfig())
}
