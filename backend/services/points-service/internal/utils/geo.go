package utils

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/umahmood/haversine"

	"github.com/katara/mono-repo/backend/shared/go-utils"
)

const (
	osmSearchURL     = "https://www.openstreetmap.org/search?query="
	osmDirectionsURL = "https://www.openstreetmap.org/directions?engine=fossgis_osrm_car&route=%s,%s;%s,%s"
)

// ValidateCoordinates returns an error code and message for
// RespondErrorWithCode, or empty strings when the pair is in range.
func ValidateCoordinates(lat, lon float64) (string, string) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return utils.ErrCodeValidation, "lat/lon out of range"
	}
	return "", ""
}

// DistanceKm is the great-circle distance rounded to two decimals.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lon1},
		haversine.Coord{Lat: lat2, Lon: lon2},
	)
	return math.Round(km*100) / 100
}

func SearchURL(address string) string {
	return osmSearchURL + url.QueryEscape(address)
}

func DirectionsURL(fromLat, fromLon, toLat, toLon float64) string {
	return fmt.Sprintf(osmDirectionsURL, formatCoord(fromLat), formatCoord(fromLon), formatCoord(toLat), formatCoord(toLon))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
