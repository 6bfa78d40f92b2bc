package routes

const (
	Health = "/health"

	Points          = "/points"
	PointsNearest   = "/points/nearest"
	PointsMapConfig = "/points/map-config"
)
