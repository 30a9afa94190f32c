package geo

import (
	"math"

	"github.com/mbtanearby/backend-go/internal/models"
)

// EarthRadiusMiles is the mean Earth radius used for every distance shown to users
const EarthRadiusMiles = 3959.87433

// Distance returns the great-circle distance in miles between two coordinates
func Distance(a, b models.Coordinate) float64 {
	return calculateDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))
	return EarthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
