package service

import (
	"math"

	"github.com/robotshop/shipping/internal/db"
)

// Warehouse coordinates every shipment is measured from
const (
	HomeLatitude  = 51.164896
	HomeLongitude = 7.068792

	earthRadiusKm = 6371.0
)

// Shipment is the quote for sending an order to a city
type Shipment struct {
	Distance int64   `json:"distance"`
	Cost     float64 `json:"cost"`
}

// Calculate quotes shipping from the warehouse to city
func Calculate(city *db.City) Shipment {
	distance := Distance(HomeLatitude, HomeLongitude, city.Latitude, city.Longitude)
	return Shipment{
		Distance: distance,
		Cost:     math.RoundToEven(float64(distance)*5) / 100,
	}
}

// Distance is the great-circle distance in whole kilometres
func Distance(lat1, lon1, lat2, lon2 float64) int64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int64(earthRadiusKm * c)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
