package models

import (
	"fmt"
	"strconv"
)

// coordinatePrecision is the number of decimals kept after geocoding
const coordinatePrecision = 6

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate builds a coordinate rounded to six decimal places, the
// precision used for every downstream query.
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Latitude:  roundToPrecision(lat),
		Longitude: roundToPrecision(lon),
	}
}

func (c Coordinate) LatitudeString() string {
	return strconv.FormatFloat(c.Latitude, 'f', coordinatePrecision, 64)
}

func (c Coordinate) LongitudeString() string {
	return strconv.FormatFloat(c.Longitude, 'f', coordinatePrecision, 64)
}

func (c Coordinate) String() string {
	return c.LatitudeString() + "," + c.LongitudeString()
}

// Validate checks the coordinate lies within the valid lat/lon ranges
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f", c.Longitude)
	}
	return nil
}

func roundToPrecision(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', coordinatePrecision, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
