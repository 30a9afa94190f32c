package models

import "fmt"

type Mode string

const (
	ModeSubway Mode = "subway"
	ModeBus    Mode = "bus"
)

// Modes lists every mode a lookup covers, in result order
var Modes = []Mode{ModeSubway, ModeBus}

// RouteTypes returns the MBTA route_type filter for the mode.
// 0 = light rail (Green Line, Mattapan), 1 = heavy rail subway, 3 = bus.
func (m Mode) RouteTypes() string {
	switch m {
	case ModeSubway:
		return "0,1"
	case ModeBus:
		return "3"
	default:
		return ""
	}
}

// WheelchairBoardingAccessible is the GTFS wheelchair_boarding value for an accessible stop
const WheelchairBoardingAccessible = 1

type Stop struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Mode                 Mode        `json:"mode"`
	WheelchairAccessible bool        `json:"wheelchair_accessible"`
	Distance             string      `json:"distance"`
	DistanceMiles        float64     `json:"distance_miles"`
	Latitude             float64     `json:"latitude"`
	Longitude            float64     `json:"longitude"`
	Arrivals             []Arrival   `json:"arrivals"`
	ArrivalsStatus       FetchStatus `json:"arrivals_status,omitempty"`
}

type Arrival struct {
	Route       string `json:"route"`
	ArrivalTime string `json:"arrival_time"`
	Status      string `json:"status"`
}

// DefaultArrivalStatus is used when the prediction carries no status text
const DefaultArrivalStatus = "On Time"

// FormatMiles renders a distance the way it is displayed to users
func FormatMiles(miles float64) string {
	return fmt.Sprintf("%.2f miles", miles)
}
