package models

// LookupStatus records how each field of a Result was obtained
type LookupStatus struct {
	Subway  FetchStatus `json:"subway"`
	Bus     FetchStatus `json:"bus"`
	Weather FetchStatus `json:"weather"`
}

// Result is the aggregated answer for one place name. Absent fields are nil.
type Result struct {
	PlaceName string           `json:"place_name"`
	Location  Coordinate       `json:"location"`
	Subway    *Stop            `json:"subway"`
	Bus       *Stop            `json:"bus"`
	Weather   *WeatherSnapshot `json:"weather"`
	Status    LookupStatus     `json:"status"`
}

// StopFor returns the stop for the given mode
func (r *Result) StopFor(mode Mode) *Stop {
	switch mode {
	case ModeSubway:
		return r.Subway
	case ModeBus:
		return r.Bus
	}
	return nil
}
