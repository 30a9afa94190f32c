package models

// WeatherSnapshot is the current conditions at the looked-up location, in imperial units
type WeatherSnapshot struct {
	Temperature int    `json:"temperature"`
	FeelsLike   int    `json:"feels_like"`
	Description string `json:"description"`
	Humidity    int    `json:"humidity"`
	WindSpeed   int    `json:"wind_speed"`
	Icon        string `json:"icon"`
}
