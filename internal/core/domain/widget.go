package domain

import "time"

type Quote struct {
	Text      string     `json:"text"`
	Author    string     `json:"author"`
	Category  string     `json:"category,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type Weather struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature int       `json:"temperature"`
	Description string    `json:"description"`
	Humidity    int       `json:"humidity"`
	WindSpeed   int       `json:"windSpeed"`
	Icon        string    `json:"icon"`
	Timestamp   time.Time `json:"timestamp"`
}

type ForecastItem struct {
	Date        string `json:"date"`
	Temperature int    `json:"temperature"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Humidity    int    `json:"humidity"`
	WindSpeed   int    `json:"windSpeed"`
}

type Forecast struct {
	City     string         `json:"city"`
	Country  string         `json:"country"`
	Forecast []ForecastItem `json:"forecast"`
}
