package citydata

// Coordinate is a single latitude/longitude pair reported by the upstream.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Fact is one "known for" entry. Other upstream fields are ignored.
type Fact struct {
	Content string `json:"content"`
}

// Insights is the upstream city-insights payload.
type Insights struct {
	Coordinates []Coordinate `json:"coordinates"`
	Population  int          `json:"population"`
	KnownFor    []Fact       `json:"knownFor"`
}

// Prediction is one day of upstream weather forecast. Absent fields decode to 0.
type Prediction struct {
	When string  `json:"when"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Forecast is a single entry of the two-day forecast returned to clients.
type Forecast struct {
	When string  `json:"when"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Forecast labels, in the order they appear in a Snapshot.
const (
	Today    = "today"
	Tomorrow = "tomorrow"
)

// Snapshot is the per-request view of a city built from insights and weather.
// It is never cached.
type Snapshot struct {
	Coordinates        [2]float64 `json:"coordinates"`
	Population         int        `json:"population"`
	KnownFor           []string   `json:"knownFor"`
	WeatherPredictions []Forecast `json:"weatherPredictions"`
}
