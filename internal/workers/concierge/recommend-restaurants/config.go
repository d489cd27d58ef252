// internal/workers/concierge/recommend-restaurants/config.go
package recommendrestaurants

import "time"

// UnknownHoursPolicy controls what the time filter does with records whose
// opening hours are absent or unparseable.
type UnknownHoursPolicy string

const (
	// ExcludeUnknownHours drops records without usable hours.
	ExcludeUnknownHours UnknownHoursPolicy = "exclude"
	// IncludeUnknownHours keeps them in the result set.
	IncludeUnknownHours UnknownHoursPolicy = "include"
)

type Config struct {
	SearchIndex        string
	TableName          string
	ResultLimit        int
	MinRating          float64
	UnknownHoursPolicy UnknownHoursPolicy
	Sender             string
	Subject            string
	IntroText          string
	Timeout            time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SearchIndex:        "restaurant_index",
		TableName:          "yelp-restaurants",
		ResultLimit:        10,
		MinRating:          0,
		UnknownHoursPolicy: ExcludeUnknownHours,
		Sender:             "no-reply@dining-concierge.dev",
		Subject:            "Your dining suggestions",
		IntroText:          "Here are the best-rated options that match your request:",
		Timeout:            30 * time.Second,
	}
}
