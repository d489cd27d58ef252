// internal/workers/ingestion/sync-directory/config.go
package syncdirectory

import "time"

type Config struct {
	BaseURL       string
	APIKey        string
	Location      string
	Term          string
	PageSize      int
	MaxPerCuisine int
	Cuisines      []string
	TableName     string
	SearchIndex   string
	TopicARN      string
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:       "https://api.yelp.com/v3",
		Location:      "Brooklyn",
		Term:          "restaurants",
		PageSize:      50,
		MaxPerCuisine: 200,
		Cuisines:      []string{"chinese", "japanese", "italian", "mexican", "american"},
		TableName:     "yelp-restaurants",
		SearchIndex:   "restaurant_index",
		Timeout:       5 * time.Minute,
	}
}
