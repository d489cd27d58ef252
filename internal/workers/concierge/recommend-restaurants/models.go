// internal/workers/concierge/recommend-restaurants/models.go
package recommendrestaurants

// Input is the queued recommendation request. Field names match the slot
// names the dialog worker publishes.
type Input struct {
	Location   string `json:"Location"`
	Cuisine    string `json:"Cuisine"`
	DiningTime string `json:"DiningTime,omitempty"`
	NumPeople  string `json:"NumPeople,omitempty"`
	Email      string `json:"Email"`
}

// Output summarizes a processed request. Sample holds at most the first
// three recommended names so process variables stay small.
type Output struct {
	RecommendationCount int      `json:"recommendationCount"`
	Sample              []string `json:"sample,omitempty"`
	EmailMessageID      string   `json:"emailMessageId,omitempty"`
	DeliveryID          string   `json:"deliveryId,omitempty"`
	Status              string   `json:"status"`
}

const maxSampleSize = 3
