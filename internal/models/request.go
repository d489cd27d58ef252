// internal/models/request.go
package models

// RecommendationRequest is the payload the dialog worker assembles once every
// slot is filled, and the payload the concierge worker consumes. Field names
// match the slot names on the wire.
type RecommendationRequest struct {
	Location   string `json:"Location"`
	Cuisine    string `json:"Cuisine"`
	DiningTime string `json:"DiningTime,omitempty"`
	NumPeople  string `json:"NumPeople"`
	Email      string `json:"Email"`
}
