// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"os"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Default is the built-in catalog of the worker fleet.
func Default() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2025-11-14",
		Activities: []Activity{
			{
				ID:          "chat.relay-utterance",
				DisplayName: "Relay Chat Utterance",
				Description: "Forwards a raw chat message to the language service and returns the bot reply.",
				Category:    "chat",
				TaskType:    "relay-utterance",
				InputSchema: map[string]interface{}{
					"sessionId": "string (optional)",
					"messages":  "array of chat messages",
				},
				OutputSchema: map[string]interface{}{
					"sessionId": "string",
					"messages":  "array of bot replies",
				},
				ErrorCodes: []string{"EMPTY_UTTERANCE", "NLU_API_FAILED", "NLU_API_TIMEOUT"},
				Timeout:    "15s",
				Retries:    3,
				Tags:       []string{"chat", "nlu"},
			},
			{
				ID:          "chat.collect-dining-slots",
				DisplayName: "Collect Dining Slots",
				Description: "Validates dining request slots, elicits missing ones, and queues completed requests.",
				Category:    "chat",
				TaskType:    "collect-dining-slots",
				InputSchema: map[string]interface{}{
					"sessionId": "string (optional)",
					"intent":    "recognized intent with slots",
				},
				OutputSchema: map[string]interface{}{
					"dialogAction": "Close or ElicitSlot directive",
					"message":      "string",
					"fulfilled":    "bool",
				},
				ErrorCodes: []string{"MISSING_INTENT", "FULFILLMENT_PUBLISH_FAILED"},
				Timeout:    "10s",
				Retries:    3,
				Tags:       []string{"chat", "dialog"},
			},
			{
				ID:          "concierge.recommend-restaurants",
				DisplayName: "Recommend Restaurants",
				Description: "Resolves, filters and ranks restaurants for a request and emails the report.",
				Category:    "concierge",
				TaskType:    "recommend-restaurants",
				InputSchema: map[string]interface{}{
					"Location":   "string",
					"Cuisine":    "string",
					"DiningTime": "HH:MM (optional)",
					"NumPeople":  "string",
					"Email":      "string",
				},
				OutputSchema: map[string]interface{}{
					"recommendationCount": "int",
					"sample":              "first recommended names",
					"emailMessageId":      "string",
				},
				ErrorCodes: []string{
					"INVALID_INPUT", "SEARCH_QUERY_FAILED", "SEARCH_TIMEOUT",
					"STORE_LOOKUP_FAILED", "TIME_PARSE_FAILED", "EMAIL_DELIVERY_FAILED",
				},
				Timeout: "30s",
				Retries: 3,
				Tags:    []string{"concierge", "email"},
			},
			{
				ID:          "ingestion.sync-directory",
				DisplayName: "Sync Restaurant Directory",
				Description: "Pages the restaurant directory per cuisine, stores and indexes the listings.",
				Category:    "ingestion",
				TaskType:    "sync-directory",
				InputSchema: map[string]interface{}{
					"cuisines": "array of cuisine aliases (optional)",
				},
				OutputSchema: map[string]interface{}{
					"fetched":    "int",
					"written":    "int",
					"indexed":    "int",
					"perCuisine": "map of cuisine to count",
				},
				ErrorCodes: []string{"DIRECTORY_FETCH_FAILED", "STORE_WRITE_FAILED"},
				Timeout:    "5m",
				Retries:    3,
				Tags:       []string{"ingestion", "directory"},
			},
		},
	}
}
