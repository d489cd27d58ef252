// internal/workers/chat/collect-dining-slots/config.go
package collectdiningslots

import "time"

type Config struct {
	// FulfillmentMessage correlates the published request with the waiting
	// process instance.
	FulfillmentMessage string
	Timeout            time.Duration
}

func LoadConfig() *Config {
	return &Config{
		FulfillmentMessage: "dining-request-ready",
		Timeout:            10 * time.Second,
	}
}
