// internal/workers/chat/relay-utterance/config.go
package relayutterance

import "time"

type Config struct {
	NLUBaseURL string
	BotID      string
	LocaleID   string
	MaxRetries int
	SessionTTL time.Duration
	Timeout    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		NLUBaseURL: "http://localhost:8090",
		BotID:      "dining-concierge",
		LocaleID:   "en_US",
		MaxRetries: 2,
		SessionTTL: 30 * time.Minute,
		Timeout:    15 * time.Second,
	}
}
