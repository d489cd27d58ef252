// internal/workers/chat/relay-utterance/session.go
package relayutterance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionState is the per-conversation snapshot kept between turns.
type SessionState struct {
	SessionID     string    `json:"sessionId"`
	LastUtterance string    `json:"lastUtterance"`
	LastReply     string    `json:"lastReply"`
	TurnCount     int       `json:"turnCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SessionCache stores conversation state keyed by session id.
type SessionCache interface {
	Get(ctx context.Context, sessionID string) (*SessionState, error)
	Save(ctx context.Context, state *SessionState) error
}

type redisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &redisSessionCache{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "chat:session:" + sessionID
}

// Get returns nil without error when the session is unknown or expired.
func (c *redisSessionCache) Get(ctx context.Context, sessionID string) (*SessionState, error) {
	raw, err := c.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	var state SessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &state, nil
}

func (c *redisSessionCache) Save(ctx context.Context, state *SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", state.SessionID, err)
	}
	if err := c.client.Set(ctx, sessionKey(state.SessionID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", state.SessionID, err)
	}
	return nil
}
