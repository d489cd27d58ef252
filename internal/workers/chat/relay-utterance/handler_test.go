package relayutterance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
)

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createTestConfig(nluURL string) *Config {
	return &Config{
		NLUBaseURL: nluURL,
		BotID:      "dining-concierge",
		LocaleID:   "en_US",
		MaxRetries: 2,
		SessionTTL: time.Minute,
		Timeout:    5 * time.Second,
	}
}

func createTestCache(t *testing.T) (SessionCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionCache(client, time.Minute), mr
}

func chatInput(sessionID, text string) *Input {
	return &Input{
		SessionID: sessionID,
		Messages: []Message{{
			Type:         "unstructured",
			Unstructured: Unstructured{Text: text},
		}},
	}
}

func nluServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestExecuteRelaysReply(t *testing.T) {
	var gotReq nluRequest
	srv := nluServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{
				{"content": "What city are you dining in?"},
			},
		})
	})

	cache, _ := createTestCache(t)
	handler := NewHandler(createTestConfig(srv.URL), cache, createTestLogger(t))

	output, err := handler.Execute(context.Background(), chatInput("session-1", "I need restaurant suggestions"))
	require.NoError(t, err)

	assert.Equal(t, "session-1", output.SessionID)
	require.Len(t, output.Messages, 1)
	assert.Equal(t, "What city are you dining in?", output.Messages[0].Unstructured.Text)

	assert.Equal(t, "session-1", gotReq.SessionID)
	assert.Equal(t, "dining-concierge", gotReq.BotID)
	assert.Equal(t, "I need restaurant suggestions", gotReq.Text)
}

func TestExecuteJoinsMultipleContents(t *testing.T) {
	srv := nluServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{
				{"content": "Got it."},
				{"content": "What cuisine would you like?"},
			},
		})
	})

	handler := NewHandler(createTestConfig(srv.URL), nil, createTestLogger(t))
	output, err := handler.Execute(context.Background(), chatInput("s", "hello"))

	require.NoError(t, err)
	assert.Equal(t, "Got it. What cuisine would you like?", output.Messages[0].Unstructured.Text)
}

func TestExecuteGeneratesSessionID(t *testing.T) {
	srv := nluServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{{"content": "hi"}},
		})
	})

	handler := NewHandler(createTestConfig(srv.URL), nil, createTestLogger(t))
	output, err := handler.Execute(context.Background(), chatInput("", "hello"))

	require.NoError(t, err)
	assert.NotEmpty(t, output.SessionID)
}

func TestExecuteFallbackReply(t *testing.T) {
	srv := nluServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"messages": []map[string]string{}})
	})

	handler := NewHandler(createTestConfig(srv.URL), nil, createTestLogger(t))
	output, err := handler.Execute(context.Background(), chatInput("s", "mumble"))

	require.NoError(t, err)
	assert.Equal(t, fallbackReply, output.Messages[0].Unstructured.Text)
}

func TestExecuteRejectsEmptyFrame(t *testing.T) {
	handler := NewHandler(createTestConfig("http://unused"), nil, createTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{SessionID: "s"})
	assert.ErrorIs(t, err, ErrEmptyUtterance)

	_, err = handler.Execute(context.Background(), chatInput("s", "   "))
	assert.ErrorIs(t, err, ErrEmptyUtterance)
	assert.Equal(t, int32(0), handler.getRetryCount(err))
}

func TestExecuteRetriesThenFails(t *testing.T) {
	var calls int
	srv := nluServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	handler := NewHandler(createTestConfig(srv.URL), nil, createTestLogger(t))
	_, err := handler.Execute(context.Background(), chatInput("s", "hello"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNLUAPIFailed)
	assert.Equal(t, 3, calls)
}

func TestExecuteUpdatesSessionState(t *testing.T) {
	srv := nluServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{{"content": "reply"}},
		})
	})

	cache, _ := createTestCache(t)
	handler := NewHandler(createTestConfig(srv.URL), cache, createTestLogger(t))

	_, err := handler.Execute(context.Background(), chatInput("session-7", "first"))
	require.NoError(t, err)
	_, err = handler.Execute(context.Background(), chatInput("session-7", "second"))
	require.NoError(t, err)

	state, err := cache.Get(context.Background(), "session-7")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "second", state.LastUtterance)
	assert.Equal(t, "reply", state.LastReply)
	assert.Equal(t, 2, state.TurnCount)
}

func TestSessionCacheMissReturnsNil(t *testing.T) {
	cache, _ := createTestCache(t)

	state, err := cache.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Nil(t, state)
}
