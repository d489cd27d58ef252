// internal/workers/chat/relay-utterance/handler.go
package relayutterance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/common/metrics"
)

const (
	TaskType = "relay-utterance"

	// fallbackReply goes back to the user when the language service returns
	// nothing usable.
	fallbackReply = "Sorry, I didn't catch that."
)

var (
	ErrEmptyUtterance = errors.New("EMPTY_UTTERANCE")
	ErrNLUAPIFailed   = errors.New("NLU_API_FAILED")
	ErrNLUAPITimeout  = errors.New("NLU_API_TIMEOUT")
)

type Handler struct {
	config   *Config
	client   *http.Client
	sessions SessionCache
	logger   logger.Logger
}

// NewHandler builds the chat relay. sessions may be nil when no cache is
// configured.
func NewHandler(config *Config, sessions SessionCache, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
		sessions: sessions,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := h.mapErrorToCode(err)
		retries := h.getRetryCount(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	utterance := firstUtterance(input.Messages)
	if utterance == "" {
		return nil, fmt.Errorf("%w: no text message in request", ErrEmptyUtterance)
	}

	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	state := h.loadSession(ctx, sessionID)

	reply, err := h.callNLU(ctx, sessionID, utterance)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply) == "" {
		reply = fallbackReply
	}

	state.LastUtterance = utterance
	state.LastReply = reply
	state.TurnCount++
	state.UpdatedAt = time.Now().UTC()
	h.saveSession(ctx, state)

	return &Output{
		SessionID: sessionID,
		Messages: []Message{{
			Type: "unstructured",
			Unstructured: Unstructured{
				ID:        "1",
				Text:      reply,
				Timestamp: state.UpdatedAt.Format(time.RFC3339),
			},
		}},
	}, nil
}

// firstUtterance returns the first non-empty text in the frame.
func firstUtterance(messages []Message) string {
	for _, m := range messages {
		if text := strings.TrimSpace(m.Unstructured.Text); text != "" {
			return text
		}
	}
	return ""
}

func (h *Handler) loadSession(ctx context.Context, sessionID string) *SessionState {
	if h.sessions != nil {
		state, err := h.sessions.Get(ctx, sessionID)
		if err != nil {
			h.logger.Warn("session load failed", map[string]interface{}{
				"sessionId": sessionID,
				"error":     err.Error(),
			})
		} else if state != nil {
			return state
		}
	}
	return &SessionState{SessionID: sessionID}
}

func (h *Handler) saveSession(ctx context.Context, state *SessionState) {
	if h.sessions == nil {
		return
	}
	if err := h.sessions.Save(ctx, state); err != nil {
		h.logger.Warn("session save failed", map[string]interface{}{
			"sessionId": state.SessionID,
			"error":     err.Error(),
		})
	}
}

func (h *Handler) callNLU(ctx context.Context, sessionID, utterance string) (string, error) {
	body, err := json.Marshal(nluRequest{
		SessionID: sessionID,
		BotID:     h.config.BotID,
		LocaleID:  h.config.LocaleID,
		Text:      utterance,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNLUAPIFailed, err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrNLUAPITimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.config.NLUBaseURL+"/v1/recognize-text", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNLUAPIFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, lastErr = h.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return "", ErrNLUAPITimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrNLUAPITimeout
		}
		return "", fmt.Errorf("%w: %v", ErrNLUAPIFailed, lastErr)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: no successful response after retries", ErrNLUAPIFailed)
	}
	defer resp.Body.Close()

	var parsed nluResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrNLUAPIFailed, err)
	}

	contents := make([]string, 0, len(parsed.Messages))
	for _, m := range parsed.Messages {
		if strings.TrimSpace(m.Content) != "" {
			contents = append(contents, m.Content)
		}
	}
	return strings.Join(contents, " "), nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrEmptyUtterance) {
		return "EMPTY_UTTERANCE"
	} else if errors.Is(err, ErrNLUAPITimeout) {
		return "NLU_API_TIMEOUT"
	} else if errors.Is(err, ErrNLUAPIFailed) {
		return "NLU_API_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	if errors.Is(err, ErrNLUAPIFailed) {
		return 3
	} else if errors.Is(err, ErrNLUAPITimeout) {
		return 2
	}
	return 0
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
