// internal/workers/chat/collect-dining-slots/handler.go
package collectdiningslots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/common/metrics"
	"github.com/sankirthk/Dining-Concierge/internal/models"
)

const (
	TaskType = "collect-dining-slots"
)

var (
	ErrMissingIntent    = errors.New("MISSING_INTENT")
	ErrFulfillmentQueue = errors.New("FULFILLMENT_PUBLISH_FAILED")
)

// MessagePublisher hands a completed request to the processing pipeline.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, name, correlationKey string, variables map[string]interface{}) error
}

type Handler struct {
	config    *Config
	publisher MessagePublisher
	logger    logger.Logger
}

func NewHandler(config *Config, publisher MessagePublisher, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
	if input.Intent.Name == "" {
		return nil, fmt.Errorf("%w: intent name is empty", ErrMissingIntent)
	}

	switch input.Intent.Name {
	case IntentGreeting:
		return closeTurn(input.Intent, "Hi there, how can I help?"), nil
	case IntentThankYou:
		return closeTurn(input.Intent, "You're welcome!"), nil
	case IntentDiningSuggestions:
		return h.handleDining(ctx, input)
	default:
		return closeTurn(input.Intent, "Sorry, I didn't get that."), nil
	}
}

func (h *Handler) handleDining(ctx context.Context, input *Input) (*Output, error) {
	request, elicit := validateDiningSlots(input.Intent)
	if elicit != nil {
		h.logger.Info("eliciting slot", map[string]interface{}{
			"sessionId": input.SessionID,
			"slot":      elicit.Slot,
		})
		return &Output{
			DialogAction: DialogAction{Type: ActionElicitSlot, SlotToElict: elicit.Slot},
			Intent:       input.Intent,
			Message:      elicit.Prompt,
		}, nil
	}

	correlationKey := request.Email
	if input.SessionID != "" {
		correlationKey = input.SessionID
	}

	err := h.publisher.PublishMessage(ctx, h.config.FulfillmentMessage, correlationKey, map[string]interface{}{
		"Location":   request.Location,
		"Cuisine":    request.Cuisine,
		"DiningTime": request.DiningTime,
		"NumPeople":  request.NumPeople,
		"Email":      request.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFulfillmentQueue, err)
	}

	h.logger.Info("dining request published", map[string]interface{}{
		"sessionId": input.SessionID,
		"cuisine":   request.Cuisine,
		"email":     request.Email,
	})

	confirmation := confirmationMessage(request)
	output := closeTurn(input.Intent, confirmation)
	output.Fulfilled = true
	return output, nil
}

func closeTurn(intent Intent, message string) *Output {
	intent.State = "Fulfilled"
	return &Output{
		DialogAction: DialogAction{Type: ActionClose},
		Intent:       intent,
		Message:      message,
	}
}

func confirmationMessage(req *models.RecommendationRequest) string {
	return fmt.Sprintf("Got it! I'll email %s some %s options in %s for %s people at %s.",
		req.Email, titleCase(req.Cuisine), req.Location, req.NumPeople, req.DiningTime)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
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
	if errors.Is(err, ErrMissingIntent) {
		return "MISSING_INTENT"
	} else if errors.Is(err, ErrFulfillmentQueue) {
		return "FULFILLMENT_PUBLISH_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	if errors.Is(err, ErrFulfillmentQueue) {
		return 3
	}
	return 0
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
