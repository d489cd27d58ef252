// internal/workers/concierge/recommend-restaurants/handler.go
package recommendrestaurants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/common/metrics"
)

const (
	TaskType = "recommend-restaurants"
)

var (
	ErrInvalidInput        = errors.New("INVALID_INPUT")
	ErrSearchQueryFailed   = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout       = errors.New("SEARCH_TIMEOUT")
	ErrStoreLookupFailed   = errors.New("STORE_LOOKUP_FAILED")
	ErrTimeParseFailed     = errors.New("TIME_PARSE_FAILED")
	ErrEmailDeliveryFailed = errors.New("EMAIL_DELIVERY_FAILED")
)

// SESService is the slice of the SES client the handler needs.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Handler struct {
	config     *Config
	resolver   *Resolver
	mailer     SESService
	deliveries DeliveryLog
	logger     logger.Logger
}

func NewHandler(config *Config, resolver *Resolver, mailer SESService, deliveries DeliveryLog, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		resolver:   resolver,
		mailer:     mailer,
		deliveries: deliveries,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()

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
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if strings.TrimSpace(input.Cuisine) == "" {
		return nil, fmt.Errorf("%w: cuisine is required", ErrInvalidInput)
	}
	if !strings.Contains(input.Email, "@") {
		return nil, fmt.Errorf("%w: recipient email is required", ErrInvalidInput)
	}

	records, err := h.resolver.Resolve(ctx, input.Cuisine, h.config.ResultLimit, h.config.MinRating)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.DiningTime) != "" {
		records, err = FilterByDiningTime(records, input.DiningTime, h.config.UnknownHoursPolicy, h.logger)
		if err != nil {
			return nil, err
		}
	}

	report := RenderReport(h.config.IntroText, records)

	messageID, err := h.sendReport(ctx, input.Email, report)
	if err != nil {
		metrics.EmailReportsSent.WithLabelValues("failed").Inc()
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: send timed out", ErrEmailDeliveryFailed)
		}
		return nil, fmt.Errorf("%w: %v", ErrEmailDeliveryFailed, err)
	}
	metrics.EmailReportsSent.WithLabelValues("sent").Inc()
	metrics.RestaurantsRecommended.WithLabelValues(strings.ToLower(input.Cuisine)).Observe(float64(len(records)))

	delivery := newDeliveryRecord(input, len(records), messageID)
	if h.deliveries != nil {
		// The report is already out; an audit failure is logged, not retried.
		if err := h.deliveries.Record(ctx, delivery); err != nil {
			h.logger.Warn("delivery audit write failed", map[string]interface{}{
				"deliveryId": delivery.ID,
				"error":      err.Error(),
			})
		}
	}

	sample := make([]string, 0, maxSampleSize)
	for _, rec := range records {
		if len(sample) == maxSampleSize {
			break
		}
		sample = append(sample, displayName(rec))
	}

	h.logger.Info("report delivered", map[string]interface{}{
		"recipient": input.Email,
		"cuisine":   input.Cuisine,
		"results":   len(records),
		"messageId": messageID,
	})

	return &Output{
		RecommendationCount: len(records),
		Sample:              sample,
		EmailMessageID:      messageID,
		DeliveryID:          delivery.ID,
		Status:              "SENT",
	}, nil
}

func (h *Handler) sendReport(ctx context.Context, recipient string, report RenderedReport) (string, error) {
	out, err := h.mailer.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.Sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(h.config.Subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(report.Text), Charset: aws.String("UTF-8")},
				Html: &sestypes.Content{Data: aws.String(report.HTML), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
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
	if errors.Is(err, ErrInvalidInput) {
		return "INVALID_INPUT"
	} else if errors.Is(err, ErrTimeParseFailed) {
		return "TIME_PARSE_FAILED"
	} else if errors.Is(err, ErrSearchTimeout) {
		return "SEARCH_TIMEOUT"
	} else if errors.Is(err, ErrSearchQueryFailed) {
		return "SEARCH_QUERY_FAILED"
	} else if errors.Is(err, ErrStoreLookupFailed) {
		return "STORE_LOOKUP_FAILED"
	} else if errors.Is(err, ErrEmailDeliveryFailed) {
		return "EMAIL_DELIVERY_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	if errors.Is(err, ErrSearchQueryFailed) || errors.Is(err, ErrStoreLookupFailed) || errors.Is(err, ErrEmailDeliveryFailed) {
		return 3
	} else if errors.Is(err, ErrSearchTimeout) {
		return 2
	}
	return 0
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
