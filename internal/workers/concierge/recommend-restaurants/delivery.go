// internal/workers/concierge/recommend-restaurants/delivery.go
package recommendrestaurants

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeliveryRecord is one row of the delivery audit log.
type DeliveryRecord struct {
	ID          string
	Recipient   string
	Cuisine     string
	DiningTime  string
	ResultCount int
	MessageID   string
	SentAt      time.Time
}

// DeliveryLog persists sent-report records.
type DeliveryLog interface {
	Record(ctx context.Context, rec DeliveryRecord) error
}

type postgresDeliveryLog struct {
	db *sql.DB
}

func NewPostgresDeliveryLog(db *sql.DB) DeliveryLog {
	return &postgresDeliveryLog{db: db}
}

func (l *postgresDeliveryLog) Record(ctx context.Context, rec DeliveryRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO report_deliveries (id, recipient, cuisine, dining_time, result_count, message_id, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Recipient, rec.Cuisine, rec.DiningTime, rec.ResultCount, rec.MessageID, rec.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery record: %w", err)
	}
	return nil
}

func newDeliveryRecord(input *Input, resultCount int, messageID string) DeliveryRecord {
	return DeliveryRecord{
		ID:          uuid.New().String(),
		Recipient:   input.Email,
		Cuisine:     input.Cuisine,
		DiningTime:  input.DiningTime,
		ResultCount: resultCount,
		MessageID:   messageID,
		SentAt:      time.Now().UTC(),
	}
}
