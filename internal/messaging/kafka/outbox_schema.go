package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEventRecord is the outbox_events table the repository writes with
// plain SQL. It exists so the table can be migrated with the other models.
type OutboxEventRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RequestID     *string         `gorm:"type:varchar(64)"`
	AggregateType string          `gorm:"type:varchar(64);not null"`
	AggregateID   string          `gorm:"type:varchar(64);not null;index"`
	EventType     string          `gorm:"type:varchar(64);not null"`
	Topic         string          `gorm:"type:varchar(128);not null"`
	Payload       json.RawMessage `gorm:"type:jsonb;not null"`
	Status        string          `gorm:"type:varchar(16);not null;default:'pending';index:idx_outbox_status_created,priority:1"`
	RetryCount    int             `gorm:"not null;default:0"`
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	ErrorMessage  *string   `gorm:"type:varchar(500)"`
	CreatedAt     time.Time `gorm:"not null;default:now();index:idx_outbox_status_created,priority:2"`
	UpdatedAt     time.Time `gorm:"not null;default:now()"`
}

func (OutboxEventRecord) TableName() string { return "outbox_events" }
