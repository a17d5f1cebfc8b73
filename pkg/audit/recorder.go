// Package audit records the trail behind irreversible merges. Recording is
// fire and forget: a mutation that committed is never failed or rolled back
// because its audit write or event publish did not stick.
package audit

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/kafka"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/tracing"
)

// Store persists audit entries
type Store interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
}

// Publisher emits entity events for downstream consumers
type Publisher interface {
	PublishEntityEvent(ctx context.Context, event *kafka.EntityEvent) error
}

// eventTypes maps audit actions to the event type downstream consumers see
var eventTypes = map[string]string{
	models.AuditActionAccountsMerged:  "entity.merged",
	models.AuditActionLocationsMerged: "entity.merged",
	models.AuditActionLocationMoved:   "location.moved",
	models.AuditActionAccountSplit:    "account.split",
}

// Recorder writes audit entries and publishes the matching entity event
type Recorder struct {
	store     Store
	publisher Publisher
	logger    ectologger.Logger
}

// NewRecorder creates a new audit recorder. The publisher may be nil when
// event emission is disabled.
func NewRecorder(store Store, publisher Publisher, logger ectologger.Logger) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Record persists the entry and publishes its event. Failures are logged and
// swallowed.
func (r *Recorder) Record(ctx context.Context, entry models.AuditEntry) {
	ctx, span := tracing.StartSpan(ctx, "audit.Recorder.Record")
	defer span.End()

	if err := r.store.Create(ctx, &entry); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"action_type": entry.ActionType,
			"entity_id":   entry.EntityID,
		}).Error("Failed to record audit entry")
	}

	if r.publisher == nil {
		return
	}

	eventType, ok := eventTypes[entry.ActionType]
	if !ok {
		eventType = entry.ActionType
	}

	event := &kafka.EntityEvent{
		EventType:  eventType,
		EntityID:   entry.EntityID,
		EntityType: entry.EntityType,
		EntityName: entry.EntityName,
		Details:    entry.Details,
	}
	if err := r.publisher.PublishEntityEvent(ctx, event); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": eventType,
			"entity_id":  entry.EntityID,
		}).Error("Failed to publish entity event")
	}
}
