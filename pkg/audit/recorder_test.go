package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/kafka"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
)

type fakeAuditStore struct {
	entries []models.AuditEntry
	err     error
}

func (f *fakeAuditStore) Create(ctx context.Context, entry *models.AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

type fakePublisher struct {
	events []*kafka.EntityEvent
	err    error
}

func (f *fakePublisher) PublishEntityEvent(ctx context.Context, event *kafka.EntityEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {})
}

func TestRecord(t *testing.T) {
	store := &fakeAuditStore{}
	publisher := &fakePublisher{}
	recorder := NewRecorder(store, publisher, testLogger())

	recorder.Record(context.Background(), models.AuditEntry{
		ActionType: models.AuditActionAccountsMerged,
		EntityType: "account",
		EntityID:   "a1",
		EntityName: "Survivor",
	})

	require.Len(t, store.entries, 1)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "entity.merged", publisher.events[0].EventType)
	assert.Equal(t, "a1", publisher.events[0].EntityID)
}

func TestRecordSwallowsFailures(t *testing.T) {
	store := &fakeAuditStore{err: errors.New("db down")}
	publisher := &fakePublisher{err: errors.New("broker down")}
	recorder := NewRecorder(store, publisher, testLogger())

	// must not panic or surface the errors
	recorder.Record(context.Background(), models.AuditEntry{
		ActionType: models.AuditActionAccountSplit,
		EntityID:   "a1",
	})

	assert.Empty(t, store.entries)
	assert.Empty(t, publisher.events)
}

func TestRecordWithoutPublisher(t *testing.T) {
	store := &fakeAuditStore{}
	recorder := NewRecorder(store, nil, testLogger())

	recorder.Record(context.Background(), models.AuditEntry{
		ActionType: models.AuditActionLocationMoved,
		EntityID:   "l1",
	})

	require.Len(t, store.entries, 1)
}
