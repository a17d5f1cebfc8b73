package auditlog

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/database"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/tracing"
)

var columns = []string{
	"id", "action_type", "entity_type", "entity_id", "entity_name",
	"description", "details", "performed_by", "performed_at",
}

// Repository handles audit trail persistence. The trail is append-only;
// nothing here updates or deletes.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new audit log repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create appends an audit entry. Always runs on the pool, never on a caller's
// transaction, so audit writes cannot roll back with a failed mutation and a
// failed audit write cannot block one.
func (r *Repository) Create(ctx context.Context, entry *models.AuditEntry) error {
	ctx, span := tracing.StartSpan(ctx, "auditlog.Repository.Create")
	defer span.End()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now().UTC()
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("audit_log")
	sb.Cols(columns...)
	sb.Values(
		entry.ID, entry.ActionType, entry.EntityType, entry.EntityID, entry.EntityName,
		entry.Description, entry.Details, entry.PerformedBy, entry.PerformedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create audit entry")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create audit entry")
	}

	return nil
}

// List retrieves audit entries, newest first, optionally filtered to one
// entity
func (r *Repository) List(ctx context.Context, entityID string, limit, offset int) ([]models.AuditEntry, error) {
	ctx, span := tracing.StartSpan(ctx, "auditlog.Repository.List")
	defer span.End()

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("audit_log")
	if entityID != "" {
		sb.Where(sb.Equal("entity_id", entityID))
	}
	sb.OrderBy("performed_at").Desc()
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var entries []models.AuditEntry
	if err := r.exec(ctx).SelectContext(ctx, &entries, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list audit entries")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list audit entries")
	}

	return entries, nil
}

func (r *Repository) exec(ctx context.Context) database.Executor {
	return database.FromContext(ctx, r.db)
}
