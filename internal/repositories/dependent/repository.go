// Package dependent moves and counts the records hanging off accounts and
// locations: agreements, activities, notes, and location contacts. Merges
// never touch these rows one at a time; everything here is set-based.
package dependent

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/database"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/tracing"
)

// accountScopedTables carry an account_id and an optional location_id
var accountScopedTables = []string{"agreements", "activities", "notes"}

// Repository handles dependent record persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new dependent repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) exec(ctx context.Context) database.Executor {
	return database.FromContext(ctx, r.db)
}

// ReassignAccountIDs moves every agreement, activity, and note owned by the
// given accounts to the target account
func (r *Repository) ReassignAccountIDs(ctx context.Context, fromAccountIDs []string, toAccountID string) error {
	ctx, span := tracing.StartSpan(ctx, "dependent.Repository.ReassignAccountIDs")
	defer span.End()

	if len(fromAccountIDs) == 0 {
		return nil
	}

	for _, table := range accountScopedTables {
		sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
		sb.Update(table)
		sb.Set(sb.Assign("account_id", toAccountID))
		sb.Where(sb.In("account_id", toAny(fromAccountIDs)...))

		query, args := sb.Build()
		if _, err := r.exec(ctx).ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).Errorf("Failed to reassign %s", table)
			return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to reassign %s", table)
		}
	}

	return nil
}

// ReassignLocationID repoints every dependent record on the source location
// to the target location and its account. Location contacts follow too.
func (r *Repository) ReassignLocationID(ctx context.Context, fromLocationID string, toLocationID string, toAccountID string) error {
	ctx, span := tracing.StartSpan(ctx, "dependent.Repository.ReassignLocationID")
	defer span.End()

	for _, table := range accountScopedTables {
		sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
		sb.Update(table)
		sb.Set(
			sb.Assign("location_id", toLocationID),
			sb.Assign("account_id", toAccountID),
		)
		sb.Where(sb.Equal("location_id", fromLocationID))

		query, args := sb.Build()
		if _, err := r.exec(ctx).ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).Errorf("Failed to reassign %s to target location", table)
			return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to reassign %s", table)
		}
	}

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("location_contacts")
	sb.Set(sb.Assign("location_id", toLocationID))
	sb.Where(sb.Equal("location_id", fromLocationID))

	query, args := sb.Build()
	if _, err := r.exec(ctx).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to reassign location contacts")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign location contacts")
	}

	return nil
}

// ReassignByLocationID moves every dependent record scoped to a location onto
// a different account without changing the location reference. Used when a
// location is split off under a new account.
func (r *Repository) ReassignByLocationID(ctx context.Context, locationID string, toAccountID string) error {
	ctx, span := tracing.StartSpan(ctx, "dependent.Repository.ReassignByLocationID")
	defer span.End()

	for _, table := range accountScopedTables {
		sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
		sb.Update(table)
		sb.Set(sb.Assign("account_id", toAccountID))
		sb.Where(sb.Equal("location_id", locationID))

		query, args := sb.Build()
		if _, err := r.exec(ctx).ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).Errorf("Failed to move %s to new account", table)
			return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to move %s", table)
		}
	}

	return nil
}

// CountsByAccountID returns the dependent record counts for one account
func (r *Repository) CountsByAccountID(ctx context.Context, accountID string) (*models.DependentCounts, error) {
	ctx, span := tracing.StartSpan(ctx, "dependent.Repository.CountsByAccountID")
	defer span.End()

	query := `
		SELECT
			(SELECT COUNT(*) FROM agreements WHERE account_id = $1) AS agreements,
			(SELECT COUNT(*) FROM activities WHERE account_id = $1) AS activities,
			(SELECT COUNT(*) FROM notes WHERE account_id = $1) AS notes`

	var counts models.DependentCounts
	if err := r.exec(ctx).GetContext(ctx, &counts, query, accountID); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count dependent records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count dependent records")
	}

	return &counts, nil
}

// CountOrphans scans every dependent table for rows whose account or
// location no longer exists
func (r *Repository) CountOrphans(ctx context.Context) (*models.IntegrityReport, error) {
	ctx, span := tracing.StartSpan(ctx, "dependent.Repository.CountOrphans")
	defer span.End()

	query := `
		SELECT
			(SELECT COUNT(*) FROM locations l
				WHERE NOT EXISTS (SELECT 1 FROM accounts a WHERE a.id = l.account_id)) AS orphaned_locations,
			(SELECT COUNT(*) FROM agreements g
				WHERE NOT EXISTS (SELECT 1 FROM accounts a WHERE a.id = g.account_id)
				OR (g.location_id IS NOT NULL AND NOT EXISTS (SELECT 1 FROM locations l WHERE l.id = g.location_id))) AS orphaned_agreements,
			(SELECT COUNT(*) FROM activities v
				WHERE NOT EXISTS (SELECT 1 FROM accounts a WHERE a.id = v.account_id)
				OR (v.location_id IS NOT NULL AND NOT EXISTS (SELECT 1 FROM locations l WHERE l.id = v.location_id))) AS orphaned_activities,
			(SELECT COUNT(*) FROM notes n
				WHERE NOT EXISTS (SELECT 1 FROM accounts a WHERE a.id = n.account_id)
				OR (n.location_id IS NOT NULL AND NOT EXISTS (SELECT 1 FROM locations l WHERE l.id = n.location_id))) AS orphaned_notes,
			(SELECT COUNT(*) FROM location_contacts c
				WHERE NOT EXISTS (SELECT 1 FROM locations l WHERE l.id = c.location_id)) AS orphaned_location_contacts`

	var report models.IntegrityReport
	if err := r.exec(ctx).GetContext(ctx, &report, query); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to scan for orphaned records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to scan for orphaned records")
	}

	return &report, nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
