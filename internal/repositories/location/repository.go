package location

import (
	"context"
	"fmt"
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
	"id", "account_id", "name",
	"address_line1", "address_line2", "city", "state", "zip", "country",
	"contact_name", "contact_title", "contact_phone", "contact_email",
	"is_primary", "status", "notes", "clinic_code", "sage_code", "document_url",
	"created_at", "updated_at",
}

// Repository handles location persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new location repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) exec(ctx context.Context) database.Executor {
	return database.FromContext(ctx, r.db)
}

// Create creates a new location
func (r *Repository) Create(ctx context.Context, location *models.Location) (*models.Location, error) {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.Create")
	defer span.End()

	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	location.CreatedAt = time.Now().UTC()
	location.UpdatedAt = location.CreatedAt

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("locations")
	sb.Cols(columns...)
	sb.Values(
		location.ID, location.AccountID, location.Name,
		location.AddressLine1, location.AddressLine2, location.City, location.State, location.Zip, location.Country,
		location.ContactName, location.ContactTitle, location.ContactPhone, location.ContactEmail,
		location.IsPrimary, location.Status, location.Notes, location.ClinicCode, location.SageCode, location.DocumentURL,
		location.CreatedAt, location.UpdatedAt,
	)

	query, args := sb.Build()
	if _, err := r.exec(ctx).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create location")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create location")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": location.ID, "account_id": location.AccountID}).Info("Created location")
	return location, nil
}

// GetByID retrieves a location by ID. Returns nil when the location does not
// exist.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Location, error) {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.GetByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("locations")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var location models.Location
	if err := r.exec(ctx).GetContext(ctx, &location, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get location")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get location")
	}

	return &location, nil
}

// GetByAccountID retrieves every location owned by an account
func (r *Repository) GetByAccountID(ctx context.Context, accountID string) ([]models.Location, error) {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.GetByAccountID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("locations")
	sb.Where(sb.Equal("account_id", accountID))
	sb.OrderBy("created_at").Asc()

	query, args := sb.Build()
	var locations []models.Location
	if err := r.exec(ctx).SelectContext(ctx, &locations, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get locations by account")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get locations")
	}

	return locations, nil
}

// ListLocations retrieves every location
func (r *Repository) ListLocations(ctx context.Context) ([]models.Location, error) {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.ListLocations")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("locations")
	sb.OrderBy("created_at").Asc()

	query, args := sb.Build()
	var locations []models.Location
	if err := r.exec(ctx).SelectContext(ctx, &locations, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list locations")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list locations")
	}

	return locations, nil
}

// Update updates a location's mutable fields
func (r *Repository) Update(ctx context.Context, location *models.Location) error {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.Update")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("locations")
	sb.Set(
		sb.Assign("account_id", location.AccountID),
		sb.Assign("name", location.Name),
		sb.Assign("address_line1", location.AddressLine1),
		sb.Assign("address_line2", location.AddressLine2),
		sb.Assign("city", location.City),
		sb.Assign("state", location.State),
		sb.Assign("zip", location.Zip),
		sb.Assign("country", location.Country),
		sb.Assign("contact_name", location.ContactName),
		sb.Assign("contact_title", location.ContactTitle),
		sb.Assign("contact_phone", location.ContactPhone),
		sb.Assign("contact_email", location.ContactEmail),
		sb.Assign("is_primary", location.IsPrimary),
		sb.Assign("status", location.Status),
		sb.Assign("notes", location.Notes),
		sb.Assign("clinic_code", location.ClinicCode),
		sb.Assign("sage_code", location.SageCode),
		sb.Assign("document_url", location.DocumentURL),
		sb.Assign("updated_at", now),
	)
	sb.Where(sb.Equal("id", location.ID))

	query, args := sb.Build()
	result, err := r.exec(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update location")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update location")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("location %s not found", location.ID))
	}

	return nil
}

// Delete removes a location by ID
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("locations")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.exec(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete location")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete location")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("location %s not found", id))
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": id}).Info("Deleted location")
	return nil
}

// ReassignAccountIDs moves every location owned by the given accounts to the
// target account in one set-based update
func (r *Repository) ReassignAccountIDs(ctx context.Context, fromAccountIDs []string, toAccountID string) error {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.ReassignAccountIDs")
	defer span.End()

	if len(fromAccountIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("locations")
	sb.Set(
		sb.Assign("account_id", toAccountID),
		sb.Assign("updated_at", now),
	)
	sb.Where(sb.In("account_id", toAny(fromAccountIDs)...))

	query, args := sb.Build()
	if _, err := r.exec(ctx).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to reassign locations")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign locations")
	}

	return nil
}

// CountByAccountID returns the number of locations owned by an account
func (r *Repository) CountByAccountID(ctx context.Context, accountID string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.CountByAccountID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("locations")
	sb.Where(sb.Equal("account_id", accountID))

	query, args := sb.Build()
	var count int
	if err := r.exec(ctx).GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count locations")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count locations")
	}

	return count, nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
