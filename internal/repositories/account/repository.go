package account

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
	"id", "name", "account_type", "status",
	"address_line1", "address_line2", "city", "state", "zip", "country", "phone",
	"created_at", "updated_at",
}

// Repository handles account persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new account repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// exec returns the context transaction when one is open, the pool otherwise
func (r *Repository) exec(ctx context.Context) database.Executor {
	return database.FromContext(ctx, r.db)
}

// Create creates a new account
func (r *Repository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "account.Repository.Create")
	defer span.End()

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.CreatedAt = time.Now().UTC()
	account.UpdatedAt = account.CreatedAt

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("accounts")
	sb.Cols(columns...)
	sb.Values(
		account.ID, account.Name, account.AccountType, account.Status,
		account.AddressLine1, account.AddressLine2, account.City, account.State, account.Zip, account.Country, account.Phone,
		account.CreatedAt, account.UpdatedAt,
	)

	query, args := sb.Build()
	if _, err := r.exec(ctx).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create account")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create account")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": account.ID}).Info("Created account")
	return account, nil
}

// GetByID retrieves an account by ID. Returns nil when the account does not
// exist so callers decide what missing means for them.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "account.Repository.GetByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("accounts")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var account models.Account
	if err := r.exec(ctx).GetContext(ctx, &account, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get account")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get account")
	}

	return &account, nil
}

// GetByIDs retrieves every account whose ID is in the set
func (r *Repository) GetByIDs(ctx context.Context, ids []string) ([]models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "account.Repository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("accounts")
	sb.Where(sb.In("id", toAny(ids)...))
	sb.OrderBy("created_at").Asc()

	query, args := sb.Build()
	var accounts []models.Account
	if err := r.exec(ctx).SelectContext(ctx, &accounts, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get accounts")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get accounts")
	}

	return accounts, nil
}

// ListAccounts retrieves every account
func (r *Repository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	ctx, span := tracing.StartSpan(ctx, "account.Repository.ListAccounts")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("accounts")
	sb.OrderBy("name").Asc()

	query, args := sb.Build()
	var accounts []models.Account
	if err := r.exec(ctx).SelectContext(ctx, &accounts, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list accounts")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list accounts")
	}

	return accounts, nil
}

// Update updates an account's mutable fields
func (r *Repository) Update(ctx context.Context, account *models.Account) error {
	ctx, span := tracing.StartSpan(ctx, "account.Repository.Update")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("accounts")
	sb.Set(
		sb.Assign("name", account.Name),
		sb.Assign("account_type", account.AccountType),
		sb.Assign("status", account.Status),
		sb.Assign("address_line1", account.AddressLine1),
		sb.Assign("address_line2", account.AddressLine2),
		sb.Assign("city", account.City),
		sb.Assign("state", account.State),
		sb.Assign("zip", account.Zip),
		sb.Assign("country", account.Country),
		sb.Assign("phone", account.Phone),
		sb.Assign("updated_at", now),
	)
	sb.Where(sb.Equal("id", account.ID))

	query, args := sb.Build()
	result, err := r.exec(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update account")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update account")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("account %s not found", account.ID))
	}

	return nil
}

// UpdateAccountType changes an account between single and multi location
func (r *Repository) UpdateAccountType(ctx context.Context, id string, accountType string) error {
	ctx, span := tracing.StartSpan(ctx, "account.Repository.UpdateAccountType")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("accounts")
	sb.Set(
		sb.Assign("account_type", accountType),
		sb.Assign("updated_at", now),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.exec(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update account type")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update account type")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("account %s not found", id))
	}

	return nil
}

// Delete removes accounts by ID
func (r *Repository) Delete(ctx context.Context, ids []string) error {
	ctx, span := tracing.StartSpan(ctx, "account.Repository.Delete")
	defer span.End()

	if len(ids) == 0 {
		return nil
	}

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("accounts")
	sb.Where(sb.In("id", toAny(ids)...))

	query, args := sb.Build()
	if _, err := r.exec(ctx).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete accounts")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete accounts")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"ids": ids}).Info("Deleted accounts")
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
