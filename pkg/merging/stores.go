package merging

import (
	"context"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
)

// Transactor opens a unit of work; every statement issued through the stores
// inside fn shares one transaction
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountStore is the account persistence surface the engine needs
type AccountStore interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	UpdateAccountType(ctx context.Context, id string, accountType string) error
	Delete(ctx context.Context, ids []string) error
}

// LocationStore is the location persistence surface the engine needs
type LocationStore interface {
	GetByID(ctx context.Context, id string) (*models.Location, error)
	GetByAccountID(ctx context.Context, accountID string) ([]models.Location, error)
	Create(ctx context.Context, location *models.Location) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id string) error
	ReassignAccountIDs(ctx context.Context, fromAccountIDs []string, toAccountID string) error
	CountByAccountID(ctx context.Context, accountID string) (int, error)
}

// DependentStore moves and counts the records hanging off accounts and
// locations (agreements, activities, notes, location contacts)
type DependentStore interface {
	ReassignAccountIDs(ctx context.Context, fromAccountIDs []string, toAccountID string) error
	ReassignLocationID(ctx context.Context, fromLocationID string, toLocationID string, toAccountID string) error
	ReassignByLocationID(ctx context.Context, locationID string, toAccountID string) error
	CountsByAccountID(ctx context.Context, accountID string) (*models.DependentCounts, error)
	CountOrphans(ctx context.Context) (*models.IntegrityReport, error)
}

// AuditRecorder records an irreversible mutation after it commits. Failures
// are swallowed by the recorder, never surfaced to the mutation.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditEntry)
}
