// Package topology moves locations between accounts while keeping every
// account in a legal single/multi location shape
package topology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appcontext "github.com/ChaseWoodhams/xytex-sub002/pkg/context"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/tracing"
	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
)

// Transactor opens a unit of work shared by every store call inside fn
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdateAccountType(ctx context.Context, id string, accountType string) error
	Delete(ctx context.Context, ids []string) error
}

type LocationStore interface {
	GetByID(ctx context.Context, id string) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	CountByAccountID(ctx context.Context, accountID string) (int, error)
}

type DependentStore interface {
	ReassignAccountIDs(ctx context.Context, fromAccountIDs []string, toAccountID string) error
	ReassignByLocationID(ctx context.Context, locationID string, toAccountID string) error
}

type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditEntry)
}

// Mutator reshapes account/location topology without merging records
type Mutator struct {
	accounts   AccountStore
	locations  LocationStore
	dependents DependentStore
	tx         Transactor
	recorder   AuditRecorder
	logger     ectologger.Logger
}

func NewMutator(
	accounts AccountStore,
	locations LocationStore,
	dependents DependentStore,
	tx Transactor,
	recorder AuditRecorder,
	logger ectologger.Logger,
) *Mutator {
	return &Mutator{
		accounts:   accounts,
		locations:  locations,
		dependents: dependents,
		tx:         tx,
		recorder:   recorder,
		logger:     logger,
	}
}

// AddLocationToMulti moves a standalone account's only location under an
// existing multi-location account. The move and the dependent reassignment
// commit together; deleting the emptied source account happens after the
// commit and is best effort, so a delete failure leaves a harmless empty
// account rather than rolling back a completed move.
func (m *Mutator) AddLocationToMulti(ctx context.Context, locationID, targetAccountID string) (*models.MoveLocationResult, error) {
	ctx, span := tracing.StartSpan(ctx, "topology.Mutator.AddLocationToMulti")
	defer span.End()

	var result *models.MoveLocationResult
	var location *models.Location
	var sourceAccountID string

	err := m.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		location, err = m.getLocation(ctx, locationID)
		if err != nil {
			return err
		}
		sourceAccountID = location.AccountID

		if sourceAccountID == targetAccountID {
			return httperror.NewHTTPError(http.StatusBadRequest, "location already belongs to the target account")
		}

		target, err := m.getAccount(ctx, targetAccountID)
		if err != nil {
			return err
		}
		if !target.IsMultiLocation() {
			return httperror.NewHTTPErrorf(http.StatusConflict, "target account '%s' is not a multi-location account", targetAccountID)
		}

		sourceCount, err := m.locations.CountByAccountID(ctx, sourceAccountID)
		if err != nil {
			return err
		}
		if sourceCount != 1 {
			return httperror.NewHTTPErrorf(http.StatusConflict, "source account '%s' has %d locations, expected exactly one", sourceAccountID, sourceCount)
		}

		location.AccountID = targetAccountID
		location.IsPrimary = false
		if err := m.locations.Update(ctx, location); err != nil {
			m.logger.WithContext(ctx).WithError(err).Error("Failed to move location")
			return err
		}

		if err := m.dependents.ReassignAccountIDs(ctx, []string{sourceAccountID}, targetAccountID); err != nil {
			m.logger.WithContext(ctx).WithError(err).Error("Failed to reassign dependents to target account")
			return err
		}

		count, err := m.locations.CountByAccountID(ctx, targetAccountID)
		if err != nil {
			return err
		}
		result = &models.MoveLocationResult{
			TargetAccountID: targetAccountID,
			LocationCount:   count,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// best effort; the move already committed
	if err := m.accounts.Delete(ctx, []string{sourceAccountID}); err != nil {
		m.logger.WithContext(ctx).WithError(err).Warnf("Failed to delete emptied source account '%s' after move", sourceAccountID)
	}

	m.recordAudit(ctx, models.AuditEntry{
		ActionType:  models.AuditActionLocationMoved,
		EntityType:  "location",
		EntityID:    location.ID,
		EntityName:  location.Name,
		Description: fmt.Sprintf("Moved location '%s' to account '%s'", location.Name, targetAccountID),
		Details: auditDetails(map[string]any{
			"location_id":       location.ID,
			"source_account_id": sourceAccountID,
			"target_account_id": targetAccountID,
		}),
	})

	return result, nil
}

// RemoveLocationFromMulti splits a location off a multi-location account into
// its own single-location account. The new account is created first, so at no
// point does the location reference a missing parent. The last location of an
// account cannot be split off.
func (m *Mutator) RemoveLocationFromMulti(ctx context.Context, locationID string) (*models.SplitLocationResult, error) {
	ctx, span := tracing.StartSpan(ctx, "topology.Mutator.RemoveLocationFromMulti")
	defer span.End()

	var result *models.SplitLocationResult
	var location *models.Location
	var oldAccountID string

	err := m.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		location, err = m.getLocation(ctx, locationID)
		if err != nil {
			return err
		}
		oldAccountID = location.AccountID

		account, err := m.getAccount(ctx, oldAccountID)
		if err != nil {
			return err
		}
		if !account.IsMultiLocation() {
			return httperror.NewHTTPErrorf(http.StatusConflict, "account '%s' is not a multi-location account", oldAccountID)
		}

		count, err := m.locations.CountByAccountID(ctx, oldAccountID)
		if err != nil {
			return err
		}
		if count < 2 {
			return httperror.NewHTTPErrorf(http.StatusConflict, "cannot split the only location off account '%s'", oldAccountID)
		}

		newAccount, err := m.accounts.Create(ctx, buildStandaloneAccount(location, account))
		if err != nil {
			m.logger.WithContext(ctx).WithError(err).Error("Failed to create standalone account for split")
			return err
		}

		location.AccountID = newAccount.ID
		location.IsPrimary = true
		if err := m.locations.Update(ctx, location); err != nil {
			m.logger.WithContext(ctx).WithError(err).Error("Failed to repoint split location")
			return err
		}

		if err := m.dependents.ReassignByLocationID(ctx, location.ID, newAccount.ID); err != nil {
			m.logger.WithContext(ctx).WithError(err).Error("Failed to move location-scoped dependents to new account")
			return err
		}

		remaining, err := m.locations.CountByAccountID(ctx, oldAccountID)
		if err != nil {
			return err
		}
		if remaining == 1 {
			if err := m.accounts.UpdateAccountType(ctx, oldAccountID, models.AccountTypeSingleLocation); err != nil {
				m.logger.WithContext(ctx).WithError(err).Errorf("Failed to demote account '%s'", oldAccountID)
				return err
			}
		}

		result = &models.SplitLocationResult{
			AccountID:   newAccount.ID,
			AccountName: newAccount.Name,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.recordAudit(ctx, models.AuditEntry{
		ActionType:  models.AuditActionAccountSplit,
		EntityType:  "account",
		EntityID:    result.AccountID,
		EntityName:  result.AccountName,
		Description: fmt.Sprintf("Split location '%s' into standalone account '%s'", location.Name, result.AccountName),
		Details: auditDetails(map[string]any{
			"location_id":    location.ID,
			"old_account_id": oldAccountID,
			"new_account_id": result.AccountID,
		}),
	})

	return result, nil
}

// buildStandaloneAccount derives the new single-location account from the
// split-off location, falling back to the old account's UDF fields for
// anything the location does not carry
func buildStandaloneAccount(location *models.Location, oldAccount *models.Account) *models.Account {
	return &models.Account{
		Name:         location.Name,
		AccountType:  models.AccountTypeSingleLocation,
		Status:       oldAccount.Status,
		AddressLine1: fallback(location.AddressLine1, oldAccount.AddressLine1),
		AddressLine2: fallback(location.AddressLine2, oldAccount.AddressLine2),
		City:         fallback(location.City, oldAccount.City),
		State:        fallback(location.State, oldAccount.State),
		Zip:          fallback(location.Zip, oldAccount.Zip),
		Country:      fallback(location.Country, oldAccount.Country),
		Phone:        fallback(location.ContactPhone, oldAccount.Phone),
	}
}

func (m *Mutator) getLocation(ctx context.Context, id string) (*models.Location, error) {
	location, err := m.locations.GetByID(ctx, id)
	if err != nil {
		m.logger.WithContext(ctx).WithError(err).Errorf("Failed to load location '%s'", id)
		return nil, err
	}
	if location == nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "location '%s' not found", id)
	}
	return location, nil
}

func (m *Mutator) getAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := m.accounts.GetByID(ctx, id)
	if err != nil {
		m.logger.WithContext(ctx).WithError(err).Errorf("Failed to load account '%s'", id)
		return nil, err
	}
	if account == nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "account '%s' not found", id)
	}
	return account, nil
}

func (m *Mutator) recordAudit(ctx context.Context, entry models.AuditEntry) {
	entry.PerformedBy = appcontext.GetUserID(ctx)
	entry.PerformedAt = time.Now().UTC()
	m.recorder.Record(ctx, entry)
}

func auditDetails(fields map[string]any) json.RawMessage {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return data
}

func fallback(primary, secondary *string) *string {
	if primary != nil && *primary != "" {
		return primary
	}
	return secondary
}
