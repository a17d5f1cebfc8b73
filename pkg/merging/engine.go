package merging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	appcontext "github.com/ChaseWoodhams/xytex-sub002/pkg/context"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/tracing"
	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
)

// Engine executes irreversible account and location merges. Every public
// method runs its reads, validations, and writes inside one transaction.
type Engine struct {
	accounts   AccountStore
	locations  LocationStore
	dependents DependentStore
	tx         Transactor
	recorder   AuditRecorder
	logger     ectologger.Logger
}

func NewEngine(
	accounts AccountStore,
	locations LocationStore,
	dependents DependentStore,
	tx Transactor,
	recorder AuditRecorder,
	logger ectologger.Logger,
) *Engine {
	return &Engine{
		accounts:   accounts,
		locations:  locations,
		dependents: dependents,
		tx:         tx,
		recorder:   recorder,
		logger:     logger,
	}
}

// MergeAccounts collapses a set of duplicate single-location accounts into
// one surviving multi-location account. Every location and dependent record
// of the losing accounts is reassigned to the survivor, the losers are
// deleted, and the survivor is promoted to multi_location. Preconditions are
// re-validated inside the transaction so a stale read cannot slip through.
func (e *Engine) MergeAccounts(ctx context.Context, accountIDs []string, primaryAccountID *string) (*models.MergeAccountsResult, error) {
	ctx, span := tracing.StartSpan(ctx, "merging.Engine.MergeAccounts")
	defer span.End()

	ids := distinct(accountIDs)
	if len(ids) < 2 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "at least two distinct account ids are required")
	}

	primaryID := ids[0]
	if primaryAccountID != nil {
		primaryID = *primaryAccountID
		if !contains(ids, primaryID) {
			return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "primary account '%s' is not in the merge set", primaryID)
		}
	}

	var result *models.MergeAccountsResult
	var primary models.Account

	err := e.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		accounts, err := e.accounts.GetByIDs(ctx, ids)
		if err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to load accounts for merge")
			return err
		}
		if len(accounts) != len(ids) {
			return httperror.NewHTTPErrorf(http.StatusNotFound, "%d of %d accounts not found", len(ids)-len(accounts), len(ids))
		}

		for _, account := range accounts {
			if account.AccountType != models.AccountTypeSingleLocation {
				return httperror.NewHTTPErrorf(http.StatusConflict, "account '%s' is not a single-location account", account.ID)
			}
			if account.ID == primaryID {
				primary = account
			}
		}

		secondaryIDs := make([]string, 0, len(ids)-1)
		for _, account := range accounts {
			if account.ID == primaryID {
				continue
			}
			secondaryIDs = append(secondaryIDs, account.ID)

			// a losing account with no location rows would lose its address
			// entirely, so its UDF address is materialized as a real location
			// before reassignment
			if err := e.materializeLocation(ctx, account); err != nil {
				return err
			}
		}

		if err := e.locations.ReassignAccountIDs(ctx, secondaryIDs, primaryID); err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to reassign locations")
			return err
		}
		if err := e.dependents.ReassignAccountIDs(ctx, secondaryIDs, primaryID); err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to reassign dependent records")
			return err
		}

		if err := e.accounts.UpdateAccountType(ctx, primaryID, models.AccountTypeMultiLocation); err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to promote primary account")
			return err
		}

		if err := e.accounts.Delete(ctx, secondaryIDs); err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to delete merged accounts")
			return err
		}

		// counts are re-read after the writes so the response reflects what
		// actually committed
		locationCount, err := e.locations.CountByAccountID(ctx, primaryID)
		if err != nil {
			return err
		}
		counts, err := e.dependents.CountsByAccountID(ctx, primaryID)
		if err != nil {
			return err
		}

		result = &models.MergeAccountsResult{
			MergedAccountID: primaryID,
			LocationCount:   locationCount,
			AgreementsCount: counts.Agreements,
			ActivitiesCount: counts.Activities,
			NotesCount:      counts.Notes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.recordAudit(ctx, models.AuditEntry{
		ActionType:  models.AuditActionAccountsMerged,
		EntityType:  "account",
		EntityID:    primaryID,
		EntityName:  primary.Name,
		Description: fmt.Sprintf("Merged %d accounts into '%s'", len(ids), primary.Name),
		Details:     auditDetails(map[string]any{"account_ids": ids, "primary_account_id": primaryID}),
	})

	return result, nil
}

// materializeLocation creates a real location row from the account's UDF
// address when the account owns no location rows
func (e *Engine) materializeLocation(ctx context.Context, account models.Account) error {
	existing, err := e.locations.GetByAccountID(ctx, account.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	resolved := models.ResolveLocations(account, nil)
	_, err = e.locations.Create(ctx, &resolved[0].Location)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Errorf("Failed to materialize location for account '%s'", account.ID)
		return err
	}
	return nil
}

func (e *Engine) recordAudit(ctx context.Context, entry models.AuditEntry) {
	entry.PerformedBy = appcontext.GetUserID(ctx)
	entry.PerformedAt = time.Now().UTC()
	e.recorder.Record(ctx, entry)
}

// VerifyReferences scans for records whose account or location no longer
// exists. A healthy system always reports clean; anything else means a merge
// left work behind.
func (e *Engine) VerifyReferences(ctx context.Context) (*models.IntegrityResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "merging.Engine.VerifyReferences")
	defer span.End()

	report, err := e.dependents.CountOrphans(ctx)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to scan for orphaned records")
		return nil, err
	}

	if !report.IsClean() {
		e.logger.WithContext(ctx).WithField("report", report).Warn("Integrity scan found orphaned records")
	}

	return &models.IntegrityResponse{
		Report: *report,
		Clean:  report.IsClean(),
	}, nil
}

func auditDetails(fields map[string]any) json.RawMessage {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return data
}

func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
