package merging

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/tracing"
	"github.com/Gobusters/ectoerror/httperror"
)

// MergeLocations folds the source location into the target. Target values
// win field by field with the source filling gaps, notes from both sides are
// preserved, dependent records follow the target, and the source is deleted.
// The source's old account is then brought back to a legal state: deleted
// when it has no locations left, demoted to single_location when it has
// exactly one.
func (e *Engine) MergeLocations(ctx context.Context, sourceID, targetID string) (*models.MergeLocationsResult, error) {
	ctx, span := tracing.StartSpan(ctx, "merging.Engine.MergeLocations")
	defer span.End()

	if sourceID == targetID {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "source and target locations must be distinct")
	}

	var result *models.MergeLocationsResult
	var source, target *models.Location

	err := e.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		source, err = e.getLocation(ctx, sourceID)
		if err != nil {
			return err
		}
		target, err = e.getLocation(ctx, targetID)
		if err != nil {
			return err
		}

		mergeLocationFields(source, target)

		if err := e.locations.Update(ctx, target); err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to update target location")
			return err
		}

		if err := e.dependents.ReassignLocationID(ctx, source.ID, target.ID, target.AccountID); err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to reassign dependent records to target location")
			return err
		}

		if err := e.locations.Delete(ctx, source.ID); err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to delete source location")
			return err
		}

		result = &models.MergeLocationsResult{TargetLocationID: target.ID}

		// re-evaluated even when both locations share an account: merging the
		// last pair leaves one location, and the account must be demoted. The
		// delete branch cannot fire there since the target still exists.
		return e.restoreAccountInvariant(ctx, source.AccountID, target.AccountID, result)
	})
	if err != nil {
		return nil, err
	}

	e.recordAudit(ctx, models.AuditEntry{
		ActionType:  models.AuditActionLocationsMerged,
		EntityType:  "location",
		EntityID:    target.ID,
		EntityName:  target.Name,
		Description: fmt.Sprintf("Merged location '%s' into '%s'", source.Name, target.Name),
		Details: auditDetails(map[string]any{
			"source_location_id":     source.ID,
			"target_location_id":     target.ID,
			"source_account_deleted": result.SourceAccountDeleted,
			"source_account_demoted": result.SourceAccountDemoted,
		}),
	})

	return result, nil
}

func (e *Engine) getLocation(ctx context.Context, id string) (*models.Location, error) {
	location, err := e.locations.GetByID(ctx, id)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Errorf("Failed to load location '%s'", id)
		return nil, err
	}
	if location == nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "location '%s' not found", id)
	}
	return location, nil
}

// restoreAccountInvariant puts the source location's old account back into a
// legal shape after losing a location. An account left with nothing is
// deleted, with its remaining dependents following the merge target so no
// record is orphaned. An account left with one location goes back to
// single_location.
func (e *Engine) restoreAccountInvariant(ctx context.Context, accountID, targetAccountID string, result *models.MergeLocationsResult) error {
	remaining, err := e.locations.CountByAccountID(ctx, accountID)
	if err != nil {
		return err
	}

	switch remaining {
	case 0:
		if err := e.dependents.ReassignAccountIDs(ctx, []string{accountID}, targetAccountID); err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to reassign dependents off emptied account")
			return err
		}
		if err := e.accounts.Delete(ctx, []string{accountID}); err != nil {
			e.logger.WithContext(ctx).WithError(err).Errorf("Failed to delete emptied account '%s'", accountID)
			return err
		}
		result.SourceAccountDeleted = true
	case 1:
		if err := e.accounts.UpdateAccountType(ctx, accountID, models.AccountTypeSingleLocation); err != nil {
			e.logger.WithContext(ctx).WithError(err).Errorf("Failed to demote account '%s'", accountID)
			return err
		}
		result.SourceAccountDemoted = true
	}
	return nil
}

// mergeLocationFields fills the target's empty fields from the source. The
// target always wins when both sides have a value. Notes are the exception:
// both sides survive, joined with a provenance marker.
func mergeLocationFields(source, target *models.Location) {
	target.AddressLine1 = coalesce(target.AddressLine1, source.AddressLine1)
	target.AddressLine2 = coalesce(target.AddressLine2, source.AddressLine2)
	target.City = coalesce(target.City, source.City)
	target.State = coalesce(target.State, source.State)
	target.Zip = coalesce(target.Zip, source.Zip)
	target.Country = coalesce(target.Country, source.Country)
	target.ContactName = coalesce(target.ContactName, source.ContactName)
	target.ContactTitle = coalesce(target.ContactTitle, source.ContactTitle)
	target.ContactPhone = coalesce(target.ContactPhone, source.ContactPhone)
	target.ContactEmail = coalesce(target.ContactEmail, source.ContactEmail)
	target.ClinicCode = coalesce(target.ClinicCode, source.ClinicCode)
	target.SageCode = coalesce(target.SageCode, source.SageCode)
	target.DocumentURL = coalesce(target.DocumentURL, source.DocumentURL)
	target.Notes = mergeNotes(source, target)
	target.IsPrimary = target.IsPrimary || source.IsPrimary
}

func mergeNotes(source, target *models.Location) *string {
	sourceNotes := ""
	if source.Notes != nil {
		sourceNotes = *source.Notes
	}
	if sourceNotes == "" {
		return target.Notes
	}

	annotated := fmt.Sprintf("[merged from %s] %s", source.Name, sourceNotes)
	if target.Notes == nil || *target.Notes == "" {
		return &annotated
	}

	combined := *target.Notes + "\n" + annotated
	return &combined
}

func coalesce(primary, fallback *string) *string {
	if primary != nil && *primary != "" {
		return primary
	}
	return fallback
}
