package models

import "time"

// Location represents a physical clinic location owned by an account
type Location struct {
	ID        string `json:"id" db:"id"`
	AccountID string `json:"account_id" db:"account_id"`
	Name      string `json:"name" db:"name"`

	AddressLine1 *string `json:"address_line1,omitempty" db:"address_line1"`
	AddressLine2 *string `json:"address_line2,omitempty" db:"address_line2"`
	City         *string `json:"city,omitempty" db:"city"`
	State        *string `json:"state,omitempty" db:"state"`
	Zip          *string `json:"zip,omitempty" db:"zip"`
	Country      *string `json:"country,omitempty" db:"country"`

	ContactName  *string `json:"contact_name,omitempty" db:"contact_name"`
	ContactTitle *string `json:"contact_title,omitempty" db:"contact_title"`
	ContactPhone *string `json:"contact_phone,omitempty" db:"contact_phone"`
	ContactEmail *string `json:"contact_email,omitempty" db:"contact_email"`

	IsPrimary   bool    `json:"is_primary" db:"is_primary"`
	Status      string  `json:"status" db:"status"`
	Notes       *string `json:"notes,omitempty" db:"notes"`
	ClinicCode  *string `json:"clinic_code,omitempty" db:"clinic_code"`
	SageCode    *string `json:"sage_code,omitempty" db:"sage_code"`
	DocumentURL *string `json:"document_url,omitempty" db:"document_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Sources for a resolved location
const (
	LocationSourceReal        = "real"
	LocationSourceSynthesized = "synthesized"
)

// ResolvedLocation is a location as seen by the matching and merge layers.
// Accounts without location rows still resolve to one synthesized location
// built from their UDF fallback fields, so every account contributes an
// address signal. Source says which case this is.
type ResolvedLocation struct {
	Location
	Source string `json:"source"`
}

// IsSynthesized returns true if the location was derived from account UDF fields
func (r *ResolvedLocation) IsSynthesized() bool {
	return r.Source == LocationSourceSynthesized
}

// MergeLocationsRequest is the request for merging two locations
type MergeLocationsRequest struct {
	SourceLocationID string `json:"source_location_id" validate:"required"`
	TargetLocationID string `json:"target_location_id" validate:"required"`
}

// MergeLocationsResult reports the surviving location after a location merge
type MergeLocationsResult struct {
	TargetLocationID     string `json:"target_location_id"`
	SourceAccountDeleted bool   `json:"source_account_deleted"`
	SourceAccountDemoted bool   `json:"source_account_demoted"`
}

// MoveLocationRequest is the request for moving a location under a multi-location account
type MoveLocationRequest struct {
	TargetAccountID string `json:"target_account_id" validate:"required"`
}

// MoveLocationResult reports the target account's location count after the move
type MoveLocationResult struct {
	TargetAccountID string `json:"target_account_id"`
	LocationCount   int    `json:"location_count"`
}

// SplitLocationResult reports the standalone account created for a split-off location
type SplitLocationResult struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
}
