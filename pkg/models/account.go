package models

import "time"

// Account types. A single_location account owns at most one location row and
// may instead carry its address in the UDF fallback fields. A multi_location
// account owns one or more location rows.
const (
	AccountTypeSingleLocation = "single_location"
	AccountTypeMultiLocation  = "multi_location"
)

// Account represents a CRM account record
type Account struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	AccountType string `json:"account_type" db:"account_type"`
	Status      string `json:"status" db:"status"`

	// UDF fallback fields. Legacy single-location accounts carry their
	// address here instead of owning a location row.
	AddressLine1 *string `json:"address_line1,omitempty" db:"address_line1"`
	AddressLine2 *string `json:"address_line2,omitempty" db:"address_line2"`
	City         *string `json:"city,omitempty" db:"city"`
	State        *string `json:"state,omitempty" db:"state"`
	Zip          *string `json:"zip,omitempty" db:"zip"`
	Country      *string `json:"country,omitempty" db:"country"`
	Phone        *string `json:"phone,omitempty" db:"phone"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsMultiLocation returns true if the account is a multi-location parent
func (a *Account) IsMultiLocation() bool {
	return a.AccountType == AccountTypeMultiLocation
}

// MergeAccountsRequest is the request for merging duplicate accounts
type MergeAccountsRequest struct {
	AccountIDs       []string `json:"account_ids" validate:"required,min=2,dive,required"`
	PrimaryAccountID *string  `json:"primary_account_id,omitempty"`
}

// MergeAccountsResult summarizes what the merged account owns after the merge
type MergeAccountsResult struct {
	MergedAccountID string `json:"merged_account_id"`
	LocationCount   int    `json:"location_count"`
	AgreementsCount int    `json:"agreements_count"`
	ActivitiesCount int    `json:"activities_count"`
	NotesCount      int    `json:"notes_count"`
}
