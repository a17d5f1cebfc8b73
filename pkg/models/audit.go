package models

import (
	"encoding/json"
	"time"
)

// Audit action types
const (
	AuditActionAccountsMerged  = "accounts_merged"
	AuditActionLocationsMerged = "locations_merged"
	AuditActionLocationMoved   = "location_moved"
	AuditActionAccountSplit    = "account_split"
)

// AuditEntry is one row in the immutable audit trail
type AuditEntry struct {
	ID          string          `json:"id" db:"id"`
	ActionType  string          `json:"action_type" db:"action_type"`
	EntityType  string          `json:"entity_type" db:"entity_type"`
	EntityID    string          `json:"entity_id" db:"entity_id"`
	EntityName  string          `json:"entity_name" db:"entity_name"`
	Description string          `json:"description" db:"description"`
	Details     json.RawMessage `json:"details,omitempty" db:"details"`
	PerformedBy string          `json:"performed_by" db:"performed_by"`
	PerformedAt time.Time       `json:"performed_at" db:"performed_at"`
}

// AuditListResponse is the response for listing audit entries
type AuditListResponse struct {
	Items      []AuditEntry `json:"items"`
	TotalCount int          `json:"total_count"`
}
