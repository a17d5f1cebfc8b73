package models

import "time"

// Agreement represents a contract attached to an account, optionally scoped
// to one of its locations
type Agreement struct {
	ID         string     `json:"id" db:"id"`
	AccountID  string     `json:"account_id" db:"account_id"`
	LocationID *string    `json:"location_id,omitempty" db:"location_id"`
	Title      string     `json:"title" db:"title"`
	Status     string     `json:"status" db:"status"`
	SignedAt   *time.Time `json:"signed_at,omitempty" db:"signed_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Activity represents a logged interaction with an account
type Activity struct {
	ID           string    `json:"id" db:"id"`
	AccountID    string    `json:"account_id" db:"account_id"`
	LocationID   *string   `json:"location_id,omitempty" db:"location_id"`
	ActivityType string    `json:"activity_type" db:"activity_type"`
	Subject      string    `json:"subject" db:"subject"`
	PerformedBy  *string   `json:"performed_by,omitempty" db:"performed_by"`
	OccurredAt   time.Time `json:"occurred_at" db:"occurred_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Note represents a free-form note attached to an account
type Note struct {
	ID         string    `json:"id" db:"id"`
	AccountID  string    `json:"account_id" db:"account_id"`
	LocationID *string   `json:"location_id,omitempty" db:"location_id"`
	Body       string    `json:"body" db:"body"`
	CreatedBy  *string   `json:"created_by,omitempty" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// LocationContact represents an additional contact person at a location
type LocationContact struct {
	ID         string    `json:"id" db:"id"`
	LocationID string    `json:"location_id" db:"location_id"`
	Name       string    `json:"name" db:"name"`
	Title      *string   `json:"title,omitempty" db:"title"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
	Email      *string   `json:"email,omitempty" db:"email"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DependentCounts holds per-account dependent record counts
type DependentCounts struct {
	Agreements int `json:"agreements" db:"agreements"`
	Activities int `json:"activities" db:"activities"`
	Notes      int `json:"notes" db:"notes"`
}
