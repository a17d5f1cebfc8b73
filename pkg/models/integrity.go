package models

// IntegrityReport counts records whose foreign keys point at missing rows
type IntegrityReport struct {
	OrphanedLocations        int `json:"orphaned_locations" db:"orphaned_locations"`
	OrphanedAgreements       int `json:"orphaned_agreements" db:"orphaned_agreements"`
	OrphanedActivities       int `json:"orphaned_activities" db:"orphaned_activities"`
	OrphanedNotes            int `json:"orphaned_notes" db:"orphaned_notes"`
	OrphanedLocationContacts int `json:"orphaned_location_contacts" db:"orphaned_location_contacts"`
}

// IsClean returns true when no orphaned records exist
func (r *IntegrityReport) IsClean() bool {
	return r.OrphanedLocations == 0 &&
		r.OrphanedAgreements == 0 &&
		r.OrphanedActivities == 0 &&
		r.OrphanedNotes == 0 &&
		r.OrphanedLocationContacts == 0
}

// IntegrityResponse is the response for the integrity scan route
type IntegrityResponse struct {
	Report IntegrityReport `json:"report"`
	Clean  bool            `json:"clean"`
}
