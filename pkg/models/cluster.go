package models

// Match modes for duplicate candidate discovery
const (
	MatchModeName    = "name"
	MatchModeAddress = "address"
	MatchModeBoth    = "both"
)

// Basis values describing why a cluster's members were grouped
const (
	ClusterBasisName    = "name"
	ClusterBasisAddress = "address"
)

// ClusterMember is one account inside a duplicate cluster
type ClusterMember struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
}

// DuplicateCluster is a transient group of accounts believed to be the same
// real-world organization. Never persisted, recomputed per request.
type DuplicateCluster struct {
	Label   string          `json:"label"`
	Basis   string          `json:"basis"`
	Score   float64         `json:"score"`
	Members []ClusterMember `json:"members"`
}

// DuplicateClusterListResponse is the response for listing duplicate candidates
type DuplicateClusterListResponse struct {
	Items      []DuplicateCluster `json:"items"`
	TotalCount int                `json:"total_count"`
	Mode       string             `json:"mode"`
}
