package matching

import (
	"sort"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
)

// NameMatchThreshold is the minimum similarity for two normalized names to
// land in the same cluster
const NameMatchThreshold = 0.70

// AddressMatchConfidence is the fixed score assigned to exact-address
// clusters. Address equality after normalization is strong evidence but not
// proof, so it ranks below a perfect name match.
const AddressMatchConfidence = 0.85

// Profile is one account's matching signals: its normalized name and the
// normalized address keys of every resolved location it owns
type Profile struct {
	AccountID      string
	AccountName    string
	AccountType    string
	NormalizedName string
	AddressKeys    []string

	// display fields for cluster member summaries
	Address string
	City    string
	State   string
}

// Grouper clusters account profiles into duplicate candidates. Pure
// read-and-compute, no persistence.
type Grouper struct {
	scorer            *Scorer
	comparer          Comparer
	nameThreshold     float64
	addressConfidence float64
}

func NewGrouper(scorer *Scorer, comparer Comparer) *Grouper {
	return &Grouper{
		scorer:            scorer,
		comparer:          comparer,
		nameThreshold:     NameMatchThreshold,
		addressConfidence: AddressMatchConfidence,
	}
}

// WithThresholds overrides the default clustering thresholds
func (g *Grouper) WithThresholds(nameThreshold, addressConfidence float64) *Grouper {
	g.nameThreshold = nameThreshold
	g.addressConfidence = addressConfidence
	return g
}

// Group clusters profiles by the requested mode. Name clusters are built by
// greedy single-link clustering over name similarity; address clusters are
// built by exact key equality among profiles not already claimed by a name
// cluster. Single-member clusters are discarded. Results are sorted by score
// descending, then by member count descending.
func (g *Grouper) Group(profiles []Profile, mode string) []models.DuplicateCluster {
	var clusters []models.DuplicateCluster
	claimed := make(map[string]bool)

	if mode == models.MatchModeName || mode == models.MatchModeBoth {
		clusters = append(clusters, g.groupByName(profiles, claimed)...)
	}

	if mode == models.MatchModeAddress || mode == models.MatchModeBoth {
		clusters = append(clusters, g.groupByAddress(profiles, claimed)...)
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].Score != clusters[j].Score {
			return clusters[i].Score > clusters[j].Score
		}
		return len(clusters[i].Members) > len(clusters[j].Members)
	})

	return clusters
}

func (g *Grouper) groupByName(profiles []Profile, claimed map[string]bool) []models.DuplicateCluster {
	keys := make([]string, len(profiles))
	for i, p := range profiles {
		keys[i] = p.NormalizedName
	}

	// score candidate pairs once, keep only edges at or above the threshold
	edges := make(map[int][]edge)
	for _, pair := range g.comparer.CandidatePairs(keys) {
		i, j := pair[0], pair[1]
		// names that normalize to nothing carry no signal
		if keys[i] == "" || keys[j] == "" {
			continue
		}
		score := g.scorer.Similarity(keys[i], keys[j])
		if score < g.nameThreshold {
			continue
		}
		edges[i] = append(edges[i], edge{to: j, score: score})
		edges[j] = append(edges[j], edge{to: i, score: score})
	}

	var clusters []models.DuplicateCluster
	assigned := make([]bool, len(profiles))

	for seed := range profiles {
		if assigned[seed] || len(edges[seed]) == 0 {
			continue
		}

		// grow the cluster single-link: any unassigned profile linked to any
		// current member joins
		members := []int{seed}
		assigned[seed] = true
		for cursor := 0; cursor < len(members); cursor++ {
			for _, e := range edges[members[cursor]] {
				if !assigned[e.to] {
					assigned[e.to] = true
					members = append(members, e.to)
				}
			}
		}

		if len(members) < 2 {
			continue
		}

		clusters = append(clusters, g.buildCluster(profiles, members, models.ClusterBasisName, g.minPairwise(keys, members), claimed))
	}

	return clusters
}

// minPairwise returns the weakest pairwise similarity inside the cluster,
// which is the cluster's honest confidence
func (g *Grouper) minPairwise(keys []string, members []int) float64 {
	minScore := 1.0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			score := g.scorer.Similarity(keys[members[i]], keys[members[j]])
			if score < minScore {
				minScore = score
			}
		}
	}
	return minScore
}

func (g *Grouper) groupByAddress(profiles []Profile, claimed map[string]bool) []models.DuplicateCluster {
	// index accounts by address key, skipping no-signal addresses and
	// accounts already claimed by a name cluster
	byKey := make(map[string][]int)
	var keyOrder []string
	seen := make(map[string]map[int]bool)
	for i, p := range profiles {
		if claimed[p.AccountID] {
			continue
		}
		for _, key := range p.AddressKeys {
			if key == "" {
				continue
			}
			if seen[key] == nil {
				seen[key] = make(map[int]bool)
			}
			if seen[key][i] {
				continue
			}
			seen[key][i] = true
			if len(byKey[key]) == 0 {
				keyOrder = append(keyOrder, key)
			}
			byKey[key] = append(byKey[key], i)
		}
	}

	var clusters []models.DuplicateCluster
	inCluster := make(map[int]bool)
	for _, key := range keyOrder {
		members := make([]int, 0, len(byKey[key]))
		for _, i := range byKey[key] {
			if !inCluster[i] {
				members = append(members, i)
			}
		}
		if len(members) < 2 {
			continue
		}
		for _, i := range members {
			inCluster[i] = true
		}
		clusters = append(clusters, g.buildCluster(profiles, members, models.ClusterBasisAddress, g.addressConfidence, claimed))
	}

	return clusters
}

func (g *Grouper) buildCluster(profiles []Profile, members []int, basis string, score float64, claimed map[string]bool) models.DuplicateCluster {
	cluster := models.DuplicateCluster{
		Label:   profiles[members[0]].AccountName,
		Basis:   basis,
		Score:   score,
		Members: make([]models.ClusterMember, 0, len(members)),
	}
	for _, i := range members {
		p := profiles[i]
		claimed[p.AccountID] = true
		cluster.Members = append(cluster.Members, models.ClusterMember{
			AccountID:   p.AccountID,
			AccountName: p.AccountName,
			AccountType: p.AccountType,
			Address:     p.Address,
			City:        p.City,
			State:       p.State,
		})
	}
	return cluster
}

type edge struct {
	to    int
	score float64
}
