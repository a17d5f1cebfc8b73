package matching

import (
	"testing"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrouper() *Grouper {
	return NewGrouper(NewScorer(), NewExhaustiveComparer())
}

func TestGroupByName(t *testing.T) {
	grouper := newTestGrouper()

	profiles := []Profile{
		{AccountID: "a1", AccountName: "Atlanta Center", NormalizedName: "atlanta center"},
		{AccountID: "a2", AccountName: "Atlanta Centre", NormalizedName: "atlanta centre"},
		{AccountID: "a3", AccountName: "Denver Clinic", NormalizedName: "denver clinic"},
	}

	clusters := grouper.Group(profiles, models.MatchModeName)

	require.Len(t, clusters, 1)
	assert.Equal(t, models.ClusterBasisName, clusters[0].Basis)
	assert.Equal(t, "Atlanta Center", clusters[0].Label)
	assert.Len(t, clusters[0].Members, 2)
	assert.InDelta(t, 1.0-2.0/14.0, clusters[0].Score, 0.0001)
}

func TestGroupClustersRawClinicNames(t *testing.T) {
	grouper := newTestGrouper()

	profiles := []Profile{
		{AccountID: "acct-1", AccountName: "Atlanta Fertility Center", NormalizedName: normalize.Name("Atlanta Fertility Center")},
		{AccountID: "acct-2", AccountName: "Atlanta Fertility Clinic", NormalizedName: normalize.Name("Atlanta Fertility Clinic")},
		{AccountID: "acct-3", AccountName: "Denver Fertility Center", NormalizedName: normalize.Name("Denver Fertility Center")},
	}

	// the industry phrases vanish, leaving only the city names to compare
	assert.Equal(t, "atlanta", profiles[0].NormalizedName)
	assert.Equal(t, "atlanta", profiles[1].NormalizedName)
	assert.Equal(t, "denver", profiles[2].NormalizedName)

	clusters := grouper.Group(profiles, models.MatchModeName)

	// the Atlanta pair clusters at a perfect score; Denver stays out
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Members, 2)
	assert.Equal(t, "acct-1", clusters[0].Members[0].AccountID)
	assert.Equal(t, "acct-2", clusters[0].Members[1].AccountID)
	assert.Equal(t, 1.0, clusters[0].Score)
}

func TestGroupByNameChainUsesWeakestLink(t *testing.T) {
	grouper := newTestGrouper()

	// a1-a2 and a2-a3 are strong links; a1-a3 is the weakest pair and sets
	// the cluster score
	profiles := []Profile{
		{AccountID: "a1", NormalizedName: "atlanta center"},
		{AccountID: "a2", NormalizedName: "atlanta centre"},
		{AccountID: "a3", NormalizedName: "atlanta cntre"},
	}

	clusters := grouper.Group(profiles, models.MatchModeName)

	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 3)
	assert.InDelta(t, 1.0-3.0/14.0, clusters[0].Score, 0.0001)
}

func TestGroupByNameDiscardsSingles(t *testing.T) {
	grouper := newTestGrouper()

	profiles := []Profile{
		{AccountID: "a1", NormalizedName: "atlanta"},
		{AccountID: "a2", NormalizedName: "denver"},
		{AccountID: "a3", NormalizedName: "chicago"},
	}

	clusters := grouper.Group(profiles, models.MatchModeName)
	assert.Empty(t, clusters)
}

func TestGroupByAddress(t *testing.T) {
	grouper := newTestGrouper()

	profiles := []Profile{
		{AccountID: "a1", NormalizedName: "alpha", AddressKeys: []string{"123 main st|atlanta|ga|30301"}},
		{AccountID: "a2", NormalizedName: "beta", AddressKeys: []string{"123 main st|atlanta|ga|30301"}},
		{AccountID: "a3", NormalizedName: "gamma", AddressKeys: []string{"900 other rd|denver|co|80203"}},
		{AccountID: "a4", NormalizedName: "delta", AddressKeys: []string{""}},
		{AccountID: "a5", NormalizedName: "epsilon", AddressKeys: []string{""}},
	}

	clusters := grouper.Group(profiles, models.MatchModeAddress)

	require.Len(t, clusters, 1)
	assert.Equal(t, models.ClusterBasisAddress, clusters[0].Basis)
	assert.Equal(t, AddressMatchConfidence, clusters[0].Score)
	require.Len(t, clusters[0].Members, 2)
	assert.Equal(t, "a1", clusters[0].Members[0].AccountID)
	assert.Equal(t, "a2", clusters[0].Members[1].AccountID)
}

func TestGroupBothSkipsNameClaimedAccounts(t *testing.T) {
	grouper := newTestGrouper()

	sharedKey := "123 main st|atlanta|ga|30301"
	profiles := []Profile{
		{AccountID: "a1", NormalizedName: "atlanta center", AddressKeys: []string{sharedKey}},
		{AccountID: "a2", NormalizedName: "atlanta centre", AddressKeys: []string{sharedKey}},
		{AccountID: "a3", NormalizedName: "unrelated name", AddressKeys: []string{sharedKey}},
		{AccountID: "a4", NormalizedName: "another thing", AddressKeys: []string{sharedKey}},
	}

	clusters := grouper.Group(profiles, models.MatchModeBoth)

	require.Len(t, clusters, 2)

	// name cluster claims a1/a2; the address pass only groups the leftovers
	assert.Equal(t, models.ClusterBasisName, clusters[0].Basis)
	assert.Len(t, clusters[0].Members, 2)
	assert.Equal(t, models.ClusterBasisAddress, clusters[1].Basis)
	require.Len(t, clusters[1].Members, 2)
	assert.Equal(t, "a3", clusters[1].Members[0].AccountID)
	assert.Equal(t, "a4", clusters[1].Members[1].AccountID)
}

func TestGroupSortsByScoreThenSize(t *testing.T) {
	grouper := newTestGrouper()

	profiles := []Profile{
		// strong name pair, score 1 - 2/14 ≈ 0.857
		{AccountID: "a1", NormalizedName: "atlanta center"},
		{AccountID: "a2", NormalizedName: "atlanta centre"},
		// weaker name pair, score 1 - 2/12 ≈ 0.833
		{AccountID: "a3", NormalizedName: "mesa clinics"},
		{AccountID: "a4", NormalizedName: "mesa kliniks"},
		// address pair at the fixed 0.85
		{AccountID: "a5", NormalizedName: "alpha", AddressKeys: []string{"1 elm st|boise|id|83701"}},
		{AccountID: "a6", NormalizedName: "omega", AddressKeys: []string{"1 elm st|boise|id|83701"}},
	}

	clusters := grouper.Group(profiles, models.MatchModeBoth)

	require.Len(t, clusters, 3)
	assert.InDelta(t, 1.0-2.0/14.0, clusters[0].Score, 0.0001)
	assert.Equal(t, AddressMatchConfidence, clusters[1].Score)
	assert.InDelta(t, 1.0-2.0/12.0, clusters[2].Score, 0.0001)
}
