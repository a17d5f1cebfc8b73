package matching

import (
	"context"
	"net/http"
	"testing"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileStore struct {
	accounts  []models.Account
	locations []models.Location
}

func (f *fakeProfileStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return f.accounts, nil
}

func (f *fakeProfileStore) ListLocations(ctx context.Context) ([]models.Location, error) {
	return f.locations, nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {})
}

func strPtr(s string) *string {
	return &s
}

func TestFindDuplicatesInvalidMode(t *testing.T) {
	svc := NewService(&fakeProfileStore{}, newTestGrouper(), testLogger())

	_, err := svc.FindDuplicates(context.Background(), "fuzzy")

	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestFindDuplicatesSynthesizesUDFAddresses(t *testing.T) {
	// neither account owns a location row; their UDF addresses still have to
	// collide in address mode
	store := &fakeProfileStore{
		accounts: []models.Account{
			{
				ID:           "a1",
				Name:         "Alpha Clinic",
				AccountType:  models.AccountTypeSingleLocation,
				AddressLine1: strPtr("123 Main Street"),
				City:         strPtr("Atlanta"),
				State:        strPtr("GA"),
				Zip:          strPtr("30301"),
			},
			{
				ID:           "a2",
				Name:         "Totally Different",
				AccountType:  models.AccountTypeSingleLocation,
				AddressLine1: strPtr("123 Main St"),
				City:         strPtr("Atlanta"),
				State:        strPtr("GA"),
				Zip:          strPtr("30301-4455"),
			},
		},
	}
	svc := NewService(store, newTestGrouper(), testLogger())

	resp, err := svc.FindDuplicates(context.Background(), models.MatchModeAddress)

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, models.ClusterBasisAddress, resp.Items[0].Basis)
	assert.Len(t, resp.Items[0].Members, 2)
}

func TestFindDuplicatesDefaultsToBothModes(t *testing.T) {
	store := &fakeProfileStore{
		accounts: []models.Account{
			{ID: "a1", Name: "Atlanta Center", AccountType: models.AccountTypeSingleLocation},
			{ID: "a2", Name: "Atlanta Centre", AccountType: models.AccountTypeSingleLocation},
		},
	}
	svc := NewService(store, newTestGrouper(), testLogger())

	resp, err := svc.FindDuplicates(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, models.MatchModeBoth, resp.Mode)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, models.ClusterBasisName, resp.Items[0].Basis)
}
