package topology

import (
	"context"
	"net/http"
	"testing"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	accounts   map[string]*models.Account
	locations  map[string]*models.Location
	agreements map[string]*models.Agreement
	notes      map[string]*models.Note
	deleteErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:   make(map[string]*models.Account),
		locations:  make(map[string]*models.Location),
		agreements: make(map[string]*models.Agreement),
		notes:      make(map[string]*models.Note),
	}
}

func (f *fakeStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	out := *account
	return &out, nil
}

func (f *fakeStore) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	created := *account
	created.ID = uuid.NewString()
	f.accounts[created.ID] = &created
	out := created
	return &out, nil
}

func (f *fakeStore) UpdateAccountType(ctx context.Context, id string, accountType string) error {
	f.accounts[id].AccountType = accountType
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, ids []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, id := range ids {
		delete(f.accounts, id)
	}
	return nil
}

type fakeLocationStore struct{ *fakeStore }

func (f fakeLocationStore) GetByID(ctx context.Context, id string) (*models.Location, error) {
	location, ok := f.locations[id]
	if !ok {
		return nil, nil
	}
	out := *location
	return &out, nil
}

func (f fakeLocationStore) Update(ctx context.Context, location *models.Location) error {
	out := *location
	f.locations[location.ID] = &out
	return nil
}

func (f fakeLocationStore) CountByAccountID(ctx context.Context, accountID string) (int, error) {
	count := 0
	for _, loc := range f.locations {
		if loc.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

type fakeDependentStore struct{ *fakeStore }

func (f fakeDependentStore) ReassignAccountIDs(ctx context.Context, fromAccountIDs []string, toAccountID string) error {
	from := make(map[string]bool)
	for _, id := range fromAccountIDs {
		from[id] = true
	}
	for _, a := range f.agreements {
		if from[a.AccountID] {
			a.AccountID = toAccountID
		}
	}
	for _, n := range f.notes {
		if from[n.AccountID] {
			n.AccountID = toAccountID
		}
	}
	return nil
}

func (f fakeDependentStore) ReassignByLocationID(ctx context.Context, locationID, toAccountID string) error {
	for _, a := range f.agreements {
		if a.LocationID != nil && *a.LocationID == locationID {
			a.AccountID = toAccountID
		}
	}
	for _, n := range f.notes {
		if n.LocationID != nil && *n.LocationID == locationID {
			n.AccountID = toAccountID
		}
	}
	return nil
}

type fakeRecorder struct {
	entries []models.AuditEntry
}

func (f *fakeRecorder) Record(ctx context.Context, entry models.AuditEntry) {
	f.entries = append(f.entries, entry)
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {})
}

func strPtr(s string) *string {
	return &s
}

func newTestMutator(store *fakeStore) (*Mutator, *fakeRecorder) {
	recorder := &fakeRecorder{}
	mutator := NewMutator(
		store,
		fakeLocationStore{store},
		fakeDependentStore{store},
		store,
		recorder,
		testLogger(),
	)
	return mutator, recorder
}

func (f *fakeStore) addAccount(id, name, accountType string) *models.Account {
	account := &models.Account{ID: id, Name: name, AccountType: accountType, Status: "active"}
	f.accounts[id] = account
	return account
}

func (f *fakeStore) addLocation(id, accountID, name string) *models.Location {
	location := &models.Location{ID: id, AccountID: accountID, Name: name, Status: "active"}
	f.locations[id] = location
	return location
}

func TestAddLocationToMulti(t *testing.T) {
	store := newFakeStore()
	store.addAccount("multi", "Parent Group", models.AccountTypeMultiLocation)
	store.addAccount("solo", "Standalone", models.AccountTypeSingleLocation)
	store.addLocation("l1", "multi", "Existing")
	moved := store.addLocation("l2", "solo", "Joining")
	moved.IsPrimary = true
	store.agreements["g1"] = &models.Agreement{ID: "g1", AccountID: "solo", Title: "Contract"}

	mutator, recorder := newTestMutator(store)

	result, err := mutator.AddLocationToMulti(context.Background(), "l2", "multi")

	require.NoError(t, err)
	assert.Equal(t, "multi", result.TargetAccountID)
	assert.Equal(t, 2, result.LocationCount)

	assert.Equal(t, "multi", store.locations["l2"].AccountID)
	assert.False(t, store.locations["l2"].IsPrimary)
	assert.Equal(t, "multi", store.agreements["g1"].AccountID)
	assert.NotContains(t, store.accounts, "solo")

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, models.AuditActionLocationMoved, recorder.entries[0].ActionType)
}

func TestAddLocationToMultiSourceDeleteIsBestEffort(t *testing.T) {
	store := newFakeStore()
	store.addAccount("multi", "Parent Group", models.AccountTypeMultiLocation)
	store.addAccount("solo", "Standalone", models.AccountTypeSingleLocation)
	store.addLocation("l1", "multi", "Existing")
	store.addLocation("l2", "solo", "Joining")
	store.deleteErr = assert.AnError

	mutator, _ := newTestMutator(store)

	// the move still succeeds even though the cleanup delete fails
	result, err := mutator.AddLocationToMulti(context.Background(), "l2", "multi")

	require.NoError(t, err)
	assert.Equal(t, 2, result.LocationCount)
	assert.Equal(t, "multi", store.locations["l2"].AccountID)
	assert.Contains(t, store.accounts, "solo")
}

func TestAddLocationToMultiValidation(t *testing.T) {
	store := newFakeStore()
	store.addAccount("multi", "Parent Group", models.AccountTypeMultiLocation)
	store.addAccount("solo", "Standalone", models.AccountTypeSingleLocation)
	store.addAccount("pair", "Two Offices", models.AccountTypeMultiLocation)
	store.addLocation("l1", "multi", "Existing")
	store.addLocation("l2", "solo", "Joining")
	store.addLocation("l3", "pair", "First")
	store.addLocation("l4", "pair", "Second")

	mutator, _ := newTestMutator(store)

	tests := []struct {
		name       string
		locationID string
		targetID   string
		wantStatus int
	}{
		{
			name:       "location not found",
			locationID: "nope",
			targetID:   "multi",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "target not found",
			locationID: "l2",
			targetID:   "nope",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "already under target",
			locationID: "l1",
			targetID:   "multi",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "target is single-location",
			locationID: "l1",
			targetID:   "solo",
			wantStatus: http.StatusConflict,
		},
		{
			name:       "source has more than one location",
			locationID: "l3",
			targetID:   "multi",
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mutator.AddLocationToMulti(context.Background(), tt.locationID, tt.targetID)
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, httperror.GetStatusCode(err))
		})
	}
}

func TestRemoveLocationFromMulti(t *testing.T) {
	store := newFakeStore()
	parent := store.addAccount("multi", "Parent Group", models.AccountTypeMultiLocation)
	parent.Country = strPtr("USA")
	store.addLocation("l1", "multi", "Stays")

	split := store.addLocation("l2", "multi", "Splits Off")
	split.AddressLine1 = strPtr("42 Oak Ave")
	split.City = strPtr("Decatur")
	split.ContactPhone = strPtr("555-0100")

	locID := "l2"
	store.notes["n1"] = &models.Note{ID: "n1", AccountID: "multi", LocationID: &locID, Body: "about l2"}

	mutator, recorder := newTestMutator(store)

	result, err := mutator.RemoveLocationFromMulti(context.Background(), "l2")

	require.NoError(t, err)
	assert.Equal(t, "Splits Off", result.AccountName)

	newAccount := store.accounts[result.AccountID]
	require.NotNil(t, newAccount)
	assert.Equal(t, models.AccountTypeSingleLocation, newAccount.AccountType)
	assert.Equal(t, "42 Oak Ave", *newAccount.AddressLine1)
	assert.Equal(t, "555-0100", *newAccount.Phone)
	// falls back to the old account where the location had no value
	assert.Equal(t, "USA", *newAccount.Country)

	assert.Equal(t, result.AccountID, store.locations["l2"].AccountID)
	assert.True(t, store.locations["l2"].IsPrimary)

	// location-scoped dependents follow the new account
	assert.Equal(t, result.AccountID, store.notes["n1"].AccountID)

	// one location left, so the old parent is demoted
	assert.Equal(t, models.AccountTypeSingleLocation, store.accounts["multi"].AccountType)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, models.AuditActionAccountSplit, recorder.entries[0].ActionType)
}

func TestRemoveLocationFromMultiKeepsMultiWhenTwoRemain(t *testing.T) {
	store := newFakeStore()
	store.addAccount("multi", "Parent Group", models.AccountTypeMultiLocation)
	store.addLocation("l1", "multi", "One")
	store.addLocation("l2", "multi", "Two")
	store.addLocation("l3", "multi", "Three")

	mutator, _ := newTestMutator(store)

	_, err := mutator.RemoveLocationFromMulti(context.Background(), "l3")

	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeMultiLocation, store.accounts["multi"].AccountType)
}

func TestRemoveLocationFromMultiLastLocationGuard(t *testing.T) {
	store := newFakeStore()
	store.addAccount("multi", "Parent Group", models.AccountTypeMultiLocation)
	store.addAccount("solo", "Standalone", models.AccountTypeSingleLocation)
	store.addLocation("l1", "multi", "Only One")
	store.addLocation("l2", "solo", "Solo Office")

	mutator, _ := newTestMutator(store)

	_, err := mutator.RemoveLocationFromMulti(context.Background(), "l1")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))

	_, err = mutator.RemoveLocationFromMulti(context.Background(), "l2")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))

	_, err = mutator.RemoveLocationFromMulti(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestSplitThenMoveBackIsLossless(t *testing.T) {
	store := newFakeStore()
	store.addAccount("multi", "Parent Group", models.AccountTypeMultiLocation)
	store.addLocation("l1", "multi", "Stays")
	store.addLocation("l2", "multi", "Round Trip")

	mutator, _ := newTestMutator(store)

	split, err := mutator.RemoveLocationFromMulti(context.Background(), "l2")
	require.NoError(t, err)

	// the parent was demoted to single_location when l2 left; promote it back
	// so it can accept the returning location
	require.NoError(t, store.UpdateAccountType(context.Background(), "multi", models.AccountTypeMultiLocation))

	result, err := mutator.AddLocationToMulti(context.Background(), "l2", "multi")
	require.NoError(t, err)

	assert.Equal(t, 2, result.LocationCount)
	assert.Equal(t, "multi", store.locations["l2"].AccountID)
	assert.NotContains(t, store.accounts, split.AccountID)
	assert.Len(t, store.accounts, 1)
	assert.Len(t, store.locations, 2)
}
