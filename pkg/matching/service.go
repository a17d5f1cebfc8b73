package matching

import (
	"context"
	"net/http"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/normalize"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/tracing"
	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
)

// ProfileStore loads the account population the grouper runs over
type ProfileStore interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
}

// Service builds matching profiles from the account store and runs the grouper
type Service struct {
	store   ProfileStore
	grouper *Grouper
	logger  ectologger.Logger
}

func NewService(store ProfileStore, grouper *Grouper, logger ectologger.Logger) *Service {
	return &Service{
		store:   store,
		grouper: grouper,
		logger:  logger,
	}
}

// FindDuplicates loads every account with its resolved locations and returns
// duplicate clusters for the requested mode
func (s *Service) FindDuplicates(ctx context.Context, mode string) (*models.DuplicateClusterListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.FindDuplicates")
	defer span.End()

	if mode == "" {
		mode = models.MatchModeBoth
	}
	if mode != models.MatchModeName && mode != models.MatchModeAddress && mode != models.MatchModeBoth {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid mode '%s'", mode)
	}

	profiles, err := s.loadProfiles(ctx)
	if err != nil {
		return nil, err
	}

	clusters := s.grouper.Group(profiles, mode)
	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"mode":     mode,
		"profiles": len(profiles),
		"clusters": len(clusters),
	}).Info("Computed duplicate candidates")

	return &models.DuplicateClusterListResponse{
		Items:      clusters,
		TotalCount: len(clusters),
		Mode:       mode,
	}, nil
}

func (s *Service) loadProfiles(ctx context.Context) ([]Profile, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.loadProfiles")
	defer span.End()

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to list accounts")
		return nil, err
	}

	locations, err := s.store.ListLocations(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to list locations")
		return nil, err
	}

	locationsByAccount := make(map[string][]models.Location)
	for _, loc := range locations {
		locationsByAccount[loc.AccountID] = append(locationsByAccount[loc.AccountID], loc)
	}

	profiles := make([]Profile, 0, len(accounts))
	for _, account := range accounts {
		resolved := models.ResolveLocations(account, locationsByAccount[account.ID])

		profile := Profile{
			AccountID:      account.ID,
			AccountName:    account.Name,
			AccountType:    account.AccountType,
			NormalizedName: normalize.Name(account.Name),
		}

		for _, loc := range resolved {
			key := normalize.Address(normalize.AddressParts{
				Line1: deref(loc.AddressLine1),
				City:  deref(loc.City),
				State: deref(loc.State),
				Zip:   deref(loc.Zip),
			})
			profile.AddressKeys = append(profile.AddressKeys, key)
		}

		// first resolved location provides the display summary
		first := resolved[0]
		profile.Address = deref(first.AddressLine1)
		profile.City = deref(first.City)
		profile.State = deref(first.State)

		profiles = append(profiles, profile)
	}

	return profiles, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
