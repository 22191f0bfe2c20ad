package country

import (
	"context"

	"country-registry/feature/country/models"
	"country-registry/feature/country/store"
	countrysync "country-registry/feature/country/sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 250
	maxListLimit     = 500
)

// Service implements the country API on top of the repository and the syncer.
type Service struct {
	repo     *store.Repository
	syncer   *countrysync.Syncer
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new country service. syncer may be nil, in which case
// Sync is unavailable.
func NewService(repo *store.Repository, syncer *countrysync.Syncer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		syncer:   syncer,
		validate: newValidator(),
		logger:   logger,
	}
}

// List returns a page of countries. Out of range paging falls back to the defaults.
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Country, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Country, error) {
	return s.repo.Get(ctx, id)
}

// Create validates req and stores a new country with a fresh UUID.
func (s *Service) Create(ctx context.Context, req CreateCountryRequest) (*models.Country, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	country := req.ToModel()
	if err := s.repo.Save(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

// Update applies the supplied fields of req to the country with id.
func (s *Service) Update(ctx context.Context, id uint, req UpdateCountryRequest) (*models.Country, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	country, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(country)
	if err := s.repo.Save(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Sync runs one synchronization with the external snapshot.
func (s *Service) Sync(ctx context.Context, dryRun bool) (*countrysync.Result, error) {
	if s.syncer == nil {
		return nil, errSyncUnavailable
	}
	return s.syncer.RunSync(ctx, countrysync.RunOptions{DryRun: dryRun})
}
