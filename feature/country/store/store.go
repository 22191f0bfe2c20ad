package store

import (
	"context"
	"errors"

	"country-registry/core/apperrors"
	"country-registry/feature/country/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persisted record boundary of a sync run.
//
// Reads go straight to the database. Writes are only staged by the Persist and
// Remove methods and reach the database with a single Flush, all or nothing.
type Store interface {
	// FindAll returns every persisted country with its currency, ordered by id.
	FindAll(ctx context.Context) ([]*models.Country, error)
	// FindCurrencyBySymbol returns the persisted currency with symbol, or nil.
	FindCurrencyBySymbol(ctx context.Context, symbol string) (*models.Currency, error)
	// PersistCountry stages a new or modified country.
	PersistCountry(country *models.Country)
	// PersistCurrency stages a new currency.
	PersistCurrency(currency *models.Currency)
	// RemoveCountry stages the deletion of a persisted country.
	RemoveCountry(country *models.Country)
	// Flush commits every staged write in one transaction and clears the stage.
	Flush(ctx context.Context) error
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db         *gorm.DB
	currencies []*models.Currency
	countries  []*models.Country
	removed    []*models.Country
	staged     map[*models.Country]struct{}
}

// NewGormStore creates a store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:     db,
		staged: make(map[*models.Country]struct{}),
	}
}

func (s *GormStore) FindAll(ctx context.Context) ([]*models.Country, error) {
	var countries []*models.Country
	if err := s.db.WithContext(ctx).Preload("Currency").Order("id").Find(&countries).Error; err != nil {
		return nil, translate("load countries", err)
	}
	return countries, nil
}

func (s *GormStore) FindCurrencyBySymbol(ctx context.Context, symbol string) (*models.Currency, error) {
	var currency models.Currency
	err := s.db.WithContext(ctx).Where("symbol = ?", symbol).First(&currency).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("load currency "+symbol, err)
	}
	return &currency, nil
}

func (s *GormStore) PersistCountry(country *models.Country) {
	if _, ok := s.staged[country]; ok {
		return
	}
	s.staged[country] = struct{}{}
	s.countries = append(s.countries, country)
}

func (s *GormStore) PersistCurrency(currency *models.Currency) {
	s.currencies = append(s.currencies, currency)
}

func (s *GormStore) RemoveCountry(country *models.Country) {
	s.removed = append(s.removed, country)
}

// Pending reports how many writes are staged.
func (s *GormStore) Pending() int {
	return len(s.currencies) + len(s.countries) + len(s.removed)
}

// Flush writes staged currencies first so that countries can reference them,
// then countries in staging order, then removals.
func (s *GormStore) Flush(ctx context.Context) error {
	defer s.reset()

	if s.Pending() == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, currency := range s.currencies {
			if currency.ID != 0 {
				continue
			}
			if err := tx.Create(currency).Error; err != nil {
				return translate("create currency "+currency.Symbol, err)
			}
		}

		for _, country := range s.countries {
			if country.Currency != nil {
				if country.Currency.ID == 0 {
					if err := tx.Create(country.Currency).Error; err != nil {
						return translate("create currency "+country.Currency.Symbol, err)
					}
				}
				id := country.Currency.ID
				country.CurrencyID = &id
			}
			if err := writeCountry(tx, country); err != nil {
				return translate("save country "+country.Name, err)
			}
		}

		for _, country := range s.removed {
			if err := tx.Delete(&models.Country{}, country.ID).Error; err != nil {
				return translate("delete country "+country.Name, err)
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, apperrors.ErrPersistence) && !errors.Is(err, apperrors.ErrConflict) {
		return translate("commit", err)
	}
	return err
}

func (s *GormStore) reset() {
	s.currencies = nil
	s.countries = nil
	s.removed = nil
	s.staged = make(map[*models.Country]struct{})
}

// writeCountry inserts a new country or overwrites every column of an existing
// one. A NULL attribute is written as NULL. The uuid column is never updated.
func writeCountry(tx *gorm.DB, country *models.Country) error {
	if country.ID == 0 {
		return tx.Omit(clause.Associations).Create(country).Error
	}
	return tx.Model(country).Select("*").Omit(clause.Associations, "id", "uuid").Updates(country).Error
}
