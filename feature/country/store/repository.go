package store

import (
	"context"
	"errors"
	"fmt"

	"country-registry/core/apperrors"
	"country-registry/feature/country/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides direct, immediately committed country access for the API.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository backed by db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns a page of countries with their currency, ordered by id.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Country, error) {
	var countries []models.Country
	err := r.db.WithContext(ctx).
		Preload("Currency").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&countries).Error
	if err != nil {
		return nil, translate("list countries", err)
	}
	return countries, nil
}

// Get returns the country with id or apperrors.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id uint) (*models.Country, error) {
	var country models.Country
	err := r.db.WithContext(ctx).Preload("Currency").First(&country, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("country %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, translate("get country", err)
	}
	return &country, nil
}

// Save inserts or overwrites country. A currency attached by symbol is resolved
// through find-or-create inside the same transaction.
func (r *Repository) Save(ctx context.Context, country *models.Country) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if country.Currency != nil {
			currency, err := findOrCreateCurrency(tx, country.Currency.Symbol, country.Currency.Name)
			if err != nil {
				return err
			}
			country.Currency = currency
			country.CurrencyID = &currency.ID
		}
		return writeCountry(tx, country)
	})
	if err != nil {
		return translate("save country "+country.Name, err)
	}
	return nil
}

// Delete removes the country with id or returns apperrors.ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Country{}, id)
	if result.Error != nil {
		return translate("delete country", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("country %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// findOrCreateCurrency returns the currency with symbol, creating it with name
// when absent. An existing currency keeps its name.
func findOrCreateCurrency(tx *gorm.DB, symbol, name string) (*models.Currency, error) {
	var currency models.Currency
	err := tx.Where("symbol = ?", symbol).First(&currency).Error
	if err == nil {
		return &currency, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	currency = models.Currency{Symbol: symbol, Name: name}
	if err := tx.Omit(clause.Associations).Create(&currency).Error; err != nil {
		return nil, err
	}
	return &currency, nil
}
