package sync

import (
	"context"
	"fmt"

	"country-registry/core/reconcile"
	"country-registry/feature/country/models"
	"country-registry/feature/country/store"
)

// CountryAdapter reconciles snapshot records (RawCountry) against persisted
// countries (*models.Country) keyed by common name. Writes are staged on the
// store and committed by Flush.
type CountryAdapter struct {
	store      store.Store
	currencies *CurrencyResolver
}

// NewCountryAdapter creates an adapter staging its writes on s.
func NewCountryAdapter(s store.Store) *CountryAdapter {
	return &CountryAdapter{store: s, currencies: NewCurrencyResolver(s)}
}

func (a *CountryAdapter) Name() string {
	return "country"
}

func (a *CountryAdapter) ExtractSourceKey(item reconcile.SourceItem) (string, error) {
	raw, ok := item.(RawCountry)
	if !ok {
		return "", fmt.Errorf("unexpected snapshot item %T", item)
	}
	return raw.Name()
}

func (a *CountryAdapter) ExtractStoreKey(item reconcile.StoreItem) string {
	return item.(*models.Country).Name
}

func (a *CountryAdapter) Create(ctx context.Context, key string, src reconcile.SourceItem) error {
	country := &models.Country{Name: key}
	if err := a.populate(ctx, country, src.(RawCountry)); err != nil {
		return err
	}
	a.store.PersistCountry(country)
	return nil
}

// Update overwrites every attribute of stored from the snapshot, even when
// nothing changed. Identity (id, uuid, name) is kept.
func (a *CountryAdapter) Update(ctx context.Context, key string, stored reconcile.StoreItem, src reconcile.SourceItem) error {
	country := stored.(*models.Country)
	if err := a.populate(ctx, country, src.(RawCountry)); err != nil {
		return err
	}
	a.store.PersistCountry(country)
	return nil
}

func (a *CountryAdapter) Delete(ctx context.Context, key string, stored reconcile.StoreItem) error {
	a.store.RemoveCountry(stored.(*models.Country))
	return nil
}

func (a *CountryAdapter) Flush(ctx context.Context) error {
	return a.store.Flush(ctx)
}

// populate copies the snapshot attributes onto country. Missing attributes
// become NULL. A record without currencies leaves the current reference as is.
func (a *CountryAdapter) populate(ctx context.Context, country *models.Country, raw RawCountry) error {
	country.Region = raw.Region()
	country.SubRegion = raw.SubRegion()
	country.Demonym = raw.Demonym()
	country.Population = raw.Population()
	country.Independent = raw.Independent()
	country.Flag = raw.Flag()

	info, ok := raw.FirstCurrency()
	if !ok {
		return nil
	}
	currency, err := a.currencies.FindOrCreate(ctx, info.Code, info.Name)
	if err != nil {
		return err
	}
	country.Currency = currency
	if currency.ID != 0 {
		id := currency.ID
		country.CurrencyID = &id
	}
	return nil
}
