package sync

import (
	"context"
	"fmt"

	"country-registry/feature/country/models"
	"country-registry/feature/country/store"
)

// CurrencyResolver finds or creates currencies by symbol for one sync run.
//
// Currencies created earlier in the same run are not in the database yet, so
// the resolver keeps them in an identity map and hands out the same instance
// to every country that shares the symbol.
type CurrencyResolver struct {
	store store.Store
	seen  map[string]*models.Currency
}

// NewCurrencyResolver creates a resolver staging new currencies on s.
func NewCurrencyResolver(s store.Store) *CurrencyResolver {
	return &CurrencyResolver{store: s, seen: make(map[string]*models.Currency)}
}

// FindOrCreate returns the currency with symbol. A currency that already
// exists keeps its name; name is only used when the currency is created.
func (r *CurrencyResolver) FindOrCreate(ctx context.Context, symbol, name string) (*models.Currency, error) {
	if currency, ok := r.seen[symbol]; ok {
		return currency, nil
	}

	currency, err := r.store.FindCurrencyBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve currency %s: %w", symbol, err)
	}
	if currency == nil {
		currency = &models.Currency{Symbol: symbol, Name: name}
		r.store.PersistCurrency(currency)
	}

	r.seen[symbol] = currency
	return currency, nil
}
