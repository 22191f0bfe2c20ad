package store_test

import (
	"context"
	"testing"

	"country-registry/core/apperrors"
	"country-registry/feature/country/models"
	"country-registry/feature/country/store"
	"country-registry/feature/country/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_SaveFindsOrCreatesCurrency(t *testing.T) {
	db := storetest.NewDB(t)
	repo := store.NewRepository(db)
	ctx := context.Background()

	ecuador := &models.Country{Name: "Ecuador", Currency: &models.Currency{Symbol: "USD", Name: "United States dollar"}}
	require.NoError(t, repo.Save(ctx, ecuador))
	assert.NotZero(t, ecuador.ID)
	assert.NotEmpty(t, ecuador.UUID)

	salvador := &models.Country{Name: "El Salvador", Currency: &models.Currency{Symbol: "USD", Name: "Dollar"}}
	require.NoError(t, repo.Save(ctx, salvador))

	assert.Equal(t, ecuador.Currency.ID, salvador.Currency.ID)
	assert.Equal(t, "United States dollar", salvador.Currency.Name, "existing currency keeps its name")
}

func TestRepository_GetListDelete(t *testing.T) {
	db := storetest.NewDB(t)
	repo := store.NewRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Chad", "Laos", "Peru"} {
		require.NoError(t, repo.Save(ctx, &models.Country{Name: name}))
	}

	page, err := repo.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Laos", page[0].Name)
	assert.Equal(t, "Peru", page[1].Name)

	got, err := repo.Get(ctx, page[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Laos", got.Name)

	require.NoError(t, repo.Delete(ctx, got.ID))

	_, err = repo.Get(ctx, got.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, got.ID), apperrors.ErrNotFound)
}
