// Package storetest provides database fixtures for country tests.
package storetest

import (
	"testing"

	"country-registry/core/database"
	"country-registry/feature/country/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory sqlite database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Currency{}, &models.Country{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewMockDB opens a gorm mysql session over go-sqlmock.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return db, mock
}

// SeedCountry inserts a country, with its currency when set, and returns it.
func SeedCountry(t *testing.T, db *gorm.DB, country models.Country) *models.Country {
	t.Helper()

	if country.Currency != nil {
		require.NoError(t, db.Create(country.Currency).Error)
		id := country.Currency.ID
		country.CurrencyID = &id
	}
	require.NoError(t, db.Omit("Currency").Create(&country).Error)
	return &country
}
