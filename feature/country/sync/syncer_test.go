package sync_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"country-registry/core/apperrors"
	"country-registry/core/metrics"
	"country-registry/core/storage/mocks"
	"country-registry/feature/country/models"
	"country-registry/feature/country/store"
	"country-registry/feature/country/store/storetest"
	countrysync "country-registry/feature/country/sync"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// staticFetcher serves a fixed snapshot body.
type staticFetcher struct {
	body  string
	err   error
	calls int
}

func (f *staticFetcher) FetchSnapshot(ctx context.Context) (*countrysync.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	countries, err := countrysync.ParseSnapshot([]byte(f.body))
	if err != nil {
		return nil, err
	}
	return &countrysync.Snapshot{Countries: countries, Body: []byte(f.body), Source: "test"}, nil
}

// record renders one snapshot object. An empty currency code omits currencies.
func record(name, region, code, currencyName string) string {
	out := fmt.Sprintf(`{"name": {"common": %q}, "region": %q, "population": 1000, "independent": true, "flags": {"png": "https://flagcdn.com/%s.png"}`,
		name, region, strings.ToLower(name))
	if code != "" {
		out += fmt.Sprintf(`, "currencies": {%q: {"name": %q}}`, code, currencyName)
	}
	return out + "}"
}

func snapshot(records ...string) string {
	return "[" + strings.Join(records, ",") + "]"
}

func newSyncer(db *gorm.DB, fetcher countrysync.Fetcher, opts ...countrysync.Option) *countrysync.Syncer {
	return countrysync.NewSyncer(fetcher, countrysync.GormStores(db), opts...)
}

func countryNames(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var names []string
	require.NoError(t, db.Model(&models.Country{}).Pluck("name", &names).Error)
	sort.Strings(names)
	return names
}

func loadCountry(t *testing.T, db *gorm.DB, name string) models.Country {
	t.Helper()
	var country models.Country
	require.NoError(t, db.Preload("Currency").Where("name = ?", name).First(&country).Error)
	return country
}

func TestRunSync_CreatesEveryCountry(t *testing.T) {
	db := storetest.NewDB(t)
	fetcher := &staticFetcher{body: snapshot(
		record("Laos", "Asia", "LAK", "Lao kip"),
		record("Chad", "Africa", "XAF", "Central African CFA franc"),
		record("Cameroon", "Africa", "XAF", "Central African CFA franc"),
	)}

	result, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Deleted)
	assert.Equal(t, 3, result.Total)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"Cameroon", "Chad", "Laos"}, countryNames(t, db))

	chad := loadCountry(t, db, "Chad")
	assert.NotEmpty(t, chad.UUID)
	assert.Equal(t, "Africa", *chad.Region)
	assert.EqualValues(t, 1000, *chad.Population)
	assert.True(t, *chad.Independent)
	assert.Equal(t, "https://flagcdn.com/chad.png", *chad.Flag)
	require.NotNil(t, chad.Currency)
	assert.Equal(t, "XAF", chad.Currency.Symbol)
}

func TestRunSync_IsIdempotent(t *testing.T) {
	db := storetest.NewDB(t)
	body := snapshot(
		record("Laos", "Asia", "LAK", "Lao kip"),
		record("Peru", "Americas", "PEN", "Peruvian sol"),
	)
	syncer := newSyncer(db, &staticFetcher{body: body})

	_, err := syncer.RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)
	firstUUID := loadCountry(t, db, "Laos").UUID

	result, err := syncer.RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Updated, "unchanged records are still rewritten")
	assert.Equal(t, 0, result.Deleted)
	assert.Equal(t, []string{"Laos", "Peru"}, countryNames(t, db))
	assert.Equal(t, firstUUID, loadCountry(t, db, "Laos").UUID)

	var currencies int64
	require.NoError(t, db.Model(&models.Currency{}).Count(&currencies).Error)
	assert.EqualValues(t, 2, currencies)
}

func TestRunSync_RenameIsDeleteAndCreate(t *testing.T) {
	db := storetest.NewDB(t)
	old := storetest.SeedCountry(t, db, models.Country{Name: "Czech Republic", Region: models.StringPtr("Europe")})
	storetest.SeedCountry(t, db, models.Country{Name: "Laos"})

	fetcher := &staticFetcher{body: snapshot(
		record("Czechia", "Europe", "CZK", "Czech koruna"),
		record("Laos", "Asia", "", ""),
	)}
	result, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, []string{"Czechia", "Laos"}, countryNames(t, db))
	assert.NotEqual(t, old.UUID, loadCountry(t, db, "Czechia").UUID, "renamed country is a new record")
}

func TestRunSync_OverwritesEveryAttribute(t *testing.T) {
	db := storetest.NewDB(t)
	seeded := storetest.SeedCountry(t, db, models.Country{
		Name:       "Laos",
		Region:     models.StringPtr("Europe"),
		SubRegion:  models.StringPtr("Nowhere"),
		Population: models.Int64Ptr(1),
	})

	fetcher := &staticFetcher{body: "[" + laosJSON + "]"}
	_, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	laos := loadCountry(t, db, "Laos")
	assert.Equal(t, seeded.ID, laos.ID)
	assert.Equal(t, seeded.UUID, laos.UUID)
	assert.Equal(t, "Asia", *laos.Region)
	assert.Equal(t, "South-Eastern Asia", *laos.SubRegion)
	assert.Equal(t, "Laotian", *laos.Demonym)
	assert.EqualValues(t, 7275556, *laos.Population)
	require.NotNil(t, laos.Currency)
	assert.Equal(t, "LAK", laos.Currency.Symbol)

	// Attributes the snapshot drops are cleared.
	fetcher.body = `[{"name": {"common": "Laos"}}]`
	_, err = newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	laos = loadCountry(t, db, "Laos")
	assert.Nil(t, laos.Region)
	assert.Nil(t, laos.Population)
	assert.Nil(t, laos.Flag)
	require.NotNil(t, laos.Currency, "a record without currencies keeps the current one")
	assert.Equal(t, "LAK", laos.Currency.Symbol)
}

func TestRunSync_SharedCurrencyIsCreatedOnce(t *testing.T) {
	db := storetest.NewDB(t)
	fetcher := &staticFetcher{body: snapshot(
		record("Ecuador", "Americas", "USD", "United States dollar"),
		record("El Salvador", "Americas", "USD", "United States dollar"),
		record("United States", "Americas", "USD", "United States dollar"),
	)}

	_, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	var currencies []models.Currency
	require.NoError(t, db.Find(&currencies).Error)
	require.Len(t, currencies, 1)
	assert.Equal(t, "USD", currencies[0].Symbol)

	for _, name := range []string{"Ecuador", "El Salvador", "United States"} {
		country := loadCountry(t, db, name)
		require.NotNil(t, country.CurrencyID, name)
		assert.Equal(t, currencies[0].ID, *country.CurrencyID, name)
	}
}

func TestRunSync_ExistingCurrencyKeepsItsName(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.SeedCountry(t, db, models.Country{Name: "Ecuador", Currency: &models.Currency{Symbol: "USD", Name: "Dollar"}})

	fetcher := &staticFetcher{body: snapshot(
		record("Ecuador", "Americas", "USD", "United States dollar"),
		record("Panama", "Americas", "USD", "US dollar"),
	)}
	_, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	var currencies []models.Currency
	require.NoError(t, db.Find(&currencies).Error)
	require.Len(t, currencies, 1)
	assert.Equal(t, "Dollar", currencies[0].Name)
}

func TestRunSync_CurrenciesAreNeverDeleted(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.SeedCountry(t, db, models.Country{Name: "Zimbabwe", Currency: &models.Currency{Symbol: "ZWL", Name: "Zimbabwean dollar"}})

	fetcher := &staticFetcher{body: snapshot(record("Laos", "Asia", "LAK", "Lao kip"))}
	result, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	var symbols []string
	require.NoError(t, db.Model(&models.Currency{}).Order("symbol").Pluck("symbol", &symbols).Error)
	assert.Equal(t, []string{"LAK", "ZWL"}, symbols)
}

func TestRunSync_MalformedAndDuplicateRecordsAreSkipped(t *testing.T) {
	db := storetest.NewDB(t)
	fetcher := &staticFetcher{body: snapshot(
		record("Laos", "Asia", "", ""),
		`{"region": "Nowhere"}`,
		record("Laos", "Europe", "", ""),
		record("Peru", "Americas", "", ""),
	)}

	result, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, 1, result.Warnings[0].Index)
	assert.Equal(t, "Laos", result.Warnings[1].Key)
	assert.Equal(t, "Asia", *loadCountry(t, db, "Laos").Region, "first occurrence wins")
}

func TestRunSync_DuplicateStoredNamesCollapse(t *testing.T) {
	db := storetest.NewDB(t)
	first := storetest.SeedCountry(t, db, models.Country{Name: "Laos"})
	storetest.SeedCountry(t, db, models.Country{Name: "Laos"})

	fetcher := &staticFetcher{body: snapshot(record("Laos", "Asia", "", ""))}
	result, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, []string{"Laos"}, countryNames(t, db))
	assert.Equal(t, first.ID, loadCountry(t, db, "Laos").ID)
}

func TestRunSync_DryRunWritesNothing(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.SeedCountry(t, db, models.Country{Name: "Czech Republic"})

	fetcher := &staticFetcher{body: snapshot(record("Czechia", "Europe", "CZK", "Czech koruna"))}
	result, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, []string{"Czech Republic"}, countryNames(t, db))

	var currencies int64
	require.NoError(t, db.Model(&models.Currency{}).Count(&currencies).Error)
	assert.Zero(t, currencies)
}

func TestRunSync_FetchErrorLeavesStoreUntouched(t *testing.T) {
	fetchErr := fmt.Errorf("%w: unexpected status 503", apperrors.ErrFetch)
	opened := 0
	stores := func() store.Store {
		opened++
		return nil
	}

	syncer := countrysync.NewSyncer(&staticFetcher{err: fetchErr}, stores)
	result, err := syncer.RunSync(context.Background(), countrysync.RunOptions{})

	assert.ErrorIs(t, err, apperrors.ErrFetch)
	assert.Nil(t, result)
	assert.Zero(t, opened, "store is never opened when the fetch fails")
}

func TestRunSync_CommitFailureIsPersistenceError(t *testing.T) {
	db, sqlMock := storetest.NewMockDB(t)
	sqlMock.ExpectQuery("SELECT \\* FROM `country`").WillReturnRows(sqlmock.NewRows([]string{"id", "uuid", "name"}))
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `country`").WillReturnError(errors.New("lock wait timeout"))
	sqlMock.ExpectRollback()

	fetcher := &staticFetcher{body: snapshot(record("Laos", "Asia", "", ""))}
	result, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})

	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Nil(t, result)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRunSync_LoadFailureIsPersistenceError(t *testing.T) {
	db, sqlMock := storetest.NewMockDB(t)
	sqlMock.ExpectQuery("SELECT \\* FROM `country`").WillReturnError(errors.New("connection refused"))

	fetcher := &staticFetcher{body: snapshot(record("Laos", "Asia", "", ""))}
	_, err := newSyncer(db, fetcher).RunSync(context.Background(), countrysync.RunOptions{})

	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRunSync_RecordsMetrics(t *testing.T) {
	db := storetest.NewDB(t)
	m := metrics.New(prometheus.NewRegistry())
	fetcher := &staticFetcher{body: snapshot(record("Laos", "Asia", "", ""), record("Peru", "Americas", "", ""))}
	syncer := newSyncer(db, fetcher, countrysync.WithMetrics(m))

	_, err := syncer.RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	fetcher.err = fmt.Errorf("%w: boom", apperrors.ErrFetch)
	_, err = syncer.RunSync(context.Background(), countrysync.RunOptions{})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(metrics.OutcomeFailure)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Records.WithLabelValues("created")))
}

func TestRunSync_ArchivesSnapshot(t *testing.T) {
	db := storetest.NewDB(t)
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	fetcher := &staticFetcher{body: snapshot(record("Laos", "Asia", "", ""))}
	archiver := countrysync.NewArchiver(client, "bucket", "snapshots/countries")
	_, err := newSyncer(db, fetcher, countrysync.WithArchiver(archiver)).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)

	client.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestRunSync_ArchiveFailureIsNotFatal(t *testing.T) {
	db := storetest.NewDB(t)
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket unreachable"))

	fetcher := &staticFetcher{body: snapshot(record("Laos", "Asia", "", ""))}
	archiver := countrysync.NewArchiver(client, "bucket", "snapshots/countries")
	result, err := newSyncer(db, fetcher, countrysync.WithArchiver(archiver)).RunSync(context.Background(), countrysync.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}
