package country

import (
	"country-registry/feature/country/store"
	countrysync "country-registry/feature/country/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the country feature. A nil db disables it.
func NewFeature(db *gorm.DB, syncer *countrysync.Syncer, logger *zap.Logger) *Feature {
	f := &Feature{}
	if db == nil {
		return f
	}
	f.service = NewService(store.NewRepository(db), syncer, logger)
	f.handler = NewHandler(f.service)
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "countries"
}

// IsEnabled reports whether a database is available.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
