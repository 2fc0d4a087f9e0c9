package reports

import (
	"pos-backend/core/reconcile"
	"pos-backend/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Reports feature. archive may be nil when the
// invoice archive is disabled.
func NewFeature(db *gorm.DB, engine *reconcile.Engine, archive storage.Client, bucket string, logger *zap.Logger) *Feature {
	svc := NewService(db, engine, archive, bucket, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "reports"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
