package billing

import (
	"context"

	"pos-backend/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles bill creation and the billing screen's product lookup.
type Service struct {
	db     *gorm.DB
	engine *reconcile.Engine
	logger *zap.Logger
}

// NewService creates a new billing service.
func NewService(db *gorm.DB, engine *reconcile.Engine, logger *zap.Logger) *Service {
	return &Service{db: db, engine: engine, logger: logger}
}

// CreateBill allocates a new invoice number and books the requested products
// against it. The invoice number is consumed even when every line fails, so
// the caller can always report it.
func (s *Service) CreateBill(ctx context.Context, header reconcile.Header, lines []reconcile.LineRequest) (*reconcile.CreateResult, error) {
	result, err := s.engine.CreateInvoice(ctx, header, lines)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bill created",
		zap.Int("invoiceNumber", result.InvoiceNumber),
		zap.Int("lines", len(result.Lines)),
		zap.Int("lineErrors", len(result.Errors)))
	return result, nil
}

// FindProducts lists products whose name contains question, for the picker.
func (s *Service) FindProducts(ctx context.Context, question string) ([]reconcile.Product, error) {
	var products []reconcile.Product
	err := s.db.WithContext(ctx).
		Where("product_name LIKE ?", "%"+question+"%").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
