package inventory

import (
	"context"
	"errors"
	"math"

	"pos-backend/core/reconcile"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDuplicateProduct is returned when a product with the same name exists.
var ErrDuplicateProduct = errors.New("product already exists")

// ErrProductNotFound is returned when the referenced product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrPageNotFound is returned when a listing page lies past the last page.
var ErrPageNotFound = errors.New("page not found")

// defaultPageSize is applied when the client does not send maxResult.
const defaultPageSize = 8

// Service handles product catalog queries and mutations.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new inventory service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// ProductInput carries the fields of a new product.
type ProductInput struct {
	ProductName string
	Quantity    int
	Mrp         decimal.Decimal
	Discount    decimal.Decimal
	AddMargin   decimal.Decimal
	NetRate     decimal.Decimal
	Category    string
}

// ProductUpdate carries the optional fields of a partial product edit.
// Nil pointers leave the stored value untouched.
type ProductUpdate struct {
	ProductName *string
	Quantity    *int
	Mrp         *decimal.Decimal
	Discount    *decimal.Decimal
	AddMargin   *decimal.Decimal
	NetRate     *decimal.Decimal
	Category    *string
}

// ProductPage is one page of a paginated product listing.
type ProductPage struct {
	Products    []reconcile.Product
	TotalCount  int64
	TotalPages  int
	CurrentPage int
}

// AddProduct registers a new product. The product name is the natural key,
// so an existing product with the same name is rejected.
func (s *Service) AddProduct(ctx context.Context, in ProductInput) (*reconcile.Product, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&reconcile.Product{}).
		Where("product_name = ?", in.ProductName).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateProduct
	}

	product := reconcile.Product{
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		Mrp:         in.Mrp,
		Discount:    in.Discount,
		AddMargin:   in.AddMargin,
		NetRate:     in.NetRate,
		Category:    in.Category,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}

	s.logger.Info("Product added",
		zap.String("productName", product.ProductName),
		zap.Int("quantity", product.Quantity))
	return &product, nil
}

// ListProducts returns one page of the catalog, optionally filtered by a
// name-contains match. Requesting a page past the last one is an error so
// the client can stop paging.
func (s *Service) ListProducts(ctx context.Context, nameFilter string, page, maxResult int) (*ProductPage, error) {
	if maxResult < 1 {
		maxResult = defaultPageSize
	}
	if page < 1 {
		page = 1
	}

	query := s.db.WithContext(ctx).Model(&reconcile.Product{})
	if nameFilter != "" {
		query = query.Where("product_name LIKE ?", "%"+nameFilter+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(maxResult)))
	if page > totalPages {
		return nil, ErrPageNotFound
	}

	var products []reconcile.Product
	if err := query.Limit(maxResult).Offset((page - 1) * maxResult).
		Find(&products).Error; err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:    products,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// SearchProducts lists every product whose name contains question. An empty
// question matches the whole catalog.
func (s *Service) SearchProducts(ctx context.Context, question string) ([]reconcile.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&reconcile.Product{})
	if question != "" {
		query = query.Where("product_name LIKE ?", "%"+question+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []reconcile.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// EditProduct applies a partial update to a product and returns the new row.
func (s *Service) EditProduct(ctx context.Context, id uint, update ProductUpdate) (*reconcile.Product, error) {
	var existing reconcile.Product
	err := s.db.WithContext(ctx).First(&existing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if update.ProductName != nil {
		fields["product_name"] = *update.ProductName
	}
	if update.Quantity != nil {
		fields["quantity"] = *update.Quantity
	}
	if update.Mrp != nil {
		fields["mrp"] = *update.Mrp
	}
	if update.Discount != nil {
		fields["discount"] = *update.Discount
	}
	if update.AddMargin != nil {
		fields["add_margin"] = *update.AddMargin
	}
	if update.NetRate != nil {
		fields["net_rate"] = *update.NetRate
	}
	if update.Category != nil {
		fields["category"] = *update.Category
	}

	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&existing).Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	s.logger.Info("Product updated", zap.Uint("id", id))
	return &existing, nil
}

// DeleteProduct removes a product from the catalog. Invoice lines that
// reference it keep their snapshot; removing their stock becomes impossible
// until the product is recreated.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	var existing reconcile.Product
	err := s.db.WithContext(ctx).First(&existing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&reconcile.Product{}, id).Error; err != nil {
		return err
	}

	s.logger.Info("Product deleted",
		zap.Uint("id", id), zap.String("productName", existing.ProductName))
	return nil
}
