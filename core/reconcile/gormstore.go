package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// txRetries bounds how often a deadlocked transaction is retried before
	// the operation surfaces ErrConflict.
	txRetries = 3
	// retryBackoff is the base delay between retries, multiplied per attempt.
	retryBackoff = 25 * time.Millisecond
)

// GormStore implements Store on top of a gorm MySQL connection. Inside a
// transaction, product reads take a row-level lock (SELECT ... FOR UPDATE)
// so that two operations touching the same product serialize instead of
// losing updates.
type GormStore struct {
	db   *gorm.DB
	inTx bool
}

// NewGormStore creates a Store backed by the given gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// InTx runs fn inside a database transaction, retrying a bounded number of
// times when MySQL reports a deadlock or lock wait timeout.
func (s *GormStore) InTx(ctx context.Context, fn func(Store) error) error {
	var lastErr error
	for attempt := 0; attempt < txRetries; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&GormStore{db: tx, inTx: true})
		})
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
		time.Sleep(time.Duration(attempt+1) * retryBackoff)
	}
	return fmt.Errorf("%w: %v", ErrConflict, lastErr)
}

// retryable reports whether the transaction failed due to a transient lock
// conflict (MySQL 1213 deadlock, 1205 lock wait timeout).
func retryable(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

// ProductByName looks up a product by its unique name. Inside a transaction
// the row is locked for update.
func (s *GormStore) ProductByName(ctx context.Context, name string) (*Product, error) {
	var product Product
	q := s.db.WithContext(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("product_name = ?", name).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductByID looks up a product by primary key.
func (s *GormStore) ProductByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	q := s.db.WithContext(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProductQuantity persists a new stock quantity.
func (s *GormStore) UpdateProductQuantity(ctx context.Context, id uint, quantity int) error {
	return s.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

// CreateLine inserts a new invoice line.
func (s *GormStore) CreateLine(ctx context.Context, line *InvoiceLine) error {
	return s.db.WithContext(ctx).Create(line).Error
}

// LineByID fetches one line by id, scoped to its invoice.
func (s *GormStore) LineByID(ctx context.Context, invoiceNumber int, id uint) (*InvoiceLine, error) {
	var line InvoiceLine
	err := s.db.WithContext(ctx).
		Where("id = ? AND invoice_number = ?", id, invoiceNumber).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// LineByProduct fetches the invoice's line for a product name, if any.
func (s *GormStore) LineByProduct(ctx context.Context, invoiceNumber int, productName string) (*InvoiceLine, error) {
	var line InvoiceLine
	err := s.db.WithContext(ctx).
		Where("invoice_number = ? AND product_name = ?", invoiceNumber, productName).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// LinesByInvoice lists all lines sharing an invoice number, ordered by id.
func (s *GormStore) LinesByInvoice(ctx context.Context, invoiceNumber int) ([]InvoiceLine, error) {
	var lines []InvoiceLine
	err := s.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// UpdateLine applies column updates to a line and returns the updated row.
func (s *GormStore) UpdateLine(ctx context.Context, id uint, fields map[string]any) (*InvoiceLine, error) {
	if err := s.db.WithContext(ctx).
		Model(&InvoiceLine{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	var line InvoiceLine
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// DeleteLine removes a single line.
func (s *GormStore) DeleteLine(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&InvoiceLine{}, id).Error
}

// DeleteInvoiceLines removes every line of an invoice.
func (s *GormStore) DeleteInvoiceLines(ctx context.Context, invoiceNumber int) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		Delete(&InvoiceLine{})
	return result.RowsAffected, result.Error
}

// NextInvoiceNumber allocates max(existing invoice number) + 1. Invoice
// numbers are strictly increasing and never reused. Inside a transaction the
// read locks the current-max row (SELECT ... FOR UPDATE): a non-locking
// MAX() is a consistent read under REPEATABLE READ, so two concurrent
// allocations would both see the same maximum and hand out the same number.
// Locking the row (or, on an empty table, the index gap) forces the second
// allocator to wait or deadlock into the retry path instead.
func (s *GormStore) NextInvoiceNumber(ctx context.Context) (int, error) {
	var current int
	q := s.db.WithContext(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Model(&InvoiceLine{}).
		Select("invoice_number").
		Order("invoice_number DESC").
		Limit(1).
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

// ProductsNotOnInvoice lists products whose name is not among the invoice's
// lines and contains search, case-insensitively.
func (s *GormStore) ProductsNotOnInvoice(ctx context.Context, invoiceNumber int, search string) ([]Product, error) {
	onInvoice := s.db.Model(&InvoiceLine{}).
		Select("product_name").
		Where("invoice_number = ?", invoiceNumber)

	var products []Product
	err := s.db.WithContext(ctx).
		Where("product_name NOT IN (?)", onInvoice).
		Where("LOWER(product_name) LIKE ?", "%"+strings.ToLower(search)+"%").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
