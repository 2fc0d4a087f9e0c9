package reports

import (
	"context"
	"errors"
	"math"
	"time"

	"pos-backend/core/reconcile"
	"pos-backend/core/storage"
	"pos-backend/core/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoReports is returned when no invoice lines match the listing criteria.
var ErrNoReports = errors.New("no reports available")

// ErrPageNotFound is returned when a listing page lies past the last page.
var ErrPageNotFound = errors.New("page not found")

// defaultPageSize is applied when the client does not send maxResult.
const defaultPageSize = 10

// Service handles report listings, invoice header updates and the stock
// moving mutations it delegates to the reconciliation engine.
type Service struct {
	db      *gorm.DB
	engine  *reconcile.Engine
	archive storage.Client
	bucket  string
	logger  *zap.Logger
}

// NewService creates a new reports service. archive may be nil, in which
// case generated PDFs are returned to the caller but not archived.
func NewService(db *gorm.DB, engine *reconcile.Engine, archive storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{db: db, engine: engine, archive: archive, bucket: bucket, logger: logger}
}

// InvoiceHead is the slice of an invoice's first line shown in listings.
type InvoiceHead struct {
	ID            uint            `json:"id"`
	InvoiceNumber int             `json:"invoiceNumber"`
	PaymentMethod string          `json:"paymentMethod"`
	Gst           int             `json:"gst"`
	Spl           decimal.Decimal `json:"spl"`
	Name          string          `json:"name"`
	Date          time.Time       `json:"date"`
}

// InvoiceSummary is one invoice in a grouped listing.
type InvoiceSummary struct {
	InvoiceNumber int         `json:"invoiceNumber"`
	LineCount     int64       `json:"count"`
	FirstLine     InvoiceHead `json:"firstLine"`
}

// InvoiceCount pairs an invoice number with its line count.
type InvoiceCount struct {
	InvoiceNumber int   `json:"invoiceNumber"`
	LineCount     int64 `json:"count"`
}

// ReportPage is one page of a grouped invoice listing. TotalCount counts
// matching lines, not invoices, which is also what TotalPages is derived
// from; the frontends page over it that way.
type ReportPage struct {
	Summaries   []InvoiceSummary
	Counts      []InvoiceCount
	TotalCount  int64
	TotalPages  int
	CurrentPage int
}

// lineScope narrows an invoice_lines query to the listing's criteria.
type lineScope func(*gorm.DB) *gorm.DB

func dateScope(start, end time.Time) lineScope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("date >= ? AND date < ?", start, end)
	}
}

func nameScope(name string) lineScope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("name LIKE ?", "%"+name+"%")
	}
}

// TodayReport lists the invoices billed today.
func (s *Service) TodayReport(ctx context.Context, page, maxResult int) (*ReportPage, error) {
	start, end := utils.DayRange(time.Now())
	return s.summarize(ctx, dateScope(start, end), page, maxResult)
}

// ReportRange lists the invoices billed between start and end, inclusive.
func (s *Service) ReportRange(ctx context.Context, start, end time.Time, page, maxResult int) (*ReportPage, error) {
	return s.summarize(ctx, dateScope(start, end.AddDate(0, 0, 1)), page, maxResult)
}

// ReportByName lists the invoices whose customer name contains name.
func (s *Service) ReportByName(ctx context.Context, name string, page, maxResult int) (*ReportPage, error) {
	return s.summarize(ctx, nameScope(name), page, maxResult)
}

type groupRow struct {
	InvoiceNumber int
	LineCount     int64
	FirstID       uint
}

// summarize groups the matching invoice lines by invoice number and attaches
// each invoice's first line. Grouping happens in the database; pagination
// happens over the grouped result in memory, since a page of invoices does
// not map onto a LIMIT over lines.
func (s *Service) summarize(ctx context.Context, scope lineScope, page, maxResult int) (*ReportPage, error) {
	if maxResult < 1 {
		maxResult = defaultPageSize
	}
	if page < 1 {
		page = 1
	}

	var total int64
	if err := scope(s.db.WithContext(ctx).Model(&reconcile.InvoiceLine{})).
		Count(&total).Error; err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNoReports
	}

	var groups []groupRow
	if err := scope(s.db.WithContext(ctx).Model(&reconcile.InvoiceLine{})).
		Select("invoice_number, COUNT(*) AS line_count, MIN(id) AS first_id").
		Group("invoice_number").
		Order("invoice_number").
		Scan(&groups).Error; err != nil {
		return nil, err
	}

	firstIDs := make([]uint, 0, len(groups))
	for _, g := range groups {
		firstIDs = append(firstIDs, g.FirstID)
	}

	var heads []InvoiceHead
	if err := s.db.WithContext(ctx).Model(&reconcile.InvoiceLine{}).
		Select("id, invoice_number, payment_method, gst, spl, name, date").
		Where("id IN ?", firstIDs).
		Scan(&heads).Error; err != nil {
		return nil, err
	}
	headByID := make(map[uint]InvoiceHead, len(heads))
	for _, h := range heads {
		headByID[h.ID] = h
	}

	summaries := make([]InvoiceSummary, 0, len(groups))
	counts := make([]InvoiceCount, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, InvoiceSummary{
			InvoiceNumber: g.InvoiceNumber,
			LineCount:     g.LineCount,
			FirstLine:     headByID[g.FirstID],
		})
		counts = append(counts, InvoiceCount{InvoiceNumber: g.InvoiceNumber, LineCount: g.LineCount})
	}

	totalPages := int(math.Ceil(float64(total) / float64(maxResult)))
	start := (page - 1) * maxResult
	if page > totalPages || start >= len(summaries) {
		return nil, ErrPageNotFound
	}
	end := start + maxResult
	if end > len(summaries) {
		end = len(summaries)
	}

	return &ReportPage{
		Summaries:   summaries[start:end],
		Counts:      counts,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// InvoiceLines returns every line of one invoice.
func (s *Service) InvoiceLines(ctx context.Context, invoiceNumber int) ([]reconcile.InvoiceLine, error) {
	var lines []reconcile.InvoiceLine
	err := s.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoReports
	}
	return lines, nil
}

// InvoiceDetails holds an invoice's denormalized header fields.
type InvoiceDetails struct {
	Name          string          `json:"name"`
	Area          string          `json:"area"`
	Gst           int             `json:"gst"`
	Spl           decimal.Decimal `json:"spl"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	Category      string          `json:"category"`
}

// GetInvoiceDetails reads the header off the invoice's first line.
func (s *Service) GetInvoiceDetails(ctx context.Context, invoiceNumber int) (*InvoiceDetails, error) {
	var line reconcile.InvoiceLine
	err := s.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		Order("id").
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoReports
	}
	if err != nil {
		return nil, err
	}
	return &InvoiceDetails{
		Name:          line.Name,
		Area:          line.Area,
		Gst:           line.Gst,
		Spl:           line.Spl,
		Date:          line.Date,
		PaymentMethod: line.PaymentMethod,
		Category:      line.Category,
	}, nil
}

// DetailsUpdate carries the optional header fields of an invoice-wide
// update. Nil pointers leave the stored value untouched.
type DetailsUpdate struct {
	Name          *string
	Area          *string
	Gst           *int
	Spl           *decimal.Decimal
	Date          *time.Time
	PaymentMethod *string
}

// UpdateInvoiceDetails writes the supplied header fields onto every line of
// the invoice, keeping the denormalized copies identical.
func (s *Service) UpdateInvoiceDetails(ctx context.Context, invoiceNumber int, update DetailsUpdate) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&reconcile.InvoiceLine{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNoReports
	}

	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Area != nil {
		fields["area"] = *update.Area
	}
	if update.Gst != nil {
		fields["gst"] = *update.Gst
	}
	if update.Spl != nil {
		fields["spl"] = *update.Spl
	}
	if update.Date != nil {
		fields["date"] = *update.Date
	}
	if update.PaymentMethod != nil {
		fields["payment_method"] = *update.PaymentMethod
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&reconcile.InvoiceLine{}).
		Where("invoice_number = ?", invoiceNumber).
		Updates(fields).Error; err != nil {
		return err
	}

	s.logger.Info("Invoice details updated",
		zap.Int("invoiceNumber", invoiceNumber), zap.Int("fields", len(fields)))
	return nil
}

// EditLine resizes one line of an invoice through the engine.
func (s *Service) EditLine(ctx context.Context, invoiceNumber int, lineID uint, addQty, minusQty int, fields reconcile.LineFields) (*reconcile.InvoiceLine, error) {
	return s.engine.EditLine(ctx, invoiceNumber, lineID, addQty, minusQty, fields)
}

// AddLines books additional products against an invoice through the engine.
func (s *Service) AddLines(ctx context.Context, invoiceNumber int, requests []reconcile.LineRequest, patch reconcile.HeaderPatch) (*reconcile.AddResult, error) {
	return s.engine.AddLines(ctx, invoiceNumber, requests, patch)
}

// RemoveLine removes one line of an invoice through the engine.
func (s *Service) RemoveLine(ctx context.Context, invoiceNumber int, lineID uint) (*reconcile.RemoveResult, error) {
	return s.engine.RemoveLine(ctx, invoiceNumber, lineID)
}

// DeleteInvoice deletes a whole invoice through the engine.
func (s *Service) DeleteInvoice(ctx context.Context, invoiceNumber int) error {
	return s.engine.DeleteInvoice(ctx, invoiceNumber)
}

// AvailableProducts lists products not yet on the invoice.
func (s *Service) AvailableProducts(ctx context.Context, invoiceNumber int, search string) ([]reconcile.Product, error) {
	return s.engine.AvailableProducts(ctx, invoiceNumber, search)
}
