package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"pos-backend/core/reconcile"
	"pos-backend/core/utils"

	"github.com/jung-kurt/gofpdf"
	"github.com/minio/minio-go/v7"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesPDF renders the invoices billed between start and end (inclusive)
// into a PDF and, when the archive is enabled, uploads it under
// invoices/<start>_<end>.pdf. The rendered bytes and the object name are
// returned either way; a failed upload is logged, not fatal.
func (s *Service) SalesPDF(ctx context.Context, start, end time.Time) ([]byte, string, error) {
	var lines []reconcile.InvoiceLine
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end.AddDate(0, 0, 1)).
		Order("invoice_number, id").
		Find(&lines).Error
	if err != nil {
		return nil, "", err
	}
	if len(lines) == 0 {
		return nil, "", ErrNoReports
	}

	data, err := renderSalesPDF(start, end, lines)
	if err != nil {
		return nil, "", err
	}

	objectName := fmt.Sprintf("invoices/%s_%s.pdf", utils.FormatDate(start), utils.FormatDate(end))
	if s.archive != nil {
		s.archivePDF(ctx, objectName, data)
	}
	return data, objectName, nil
}

func (s *Service) archivePDF(ctx context.Context, objectName string, data []byte) {
	exists, err := s.archive.BucketExists(ctx, s.bucket)
	if err == nil && !exists {
		err = s.archive.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	if err == nil {
		_, err = s.archive.PutObject(ctx, s.bucket, objectName,
			bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: "application/pdf"})
	}
	if err != nil {
		s.logger.Warn("Failed to archive sales PDF",
			zap.String("object", objectName), zap.Error(err))
		return
	}
	s.logger.Info("Sales PDF archived",
		zap.String("bucket", s.bucket), zap.String("object", objectName))
}

func renderSalesPDF(start, end time.Time, lines []reconcile.InvoiceLine) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Sales Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Period: %s to %s", utils.FormatDate(start), utils.FormatDate(end)),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	grandTotal := decimal.Zero
	currentInvoice := -1
	for _, line := range lines {
		if line.InvoiceNumber != currentInvoice {
			currentInvoice = line.InvoiceNumber

			pdf.Ln(2)
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 7,
				fmt.Sprintf("Invoice #%d  %s  %s  %s",
					line.InvoiceNumber, line.Name, utils.FormatDate(line.Date), line.PaymentMethod),
				"B", 1, "L", false, 0, "")

			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(80, 6, "Product", "", 0, "L", false, 0, "")
			pdf.CellFormat(20, 6, "Qty", "", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, "Rate", "", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, "Amount", "", 1, "R", false, 0, "")
		}

		amount := line.NetRate.Mul(decimal.NewFromInt(int64(line.Quantity)))
		grandTotal = grandTotal.Add(amount)

		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(80, 6, line.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", line.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, line.NetRate.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, grandTotal.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render sales pdf: %w", err)
	}
	return buf.Bytes(), nil
}
