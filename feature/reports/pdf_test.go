package reports

import (
	"context"
	"testing"
	"time"

	"pos-backend/core/reconcile"
	"pos-backend/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderSalesPDF(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	lines := []reconcile.InvoiceLine{
		{ID: 11, InvoiceNumber: 7, ProductName: "Washing Soap", Quantity: 2,
			NetRate: decimal.NewFromInt(20), Name: "Ravi", Date: date, PaymentMethod: "CASH"},
		{ID: 12, InvoiceNumber: 7, ProductName: "Detergent", Quantity: 1,
			NetRate: decimal.NewFromInt(64), Name: "Ravi", Date: date, PaymentMethod: "CASH"},
		{ID: 13, InvoiceNumber: 8, ProductName: "Toothpaste", Quantity: 3,
			NetRate: decimal.NewFromInt(45), Name: "Kumar", Date: date, PaymentMethod: "UPI"},
	}

	data, err := renderSalesPDF(date, date, lines)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestSalesPDF(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.Local)

	t.Run("Archives When Enabled", func(t *testing.T) {
		db, dbMock := setupMockDB(t)
		archive := &mocks.Client{}
		engine := reconcile.NewEngine(reconcile.NewGormStore(db), zap.NewNop())
		svc := NewService(db, engine, archive, "invoices", zap.NewNop())

		dbMock.ExpectQuery("SELECT \\* FROM `invoice_lines` WHERE date >= \\? AND date < \\?").
			WillReturnRows(sqlmock.NewRows(lineColumns()).
				AddRow(lineRow(11, 7, "Washing Soap", 2, "Ravi", start)...))

		archive.On("BucketExists", mock.Anything, "invoices").Return(true, nil)
		archive.On("PutObject", mock.Anything, "invoices", "invoices/01-03-2026_31-03-2026.pdf",
			mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)

		data, objectName, err := svc.SalesPDF(context.Background(), start, end)
		require.NoError(t, err)
		assert.Equal(t, "invoices/01-03-2026_31-03-2026.pdf", objectName)
		assert.Equal(t, "%PDF", string(data[:4]))
		archive.AssertExpectations(t)
	})

	t.Run("Skips Archive When Disabled", func(t *testing.T) {
		svc, dbMock := setupService(t)

		dbMock.ExpectQuery("SELECT \\* FROM `invoice_lines`").
			WillReturnRows(sqlmock.NewRows(lineColumns()).
				AddRow(lineRow(11, 7, "Washing Soap", 2, "Ravi", start)...))

		data, _, err := svc.SalesPDF(context.Background(), start, end)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("No Lines", func(t *testing.T) {
		svc, dbMock := setupService(t)

		dbMock.ExpectQuery("SELECT \\* FROM `invoice_lines`").
			WillReturnRows(sqlmock.NewRows(lineColumns()))

		_, _, err := svc.SalesPDF(context.Background(), start, end)
		assert.ErrorIs(t, err, ErrNoReports)
	})
}
