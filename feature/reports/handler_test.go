package reports

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	app := fiber.New()
	svc, mock := setupService(t)
	NewHandler(svc).RegisterRoutes(app)
	return app, mock
}

func productColumns() []string {
	return []string{"id", "product_name", "quantity", "mrp", "discount", "add_margin", "net_rate", "category"}
}

func TestHandleRange(t *testing.T) {
	t.Run("Missing Dates", func(t *testing.T) {
		app, _ := setupTestApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/reports/by?startDate=01-03-2026", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Bad Date Format", func(t *testing.T) {
		app, _ := setupTestApp(t)

		resp, err := app.Test(httptest.NewRequest(
			"GET", "/reports/by?startDate=2026-03-01&endDate=2026-03-31", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("No Reports", func(t *testing.T) {
		app, mock := setupTestApp(t)

		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `invoice_lines`").
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

		resp, err := app.Test(httptest.NewRequest(
			"GET", "/reports/by?startDate=01-03-2026&endDate=31-03-2026", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandleGetDetails(t *testing.T) {
	t.Run("Missing Invoice Number", func(t *testing.T) {
		app, _ := setupTestApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/reports/getInvoiceDetails", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unknown Invoice", func(t *testing.T) {
		app, mock := setupTestApp(t)

		mock.ExpectQuery("SELECT \\* FROM `invoice_lines`").
			WillReturnRows(sqlmock.NewRows(lineColumns()))

		resp, err := app.Test(httptest.NewRequest(
			"GET", "/reports/getInvoiceDetails?invoiceNumber=99", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandleRemoveLine(t *testing.T) {
	t.Run("Missing Params", func(t *testing.T) {
		app, _ := setupTestApp(t)

		resp, err := app.Test(httptest.NewRequest(
			"DELETE", "/reports/deleteProduct?invoiceNumber=7", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Restocks And Deletes", func(t *testing.T) {
		app, mock := setupTestApp(t)
		date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `invoice_lines` WHERE id = \\? AND invoice_number = \\?").
			WillReturnRows(sqlmock.NewRows(lineColumns()).
				AddRow(lineRow(11, 7, "Washing Soap", 2, "Ravi", date)...))
		mock.ExpectQuery("SELECT \\* FROM `products` WHERE product_name = \\?(.*)FOR UPDATE").
			WillReturnRows(sqlmock.NewRows(productColumns()).
				AddRow(1, "Washing Soap", 38, "25.00", "0.00", "0.00", "20.00", "Household"))
		mock.ExpectExec("UPDATE `products`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM `invoice_lines`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		resp, err := app.Test(httptest.NewRequest(
			"DELETE", "/reports/deleteProduct?invoiceNumber=7&reportId=11", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, true, body["restocked"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Line", func(t *testing.T) {
		app, mock := setupTestApp(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `invoice_lines`").
			WillReturnRows(sqlmock.NewRows(lineColumns()))
		mock.ExpectRollback()

		resp, err := app.Test(httptest.NewRequest(
			"DELETE", "/reports/deleteProduct?invoiceNumber=7&reportId=99", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandleEdit(t *testing.T) {
	t.Run("Missing Invoice Number", func(t *testing.T) {
		app, _ := setupTestApp(t)

		req := httptest.NewRequest("PUT", "/reports/edit", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Resize Below One Rejected", func(t *testing.T) {
		app, mock := setupTestApp(t)
		date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `invoice_lines` WHERE id = \\? AND invoice_number = \\?").
			WillReturnRows(sqlmock.NewRows(lineColumns()).
				AddRow(lineRow(11, 7, "Washing Soap", 2, "Ravi", date)...))
		mock.ExpectQuery("SELECT \\* FROM `products` WHERE product_name = \\?(.*)FOR UPDATE").
			WillReturnRows(sqlmock.NewRows(productColumns()).
				AddRow(1, "Washing Soap", 38, "25.00", "0.00", "0.00", "20.00", "Household"))
		mock.ExpectRollback()

		req := httptest.NewRequest("PUT",
			"/reports/edit?invoiceNumber=7&reportId=11&minusQuantity=2",
			strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleAvailableProducts(t *testing.T) {
	app, mock := setupTestApp(t)

	mock.ExpectQuery("SELECT \\* FROM `products` WHERE product_name NOT IN").
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(3, "Toothpaste", 12, "60.00", "0.00", "0.00", "45.00", "Personal Care"))

	resp, err := app.Test(httptest.NewRequest(
		"GET", "/reports/availableProducts?invoiceNumber=7&searchText=tooth", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	products, ok := body["success"].([]any)
	require.True(t, ok)
	assert.Len(t, products, 1)
}
