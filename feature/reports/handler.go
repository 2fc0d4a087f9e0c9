package reports

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pos-backend/core/logger"
	"pos-backend/core/reconcile"
	"pos-backend/core/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reports and invoice management.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reports")
	group.Get("/", h.HandleToday)
	group.Get("/by", h.HandleRange)
	group.Get("/products", h.HandleInvoiceLines)
	group.Get("/byName", h.HandleByName)
	group.Get("/pdf", h.HandlePDF)
	group.Put("/edit", h.HandleEdit)
	group.Delete("/delete", h.HandleDelete)
	group.Put("/invoiceDetails", h.HandleUpdateDetails)
	group.Get("/getInvoiceDetails", h.HandleGetDetails)
	group.Delete("/deleteProduct", h.HandleRemoveLine)
	group.Get("/availableProducts", h.HandleAvailableProducts)
}

// HandleToday lists today's invoices.
// @Summary Today's report
// @Description Today's invoices grouped by invoice number, paginated.
// @Tags reports
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param maxResult query int false "Page size (default 10)"
// @Success 200 {object} map[string]any "Page"
// @Failure 404 {object} map[string]any "No Reports"
// @Router /reports/ [get]
func (h *Handler) HandleToday(c *fiber.Ctx) error {
	page, err := h.service.TodayReport(c.Context(),
		c.QueryInt("page", 1), c.QueryInt("maxResult", defaultPageSize))
	if err != nil {
		return h.listingError(c, err)
	}
	return c.JSON(reportPageResponse(page))
}

// HandleRange lists the invoices billed in a date range.
// @Summary Report by date range
// @Tags reports
// @Produce json
// @Param startDate query string true "Start date (DD-MM-YYYY)"
// @Param endDate query string true "End date (DD-MM-YYYY), inclusive"
// @Param page query int false "Page (1-based)"
// @Param maxResult query int false "Page size (default 10)"
// @Success 200 {object} map[string]any "Page"
// @Failure 404 {object} map[string]any "No Reports"
// @Router /reports/by [get]
func (h *Handler) HandleRange(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	page, err := h.service.ReportRange(c.Context(), start, end,
		c.QueryInt("page", 1), c.QueryInt("maxResult", defaultPageSize))
	if err != nil {
		return h.listingError(c, err)
	}
	return c.JSON(reportPageResponse(page))
}

// HandleByName lists the invoices whose customer name matches.
// @Summary Report by customer name
// @Tags reports
// @Produce json
// @Param name query string true "Customer name contains filter"
// @Param currentPage query int false "Page (1-based)"
// @Param maxResult query int false "Page size (default 10)"
// @Success 200 {object} map[string]any "Page"
// @Failure 404 {object} map[string]any "No Reports"
// @Router /reports/byName [get]
func (h *Handler) HandleByName(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name parameter is required.",
		})
	}

	page, err := h.service.ReportByName(c.Context(), name,
		c.QueryInt("currentPage", 1), c.QueryInt("maxResult", defaultPageSize))
	if err != nil {
		return h.listingError(c, err)
	}
	return c.JSON(reportPageResponse(page))
}

// HandleInvoiceLines lists every line of one invoice.
// @Summary Invoice lines
// @Tags reports
// @Produce json
// @Param invoiceNumber query int true "Invoice number"
// @Success 200 {object} map[string]any "Lines"
// @Failure 404 {object} map[string]any "Unknown Invoice"
// @Router /reports/products [get]
func (h *Handler) HandleInvoiceLines(c *fiber.Ctx) error {
	invoiceNumber := c.QueryInt("invoiceNumber")
	if invoiceNumber < 1 {
		return invalidInvoiceNumber(c)
	}

	lines, err := h.service.InvoiceLines(c.Context(), invoiceNumber)
	if err != nil {
		return h.listingError(c, err)
	}
	return c.JSON(fiber.Map{"success": lines})
}

// HandleGetDetails returns the invoice's header fields.
// @Summary Invoice details
// @Tags reports
// @Produce json
// @Param invoiceNumber query int true "Invoice number"
// @Success 200 {object} map[string]any "Details"
// @Failure 404 {object} map[string]string "Unknown Invoice"
// @Router /reports/getInvoiceDetails [get]
func (h *Handler) HandleGetDetails(c *fiber.Ctx) error {
	invoiceNumber := c.QueryInt("invoiceNumber")
	if invoiceNumber < 1 {
		return invalidInvoiceNumber(c)
	}

	details, err := h.service.GetInvoiceDetails(c.Context(), invoiceNumber)
	if err != nil {
		if errors.Is(err, ErrNoReports) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No details found for the given invoice number.",
			})
		}
		return h.internalError(c, err)
	}
	return c.JSON(fiber.Map{"success": details})
}

type detailsRequest struct {
	Name          *string          `json:"name"`
	Area          *string          `json:"area"`
	Gst           *int             `json:"gst" validate:"omitempty,gte=0"`
	Spl           *decimal.Decimal `json:"spl"`
	Date          *string          `json:"date"`
	PaymentMethod *string          `json:"paymentMethod"`
}

// HandleUpdateDetails writes header fields onto every line of an invoice.
// @Summary Update invoice details
// @Tags reports
// @Accept json
// @Produce json
// @Param invoiceNumber query int true "Invoice number"
// @Param details body detailsRequest true "Fields"
// @Success 200 {object} map[string]any "Updated"
// @Failure 404 {object} map[string]string "Unknown Invoice"
// @Router /reports/invoiceDetails [put]
func (h *Handler) HandleUpdateDetails(c *fiber.Ctx) error {
	invoiceNumber := c.QueryInt("invoiceNumber")
	if invoiceNumber < 1 {
		return invalidInvoiceNumber(c)
	}

	var req detailsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	update := DetailsUpdate{
		Name:          req.Name,
		Area:          req.Area,
		Gst:           req.Gst,
		Spl:           req.Spl,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
	}
	if err := h.service.UpdateInvoiceDetails(c.Context(), invoiceNumber, update); err != nil {
		if errors.Is(err, ErrNoReports) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No details found for the given invoice number.",
			})
		}
		return h.internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": req,
		"message": "Invoice details retrieved and updated successfully.",
	})
}

type editLineProduct struct {
	ProductName string `json:"productName" validate:"required"`
	Quantity    int    `json:"quantity"`
}

type editInvoiceRequest struct {
	Name          *string           `json:"name"`
	Area          *string           `json:"area"`
	Date          *string           `json:"date"`
	PaymentMethod *string           `json:"paymentMethod"`
	Spl           *decimal.Decimal  `json:"spl"`
	Discount      *decimal.Decimal  `json:"discount"`
	Mrp           *decimal.Decimal  `json:"mrp"`
	Products      []editLineProduct `json:"products" validate:"dive"`
}

// HandleEdit resizes one line of an invoice and/or adds new products to it.
// @Summary Edit invoice
// @Description When reportId is set, the referenced line is resized by
// @Description addQuantity-minusQuantity and the body's fields are applied
// @Description to it. Any products in the body are then booked as new lines.
// @Tags reports
// @Accept json
// @Produce json
// @Param invoiceNumber query int true "Invoice number"
// @Param reportId query int false "Line ID to resize"
// @Param addQuantity query int false "Units to add"
// @Param minusQuantity query int false "Units to remove"
// @Param invoice body editInvoiceRequest true "Fields and new products"
// @Success 200 {object} map[string]any "Updated"
// @Failure 400 {object} map[string]any "Validation / Stock Error"
// @Failure 404 {object} map[string]string "Unknown Line"
// @Router /reports/edit [put]
func (h *Handler) HandleEdit(c *fiber.Ctx) error {
	invoiceNumber := c.QueryInt("invoiceNumber")
	if invoiceNumber < 1 {
		return invalidInvoiceNumber(c)
	}

	var req editInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"message": err.Error()},
		})
	}

	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var updatedReport any

	if reportID := c.QueryInt("reportId"); reportID > 0 {
		line, err := h.service.EditLine(c.Context(), invoiceNumber, uint(reportID),
			c.QueryInt("addQuantity"), c.QueryInt("minusQuantity"),
			reconcile.LineFields{
				Name:     req.Name,
				Area:     req.Area,
				Date:     date,
				Discount: req.Discount,
				Spl:      req.Spl,
				Mrp:      req.Mrp,
			})
		if err != nil {
			return h.engineError(c, err)
		}
		updatedReport = line
	}

	if len(req.Products) > 0 {
		requests := make([]reconcile.LineRequest, 0, len(req.Products))
		for _, p := range req.Products {
			requests = append(requests, reconcile.LineRequest{
				ProductName: p.ProductName,
				Quantity:    p.Quantity,
			})
		}
		result, err := h.service.AddLines(c.Context(), invoiceNumber, requests,
			reconcile.HeaderPatch{
				Name:          req.Name,
				Area:          req.Area,
				PaymentMethod: req.PaymentMethod,
				Date:          date,
				Spl:           req.Spl,
				Discount:      req.Discount,
			})
		if err != nil {
			return h.engineError(c, err)
		}
		if len(result.Errors) > 0 {
			messages := make([]string, 0, len(result.Errors))
			for _, lineErr := range result.Errors {
				messages = append(messages, lineErr.Message)
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": strings.Join(messages, ", "),
			})
		}
		updatedReport = result.Lines
	}

	return c.JSON(fiber.Map{
		"success":       "Invoice updated successfully.",
		"updatedReport": updatedReport,
	})
}

// HandleDelete deletes a whole invoice, restoring its stock.
// @Summary Delete invoice
// @Tags reports
// @Produce json
// @Param invoiceNumber query int true "Invoice number"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 400 {object} map[string]string "Missing Products"
// @Failure 404 {object} map[string]string "Unknown Invoice"
// @Router /reports/delete [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	invoiceNumber := c.QueryInt("invoiceNumber")
	if invoiceNumber < 1 {
		return invalidInvoiceNumber(c)
	}

	if err := h.service.DeleteInvoice(c.Context(), invoiceNumber); err != nil {
		return h.engineError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": "Invoice and associated products deleted successfully, and product quantities updated.",
	})
}

// HandleRemoveLine removes one line from an invoice, restoring its stock.
// @Summary Remove invoice line
// @Tags reports
// @Produce json
// @Param invoiceNumber query int true "Invoice number"
// @Param reportId query int true "Line ID"
// @Success 200 {object} map[string]any "Removed"
// @Failure 404 {object} map[string]string "Unknown Line"
// @Router /reports/deleteProduct [delete]
func (h *Handler) HandleRemoveLine(c *fiber.Ctx) error {
	invoiceNumber := c.QueryInt("invoiceNumber")
	reportID := c.QueryInt("reportId")
	if invoiceNumber < 1 || reportID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invoice number and report ID are required.",
		})
	}

	result, err := h.service.RemoveLine(c.Context(), invoiceNumber, uint(reportID))
	if err != nil {
		return h.engineError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   "Product deleted successfully from the invoice.",
		"restocked": result.Restocked,
	})
}

// HandleAvailableProducts lists products not yet on the invoice.
// @Summary Available products
// @Tags reports
// @Produce json
// @Param invoiceNumber query int true "Invoice number"
// @Param searchText query string false "Name contains filter"
// @Success 200 {object} map[string]any "Products"
// @Router /reports/availableProducts [get]
func (h *Handler) HandleAvailableProducts(c *fiber.Ctx) error {
	invoiceNumber := c.QueryInt("invoiceNumber")
	if invoiceNumber < 1 {
		return invalidInvoiceNumber(c)
	}

	products, err := h.service.AvailableProducts(c.Context(), invoiceNumber, c.Query("searchText"))
	if err != nil {
		return h.engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": products})
}

// HandlePDF renders the sales PDF for a date range.
// @Summary Sales PDF
// @Description Render a sales summary PDF for the date range. When the
// @Description invoice archive is enabled the PDF is also uploaded to
// @Description object storage.
// @Tags reports
// @Produce application/pdf
// @Param startDate query string true "Start date (DD-MM-YYYY)"
// @Param endDate query string true "End date (DD-MM-YYYY), inclusive"
// @Success 200 {file} file "PDF"
// @Failure 404 {object} map[string]any "No Reports"
// @Router /reports/pdf [get]
func (h *Handler) HandlePDF(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	data, objectName, err := h.service.SalesPDF(c.Context(), start, end)
	if err != nil {
		return h.listingError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", strings.TrimPrefix(objectName, "invoices/")))
	return c.Send(data)
}

func reportPageResponse(page *ReportPage) fiber.Map {
	return fiber.Map{
		"success":               page.Summaries,
		"totalReportsCount":     page.TotalCount,
		"totalPages":            page.TotalPages,
		"currentPage":           page.CurrentPage,
		"countByInvoiceNumbers": page.Counts,
	}
}

func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, errors.New("startDate and endDate parameters are required.")
	}
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := utils.ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func invalidInvoiceNumber(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid invoice number.",
	})
}

func (h *Handler) listingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNoReports):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fiber.Map{"message": "No reports available for the given criteria."},
		})
	case errors.Is(err, ErrPageNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fiber.Map{"message": "Page not found."},
		})
	default:
		return h.internalError(c, err)
	}
}

func (h *Handler) engineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, reconcile.ErrValidation),
		errors.Is(err, reconcile.ErrOutOfStock),
		errors.Is(err, reconcile.ErrDuplicateLine):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, reconcile.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, reconcile.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return h.internalError(c, err)
	}
}

func (h *Handler) internalError(c *fiber.Ctx, err error) error {
	logger.WithRayID(h.service.logger, c).Error("Report request failed",
		zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error.",
	})
}
