package billing

import (
	"time"

	"pos-backend/core/logger"
	"pos-backend/core/reconcile"
	"pos-backend/core/server"
	"pos-backend/core/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for billing.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the billing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/billing")
	group.Post("/addBill", h.HandleAddBill)
	group.Get("/getBill", h.HandleGetBill)
}

type billState struct {
	Name          string          `json:"name"`
	Area          string          `json:"area"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	Gst           int             `json:"gst"`
	Spl           decimal.Decimal `json:"spl"`
	Discount      decimal.Decimal `json:"discount"`
}

type billProduct struct {
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int             `json:"quantity"`
	Mrp         decimal.Decimal `json:"mrp"`
	Discount    decimal.Decimal `json:"discount"`
	NetRate     decimal.Decimal `json:"netRate"`
	Category    string          `json:"category"`
}

type addBillRequest struct {
	State    *billState    `json:"state" validate:"required"`
	Products []billProduct `json:"products" validate:"required,min=1,dive"`
}

// HandleAddBill creates an invoice from a header and a list of products.
// @Summary Add bill
// @Description Allocate an invoice number and book each product against it.
// @Description Lines that fail (unknown product, out of stock) are reported
// @Description without rolling back the ones that succeeded.
// @Tags billing
// @Accept json
// @Produce json
// @Param bill body addBillRequest true "Bill"
// @Success 200 {object} map[string]any "Billed"
// @Failure 400 {object} map[string]any "Line Errors"
// @Router /billing/addBill [post]
func (h *Handler) HandleAddBill(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req addBillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing params required",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing params required",
		})
	}
	if !server.IsValidPaymentMethod(req.State.PaymentMethod) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment method.",
		})
	}

	date := time.Now()
	if req.State.Date != "" {
		parsed, err := utils.ParseDate(req.State.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		date = parsed
	}

	header := reconcile.Header{
		Name:          req.State.Name,
		Area:          req.State.Area,
		Date:          date,
		PaymentMethod: req.State.PaymentMethod,
		Gst:           req.State.Gst,
		Spl:           req.State.Spl,
		Discount:      req.State.Discount,
	}
	lines := make([]reconcile.LineRequest, 0, len(req.Products))
	for _, p := range req.Products {
		lines = append(lines, reconcile.LineRequest{
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			Mrp:         p.Mrp,
			NetRate:     p.NetRate,
			Discount:    p.Discount,
			Category:    p.Category,
		})
	}

	result, err := h.service.CreateBill(c.Context(), header, lines)
	if err != nil {
		l.Error("Failed to create bill", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error.",
		})
	}

	if len(result.Errors) > 0 {
		messages := make([]string, 0, len(result.Errors))
		for _, lineErr := range result.Errors {
			messages = append(messages, lineErr.Message)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors":        messages,
			"invoiceNumber": result.InvoiceNumber,
		})
	}

	return c.JSON(fiber.Map{
		"success":       "Products updated and billed",
		"invoiceNumber": result.InvoiceNumber,
	})
}

// HandleGetBill searches products by name for the billing picker.
// @Summary Get bill products
// @Tags billing
// @Produce json
// @Param question query string true "Name contains filter"
// @Success 200 {object} map[string]any "Matches"
// @Failure 404 {object} map[string]string "No Matches"
// @Router /billing/getBill [get]
func (h *Handler) HandleGetBill(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	question := c.Query("question")
	if question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question parameter is required.",
		})
	}

	products, err := h.service.FindProducts(c.Context(), question)
	if err != nil {
		l.Error("Product lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error.",
		})
	}
	if len(products) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No matching products found.",
		})
	}

	return c.JSON(fiber.Map{"success": products})
}
