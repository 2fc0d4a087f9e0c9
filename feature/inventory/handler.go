package inventory

import (
	"errors"
	"strconv"

	"pos-backend/core/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the product catalog.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the product routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/product")
	group.Post("/addProducts", h.HandleAddProduct)
	group.Get("/getProducts", h.HandleGetProducts)
	group.Get("/getProductBySearch", h.HandleSearch)
	group.Post("/editProducts/:id", h.HandleEditProduct)
	group.Delete("/deleteProducts/:id", h.HandleDeleteProduct)
}

type addProductRequest struct {
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Mrp         decimal.Decimal `json:"mrp"`
	Discount    decimal.Decimal `json:"discount"`
	AddMargin   decimal.Decimal `json:"addMargin"`
	NetRate     decimal.Decimal `json:"netRate"`
	Category    string          `json:"category"`
}

type editProductRequest struct {
	ProductName *string          `json:"productName"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
	Mrp         *decimal.Decimal `json:"mrp"`
	Discount    *decimal.Decimal `json:"discount"`
	AddMargin   *decimal.Decimal `json:"addMargin"`
	NetRate     *decimal.Decimal `json:"netRate"`
	Category    *string          `json:"category"`
}

// HandleAddProduct registers a new product.
// @Summary Add product
// @Description Register a new product in the catalog. The name must be unique.
// @Tags product
// @Accept json
// @Produce json
// @Param product body addProductRequest true "Product"
// @Success 200 {object} map[string]string "Added"
// @Failure 400 {object} map[string]any "Validation Error"
// @Failure 409 {object} map[string]any "Duplicate Name"
// @Router /product/addProducts [post]
func (h *Handler) HandleAddProduct(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req addProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"message": "invalid request body"},
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"message": err.Error()},
		})
	}

	_, err := h.service.AddProduct(c.Context(), ProductInput{
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Mrp:         req.Mrp,
		Discount:    req.Discount,
		AddMargin:   req.AddMargin,
		NetRate:     req.NetRate,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateProduct) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": fiber.Map{"message": "Product already exists."},
			})
		}
		l.Error("Failed to add product", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": "Products Added Successfully"})
}

// HandleGetProducts lists one page of the catalog.
// @Summary List products
// @Description Paginated product listing, optionally filtered by name.
// @Tags product
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param maxResult query int false "Page size (default 8)"
// @Param productName query string false "Name contains filter"
// @Success 200 {object} map[string]any "Page"
// @Failure 404 {object} map[string]any "Page Not Found"
// @Router /product/getProducts [get]
func (h *Handler) HandleGetProducts(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	page := c.QueryInt("page", 1)
	maxResult := c.QueryInt("maxResult", defaultPageSize)
	nameFilter := c.Query("productName")

	result, err := h.service.ListProducts(c.Context(), nameFilter, page, maxResult)
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fiber.Map{"message": "Page not found."},
			})
		}
		l.Error("Failed to list products", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success":            result.Products,
		"totalProductsCount": result.TotalCount,
		"totalPages":         result.TotalPages,
		"currentPage":        result.CurrentPage,
	})
}

// HandleSearch searches the catalog by product name.
// @Summary Search products
// @Description List every product whose name contains the question string.
// @Tags product
// @Produce json
// @Param question query string false "Name contains filter"
// @Success 200 {object} map[string]any "Matches"
// @Failure 404 {object} map[string]any "No Matches"
// @Router /product/getProductBySearch [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	products, total, err := h.service.SearchProducts(c.Context(), c.Query("question"))
	if err != nil {
		l.Error("Product search failed", zap.Error(err))
		return internalError(c)
	}
	if len(products) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fiber.Map{"message": "No products available on this page."},
		})
	}

	return c.JSON(fiber.Map{
		"success":            products,
		"totalProductsCount": total,
	})
}

// HandleEditProduct partially updates a product.
// @Summary Edit product
// @Description Update the supplied fields of a product; omitted fields keep their value.
// @Tags product
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body editProductRequest true "Fields"
// @Success 200 {object} map[string]any "Updated"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /product/editProducts/{id} [post]
func (h *Handler) HandleEditProduct(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product Id is required",
		})
	}

	var req editProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"message": "invalid request body"},
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"message": err.Error()},
		})
	}

	updated, err := h.service.EditProduct(c.Context(), uint(id), ProductUpdate{
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Mrp:         req.Mrp,
		Discount:    req.Discount,
		AddMargin:   req.AddMargin,
		NetRate:     req.NetRate,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found.",
			})
		}
		l.Error("Failed to edit product", zap.Error(err), zap.Uint64("id", id))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success":        "Product updated successfully.",
		"updatedProduct": updated,
	})
}

// HandleDeleteProduct removes a product from the catalog.
// @Summary Delete product
// @Tags product
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /product/deleteProducts/{id} [delete]
func (h *Handler) HandleDeleteProduct(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product Id is required",
		})
	}

	if err := h.service.DeleteProduct(c.Context(), uint(id)); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found.",
			})
		}
		l.Error("Failed to delete product", zap.Error(err), zap.Uint64("id", id))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": "Product deleted successfully."})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{"message": "Internal server error"},
	})
}
