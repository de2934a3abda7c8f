package handlers

import (
	"errors"
	"strings"

	"catalog/internal/dto"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	detailAddFailed    = "Error while adding product."
	detailUpdateFailed = "Error while updating the product."
	detailDeleteFailed = "Error while deleting the record."
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes under router. Handlers in
// gate run in front of the mutating routes only.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, gate ...fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search/product-id/:id", h.HandleGetProductByID)
	productRoutes.Get("/search/:text", h.HandleSearchProducts)

	productRoutes.Post("/", gated(gate, h.HandleAddProduct)...)
	productRoutes.Put("/", gated(gate, h.HandleUpdateProduct)...)
	productRoutes.Delete("/:id", gated(gate, h.HandleDeleteProduct)...)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product, or null when absent.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return NotFoundProblem(c)
	}

	product, err := h.service.GetProductByCondition(c.UserContext(), repositories.ByID(id))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleSearchProducts returns products whose name matches the text,
// followed by those whose category matches it, without repeats.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	text := c.Params("text")
	ctx := c.UserContext()

	byName, err := h.service.GetProductsByCondition(ctx, repositories.NameContains(text))
	if err != nil {
		return err
	}
	byCategory, err := h.service.GetProductsByCondition(ctx, repositories.CategoryContains(text))
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(byName))
	results := make([]dto.ProductResponse, 0, len(byName)+len(byCategory))
	for _, group := range [][]dto.ProductResponse{byName, byCategory} {
		for _, p := range group {
			if _, dup := seen[p.ProductID]; dup {
				continue
			}
			seen[p.ProductID] = struct{}{}
			results = append(results, p)
		}
	}
	return c.JSON(results)
}

// HandleAddProduct creates a new product.
func (h *ProductHandler) HandleAddProduct(c *fiber.Ctx) error {
	var req dto.ProductAddRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("Error parsing add request body", zap.Error(err))
		return BadRequestProblem(c, "Invalid request body")
	}

	product, err := h.service.AddProduct(c.UserContext(), &req)
	if err != nil {
		return h.argumentProblem(c, err)
	}
	if product == nil {
		return ServerProblem(c, fiber.StatusInternalServerError, detailAddFailed)
	}

	c.Location(strings.TrimSuffix(c.Path(), "/") + "/search/product-id/" + product.ProductID)
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct overwrites an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req dto.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("Error parsing update request body", zap.Error(err))
		return BadRequestProblem(c, "Invalid request body")
	}

	// Stored ids are canonical lowercase uuids.
	id, err := uuid.Parse(req.ProductID)
	if err != nil {
		return h.argumentProblem(c, services.ErrInvalidProductID)
	}
	req.ProductID = id.String()

	product, err := h.service.UpdateProduct(c.UserContext(), &req)
	if err != nil {
		return h.argumentProblem(c, err)
	}
	if product == nil {
		return ServerProblem(c, fiber.StatusInternalServerError, detailUpdateFailed)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return NotFoundProblem(c)
	}

	deleted, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return ServerProblem(c, fiber.StatusInternalServerError, detailDeleteFailed)
	}
	return c.JSON(true)
}

// argumentProblem maps caller errors to 400 responses and hands anything
// else to the app error handler.
func (h *ProductHandler) argumentProblem(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return ValidationProblem(c, verr.Result.ByField())
	case errors.Is(err, services.ErrInvalidProductID):
		return ValidationProblem(c, map[string][]string{"ProductID": {err.Error()}})
	case errors.Is(err, services.ErrInvalidArgument):
		return BadRequestProblem(c, err.Error())
	default:
		return err
	}
}

func parseID(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func gated(gate []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(gate)+1)
	handlers = append(handlers, gate...)
	return append(handlers, handler)
}
