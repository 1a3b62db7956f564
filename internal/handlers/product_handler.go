package handlers

import (
	"log"

	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/productos")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// ProductRequest is the request body for creating or updating a product.
// There is no available field: availability is derived from stock.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=200"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	CategoryID  string  `json:"category_id" validate:"required"`
}

// ProductResponse is the client-facing view of a product with its category.
type ProductResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Stock       int              `json:"stock"`
	Price       float64          `json:"price"`
	Description string           `json:"description"`
	Available   bool             `json:"available"`
	Category    CategoryResponse `json:"category"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Stock:       p.Stock,
		Price:       p.Price,
		Description: p.Description,
		Available:   p.Available,
		Category:    toCategoryResponse(&p.Category),
	}
}

func (r *ProductRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Stock:       r.Stock,
		Price:       r.Price,
		Description: r.Description,
		CategoryID:  r.CategoryID,
	}
}

// HandleListProducts retrieves one page of products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	page, size := parsePageParams(c)
	products, total, err := h.service.ListProducts(page*size, size)
	if err != nil {
		return err
	}

	content := make([]ProductResponse, 0, len(products))
	for i := range products {
		content = append(content, toProductResponse(&products[i]))
	}
	return c.JSON(newPageResponse(content, page, size, total))
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toProductResponse(product))
}

// HandleCreateProduct creates a new product in an existing category.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return invalidBody()
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	product, err := h.service.CreateProduct(req.toInput())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// HandleUpdateProduct replaces the caller-supplied fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return invalidBody()
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	product, err := h.service.UpdateProduct(c.Params("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(toProductResponse(product))
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
