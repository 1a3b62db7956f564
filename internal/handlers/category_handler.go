package handlers

import (
	"log"

	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categorias")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)
}

// CategoryRequest is the request body for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=3,max=200"`
}

// CategoryResponse is the client-facing view of a category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

// HandleListCategories retrieves one page of categories.
func (h *CategoryHandler) HandleListCategories(c *fiber.Ctx) error {
	page, size := parsePageParams(c)
	categories, total, err := h.service.ListCategories(page*size, size)
	if err != nil {
		return err
	}

	content := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		content = append(content, toCategoryResponse(&categories[i]))
	}
	return c.JSON(newPageResponse(content, page, size, total))
}

// HandleGetCategoryByID retrieves a single category by its ID.
func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toCategoryResponse(category))
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing category request body: %v", err)
		return invalidBody()
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	category := &models.Category{Name: req.Name}
	if err := h.service.CreateCategory(category); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(category))
}

// HandleUpdateCategory renames an existing category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing category request body: %v", err)
		return invalidBody()
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	category, err := h.service.UpdateCategory(c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(toCategoryResponse(category))
}

// HandleDeleteCategory deletes a category unless products still reference it.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
