package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tienda/internal/apperrors"
	"tienda/internal/handlers"
	"tienda/internal/middleware"
	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds the full Fiber app against an in-memory SQLite database,
// wired exactly like main.go but without RabbitMQ.
func setupApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{})
	require.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	authService := services.NewAuthService(userRepo, nil, "test_jwt_secret", time.Hour)
	categoryService := services.NewCategoryService(categoryRepo, productRepo, nil)
	productService := services.NewProductService(productRepo, categoryRepo, nil)

	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler})
	app.Use(middleware.Authenticate(authService))

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.RequireAuth())
	categoryHandler.RegisterRoutes(protected)
	productHandler.RegisterRoutes(protected)

	return app, authService
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		bodyReader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, bodyReader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func registerAndLogin(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "alice", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tokenResp handlers.TokenResponse
	decodeBody(t, resp, &tokenResp)
	require.NotEmpty(t, tokenResp.Token)
	return tokenResp.Token
}

func TestRegisterAndDuplicate(t *testing.T) {
	app, authService := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "alice", "password": "secret1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var tokenResp handlers.TokenResponse
	decodeBody(t, resp, &tokenResp)
	assert.NotEmpty(t, tokenResp.Token)
	assert.Equal(t, "alice", authService.ExtractSubject(tokenResp.Token))

	// Second registration with the same name conflicts
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "alice", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp apperrors.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, http.StatusConflict, errResp.Status)
	assert.Equal(t, "Registro invalido", errResp.Error)
	assert.False(t, errResp.Timestamp.IsZero())
}

func TestLogin(t *testing.T) {
	app, authService := setupApp(t)
	registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"name": "alice", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var tokenResp handlers.TokenResponse
	decodeBody(t, resp, &tokenResp)
	assert.Equal(t, "alice", authService.ExtractSubject(tokenResp.Token))

	// Wrong password and unknown name share the message, not the category
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"name": "alice", "password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var errResp apperrors.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Login invalida", errResp.Error)
	assert.Equal(t, "Nombre o contraseña incorrecto", errResp.Message)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"name": "nadie", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Login invalido", errResp.Error)
	assert.Equal(t, "Nombre o contraseña incorrecto", errResp.Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/categorias/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/productos/", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCategoryDeletionGuard(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/categorias/", token, fiber.Map{
		"name": "Electrónica",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category handlers.CategoryResponse
	decodeBody(t, resp, &category)

	resp = doJSON(t, app, http.MethodPost, "/api/productos/", token, fiber.Map{
		"name": "Laptop", "stock": 3, "price": 1200.50, "category_id": category.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product handlers.ProductResponse
	decodeBody(t, resp, &product)

	// Deleting a category with products is rejected
	resp = doJSON(t, app, http.MethodDelete, "/api/categorias/"+category.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp apperrors.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Operacion no permitida", errResp.Error)

	// After removing the product the deletion goes through
	resp = doJSON(t, app, http.MethodDelete, "/api/productos/"+product.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/categorias/"+category.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// A second deletion reports not-found, never has-products
	resp = doJSON(t, app, http.MethodDelete, "/api/categorias/"+category.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Categoria no encontrada", errResp.Error)
}

func TestProductAvailabilityDerivedOverHTTP(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/categorias/", token, fiber.Map{
		"name": "Electrónica",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category handlers.CategoryResponse
	decodeBody(t, resp, &category)

	// A caller-supplied "available": true is ignored, stock = 0 wins
	resp = doJSON(t, app, http.MethodPost, "/api/productos/", token, fiber.Map{
		"name": "Laptop", "stock": 0, "price": 1200.50,
		"category_id": category.ID, "available": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product handlers.ProductResponse
	decodeBody(t, resp, &product)
	assert.False(t, product.Available)
	assert.Equal(t, category.ID, product.Category.ID)

	resp = doJSON(t, app, http.MethodPut, "/api/productos/"+product.ID, token, fiber.Map{
		"name": "Laptop", "stock": 5, "price": 1200.50, "category_id": category.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &product)
	assert.True(t, product.Available)

	resp = doJSON(t, app, http.MethodPut, "/api/productos/"+product.ID, token, fiber.Map{
		"name": "Laptop", "stock": 0, "price": 1200.50, "category_id": category.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &product)
	assert.False(t, product.Available)
}

func TestProductUnknownCategory(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/productos/", token, fiber.Map{
		"name": "Laptop", "stock": 3, "price": 1200.50, "category_id": "no-such-id",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errResp apperrors.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Categoria no encontrada", errResp.Error)
}

func TestValidationCollapseRule(t *testing.T) {
	app, _ := setupApp(t)

	// Exactly one failing field: the bare message, no field prefix
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "al", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp apperrors.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Error de validación", errResp.Error)
	assert.Equal(t, "El campo name debe tener al menos 3 caracteres", errResp.Message)

	// Several failing fields: "field: message" entries joined with commas
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "al", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decodeBody(t, resp, &errResp)
	assert.Contains(t, errResp.Message, "name: ")
	assert.Contains(t, errResp.Message, "password: ")
	assert.Contains(t, errResp.Message, ", ")
}

func TestPaginatedListing(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	for i := 0; i < 12; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/categorias/", token, fiber.Map{
			"name": fmt.Sprintf("Categoria %02d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/categorias/?page=1&size=5", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Content       []handlers.CategoryResponse `json:"content"`
		Page          int                         `json:"page"`
		Size          int                         `json:"size"`
		TotalElements int64                       `json:"total_elements"`
		TotalPages    int64                       `json:"total_pages"`
	}
	decodeBody(t, resp, &page)
	assert.Len(t, page.Content, 5)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(12), page.TotalElements)
	assert.Equal(t, int64(3), page.TotalPages)
}
