package apperrors

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Error is a domain failure carrying the HTTP status it maps to and a stable
// machine-readable category. Services return these; the Fiber error handler
// is the only place they are turned into responses.
type Error struct {
	Status   int
	Category string
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

// Categories exposed to clients in the "error" field. Clients branch on
// these strings, so they are part of the API contract.
const (
	CategoryRegisterInvalid    = "Registro invalido"
	CategoryLoginNotRegistered = "Login invalido"
	CategoryLoginBadPassword   = "Login invalida"
	CategoryCategoryNotFound   = "Categoria no encontrada"
	CategoryNotAllowed         = "Operacion no permitida"
	CategoryProductNotFound    = "Producto no encontrado"
	CategoryValidation         = "Error de validación"
	CategoryUnauthenticated    = "No autenticado"
	CategoryInternal           = "Error interno del servidor"
)

// UserAlreadyExists reports a registration attempt for a name already taken.
func UserAlreadyExists(name string) *Error {
	return &Error{
		Status:   fiber.StatusConflict,
		Category: CategoryRegisterInvalid,
		Message:  fmt.Sprintf("El usuario '%s' ya esta registrado", name),
	}
}

// UserNotRegistered reports a login attempt for an unknown name. The message
// is deliberately identical to InvalidCredentials; only the category differs.
func UserNotRegistered() *Error {
	return &Error{
		Status:   fiber.StatusUnauthorized,
		Category: CategoryLoginNotRegistered,
		Message:  "Nombre o contraseña incorrecto",
	}
}

// InvalidCredentials reports a login attempt with a wrong password.
func InvalidCredentials() *Error {
	return &Error{
		Status:   fiber.StatusUnauthorized,
		Category: CategoryLoginBadPassword,
		Message:  "Nombre o contraseña incorrecto",
	}
}

// CategoryNotFound reports an operation against a nonexistent category.
func CategoryNotFound(id string) *Error {
	return &Error{
		Status:   fiber.StatusNotFound,
		Category: CategoryCategoryNotFound,
		Message:  fmt.Sprintf("La categoria con ID: %s no existe", id),
	}
}

// CategoryHasProducts reports a deletion blocked by referencing products.
func CategoryHasProducts(id string) *Error {
	return &Error{
		Status:   fiber.StatusBadRequest,
		Category: CategoryNotAllowed,
		Message:  fmt.Sprintf("La categoria con ID: %s contiene productos", id),
	}
}

// ProductNotFound reports an operation against a nonexistent product.
func ProductNotFound(id string) *Error {
	return &Error{
		Status:   fiber.StatusNotFound,
		Category: CategoryProductNotFound,
		Message:  fmt.Sprintf("El producto con ID: %s no existe", id),
	}
}

// Validation reports one or more malformed request fields. The message is
// already collapsed per the single-field rule by the caller.
func Validation(message string) *Error {
	return &Error{
		Status:   fiber.StatusBadRequest,
		Category: CategoryValidation,
		Message:  message,
	}
}

// Unauthorized reports a rejected access to a protected route. This is a
// route-policy rejection, not an authentication-gate failure.
func Unauthorized() *Error {
	return &Error{
		Status:   fiber.StatusUnauthorized,
		Category: CategoryUnauthenticated,
		Message:  "Autenticacion requerida",
	}
}

// Internal wraps an unexpected failure as the 500 catch-all.
func Internal(err error) *Error {
	return &Error{
		Status:   fiber.StatusInternalServerError,
		Category: CategoryInternal,
		Message:  fmt.Sprintf("Ocurrió un error inesperado: %v", err),
	}
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorHandler is the single place domain errors become HTTP responses.
// Wire it into fiber.Config so no handler writes error bodies ad hoc.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if !errors.As(err, &appErr) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			// Router-level errors (404 route, 405) keep their status but
			// still use the structured body.
			appErr = &Error{Status: fiberErr.Code, Category: fiberErr.Message, Message: fiberErr.Message}
		} else {
			log.Printf("Unhandled error: %v", err)
			appErr = Internal(err)
		}
	}

	return c.Status(appErr.Status).JSON(ErrorResponse{
		Status:    appErr.Status,
		Message:   appErr.Message,
		Error:     appErr.Category,
		Timestamp: time.Now(),
	})
}
