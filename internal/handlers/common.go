package handlers

import (
	"fmt"
	"strings"

	"tienda/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// pageResponse is the envelope for paginated listings, page is 0-based.
type pageResponse struct {
	Content       interface{} `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"total_elements"`
	TotalPages    int64       `json:"total_pages"`
}

func newPageResponse(content interface{}, page, size int, total int64) pageResponse {
	totalPages := total / int64(size)
	if total%int64(size) != 0 {
		totalPages++
	}
	return pageResponse{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// parsePageParams reads ?page= and ?size=, page is 0-based, size defaults
// to 10 and is capped at 100.
func parsePageParams(c *fiber.Ctx) (page, size int) {
	page = c.QueryInt("page", 0)
	if page < 0 {
		page = 0
	}
	size = c.QueryInt("size", 10)
	if size < 1 || size > 100 {
		size = 10
	}
	return page, size
}

// invalidBody is returned when the request body cannot be parsed at all.
func invalidBody() error {
	return apperrors.Validation("Cuerpo de la peticion invalido")
}

// validationError collapses validator output into a single message: exactly
// one failing field yields its bare message, several join as
// "field: message, field: message".
func validationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation(err.Error())
	}

	var fields []string
	messages := make(map[string]string)
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		if _, seen := messages[field]; !seen {
			fields = append(fields, field)
		}
		messages[field] = fieldMessage(field, e)
	}

	if len(fields) == 1 {
		return apperrors.Validation(messages[fields[0]])
	}

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, messages[field]))
	}
	return apperrors.Validation(strings.Join(parts, ", "))
}

func fieldMessage(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio", field)
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s caracteres", field, e.Param())
	case "max":
		return fmt.Sprintf("El campo %s no puede superar los %s caracteres", field, e.Param())
	case "gt":
		return fmt.Sprintf("El campo %s debe ser mayor a %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("El campo %s no puede ser menor a %s", field, e.Param())
	default:
		return fmt.Sprintf("El campo %s no es valido", field)
	}
}
