package middleware

import (
	"log"
	"strings"

	"tienda/internal/apperrors"
	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PrincipalKey is the fiber.Ctx locals key under which the authenticated
// principal is stored for downstream handlers.
const PrincipalKey = "principal"

// Authenticate is the per-request authentication gate. It is best effort:
// a missing header, malformed token, unknown subject or failed validation
// all leave the request unauthenticated and pass it on unchanged. Rejecting
// unauthenticated access to protected routes is RequireAuth's job.
func Authenticate(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject := authService.ExtractSubject(tokenString)
		if subject == "" {
			return c.Next()
		}

		// Running twice must not clobber an already attached principal.
		if c.Locals(PrincipalKey) != nil {
			return c.Next()
		}

		user, err := authService.ResolveUser(subject)
		if err != nil {
			// Token for an unknown or deleted user. Swallowed, not
			// propagated: the gate's contract is best effort.
			log.Printf("Could not resolve token subject %s: %v", subject, err)
			return c.Next()
		}

		if authService.IsTokenValid(tokenString, user) {
			c.Locals(PrincipalKey, &models.Principal{
				UserID: user.ID,
				Name:   user.Name,
				Role:   user.Role,
			})
		}

		return c.Next()
	}
}

// RequireAuth is the route-level authorization policy for protected groups.
// It rejects any request the gate left unauthenticated.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(PrincipalKey) == nil {
			return apperrors.Unauthorized()
		}
		return c.Next()
	}
}

// PrincipalFrom returns the authenticated principal attached to the request,
// or nil for an unauthenticated request.
func PrincipalFrom(c *fiber.Ctx) *models.Principal {
	principal, _ := c.Locals(PrincipalKey).(*models.Principal)
	return principal
}
