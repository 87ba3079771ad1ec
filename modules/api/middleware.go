package api

import (
	"strings"

	"github.com/example/taskboard/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// IdentityContextKey is the key used to store the verified identity
	// in the Fiber context.
	IdentityContextKey = "identity"
)

// AuthMiddleware creates a middleware that validates bearer tokens on
// protected routes.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return writeError(c, fiber.StatusUnauthorized, "unauthorized", "Authorization header is required")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return writeError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid authorization header format. Use: Bearer <token>")
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return writeError(c, fiber.StatusUnauthorized, "unauthorized", "Token is required")
		}

		identity, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return writeError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid or expired token")
		}

		c.Locals(IdentityContextKey, identity)
		return c.Next()
	}
}
