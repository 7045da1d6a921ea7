package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/okeetropics/internal/config"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/utils"
)

const identityContextKey = "currentIdentity"

// Authenticate validates the bearer token and loads the resolved identity
// (id, name, role) into the request context.
func Authenticate(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		identity, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(identityContextKey, identity)
		return c.Next()
	}
}

// RequireRole rejects with 403 when the authenticated identity's role is not
// in the allowed set. Compose after Authenticate.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		for _, role := range roles {
			if identity.Role == role {
				return c.Next()
			}
		}

		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// CurrentIdentity extracts the authenticated identity from context.
func CurrentIdentity(c *fiber.Ctx) (utils.TokenIdentity, bool) {
	value := c.Locals(identityContextKey)
	if value == nil {
		return utils.TokenIdentity{}, false
	}

	if identity, ok := value.(utils.TokenIdentity); ok {
		return identity, true
	}

	return utils.TokenIdentity{}, false
}
