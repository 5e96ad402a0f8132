package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skillchain/skillchain-api/internal/utils"
)

// RequireRole admits the request only when the authenticated role is one of
// the allowed ones. Runs after JWTProtected has populated the locals.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if normalized := strings.ToLower(strings.TrimSpace(role)); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
