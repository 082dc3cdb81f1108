package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/supportops/ticketsync/pkg/util"
)

// Scope names an operation a token may perform.
type Scope string

const (
	ScopeSyncRun  Scope = "sync:run"
	ScopeSyncRead Scope = "sync:read"
)

// AllScopes lists every scope a token can carry.
var AllScopes = []Scope{ScopeSyncRun, ScopeSyncRead}

// ParseScope validates a scope name.
func ParseScope(value string) (Scope, bool) {
	for _, s := range AllScopes {
		if string(s) == value {
			return s, true
		}
	}
	return "", false
}

// RequireScope ensures the authenticated token grants scope.
func RequireScope(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !claims.HasScope(scope) {
			return apperrors.NewDomainError(apperrors.CodeForbidden, "token lacks scope "+string(scope), fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}
