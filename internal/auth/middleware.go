package auth

import (
	"strings"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey    = "user_id"
	CtxUserRoleKey  = "user_role"
	CtxCompanyIDKey = "company_id"

	CompanyHeader = "X-Company-Id"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    uint
	CompanyID string
	Role      models.UserRole
}

func JWTMiddleware(tokens *Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.Unauthorized("authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return apperror.Unauthorized("authorization header must be 'Bearer <token>'")
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			return apperror.Unauthorized("invalid or expired token")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxCompanyIDKey, claims.CompanyID)
		return c.Next()
	}
}

// TenantMiddleware requires the x-company-id header to name the company of the
// token. Runs after JWTMiddleware.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(CompanyHeader))
		if header == "" {
			return apperror.Validation("x-company-id header is required")
		}
		companyID, _ := c.Locals(CtxCompanyIDKey).(string)
		if !strings.EqualFold(header, companyID) {
			return apperror.Forbidden("company mismatch")
		}
		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return apperror.Forbidden("role missing")
		}
		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return apperror.Forbidden("insufficient permissions")
	}
}

// FromCtx returns the principal stored by JWTMiddleware.
func FromCtx(c *fiber.Ctx) (Principal, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Principal{}, apperror.Unauthorized("not authenticated")
	}
	companyID, _ := c.Locals(CtxCompanyIDKey).(string)
	role, _ := c.Locals(CtxUserRoleKey).(models.UserRole)
	return Principal{UserID: userID, CompanyID: companyID, Role: role}, nil
}
