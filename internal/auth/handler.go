package auth

import (
	"inventory-backend/internal/httpx"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	CompanyName string `json:"companyName" validate:"required,max=150"`
	GSTNumber   string `json:"gstNumber" validate:"required,len=15"`
	Address     string `json:"address" validate:"max=255"`
	Phone       string `json:"phone" validate:"max=20"`
	AdminName   string `json:"adminName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=admin user"`
}

type Handler struct {
	svc    *Service
	tokens *Tokens
}

func NewHandler(svc *Service, tokens *Tokens) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

// POST /api/auth/register
func (h *Handler) Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}

		company, user, err := h.svc.Register(c.UserContext(), RegisterInput{
			CompanyName: body.CompanyName,
			GSTNumber:   body.GSTNumber,
			Address:     body.Address,
			Phone:       body.Phone,
			AdminName:   body.AdminName,
			Email:       body.Email,
			Password:    body.Password,
		})
		if err != nil {
			return err
		}

		token, err := h.tokens.Generate(user)
		if err != nil {
			return err
		}
		return httpx.Created(c, fiber.Map{
			"company": company,
			"user":    user,
			"token":   token,
		}, "company registered")
	}
}

// POST /api/auth/login
func (h *Handler) Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}

		user, err := h.svc.Authenticate(c.UserContext(), body.Email, body.Password)
		if err != nil {
			return err
		}
		token, err := h.tokens.Generate(user)
		if err != nil {
			return err
		}
		return httpx.OK(c, fiber.Map{"token": token, "user": user})
	}
}

// GET /api/auth/me
func (h *Handler) Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := FromCtx(c)
		if err != nil {
			return err
		}
		user, err := h.svc.Me(c.UserContext(), p.UserID)
		if err != nil {
			return err
		}
		return httpx.OK(c, user)
	}
}

// POST /api/users
func (h *Handler) CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := FromCtx(c)
		if err != nil {
			return err
		}
		var body CreateUserRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		user, err := h.svc.CreateUser(c.UserContext(), p, CreateUserInput{
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
			Role:     body.Role,
		})
		if err != nil {
			return err
		}
		return httpx.Created(c, user, "user created")
	}
}

// GET /api/users
func (h *Handler) ListUsers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := FromCtx(c)
		if err != nil {
			return err
		}
		users, err := h.svc.ListUsers(c.UserContext(), p.CompanyID)
		if err != nil {
			return err
		}
		return httpx.OK(c, users)
	}
}
