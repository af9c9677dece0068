// Package httpx holds the JSON envelope, body validation and error mapping
// shared by all handlers.
package httpx

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries paging information of list responses.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data, Message: message})
}

func List(c *fiber.Ctx, data any, page Page, total int64) error {
	return c.JSON(Envelope{
		Success: true,
		Data:    data,
		Meta:    &Meta{Page: page.Page, Limit: page.Limit, Total: total},
	})
}

func Fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Envelope{Success: false, Error: msg})
}
