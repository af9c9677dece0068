package httpx

import (
	"github.com/gofiber/fiber/v2"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageFromQuery reads ?page=&limit= with sane bounds.
func PageFromQuery(c *fiber.Ctx) Page {
	p := Page{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", defaultLimit)}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}
