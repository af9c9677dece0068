// Package catalog manages the master data stock is recorded against:
// vendors, brands, the category hierarchy and SKUs.
package catalog

import (
	"context"
	"fmt"

	"inventory-backend/internal/audit"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/events"
	"inventory-backend/internal/models"

	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	events events.Publisher
}

func NewService(db *gorm.DB, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{db: db, events: pub}
}

func (s *Service) publish(ctx context.Context, p auth.Principal, entity, action string, id any) {
	s.events.Publish(ctx, events.New(p.CompanyID, entity, action, fmt.Sprint(id)))
}

func writeAudit(tx *gorm.DB, p auth.Principal, entity string, id any, action models.AuditAction, desc string, before, after any) error {
	return audit.Write(tx, audit.Entry{
		CompanyID:   p.CompanyID,
		UserID:      p.UserID,
		EntityType:  entity,
		EntityID:    id,
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	})
}

// scoped limits a query to one company.
func scoped(db *gorm.DB, companyID string) *gorm.DB {
	return db.Where("company_id = ?", companyID)
}
