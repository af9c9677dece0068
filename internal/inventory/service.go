// Package inventory records stock coming in against vendor invoices and going
// out against dispatch documents, and keeps the received / short / rejected
// split of every incoming line consistent.
package inventory

import (
	"context"
	"fmt"

	"inventory-backend/internal/audit"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/events"
	"inventory-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	entityIncoming     = "incoming_inventory"
	entityIncomingItem = "incoming_inventory_item"
	entityRejected     = "rejected_item_report"
	entityOutgoing     = "outgoing_inventory"
	entitySKU          = "sku"
)

type Service struct {
	db     *gorm.DB
	events events.Publisher
	log    logrus.FieldLogger
}

func NewService(db *gorm.DB, pub events.Publisher, log logrus.FieldLogger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{db: db, events: pub, log: log}
}

func (s *Service) publish(ctx context.Context, companyID, entity, action string, id any) {
	s.events.Publish(ctx, events.New(companyID, entity, action, fmt.Sprint(id)))
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

func scoped(db *gorm.DB, companyID string) *gorm.DB {
	return db.Where("company_id = ?", companyID)
}
