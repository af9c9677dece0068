package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"inventory-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Entry struct {
	CompanyID   string
	UserID      uint
	EntityType  string
	EntityID    any
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Write stores an audit row using tx so it commits or rolls back together
// with the change it describes.
func Write(tx *gorm.DB, e Entry) error {
	row := models.AuditLog{
		CompanyID:   e.CompanyID,
		UserID:      e.UserID,
		EntityType:  e.EntityType,
		EntityID:    fmt.Sprint(e.EntityID),
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  toJSON(e.Before),
		AfterData:   toJSON(e.After),
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func toJSON(v any) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

type ListFilter struct {
	EntityType string
	EntityID   string
	UserID     *uint
	Limit      int
	Offset     int
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context, companyID string, f ListFilter) ([]models.AuditLog, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("company_id = ?", companyID)
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []models.AuditLog
	err := q.Order("created_at DESC, id DESC").Limit(f.Limit).Offset(f.Offset).Find(&logs).Error
	return logs, total, err
}
