package catalog

import (
	"context"
	"errors"
	"strings"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/events"
	"inventory-backend/internal/models"

	"gorm.io/gorm"
)

type CategoryInput struct {
	Level    models.CategoryLevel
	ParentID *uint
	Name     string
}

type CategoryFilter struct {
	Level           models.CategoryLevel
	ParentID        *uint
	IncludeInactive bool
}

func (s *Service) CreateCategory(ctx context.Context, p auth.Principal, in CategoryInput) (*models.Category, error) {
	category := models.Category{
		CompanyID: p.CompanyID,
		Level:     in.Level,
		ParentID:  in.ParentID,
		Name:      strings.TrimSpace(in.Name),
		IsActive:  true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkParent(tx, p.CompanyID, category.Level, category.ParentID); err != nil {
			return err
		}
		if err := ensureUniqueCategory(tx, &category); err != nil {
			return err
		}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, "category", category.ID, models.AuditActionCreate, "category created", nil, category)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "category")
	}
	s.publish(ctx, p, "category", events.ActionCreated, category.ID)
	return &category, nil
}

func (s *Service) ListCategories(ctx context.Context, companyID string, f CategoryFilter) ([]models.Category, error) {
	q := scoped(s.db.WithContext(ctx), companyID)
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.ParentID != nil {
		q = q.Where("parent_id = ?", *f.ParentID)
	}
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	var categories []models.Category
	err := q.Order("level, name").Find(&categories).Error
	return categories, err
}

func (s *Service) GetCategory(ctx context.Context, companyID string, id uint) (*models.Category, error) {
	var category models.Category
	if err := scoped(s.db.WithContext(ctx), companyID).First(&category, id).Error; err != nil {
		return nil, apperror.FromDB(err, "category")
	}
	return &category, nil
}

// UpdateCategory renames a category. Level and parent are fixed once created.
func (s *Service) UpdateCategory(ctx context.Context, p auth.Principal, id uint, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx, p.CompanyID).First(&category, id).Error; err != nil {
			return err
		}
		before := category
		category.Name = strings.TrimSpace(name)
		if err := ensureUniqueCategory(tx, &category); err != nil {
			return err
		}
		if err := tx.Save(&category).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, "category", category.ID, models.AuditActionUpdate, "category renamed", before, category)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "category")
	}
	s.publish(ctx, p, "category", events.ActionUpdated, category.ID)
	return &category, nil
}

func (s *Service) DeactivateCategory(ctx context.Context, p auth.Principal, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := scoped(tx.Model(&models.Category{}), p.CompanyID).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return writeAudit(tx, p, "category", id, models.AuditActionDelete, "category deactivated", nil, nil)
	})
	if err != nil {
		return apperror.FromDB(err, "category")
	}
	s.publish(ctx, p, "category", events.ActionDeleted, id)
	return nil
}

// checkParent enforces product -> item -> sub.
func checkParent(tx *gorm.DB, companyID string, level models.CategoryLevel, parentID *uint) error {
	if !level.Valid() {
		return apperror.Validation("level must be one of [product item sub]")
	}
	want, needsParent := level.ParentLevel()
	if !needsParent {
		if parentID != nil {
			return apperror.Validation("product categories cannot have a parent")
		}
		return nil
	}
	if parentID == nil {
		return apperror.Validation("%s categories need a %s parent", level, want)
	}
	var parent models.Category
	if err := scoped(tx, companyID).First(&parent, *parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("parent category %d not found", *parentID)
		}
		return err
	}
	if parent.Level != want {
		return apperror.Validation("parent of a %s category must be a %s category", level, want)
	}
	return nil
}

func siblings(tx *gorm.DB, companyID string, level models.CategoryLevel, parentID *uint) *gorm.DB {
	q := scoped(tx.Model(&models.Category{}), companyID).Where("level = ?", level)
	if parentID == nil {
		return q.Where("parent_id IS NULL")
	}
	return q.Where("parent_id = ?", *parentID)
}

func ensureUniqueCategory(tx *gorm.DB, c *models.Category) error {
	if c.Name == "" {
		return apperror.Validation("name is required")
	}
	q := siblings(tx, c.CompanyID, c.Level, c.ParentID).Where("LOWER(name) = ?", strings.ToLower(c.Name))
	if c.ID != 0 {
		q = q.Where("id <> ?", c.ID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("%s category %q already exists", c.Level, c.Name)
	}
	return nil
}

// FindOrCreateCategory resolves one level of a category path by
// case-insensitive name under parentID.
func FindOrCreateCategory(tx *gorm.DB, companyID string, level models.CategoryLevel, parentID *uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	var category models.Category
	err := siblings(tx, companyID, level, parentID).Where("LOWER(name) = ?", strings.ToLower(name)).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category = models.Category{CompanyID: companyID, Level: level, ParentID: parentID, Name: name, IsActive: true}
	if err := tx.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
