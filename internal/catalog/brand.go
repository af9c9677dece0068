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

type BrandInput struct {
	Name        string
	Description string
}

func (s *Service) CreateBrand(ctx context.Context, p auth.Principal, in BrandInput) (*models.Brand, error) {
	brand := models.Brand{
		CompanyID:   p.CompanyID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IsActive:    true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &models.Brand{}, p.CompanyID, brand.Name, 0); err != nil {
			return err
		}
		if err := tx.Create(&brand).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, "brand", brand.ID, models.AuditActionCreate, "brand created", nil, brand)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "brand")
	}
	s.publish(ctx, p, "brand", events.ActionCreated, brand.ID)
	return &brand, nil
}

func (s *Service) ListBrands(ctx context.Context, companyID string, includeInactive bool) ([]models.Brand, error) {
	q := scoped(s.db.WithContext(ctx), companyID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var brands []models.Brand
	err := q.Order("name").Find(&brands).Error
	return brands, err
}

func (s *Service) GetBrand(ctx context.Context, companyID string, id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := scoped(s.db.WithContext(ctx), companyID).First(&brand, id).Error; err != nil {
		return nil, apperror.FromDB(err, "brand")
	}
	return &brand, nil
}

func (s *Service) UpdateBrand(ctx context.Context, p auth.Principal, id uint, in BrandInput) (*models.Brand, error) {
	var brand models.Brand
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx, p.CompanyID).First(&brand, id).Error; err != nil {
			return err
		}
		before := brand
		name := strings.TrimSpace(in.Name)
		if err := ensureUniqueName(tx, &models.Brand{}, p.CompanyID, name, brand.ID); err != nil {
			return err
		}
		brand.Name = name
		brand.Description = in.Description
		if err := tx.Save(&brand).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, "brand", brand.ID, models.AuditActionUpdate, "brand updated", before, brand)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "brand")
	}
	s.publish(ctx, p, "brand", events.ActionUpdated, brand.ID)
	return &brand, nil
}

func (s *Service) DeactivateBrand(ctx context.Context, p auth.Principal, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := scoped(tx.Model(&models.Brand{}), p.CompanyID).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return writeAudit(tx, p, "brand", id, models.AuditActionDelete, "brand deactivated", nil, nil)
	})
	if err != nil {
		return apperror.FromDB(err, "brand")
	}
	s.publish(ctx, p, "brand", events.ActionDeleted, id)
	return nil
}

func FindOrCreateBrand(tx *gorm.DB, companyID, name string) (*models.Brand, error) {
	name = strings.TrimSpace(name)
	var brand models.Brand
	err := scoped(tx, companyID).Where("LOWER(name) = ?", strings.ToLower(name)).First(&brand).Error
	if err == nil {
		return &brand, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	brand = models.Brand{CompanyID: companyID, Name: name, IsActive: true}
	if err := tx.Create(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}
