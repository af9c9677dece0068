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

type VendorInput struct {
	Name          string
	GSTNumber     string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
}

func (s *Service) CreateVendor(ctx context.Context, p auth.Principal, in VendorInput) (*models.Vendor, error) {
	vendor := models.Vendor{
		CompanyID:     p.CompanyID,
		Name:          strings.TrimSpace(in.Name),
		GSTNumber:     strings.ToUpper(strings.TrimSpace(in.GSTNumber)),
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		IsActive:      true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &models.Vendor{}, p.CompanyID, vendor.Name, 0); err != nil {
			return err
		}
		if err := tx.Create(&vendor).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, "vendor", vendor.ID, models.AuditActionCreate, "vendor created", nil, vendor)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "vendor")
	}
	s.publish(ctx, p, "vendor", events.ActionCreated, vendor.ID)
	return &vendor, nil
}

func (s *Service) ListVendors(ctx context.Context, companyID, search string, includeInactive bool) ([]models.Vendor, error) {
	q := scoped(s.db.WithContext(ctx), companyID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var vendors []models.Vendor
	err := q.Order("name").Find(&vendors).Error
	return vendors, err
}

func (s *Service) GetVendor(ctx context.Context, companyID string, id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := scoped(s.db.WithContext(ctx), companyID).First(&vendor, id).Error; err != nil {
		return nil, apperror.FromDB(err, "vendor")
	}
	return &vendor, nil
}

func (s *Service) UpdateVendor(ctx context.Context, p auth.Principal, id uint, in VendorInput) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx, p.CompanyID).First(&vendor, id).Error; err != nil {
			return err
		}
		before := vendor
		name := strings.TrimSpace(in.Name)
		if err := ensureUniqueName(tx, &models.Vendor{}, p.CompanyID, name, vendor.ID); err != nil {
			return err
		}
		vendor.Name = name
		vendor.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))
		vendor.ContactPerson = in.ContactPerson
		vendor.Phone = in.Phone
		vendor.Email = in.Email
		vendor.Address = in.Address
		if err := tx.Save(&vendor).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, "vendor", vendor.ID, models.AuditActionUpdate, "vendor updated", before, vendor)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "vendor")
	}
	s.publish(ctx, p, "vendor", events.ActionUpdated, vendor.ID)
	return &vendor, nil
}

// DeactivateVendor hides the vendor from pickers; history keeps pointing at it.
func (s *Service) DeactivateVendor(ctx context.Context, p auth.Principal, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := scoped(tx.Model(&models.Vendor{}), p.CompanyID).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return writeAudit(tx, p, "vendor", id, models.AuditActionDelete, "vendor deactivated", nil, nil)
	})
	if err != nil {
		return apperror.FromDB(err, "vendor")
	}
	s.publish(ctx, p, "vendor", events.ActionDeleted, id)
	return nil
}

// FindOrCreateVendor matches a vendor by case-insensitive name.
func FindOrCreateVendor(tx *gorm.DB, companyID, name string) (*models.Vendor, error) {
	name = strings.TrimSpace(name)
	var vendor models.Vendor
	err := scoped(tx, companyID).Where("LOWER(name) = ?", strings.ToLower(name)).First(&vendor).Error
	if err == nil {
		return &vendor, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	vendor = models.Vendor{CompanyID: companyID, Name: name, IsActive: true}
	if err := tx.Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ensureUniqueName rejects a second active or inactive row with the same
// case-insensitive name. exceptID skips the row being updated.
func ensureUniqueName(tx *gorm.DB, model any, companyID, name string, exceptID uint) error {
	if name == "" {
		return apperror.Validation("name is required")
	}
	q := scoped(tx.Model(model), companyID).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("%q already exists", name)
	}
	return nil
}
