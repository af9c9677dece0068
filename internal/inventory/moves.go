package inventory

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/events"
	"inventory-backend/internal/models"
	"inventory-backend/internal/reconcile"

	"gorm.io/gorm"
)

// maxReasonLength is counted in characters, like the varchar column.
const maxReasonLength = 30

type MoveInput struct {
	ItemID         uint
	Quantity       int
	InspectionDate *time.Time
	Reason         string
}

type MoveResult struct {
	Item          *models.IncomingInventoryItem `json:"item"`
	ReportCreated bool                          `json:"reportCreated"`
	Report        *models.RejectedItemReport    `json:"report,omitempty"`
}

type ShortUpdateInput struct {
	ItemID        uint
	Short         int
	ChallanNumber string
	ChallanDate   *time.Time
}

type ItemUpdateInput struct {
	ItemID        uint
	Short         *int
	Rejected      *int
	ChallanNumber *string
	ChallanDate   *time.Time
}

// ruleError turns a reconcile error into a 400.
func ruleError(err error) error {
	var insufficient *reconcile.InsufficientError
	if errors.As(err, &insufficient) {
		return apperror.Validation("%s", insufficient.Error())
	}
	return apperror.Validation("%v", err)
}

// MoveReceivedToRejected takes units that failed inspection out of received.
// The quantity change and its rejected item report commit together.
func (s *Service) MoveReceivedToRejected(ctx context.Context, p auth.Principal, headerID uint, in MoveInput) (*MoveResult, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if utf8.RuneCountInString(in.Reason) > maxReasonLength {
		return nil, apperror.Validation("reason must be at most %d characters", maxReasonLength)
	}
	result := &MoveResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header, item, err := loadLine(tx, p.CompanyID, headerID, in.ItemID)
		if err != nil {
			return err
		}
		before := *item
		if _, err := quantities(item).MoveReceivedToRejected(in.Quantity); err != nil {
			return ruleError(err)
		}

		// guarded so two concurrent moves cannot both spend the same units
		res := tx.Model(&models.IncomingInventoryItem{}).
			Where("id = ? AND received >= ?", item.ID, in.Quantity).
			Updates(map[string]any{
				"received": gorm.Expr("received - ?", in.Quantity),
				"rejected": gorm.Expr("rejected + ?", in.Quantity),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Validation("received quantity changed concurrently, less than %d left", in.Quantity)
		}

		if header.Status == models.IncomingStatusCompleted {
			if err := takeStock(tx, p.CompanyID, item.SKUID, in.Quantity); err != nil {
				return err
			}
		}

		report, err := appendRejectedReport(tx, p, header, item, in)
		if err != nil {
			return err
		}
		if err := tx.First(item, item.ID).Error; err != nil {
			return err
		}
		result.Item = item
		result.Report = report
		result.ReportCreated = true
		return writeAudit(tx, p, entityIncomingItem, item.ID, models.AuditActionUpdate,
			"moved received to rejected", quantities(&before), quantities(item))
	})
	if err != nil {
		return nil, apperror.FromDB(err, "incoming inventory item")
	}
	s.publish(ctx, p.CompanyID, entityIncomingItem, events.ActionUpdated, in.ItemID)
	s.publish(ctx, p.CompanyID, entityRejected, events.ActionCreated, result.Report.ID)
	return result, nil
}

// appendRejectedReport numbers the report max(seq)+1 within the invoice. The
// unique (company, invoice, sequence) index turns a lost race into a conflict.
func appendRejectedReport(tx *gorm.DB, p auth.Principal, header *models.IncomingInventory, item *models.IncomingInventoryItem, in MoveInput) (*models.RejectedItemReport, error) {
	var last int
	err := tx.Model(&models.RejectedItemReport{}).
		Where("company_id = ? AND invoice_number = ?", p.CompanyID, header.InvoiceNumber).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&last).Error
	if err != nil {
		return nil, err
	}
	seq := last + 1
	inspection := in.InspectionDate
	if inspection == nil {
		now := time.Now()
		inspection = &now
	}
	report := models.RejectedItemReport{
		CompanyID:               p.CompanyID,
		InvoiceNumber:           header.InvoiceNumber,
		Sequence:                seq,
		ReportNumber:            models.RejectedReportNumber(header.InvoiceNumber, seq),
		IncomingInventoryID:     header.ID,
		IncomingInventoryItemID: item.ID,
		SKUID:                   item.SKUID,
		VendorID:                header.VendorID,
		BrandID:                 header.BrandID,
		Quantity:                in.Quantity,
		InspectionDate:          inspection,
		Reason:                  strings.TrimSpace(in.Reason),
		CreatedBy:               p.UserID,
	}
	if err := tx.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// takeStock removes booked units from a SKU, never below zero.
func takeStock(tx *gorm.DB, companyID, skuID string, qty int) error {
	res := scoped(tx.Model(&models.SKU{}), companyID).
		Where("id = ? AND current_stock >= ?", skuID, qty).
		Update("current_stock", gorm.Expr("current_stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var sku models.SKU
		if err := scoped(tx, companyID).Where("id = ?", skuID).First(&sku).Error; err != nil {
			return err
		}
		return apperror.Validation("insufficient stock for sku %s: %d available, %d requested", skuID, sku.CurrentStock, qty)
	}
	return nil
}

// MoveShortToRejected writes off units that never arrived. No report is
// created for this move.
func (s *Service) MoveShortToRejected(ctx context.Context, p auth.Principal, headerID uint, in MoveInput) (*MoveResult, error) {
	result := &MoveResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, item, err := loadLine(tx, p.CompanyID, headerID, in.ItemID)
		if err != nil {
			return err
		}
		before := *item
		if _, err := quantities(item).MoveShortToRejected(in.Quantity); err != nil {
			return ruleError(err)
		}
		res := tx.Model(&models.IncomingInventoryItem{}).
			Where("id = ? AND short >= ?", item.ID, in.Quantity).
			Updates(map[string]any{
				"short":    gorm.Expr("short - ?", in.Quantity),
				"rejected": gorm.Expr("rejected + ?", in.Quantity),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Validation("short quantity changed concurrently, less than %d left", in.Quantity)
		}
		if err := tx.First(item, item.ID).Error; err != nil {
			return err
		}
		result.Item = item
		return writeAudit(tx, p, entityIncomingItem, item.ID, models.AuditActionUpdate,
			"moved short to rejected", quantities(&before), quantities(item))
	})
	if err != nil {
		return nil, apperror.FromDB(err, "incoming inventory item")
	}
	s.publish(ctx, p.CompanyID, entityIncomingItem, events.ActionUpdated, in.ItemID)
	return result, nil
}

// UpdateShortItem records a late delivery: short can only go down.
func (s *Service) UpdateShortItem(ctx context.Context, p auth.Principal, headerID uint, in ShortUpdateInput) (*models.IncomingInventoryItem, error) {
	var item *models.IncomingInventoryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, it, err := loadLine(tx, p.CompanyID, headerID, in.ItemID)
		if err != nil {
			return err
		}
		item = it
		before := *item
		if _, err := quantities(item).SettleShort(in.Short); err != nil {
			return ruleError(err)
		}
		updates := map[string]any{"short": in.Short}
		if c := strings.TrimSpace(in.ChallanNumber); c != "" {
			updates["challan_number"] = c
		}
		if in.ChallanDate != nil {
			updates["challan_date"] = *in.ChallanDate
		}
		res := tx.Model(&models.IncomingInventoryItem{}).
			Where("id = ? AND short >= ?", item.ID, in.Short).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("item %d changed concurrently", item.ID)
		}
		if err := tx.First(item, item.ID).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, entityIncomingItem, item.ID, models.AuditActionUpdate,
			"short quantity settled", before, item)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "incoming inventory item")
	}
	s.publish(ctx, p.CompanyID, entityIncomingItem, events.ActionUpdated, item.ID)
	return item, nil
}

// UpdateItemRejectedShort overwrites short and/or rejected of a line. Received
// is not part of the input and never changes here.
func (s *Service) UpdateItemRejectedShort(ctx context.Context, p auth.Principal, headerID uint, in ItemUpdateInput) (*models.IncomingInventoryItem, error) {
	var item *models.IncomingInventoryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, it, err := loadLine(tx, p.CompanyID, headerID, in.ItemID)
		if err != nil {
			return err
		}
		item = it
		before := *item
		next, err := quantities(item).Adjust(in.Short, in.Rejected)
		if err != nil {
			return ruleError(err)
		}
		updates := map[string]any{"short": next.Short, "rejected": next.Rejected}
		if in.ChallanNumber != nil {
			updates["challan_number"] = strings.TrimSpace(*in.ChallanNumber)
		}
		if in.ChallanDate != nil {
			updates["challan_date"] = *in.ChallanDate
		}
		// optimistic: the row must still hold the values the check ran against
		res := tx.Model(&models.IncomingInventoryItem{}).
			Where("id = ? AND received = ? AND short = ? AND rejected = ?",
				item.ID, item.Received, item.Short, item.Rejected).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("item %d changed concurrently, reload and retry", item.ID)
		}
		if err := tx.First(item, item.ID).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, entityIncomingItem, item.ID, models.AuditActionUpdate,
			"short/rejected updated", before, item)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "incoming inventory item")
	}
	s.publish(ctx, p.CompanyID, entityIncomingItem, events.ActionUpdated, item.ID)
	return item, nil
}
