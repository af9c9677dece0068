// Package dashboard aggregates read-only figures for the landing page.
package dashboard

import (
	"context"
	"time"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/models"

	"gorm.io/gorm"
)

const lowStockListSize = 10

type Summary struct {
	SKUCount         int64                           `json:"skuCount"`
	LowStockCount    int64                           `json:"lowStockCount"`
	LowStockSKUs     []models.SKU                    `json:"lowStockSkus"`
	IncomingByStatus map[models.IncomingStatus]int64 `json:"incomingByStatus"`
	TotalRejected    int64                           `json:"totalRejected"`
	TotalShort       int64                           `json:"totalShort"`
	ReceivedLast30   int64                           `json:"receivedLast30Days"`
	OutgoingLast30   int64                           `json:"outgoingLast30Days"`
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (s *Service) Summary(ctx context.Context, companyID string) (*Summary, error) {
	db := s.db.WithContext(ctx)
	out := &Summary{IncomingByStatus: map[models.IncomingStatus]int64{
		models.IncomingStatusDraft:     0,
		models.IncomingStatusCompleted: 0,
		models.IncomingStatusCancelled: 0,
	}}

	activeSKUs := func() *gorm.DB {
		return db.Model(&models.SKU{}).Where("company_id = ? AND is_active = ?", companyID, true)
	}
	if err := activeSKUs().Count(&out.SKUCount).Error; err != nil {
		return nil, err
	}
	lowStock := "min_stock_level > 0 AND current_stock < min_stock_level"
	if err := activeSKUs().Where(lowStock).Count(&out.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := activeSKUs().Where(lowStock).
		Order("current_stock - min_stock_level, item_name").
		Limit(lowStockListSize).
		Find(&out.LowStockSKUs).Error; err != nil {
		return nil, err
	}

	var byStatus []struct {
		Status models.IncomingStatus
		Count  int64
	}
	if err := db.Model(&models.IncomingInventory{}).
		Select("status, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, r := range byStatus {
		out.IncomingByStatus[r.Status] = r.Count
	}

	var totals struct {
		Rejected int64
		Short    int64
	}
	if err := db.Table("incoming_inventory_items AS i").
		Select("COALESCE(SUM(i.rejected), 0) AS rejected, COALESCE(SUM(i.short), 0) AS short").
		Joins("JOIN incoming_inventories AS h ON h.id = i.incoming_inventory_id").
		Where("i.company_id = ? AND h.status <> ?", companyID, models.IncomingStatusCancelled).
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	out.TotalRejected, out.TotalShort = totals.Rejected, totals.Short

	since := s.now().AddDate(0, 0, -30)
	if err := db.Table("incoming_inventory_items AS i").
		Select("COALESCE(SUM(i.received), 0)").
		Joins("JOIN incoming_inventories AS h ON h.id = i.incoming_inventory_id").
		Where("i.company_id = ? AND h.status = ? AND h.invoice_date >= ?", companyID, models.IncomingStatusCompleted, since).
		Scan(&out.ReceivedLast30).Error; err != nil {
		return nil, err
	}
	if err := db.Table("outgoing_inventory_items AS i").
		Select("COALESCE(SUM(i.quantity), 0)").
		Joins("JOIN outgoing_inventories AS h ON h.id = i.outgoing_inventory_id").
		Where("i.company_id = ? AND h.document_date >= ?", companyID, since).
		Scan(&out.OutgoingLast30).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// DefaultCount is the number of buckets shown when the caller sets none.
func (p Period) DefaultCount() int {
	switch p {
	case PeriodWeekly:
		return 8
	case PeriodMonthly:
		return 12
	}
	return 7
}

type ChartPoint struct {
	Label    string `json:"label"`
	Received int64  `json:"received"`
	Rejected int64  `json:"rejected"`
	Outgoing int64  `json:"outgoing"`
}

type Chart struct {
	Period Period       `json:"period"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Points []ChartPoint `json:"points"`
}

// bucketStart truncates t to the start of its day, ISO week or month.
func bucketStart(p Period, t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch p {
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	return day
}

func step(p Period, t time.Time, n int) time.Time {
	switch p {
	case PeriodWeekly:
		return t.AddDate(0, 0, 7*n)
	case PeriodMonthly:
		return t.AddDate(0, n, 0)
	}
	return t.AddDate(0, 0, n)
}

// MovementChart buckets received, rejected and dispatched quantities of the
// last count periods. Buckets are built in Go so the query stays portable.
func (s *Service) MovementChart(ctx context.Context, companyID string, period Period, count int) (*Chart, error) {
	switch period {
	case "":
		period = PeriodDaily
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return nil, apperror.Validation("period must be one of [daily weekly monthly]")
	}
	if count <= 0 {
		count = period.DefaultCount()
	}

	now := s.now().UTC()
	start := step(period, bucketStart(period, now), -(count - 1))
	end := step(period, bucketStart(period, now), 1)

	points := make([]ChartPoint, count)
	index := make(map[string]int, count)
	for i := 0; i < count; i++ {
		points[i].Label = step(period, start, i).Format("2006-01-02")
		index[points[i].Label] = i
	}
	add := func(date time.Time, fn func(*ChartPoint)) {
		label := bucketStart(period, date.In(now.Location())).Format("2006-01-02")
		if i, ok := index[label]; ok {
			fn(&points[i])
		}
	}

	var incoming []struct {
		InvoiceDate time.Time
		Received    int64
		Rejected    int64
	}
	if err := s.db.WithContext(ctx).Table("incoming_inventory_items AS i").
		Select("h.invoice_date, i.received, i.rejected").
		Joins("JOIN incoming_inventories AS h ON h.id = i.incoming_inventory_id").
		Where("i.company_id = ? AND h.status = ?", companyID, models.IncomingStatusCompleted).
		Where("h.invoice_date >= ? AND h.invoice_date < ?", start, end).
		Scan(&incoming).Error; err != nil {
		return nil, err
	}
	for _, r := range incoming {
		r := r
		add(r.InvoiceDate, func(p *ChartPoint) {
			p.Received += r.Received
			p.Rejected += r.Rejected
		})
	}

	var outgoing []struct {
		DocumentDate time.Time
		Quantity     int64
	}
	if err := s.db.WithContext(ctx).Table("outgoing_inventory_items AS i").
		Select("h.document_date, i.quantity").
		Joins("JOIN outgoing_inventories AS h ON h.id = i.outgoing_inventory_id").
		Where("i.company_id = ?", companyID).
		Where("h.document_date >= ? AND h.document_date < ?", start, end).
		Scan(&outgoing).Error; err != nil {
		return nil, err
	}
	for _, r := range outgoing {
		r := r
		add(r.DocumentDate, func(p *ChartPoint) { p.Outgoing += r.Quantity })
	}

	return &Chart{
		Period: period,
		From:   start.Format("2006-01-02"),
		To:     end.AddDate(0, 0, -1).Format("2006-01-02"),
		Points: points,
	}, nil
}
