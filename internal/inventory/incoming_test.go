package inventory

import (
	"context"
	"strings"
	"testing"
	"time"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/database/dbtest"
	"inventory-backend/internal/events"
	"inventory-backend/internal/logger"
	"inventory-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type env struct {
	db  *gorm.DB
	svc *Service
	rec *events.Recorder
	fx  *dbtest.Fixture
	p   auth.Principal
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	rec := &events.Recorder{}
	fx := dbtest.Seed(t, db, "ABCDEF")
	return &env{
		db:  db,
		svc: NewService(db, rec, logger.Discard()),
		rec: rec,
		fx:  fx,
		p:   auth.Principal{UserID: fx.Admin.ID, CompanyID: "ABCDEF", Role: models.RoleAdmin},
	}
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// invoice creates a draft with one line per (total, received) pair.
func (e *env) invoice(t *testing.T, number string, lines ...[2]int) *models.IncomingInventory {
	t.Helper()
	in := IncomingInput{
		InvoiceNumber: number,
		InvoiceDate:   date("2025-06-10"),
		VendorID:      e.fx.Vendor.ID,
		BrandID:       e.fx.Brand.ID,
	}
	for i, l := range lines {
		in.Items = append(in.Items, IncomingItemInput{
			SKUID:         e.fx.SKUs[i%len(e.fx.SKUs)].ID,
			TotalQuantity: l[0],
			Received:      l[1],
			UnitPrice:     decimal.NewFromInt(100),
			GSTRate:       decimal.NewFromInt(18),
		})
	}
	h, err := e.svc.CreateIncoming(context.Background(), e.p, in)
	if err != nil {
		t.Fatalf("CreateIncoming: %v", err)
	}
	return h
}

func (e *env) item(t *testing.T, id uint) models.IncomingInventoryItem {
	t.Helper()
	var it models.IncomingInventoryItem
	if err := e.db.First(&it, id).Error; err != nil {
		t.Fatal(err)
	}
	return it
}

func (e *env) stock(t *testing.T, skuID string) int {
	t.Helper()
	var sku models.SKU
	if err := e.db.Where("id = ?", skuID).First(&sku).Error; err != nil {
		t.Fatal(err)
	}
	return sku.CurrentStock
}

func wantKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	if err == nil || apperror.KindOf(err) != kind {
		t.Fatalf("err = %v, want kind %d", err, kind)
	}
}

func TestCreateIncomingDerivesShortAndTotals(t *testing.T) {
	e := newEnv(t)
	h := e.invoice(t, "INV-1", [2]int{100, 90}, [2]int{3, 3})

	if h.Status != models.IncomingStatusDraft {
		t.Errorf("status = %s, want draft", h.Status)
	}
	if len(h.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(h.Items))
	}
	for _, it := range h.Items {
		if it.Received+it.Short != it.TotalQuantity || it.Rejected != 0 {
			t.Errorf("item %+v breaks received + short == total", it)
		}
	}
	if h.Items[0].Short != 10 {
		t.Errorf("short = %d, want 10", h.Items[0].Short)
	}
	// 100 x 100 = 10000 and 3 x 100 = 300, plus 18% GST
	if !h.TotalValueExclGST.Equal(decimal.NewFromInt(10300)) {
		t.Errorf("excl = %s, want 10300", h.TotalValueExclGST)
	}
	if !h.TotalValueInclGST.Equal(decimal.NewFromInt(12154)) {
		t.Errorf("incl = %s, want 12154", h.TotalValueInclGST)
	}
	if h.Vendor == nil || h.Items[0].SKU == nil {
		t.Error("vendor and sku are not loaded")
	}

	items, err := e.svc.ListItems(context.Background(), "ABCDEF", h.ID)
	if err != nil {
		t.Fatal(err)
	}
	for i, it := range items {
		want := h.Items[i]
		if it.TotalQuantity != want.TotalQuantity || it.Received != want.Received || it.Short != want.Short || it.Rejected != want.Rejected {
			t.Errorf("item %d round trip = %+v, want %+v", i, it, want)
		}
	}
}

func TestCreateIncomingRollsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	base := IncomingInput{
		InvoiceNumber: "INV-X",
		InvoiceDate:   date("2025-06-10"),
		VendorID:      e.fx.Vendor.ID,
		BrandID:       e.fx.Brand.ID,
	}
	good := IncomingItemInput{SKUID: e.fx.SKUs[0].ID, TotalQuantity: 5, Received: 5}

	tests := []struct {
		name   string
		mutate func(*IncomingInput)
		want   apperror.Kind
	}{
		{"no items", func(in *IncomingInput) { in.Items = nil }, apperror.KindValidation},
		{"received over total", func(in *IncomingInput) {
			in.Items = []IncomingItemInput{good, {SKUID: e.fx.SKUs[1].ID, TotalQuantity: 5, Received: 6}}
		}, apperror.KindValidation},
		{"zero total", func(in *IncomingInput) {
			in.Items = []IncomingItemInput{{SKUID: e.fx.SKUs[1].ID}}
		}, apperror.KindValidation},
		{"unknown sku", func(in *IncomingInput) {
			in.Items = []IncomingItemInput{good, {SKUID: "ABCDEFNOSUCH00", TotalQuantity: 1}}
		}, apperror.KindNotFound},
		{"unknown vendor", func(in *IncomingInput) { in.VendorID = 999 }, apperror.KindNotFound},
		{"cancelled on create", func(in *IncomingInput) { in.Status = models.IncomingStatusCancelled }, apperror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.Items = []IncomingItemInput{good}
			tt.mutate(&in)
			_, err := e.svc.CreateIncoming(ctx, e.p, in)
			wantKind(t, err, tt.want)
		})
	}

	var headers, items int64
	e.db.Model(&models.IncomingInventory{}).Count(&headers)
	e.db.Model(&models.IncomingInventoryItem{}).Count(&items)
	if headers != 0 || items != 0 {
		t.Errorf("headers = %d, items = %d after failed creates, want 0", headers, items)
	}
}

func TestReconciliationScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := e.invoice(t, "INV-100", [2]int{100, 90})
	itemID := h.Items[0].ID

	res, err := e.svc.MoveReceivedToRejected(ctx, e.p, h.ID, MoveInput{ItemID: itemID, Quantity: 5, Reason: "damaged"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.ReportCreated || res.Report == nil || res.Report.Quantity != 5 {
		t.Fatalf("result = %+v", res)
	}
	if res.Report.ReportNumber != "REJ/INV-100/001" {
		t.Errorf("report number = %q", res.Report.ReportNumber)
	}
	it := e.item(t, itemID)
	if it.Received != 85 || it.Rejected != 5 || it.Short != 10 {
		t.Fatalf("after received move = %+v", it)
	}

	if _, err := e.svc.MoveShortToRejected(ctx, e.p, h.ID, MoveInput{ItemID: itemID, Quantity: 3}); err != nil {
		t.Fatal(err)
	}
	it = e.item(t, itemID)
	if it.Short != 7 || it.Rejected != 8 || it.Received != 85 {
		t.Fatalf("after short move = %+v", it)
	}

	_, err = e.svc.MoveReceivedToRejected(ctx, e.p, h.ID, MoveInput{ItemID: itemID, Quantity: 999})
	wantKind(t, err, apperror.KindValidation)
	_, err = e.svc.MoveShortToRejected(ctx, e.p, h.ID, MoveInput{ItemID: itemID, Quantity: 8})
	wantKind(t, err, apperror.KindValidation)
	_, err = e.svc.MoveShortToRejected(ctx, e.p, h.ID, MoveInput{ItemID: itemID, Quantity: 0})
	wantKind(t, err, apperror.KindValidation)

	if got := e.item(t, itemID); got.Received != 85 || got.Short != 7 || got.Rejected != 8 {
		t.Fatalf("failed moves changed the item: %+v", got)
	}

	var reports int64
	e.db.Model(&models.RejectedItemReport{}).Count(&reports)
	if reports != 1 {
		t.Errorf("reports = %d, want 1", reports)
	}
}

func TestRejectedReportsAreSequentialPerInvoice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.invoice(t, "INV-A", [2]int{10, 10}, [2]int{10, 10})
	b := e.invoice(t, "INV-B", [2]int{10, 10})

	moves := []struct {
		header *models.IncomingInventory
		item   int
		want   string
	}{
		{a, 0, "REJ/INV-A/001"},
		{a, 1, "REJ/INV-A/002"},
		{b, 0, "REJ/INV-B/001"},
		{a, 0, "REJ/INV-A/003"},
	}
	prev := map[string]int{}
	for _, m := range moves {
		res, err := e.svc.MoveReceivedToRejected(ctx, e.p, m.header.ID, MoveInput{ItemID: m.header.Items[m.item].ID, Quantity: 1})
		if err != nil {
			t.Fatal(err)
		}
		if res.Report.ReportNumber != m.want {
			t.Errorf("report number = %q, want %q", res.Report.ReportNumber, m.want)
		}
		if res.Report.Sequence <= prev[m.header.InvoiceNumber] {
			t.Errorf("sequence %d not above %d", res.Report.Sequence, prev[m.header.InvoiceNumber])
		}
		prev[m.header.InvoiceNumber] = res.Report.Sequence
	}
}

func TestMoveRejectsForeignAndCancelled(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.invoice(t, "INV-A", [2]int{10, 10})
	b := e.invoice(t, "INV-B", [2]int{10, 10})

	// item of b through header a
	_, err := e.svc.MoveReceivedToRejected(ctx, e.p, a.ID, MoveInput{ItemID: b.Items[0].ID, Quantity: 1})
	wantKind(t, err, apperror.KindNotFound)

	dbtest.Seed(t, e.db, "ZZZZZZ")
	other := auth.Principal{UserID: 1, CompanyID: "ZZZZZZ"}
	_, err = e.svc.MoveReceivedToRejected(ctx, other, a.ID, MoveInput{ItemID: a.Items[0].ID, Quantity: 1})
	wantKind(t, err, apperror.KindNotFound)

	if _, err := e.svc.UpdateStatus(ctx, e.p, a.ID, models.IncomingStatusCancelled); err != nil {
		t.Fatal(err)
	}
	_, err = e.svc.MoveReceivedToRejected(ctx, e.p, a.ID, MoveInput{ItemID: a.Items[0].ID, Quantity: 1})
	wantKind(t, err, apperror.KindValidation)
}

func TestReasonLength(t *testing.T) {
	e := newEnv(t)
	h := e.invoice(t, "INV-1", [2]int{10, 10})
	devanagari := strings.Repeat("ख", 30)

	tests := []struct {
		name   string
		reason string
		stored string
		ok     bool
	}{
		{"ascii at limit", strings.Repeat("x", 30), strings.Repeat("x", 30), true},
		{"ascii over limit", strings.Repeat("x", 31), "", false},
		{"multibyte at limit", devanagari, devanagari, true},
		{"multibyte over limit", devanagari + "ख", "", false},
		{"padding is trimmed", "  " + devanagari + "  ", devanagari, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.svc.MoveReceivedToRejected(context.Background(), e.p, h.ID, MoveInput{
				ItemID:   h.Items[0].ID,
				Quantity: 1,
				Reason:   tt.reason,
			})
			if !tt.ok {
				wantKind(t, err, apperror.KindValidation)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if res.Report.Reason != tt.stored {
				t.Errorf("reason = %q, want %q", res.Report.Reason, tt.stored)
			}
		})
	}
}

func TestUpdateShortItem(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := e.invoice(t, "INV-1", [2]int{100, 90})
	itemID := h.Items[0].ID
	challan := date("2025-06-20")

	it, err := e.svc.UpdateShortItem(ctx, e.p, h.ID, ShortUpdateInput{ItemID: itemID, Short: 4, ChallanNumber: "CH-9", ChallanDate: &challan})
	if err != nil {
		t.Fatal(err)
	}
	if it.Short != 4 || it.Received != 90 || it.ChallanNumber != "CH-9" || it.ChallanDate == nil {
		t.Errorf("item = %+v", it)
	}

	_, err = e.svc.UpdateShortItem(ctx, e.p, h.ID, ShortUpdateInput{ItemID: itemID, Short: 5})
	wantKind(t, err, apperror.KindValidation)
	_, err = e.svc.UpdateShortItem(ctx, e.p, h.ID, ShortUpdateInput{ItemID: itemID, Short: -1})
	wantKind(t, err, apperror.KindValidation)
}

func TestUpdateItemRejectedShort(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := e.invoice(t, "INV-1", [2]int{100, 90})
	itemID := h.Items[0].ID
	ptr := func(v int) *int { return &v }

	it, err := e.svc.UpdateItemRejectedShort(ctx, e.p, h.ID, ItemUpdateInput{ItemID: itemID, Short: ptr(6), Rejected: ptr(4)})
	if err != nil {
		t.Fatal(err)
	}
	if it.Short != 6 || it.Rejected != 4 || it.Received != 90 {
		t.Errorf("item = %+v", it)
	}

	tests := []struct {
		name string
		in   ItemUpdateInput
	}{
		{"over total", ItemUpdateInput{ItemID: itemID, Short: ptr(10), Rejected: ptr(1)}},
		{"negative rejected", ItemUpdateInput{ItemID: itemID, Rejected: ptr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.UpdateItemRejectedShort(ctx, e.p, h.ID, tt.in)
			wantKind(t, err, apperror.KindValidation)
		})
	}
	if got := e.item(t, itemID); got.Short != 6 || got.Rejected != 4 || got.Received != 90 {
		t.Errorf("failed updates changed the item: %+v", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sku := e.fx.SKUs[0].ID
	h := e.invoice(t, "INV-1", [2]int{100, 90})

	if got := e.stock(t, sku); got != 0 {
		t.Fatalf("draft booked stock: %d", got)
	}

	done, err := e.svc.UpdateStatus(ctx, e.p, h.ID, models.IncomingStatusCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != models.IncomingStatusCompleted {
		t.Errorf("status = %s", done.Status)
	}
	if got := e.stock(t, sku); got != 90 {
		t.Errorf("stock = %d, want 90", got)
	}

	var prices []models.PriceHistory
	e.db.Where("sku_id = ?", sku).Find(&prices)
	if len(prices) != 1 || prices[0].InvoiceNumber != "INV-1" || !prices[0].UnitPrice.Equal(decimal.NewFromInt(100)) {
		t.Errorf("price history = %+v", prices)
	}

	for _, next := range []models.IncomingStatus{models.IncomingStatusDraft, models.IncomingStatusCancelled, models.IncomingStatusCompleted} {
		_, err := e.svc.UpdateStatus(ctx, e.p, h.ID, next)
		wantKind(t, err, apperror.KindValidation)
	}
	if got := e.stock(t, sku); got != 90 {
		t.Errorf("stock after refused transitions = %d, want 90", got)
	}

	// rejecting booked units takes them back out of stock
	if _, err := e.svc.MoveReceivedToRejected(ctx, e.p, h.ID, MoveInput{ItemID: h.Items[0].ID, Quantity: 15}); err != nil {
		t.Fatal(err)
	}
	if got := e.stock(t, sku); got != 75 {
		t.Errorf("stock after rejection = %d, want 75", got)
	}
}

func TestCreateCompletedBooksStock(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.CreateIncoming(context.Background(), e.p, IncomingInput{
		InvoiceNumber: "INV-C",
		InvoiceDate:   date("2025-06-10"),
		VendorID:      e.fx.Vendor.ID,
		BrandID:       e.fx.Brand.ID,
		Status:        models.IncomingStatusCompleted,
		Items:         []IncomingItemInput{{SKUID: e.fx.SKUs[1].ID, TotalQuantity: 12, Received: 12}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := e.stock(t, e.fx.SKUs[1].ID); got != 12 {
		t.Errorf("stock = %d, want 12", got)
	}
}

func TestListAndHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.invoice(t, "INV-A1", [2]int{1, 1})
	e.invoice(t, "INV-B2", [2]int{1, 1})
	c := e.invoice(t, "INV-A3", [2]int{1, 1})
	if _, err := e.svc.UpdateStatus(ctx, e.p, a.ID, models.IncomingStatusCompleted); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.UpdateStatus(ctx, e.p, c.ID, models.IncomingStatusCancelled); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		f    IncomingFilter
		want int64
	}{
		{"all", IncomingFilter{}, 3},
		{"drafts", IncomingFilter{Statuses: []models.IncomingStatus{models.IncomingStatusDraft}}, 1},
		{"search", IncomingFilter{Search: "inv-a"}, 2},
		{"vendor", IncomingFilter{VendorID: &e.fx.Vendor.ID}, 3},
		{"date window", IncomingFilter{From: ptrTime(date("2025-06-11"))}, 0},
		{"inclusive to", IncomingFilter{To: ptrTime(date("2025-06-10"))}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := e.svc.ListIncoming(ctx, "ABCDEF", tt.f)
			if err != nil {
				t.Fatal(err)
			}
			if total != tt.want {
				t.Errorf("total = %d, want %d", total, tt.want)
			}
		})
	}

	history, total, err := e.svc.History(ctx, "ABCDEF", IncomingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("history total = %d, want 2", total)
	}
	for _, h := range history {
		if h.Status == models.IncomingStatusDraft {
			t.Errorf("draft %s in history", h.InvoiceNumber)
		}
	}

	_, err = e.svc.GetIncoming(ctx, "ZZZZZZ", a.ID)
	wantKind(t, err, apperror.KindNotFound)
}

func ptrTime(t time.Time) *time.Time { return &t }
