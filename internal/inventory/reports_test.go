package inventory

import (
	"context"
	"testing"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/models"

	"github.com/shopspring/decimal"
)

func TestUpdateRejectedReport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := e.invoice(t, "INV-R", [2]int{20, 20})
	res, err := e.svc.MoveReceivedToRejected(ctx, e.p, h.ID, MoveInput{ItemID: h.Items[0].ID, Quantity: 10, Reason: "cracked"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := e.svc.UpdateRejectedReport(ctx, e.p, res.Report.ID, Disposition{SentToVendor: 4, ReceivedBack: 1, Scrapped: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got.NetRejected != 3 {
		t.Errorf("net rejected = %d, want 3", got.NetRejected)
	}

	_, err = e.svc.UpdateRejectedReport(ctx, e.p, res.Report.ID, Disposition{SentToVendor: 8, Scrapped: 3})
	wantKind(t, err, apperror.KindValidation)
	_, err = e.svc.UpdateRejectedReport(ctx, e.p, res.Report.ID, Disposition{Scrapped: -1})
	wantKind(t, err, apperror.KindValidation)
	_, err = e.svc.UpdateRejectedReport(ctx, e.p, 9999, Disposition{})
	wantKind(t, err, apperror.KindNotFound)

	reports, total, err := e.svc.ListRejectedReports(ctx, "ABCDEF", RejectedReportFilter{InvoiceNumber: "INV-R"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || reports[0].SentToVendor != 4 || reports[0].NetRejected != 3 {
		t.Fatalf("reports = %+v", reports)
	}
	if reports[0].SKU == nil || reports[0].SKU.ItemName != "Copper Wire" {
		t.Errorf("sku not loaded: %+v", reports[0].SKU)
	}
}

func TestListShortReports(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := e.invoice(t, "INV-S", [2]int{100, 90}, [2]int{10, 10}, [2]int{50, 45})
	cancelled := e.invoice(t, "INV-C", [2]int{5, 1})
	if _, err := e.svc.UpdateStatus(ctx, e.p, cancelled.ID, models.IncomingStatusCancelled); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.UpdateShortItem(ctx, e.p, h.ID, ShortUpdateInput{ItemID: h.Items[2].ID, Short: 0}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		status string
		want   map[uint]string
	}{
		{"", map[uint]string{h.Items[0].ID: ShortStatusPending, h.Items[2].ID: ShortStatusResolved}},
		{ShortStatusPending, map[uint]string{h.Items[0].ID: ShortStatusPending}},
		{ShortStatusResolved, map[uint]string{h.Items[2].ID: ShortStatusResolved}},
	}
	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			rows, err := e.svc.ListShortReports(ctx, "ABCDEF", ShortReportFilter{Status: tt.status})
			if err != nil {
				t.Fatal(err)
			}
			if len(rows) != len(tt.want) {
				t.Fatalf("rows = %+v, want %d", rows, len(tt.want))
			}
			for _, r := range rows {
				if tt.want[r.ItemID] != r.Status {
					t.Errorf("item %d status = %q, want %q", r.ItemID, r.Status, tt.want[r.ItemID])
				}
				if r.ShortQuantity != r.TotalQuantity-r.Received {
					t.Errorf("item %d shortQuantity = %d", r.ItemID, r.ShortQuantity)
				}
				if r.VendorName != "Acme Supplies" || r.InvoiceNumber != "INV-S" {
					t.Errorf("row = %+v", r)
				}
			}
		})
	}

	_, err := e.svc.ListShortReports(ctx, "ABCDEF", ShortReportFilter{Status: "open"})
	wantKind(t, err, apperror.KindValidation)
}

func TestCreateOutgoing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	wire, conduit := e.fx.SKUs[0].ID, e.fx.SKUs[1].ID
	e.db.Model(&models.SKU{}).Where("id IN ?", []string{wire, conduit}).Update("current_stock", 10)

	doc, err := e.svc.CreateOutgoing(ctx, e.p, OutgoingInput{
		DocumentNumber: "DC-1",
		DocumentDate:   date("2025-06-12"),
		CustomerName:   "Site 4",
		Items: []OutgoingItemInput{
			{SKUID: wire, Quantity: 4, UnitPrice: decimal.RequireFromString("12.50")},
			{SKUID: conduit, Quantity: 10, UnitPrice: decimal.NewFromInt(20)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !doc.TotalValue.Equal(decimal.NewFromInt(250)) || len(doc.Items) != 2 {
		t.Errorf("doc = %+v", doc)
	}
	if e.stock(t, wire) != 6 || e.stock(t, conduit) != 0 {
		t.Errorf("stock = %d / %d, want 6 / 0", e.stock(t, wire), e.stock(t, conduit))
	}

	// second line cannot be covered, the first must not be taken either
	_, err = e.svc.CreateOutgoing(ctx, e.p, OutgoingInput{
		DocumentNumber: "DC-2",
		DocumentDate:   date("2025-06-13"),
		Items: []OutgoingItemInput{
			{SKUID: wire, Quantity: 1},
			{SKUID: conduit, Quantity: 1},
		},
	})
	wantKind(t, err, apperror.KindValidation)
	if e.stock(t, wire) != 6 {
		t.Errorf("wire stock = %d after failed dispatch, want 6", e.stock(t, wire))
	}
	_, total, err := e.svc.ListOutgoing(ctx, "ABCDEF", OutgoingFilter{Search: "site"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("outgoing total = %d, want 1", total)
	}
	if n := len(e.rec.Events()); n == 0 {
		t.Error("no events published")
	}
}

func TestListPriceHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.invoice(t, "INV-P1", [2]int{1, 1}, [2]int{1, 1})
	b := e.invoice(t, "INV-P2", [2]int{1, 1})
	for _, id := range []uint{a.ID, b.ID} {
		if _, err := e.svc.UpdateStatus(ctx, e.p, id, models.IncomingStatusCompleted); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := e.svc.ListPriceHistory(ctx, "ABCDEF", PriceHistoryFilter{SKUID: e.fx.SKUs[0].ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	all, err := e.svc.ListPriceHistory(ctx, "ABCDEF", PriceHistoryFilter{VendorID: &e.fx.Vendor.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("vendor rows = %d, want 3", len(all))
	}
	none, err := e.svc.ListPriceHistory(ctx, "ZZZZZZ", PriceHistoryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("other tenant sees %d rows", len(none))
	}
}

func TestRejectedReportsPastSequence999(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := e.invoice(t, "INV-R", [2]int{5, 5})
	itemID := h.Items[0].ID

	old := models.RejectedItemReport{
		CompanyID:               "ABCDEF",
		InvoiceNumber:           "INV-R",
		Sequence:                999,
		ReportNumber:            models.RejectedReportNumber("INV-R", 999),
		IncomingInventoryID:     h.ID,
		IncomingInventoryItemID: itemID,
		SKUID:                   e.fx.SKUs[0].ID,
		Quantity:                1,
	}
	if err := e.db.Create(&old).Error; err != nil {
		t.Fatal(err)
	}

	res, err := e.svc.MoveReceivedToRejected(ctx, e.p, h.ID, MoveInput{ItemID: itemID, Quantity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Report.Sequence != 1000 || res.Report.ReportNumber != "REJ/INV-R/1000" {
		t.Fatalf("report = %d %q", res.Report.Sequence, res.Report.ReportNumber)
	}

	// same timestamp: only the sequence decides, "REJ/INV-R/1000" < "REJ/INV-R/999" as strings
	at := date("2025-06-20")
	e.db.Model(&models.RejectedItemReport{}).Where("invoice_number = ?", "INV-R").UpdateColumn("created_at", at)
	reports, _, err := e.svc.ListRejectedReports(ctx, "ABCDEF", RejectedReportFilter{InvoiceNumber: "INV-R"})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 || reports[0].Sequence != 1000 || reports[1].Sequence != 999 {
		t.Errorf("order = %+v", reports)
	}
}
