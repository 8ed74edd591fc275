package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTemplateWorkbook(t *testing.T) {
	f, err := TemplateWorkbook()
	if err != nil {
		t.Fatalf("TemplateWorkbook: %v", err)
	}
	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("template must be headers plus one example row, got %d rows", len(rows))
	}
	for i, col := range OrderColumns {
		if rows[0][i] != col {
			t.Fatalf("header %d = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][0] != "123456" || rows[1][1] != "AWB987654" || rows[1][2] != StatusShipped {
		t.Fatalf("example row wrong: %v", rows[1])
	}
}

func TestWriteOrdersWorkbook_RendersDatesAndPrices(t *testing.T) {
	orderDate := date(t, "2024-01-10")
	price := decimal.NewFromInt(499)
	marketplace := "Amazon"
	orders := []*Order{
		{
			OrderId:         "1",
			Awb:             "A1",
			Status:          StatusShipped,
			OrderDate:       &orderDate,
			MarketplaceName: &marketplace,
			SellingPrice:    &price,
		},
		{OrderId: "2", Awb: "A2", Status: StatusDelivered},
	}

	f, err := WriteOrdersWorkbook(orders)
	if err != nil {
		t.Fatalf("WriteOrdersWorkbook: %v", err)
	}
	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][3] != "2024-01-10" {
		t.Fatalf("order_date cell = %q, want 2024-01-10", rows[1][3])
	}
	if rows[1][6] != "499" {
		t.Fatalf("selling_price cell = %q, want 499", rows[1][6])
	}
	// Absent fields export as empty cells.
	if got, _ := f.GetCellValue(exportSheet, "D3"); got != "" {
		t.Fatalf("null order_date should export empty, got %q", got)
	}
}

func TestOrderView(t *testing.T) {
	shipDate := date(t, "2024-01-11")
	price := decimal.RequireFromString("499.50")
	o := &Order{
		OrderId:      "1",
		Awb:          "A1",
		Status:       StatusShipped,
		ShippingDate: &shipDate,
		SellingPrice: &price,
	}

	view := o.View()
	if view.ShippingDate == nil || *view.ShippingDate != "2024-01-11" {
		t.Fatalf("shipping_date view: %v", view.ShippingDate)
	}
	if view.SellingPrice == nil || *view.SellingPrice != "499.5" {
		t.Fatalf("selling_price view: %v", view.SellingPrice)
	}
	if view.OrderDate != nil || view.MarkedDate != nil || view.MarketplaceName != nil {
		t.Fatalf("absent fields must stay null: %+v", view)
	}
}
