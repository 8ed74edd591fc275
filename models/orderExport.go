package models

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// WriteOrdersWorkbook renders orders as an xlsx workbook with the canonical
// headers, dates in YYYY-MM-DD form and prices as plain decimal strings.
func WriteOrdersWorkbook(orders []*Order) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(exportSheet); err != nil {
		return nil, err
	}

	col := 'A'
	for _, h := range OrderColumns {
		f.SetCellValue(exportSheet, string(col)+"1", h)
		col++
	}

	for i, view := range OrderViews(orders) {
		rowNo := fmt.Sprint(i + 2)
		cells := []any{
			view.OrderId,
			view.Awb,
			view.Status,
			cellValue(view.OrderDate),
			cellValue(view.MarketplaceName),
			cellValue(view.ProductName),
			cellValue(view.SellingPrice),
			cellValue(view.ShippingDate),
			cellValue(view.MarkedDate),
		}
		col := 'A'
		for _, value := range cells {
			f.SetCellValue(exportSheet, string(col)+rowNo, value)
			col++
		}
	}
	return f, nil
}

func cellValue(s *string) any {
	if s == nil {
		return ""
	}
	return *s
}

// TemplateWorkbook builds the fixed upload template: the canonical headers
// plus one illustrative example row. Pure function of a constant.
func TemplateWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(exportSheet); err != nil {
		return nil, err
	}

	col := 'A'
	for _, h := range OrderColumns {
		f.SetCellValue(exportSheet, string(col)+"1", h)
		col++
	}

	example := []string{
		"123456",
		"AWB987654",
		StatusShipped,
		"2024-01-10",
		"Amazon",
		"Smartphone",
		"499",
		"2024-01-11",
		"2024-01-15",
	}
	col = 'A'
	for _, value := range example {
		f.SetCellValue(exportSheet, string(col)+"2", value)
		col++
	}
	return f, nil
}
