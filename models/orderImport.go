package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sahilgholap007/Inventory-Management/config"
	"github.com/sahilgholap007/Inventory-Management/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderColumns is the canonical column set, in sheet order. Uploads may
// carry any columns in any order; only these are retained.
var OrderColumns = []string{
	"order_id",
	"awb",
	"status",
	"order_date",
	"marketplace_name",
	"product_name",
	"selling_price",
	"shipping_date",
	"marked_date",
}

// columnIndex maps canonical column names to their cell position in a
// header row. Header cells are matched after trimming and lowercasing;
// unrecognized columns are ignored.
func columnIndex(header []string) map[string]int {
	canonical := make(map[string]bool, len(OrderColumns))
	for _, col := range OrderColumns {
		canonical[col] = true
	}
	index := make(map[string]int)
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if canonical[name] {
			index[name] = i
		}
	}
	return index
}

func cellAt(row []string, idx map[string]int, column string) string {
	i, ok := idx[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// RecordFromRow builds a canonical order record from one sheet row.
// Absent columns become null; unparsable dates and prices become null,
// never an error.
func RecordFromRow(idx map[string]int, row []string) *Order {
	record := &Order{
		OrderId: cellAt(row, idx, "order_id"),
		Awb:     cellAt(row, idx, "awb"),
		Status:  cellAt(row, idx, "status"),
	}
	record.OrderDate = parseDateCell(cellAt(row, idx, "order_date"))
	record.ShippingDate = parseDateCell(cellAt(row, idx, "shipping_date"))
	record.MarkedDate = parseDateCell(cellAt(row, idx, "marked_date"))
	if v := cellAt(row, idx, "marketplace_name"); v != "" {
		record.MarketplaceName = &v
	}
	if v := cellAt(row, idx, "product_name"); v != "" {
		record.ProductName = &v
	}
	if v := cellAt(row, idx, "selling_price"); v != "" {
		if price, err := utils.ParseDecimal(v); err == nil {
			record.SellingPrice = &price
		}
	}
	return record
}

func parseDateCell(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := utils.ParseDate(value)
	if err != nil {
		return nil
	}
	return &t
}

// ParseOrderWorkbook reads the first sheet of an xlsx workbook into
// canonical order records, preserving row order.
func ParseOrderWorkbook(r io.Reader) ([]*Order, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("unable to open workbook: %v", err))
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("unable to read sheet: %v", err))
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := columnIndex(rows[0])
	records := make([]*Order, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		records = append(records, RecordFromRow(idx, row))
	}
	return records, nil
}

// Trailing sheet rows often come back as empty cell slices; they are not data.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ApplyStaleness rewrites a shipped record to Lost/Undelivered when its
// shipping date is more than 30 days before today. Status match is exact
// and case-sensitive; records without a shipping date are left alone.
// Reports whether the record was rewritten.
func ApplyStaleness(record *Order, today time.Time) bool {
	if record.Status != StatusShipped || record.ShippingDate == nil {
		return false
	}
	if utils.DateOnly(today).Sub(utils.DateOnly(*record.ShippingDate)) > staleShipmentAge {
		record.Status = StatusLost
		return true
	}
	return false
}

// ImportOrders persists canonical records one at a time, in order.
//
// Per record: an existing (order_id, awb) row forces marked_date to today,
// the staleness rule may rewrite the status, then the row is upserted. On
// conflict only status and marked_date are overwritten; every other column
// keeps its originally inserted value.
//
// There is no batch transaction: a failed write aborts the remainder and
// leaves earlier rows committed. Returns the count of records written.
func ImportOrders(ctx context.Context, records []*Order, today time.Time) (int, error) {
	logger := config.GetLogger()
	db := config.GetDB()

	count := 0
	for _, record := range records {
		var existing Order
		err := db.WithContext(ctx).
			Where("order_id = ? AND awb = ?", record.OrderId, record.Awb).
			Take(&existing).Error
		if err == nil {
			marked := utils.DateOnly(today)
			record.MarkedDate = &marked
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return count, err
		}

		ApplyStaleness(record, today)

		err = db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "awb"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "marked_date"}),
		}).Create(record).Error
		if err != nil {
			var mysqlErr *mysql.MySQLError
			if errors.As(err, &mysqlErr) {
				config.LogError(logger, "orderImport.go", "ImportOrders",
					fmt.Sprintf("mysql error %d", mysqlErr.Number), record.Key(), err)
			} else {
				config.LogError(logger, "orderImport.go", "ImportOrders", "upsert", record.Key(), err)
			}
			return count, err
		}
		count++
	}
	return count, nil
}
