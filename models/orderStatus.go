package models

import (
	"context"
	"fmt"
	"io"

	"github.com/sahilgholap007/Inventory-Management/config"
	"github.com/xuri/excelize/v2"
)

// Statuses an operator may bulk-apply via /update_status. The override is
// unconditional: current stored status and shipping dates are ignored.
var OverrideStatuses = []string{StatusRTO, StatusDelivered}

func IsOverrideStatus(status string) bool {
	for _, s := range OverrideStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// StatusRecord is one row of a status sheet: identity plus the reported
// status. Used by both the override and reconciliation paths.
type StatusRecord struct {
	OrderId string
	Awb     string
	Status  string
}

// parseSheetRecords reads the first sheet and extracts the given columns,
// failing with a validation error when any required column is missing from
// the header.
func parseSheetRecords(r io.Reader, required []string) ([]StatusRecord, error) {
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
		return nil, NewValidationError(missingColumnsMessage(required))
	}

	idx := columnIndex(rows[0])
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, NewValidationError(missingColumnsMessage(required))
		}
	}

	records := make([]StatusRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		records = append(records, StatusRecord{
			OrderId: cellAt(row, idx, "order_id"),
			Awb:     cellAt(row, idx, "awb"),
			Status:  cellAt(row, idx, "status"),
		})
	}
	return records, nil
}

func missingColumnsMessage(required []string) string {
	quoted := make([]string, 0, len(required))
	for _, col := range required {
		quoted = append(quoted, "'"+col+"'")
	}
	msg := "file must contain "
	for i, q := range quoted {
		if i > 0 {
			if i == len(quoted)-1 {
				msg += " and "
			} else {
				msg += ", "
			}
		}
		msg += q
	}
	return msg + " columns"
}

// ParseOrderKeySheet reads (order_id, awb) pairs for a bulk override.
func ParseOrderKeySheet(r io.Reader) ([]OrderKey, error) {
	records, err := parseSheetRecords(r, []string{"order_id", "awb"})
	if err != nil {
		return nil, err
	}
	keys := make([]OrderKey, 0, len(records))
	for _, rec := range records {
		keys = append(keys, OrderKey{OrderId: rec.OrderId, Awb: rec.Awb})
	}
	return keys, nil
}

// ParseStatusSheet reads (order_id, awb, status) triples for reconciliation.
func ParseStatusSheet(r io.Reader) ([]StatusRecord, error) {
	return parseSheetRecords(r, []string{"order_id", "awb", "status"})
}

// OverrideStatus sets status to target for every given pair. Pairs not in
// the store are silent no-ops. Returns the count of pairs attempted,
// which is the row count of the input, not the matched count.
func OverrideStatus(ctx context.Context, keys []OrderKey, target string) (int, error) {
	if !IsOverrideStatus(target) {
		return 0, NewValidationError("invalid status selected")
	}

	db := config.GetDB()
	for _, key := range keys {
		err := db.WithContext(ctx).Model(&Order{}).
			Where("order_id = ? AND awb = ?", key.OrderId, key.Awb).
			Update("status", target).Error
		if err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

// FindStatusMismatches inner-joins the owner and partner record sets on
// (order_id, awb) and returns the keys whose statuses differ, compared
// exactly and case-sensitively. Pairs present in only one set are excluded
// entirely. Duplicate keys yield one result; for the partner set the last
// occurrence wins.
func FindStatusMismatches(owner, partner []StatusRecord) []OrderKey {
	partnerStatus := make(map[OrderKey]string, len(partner))
	for _, rec := range partner {
		partnerStatus[OrderKey{OrderId: rec.OrderId, Awb: rec.Awb}] = rec.Status
	}

	seen := make(map[OrderKey]bool)
	var mismatched []OrderKey
	for _, rec := range owner {
		key := OrderKey{OrderId: rec.OrderId, Awb: rec.Awb}
		theirs, joined := partnerStatus[key]
		if !joined || seen[key] {
			continue
		}
		seen[key] = true
		if rec.Status != theirs {
			mismatched = append(mismatched, key)
		}
	}
	return mismatched
}

// MarkStatusMismatches force-sets status to "Status Mismatch" for every
// given pair, overwriting whatever was stored. Returns the count written.
func MarkStatusMismatches(ctx context.Context, keys []OrderKey) (int, error) {
	db := config.GetDB()
	for i, key := range keys {
		err := db.WithContext(ctx).Model(&Order{}).
			Where("order_id = ? AND awb = ?", key.OrderId, key.Awb).
			Update("status", StatusMismatch).Error
		if err != nil {
			return i, err
		}
	}
	return len(keys), nil
}
