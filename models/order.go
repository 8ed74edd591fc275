package models

import (
	"context"
	"time"

	"github.com/sahilgholap007/Inventory-Management/config"
	"github.com/shopspring/decimal"
)

// Order statuses with system meaning. Marketplaces may supply other
// free-form values; these are the ones the rulebooks act on.
const (
	StatusShipped   = "shipped"
	StatusDelivered = "Delivered"
	StatusRTO       = "RTO"
	StatusLost      = "Lost/Undelivered"
	StatusMismatch  = "Status Mismatch"
)

// staleShipmentAge is how long a shipment may sit in "shipped" before an
// upload rewrites it to Lost/Undelivered.
const staleShipmentAge = 30 * 24 * time.Hour

// Order is one tracked shipment. (order_id, awb) is the identity: a later
// upload for the same pair updates, never duplicates.
type Order struct {
	OrderId         string           `gorm:"primaryKey;size:100;not null" json:"order_id"`
	Awb             string           `gorm:"primaryKey;size:100;not null" json:"awb"`
	Status          string           `gorm:"size:100" json:"status"`
	OrderDate       *time.Time       `gorm:"type:date" json:"order_date"`
	MarketplaceName *string          `gorm:"size:100" json:"marketplace_name"`
	ProductName     *string          `gorm:"size:255" json:"product_name"`
	SellingPrice    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"selling_price"`
	ShippingDate    *time.Time       `gorm:"type:date" json:"shipping_date"`
	MarkedDate      *time.Time       `gorm:"type:date" json:"marked_date"`
}

// OrderKey identifies one stored order.
type OrderKey struct {
	OrderId string
	Awb     string
}

func (o *Order) Key() OrderKey {
	return OrderKey{OrderId: o.OrderId, Awb: o.Awb}
}

// OrderFilter holds the optional query filters. Filters are conjunctive;
// a nil field is not applied. The date range binds to order_date and takes
// effect only when both ends are present.
type OrderFilter struct {
	Marketplace *string
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

func GetOrders(ctx context.Context, filter OrderFilter) ([]*Order, error) {
	db := config.GetDB()

	query := db.WithContext(ctx).Model(&Order{})
	if filter.Marketplace != nil {
		query = query.Where("marketplace_name = ?", *filter.Marketplace)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("order_date BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	}

	var orders []*Order
	if err := query.Order("order_id, awb").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderView is the wire/export rendering of an Order: dates as YYYY-MM-DD,
// price as a plain decimal string, null for absent fields.
type OrderView struct {
	OrderId         string  `json:"order_id"`
	Awb             string  `json:"awb"`
	Status          string  `json:"status"`
	OrderDate       *string `json:"order_date"`
	MarketplaceName *string `json:"marketplace_name"`
	ProductName     *string `json:"product_name"`
	SellingPrice    *string `json:"selling_price"`
	ShippingDate    *string `json:"shipping_date"`
	MarkedDate      *string `json:"marked_date"`
}

func (o *Order) View() *OrderView {
	view := &OrderView{
		OrderId:         o.OrderId,
		Awb:             o.Awb,
		Status:          o.Status,
		OrderDate:       formatDate(o.OrderDate),
		MarketplaceName: o.MarketplaceName,
		ProductName:     o.ProductName,
		ShippingDate:    formatDate(o.ShippingDate),
		MarkedDate:      formatDate(o.MarkedDate),
	}
	if o.SellingPrice != nil {
		s := o.SellingPrice.String()
		view.SellingPrice = &s
	}
	return view
}

func OrderViews(orders []*Order) []*OrderView {
	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, o.View())
	}
	return views
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
