package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a purchase order.
//
// The legal transition graph is linear with one cancellation edge:
//
//	pending -> confirmed -> shipped -> received -> completed
//	pending, confirmed   -> cancelled
//
// completed and cancelled are terminal.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderReceived  OrderStatus = "received"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderReceived, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further status or field mutation is permitted.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Next returns the single forward successor of s, or "" if s has none.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case OrderPending:
		return OrderConfirmed
	case OrderConfirmed:
		return OrderShipped
	case OrderShipped:
		return OrderReceived
	case OrderReceived:
		return OrderCompleted
	}
	return ""
}

// Cancellable reports whether the cancel edge is reachable from s.
// Once goods are moving the order can no longer be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderPending || s == OrderConfirmed
}

type Order struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	OrderNo      string           `gorm:"type:varchar(50);unique;not null" json:"order_no"`
	SupplierID   uint             `gorm:"index;not null" json:"supplier_id"`
	Supplier     Supplier         `gorm:"foreignKey:SupplierID" json:"supplier"`
	MaterialID   uint             `gorm:"not null" json:"material_id"`
	Material     Material         `gorm:"foreignKey:MaterialID" json:"material"`
	Quantity     decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	TotalAmount  decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	DeliveryDate *time.Time       `gorm:"type:date" json:"delivery_date,omitempty"`
	Status       OrderStatus      `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	TrackingNo   string           `gorm:"type:varchar(100)" json:"tracking_no"`
	Notes        string           `gorm:"type:text" json:"notes"`
	CreatedBy    *uint            `json:"created_by,omitempty"`
	Creator      *User            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt    time.Time        `gorm:"index;not null" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null" json:"updated_at"`
	Logs         []OrderLog       `gorm:"foreignKey:OrderID" json:"logs,omitempty"`
}

// ComputeTotal returns quantity * unit price, or zero when no price is set.
func (o *Order) ComputeTotal() decimal.Decimal {
	if o.UnitPrice == nil {
		return decimal.Zero
	}
	return o.Quantity.Mul(*o.UnitPrice)
}
