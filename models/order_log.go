package models

import "time"

// OrderLog is one immutable audit record of an order transition.
// Rows are only ever inserted; ordering by created_at (then id) reconstructs
// the full transition history of an order.
type OrderLog struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	OrderID    uint         `gorm:"index;not null" json:"order_id"`
	Action     string       `gorm:"type:varchar(50);not null" json:"action"`
	OldStatus  *OrderStatus `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus  OrderStatus  `gorm:"type:varchar(20);not null" json:"new_status"`
	OperatorID *uint        `json:"operator_id,omitempty"`
	Operator   *User        `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
	Remark     string       `gorm:"type:text" json:"remark"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
}
