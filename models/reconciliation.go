package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus follows draft -> sent -> confirmed -> paid, the same
// role-gated linear pattern as the order lifecycle but without an audit log.
type ReconciliationStatus string

const (
	ReconciliationDraft     ReconciliationStatus = "draft"
	ReconciliationSent      ReconciliationStatus = "sent"
	ReconciliationConfirmed ReconciliationStatus = "confirmed"
	ReconciliationPaid      ReconciliationStatus = "paid"
)

func (s ReconciliationStatus) Valid() bool {
	switch s {
	case ReconciliationDraft, ReconciliationSent, ReconciliationConfirmed, ReconciliationPaid:
		return true
	}
	return false
}

// Next returns the forward successor of s, or "" from the paid state.
func (s ReconciliationStatus) Next() ReconciliationStatus {
	switch s {
	case ReconciliationDraft:
		return ReconciliationSent
	case ReconciliationSent:
		return ReconciliationConfirmed
	case ReconciliationConfirmed:
		return ReconciliationPaid
	}
	return ""
}

type Reconciliation struct {
	ID               uint                 `gorm:"primaryKey" json:"id"`
	ReconciliationNo string               `gorm:"type:varchar(50);unique;not null" json:"reconciliation_no"`
	SupplierID       uint                 `gorm:"index;not null" json:"supplier_id"`
	Supplier         Supplier             `gorm:"foreignKey:SupplierID" json:"supplier"`
	PeriodStart      time.Time            `gorm:"type:date" json:"period_start"`
	PeriodEnd        time.Time            `gorm:"type:date" json:"period_end"`
	TotalAmount      decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Status           ReconciliationStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	AIAuditResult    string               `gorm:"type:text" json:"ai_audit_result"`
	CreatedAt        time.Time            `gorm:"not null" json:"created_at"`
}
