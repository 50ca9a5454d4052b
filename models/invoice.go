package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoicePending  InvoiceStatus = "pending"
	InvoiceVerified InvoiceStatus = "verified"
	InvoiceRejected InvoiceStatus = "rejected"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoiceVerified, InvoiceRejected:
		return true
	}
	return false
}

type Invoice struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	ReconciliationID *uint            `gorm:"index" json:"reconciliation_id,omitempty"`
	Reconciliation   *Reconciliation  `gorm:"foreignKey:ReconciliationID" json:"reconciliation,omitempty"`
	SupplierID       uint             `gorm:"index;not null" json:"supplier_id"`
	Supplier         Supplier         `gorm:"foreignKey:SupplierID" json:"supplier"`
	InvoiceNo        string           `gorm:"type:varchar(50)" json:"invoice_no"`
	InvoiceDate      *time.Time       `gorm:"type:date" json:"invoice_date,omitempty"`
	Amount           decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	TaxAmount        *decimal.Decimal `gorm:"type:decimal(12,2)" json:"tax_amount"`
	ImageURL         string           `gorm:"type:text" json:"image_url"`
	OCRResult        string           `gorm:"type:text" json:"ocr_result"`
	Status           InvoiceStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt        time.Time        `gorm:"not null" json:"created_at"`
}
