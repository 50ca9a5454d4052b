package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "pending"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
)

func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationPending, QuotationAccepted, QuotationRejected:
		return true
	}
	return false
}

type Quotation struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	InquiryID    uint             `gorm:"index;not null" json:"inquiry_id"`
	Inquiry      Inquiry          `gorm:"foreignKey:InquiryID" json:"-"`
	SupplierID   uint             `gorm:"index;not null" json:"supplier_id"`
	Supplier     Supplier         `gorm:"foreignKey:SupplierID" json:"supplier"`
	MaterialID   *uint            `json:"material_id,omitempty"`
	Material     *Material        `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	Quantity     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"quantity"`
	UnitPrice    decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	DeliveryDays int              `json:"delivery_days"`
	ValidUntil   *time.Time       `gorm:"type:date" json:"valid_until,omitempty"`
	Status       QuotationStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt    time.Time        `gorm:"not null" json:"created_at"`
}
