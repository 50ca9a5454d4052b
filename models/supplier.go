package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SupplierStatus string

const (
	SupplierActive  SupplierStatus = "active"
	SupplierBlocked SupplierStatus = "blocked"
	SupplierPending SupplierStatus = "pending"
)

func (s SupplierStatus) Valid() bool {
	switch s {
	case SupplierActive, SupplierBlocked, SupplierPending:
		return true
	}
	return false
}

type Supplier struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(100);unique;not null" json:"name"`
	ContactName  string          `gorm:"type:varchar(50)" json:"contact_name"`
	ContactPhone string          `gorm:"type:varchar(20)" json:"contact_phone"`
	Address      string          `gorm:"type:text" json:"address"`
	Status       SupplierStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Rating       decimal.Decimal `gorm:"type:decimal(2,1);default:5.0" json:"rating"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
}
