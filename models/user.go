package models

import "time"

// Role is the closed set of user roles known to the system.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePurchaser Role = "purchaser"
	RoleSupplier  Role = "supplier"
	RoleFinance   Role = "finance"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePurchaser, RoleSupplier, RoleFinance:
		return true
	}
	return false
}

// CanManageOrders reports whether the role may create orders and drive
// purchaser-side transitions (receive, complete, cancel).
func (r Role) CanManageOrders() bool {
	return r == RoleAdmin || r == RolePurchaser
}

// CanManageFinance reports whether the role may drive reconciliation and
// invoice verification flows.
func (r Role) CanManageFinance() bool {
	return r == RoleAdmin || r == RolePurchaser || r == RoleFinance
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(50);unique;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	SupplierID   *uint     `gorm:"index" json:"supplier_id,omitempty"`
	Supplier     *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}
