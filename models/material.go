package models

import "time"

type Material struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"type:varchar(50);unique;not null" json:"code"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Specification string    `gorm:"type:text" json:"specification"`
	Unit          string    `gorm:"type:varchar(20)" json:"unit"`
	Category      string    `gorm:"type:varchar(50)" json:"category"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
