package models

import "time"

// InquiryStatus follows draft -> published -> closed.
type InquiryStatus string

const (
	InquiryDraft     InquiryStatus = "draft"
	InquiryPublished InquiryStatus = "published"
	InquiryClosed    InquiryStatus = "closed"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryDraft, InquiryPublished, InquiryClosed:
		return true
	}
	return false
}

type Inquiry struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	InquiryNo   string        `gorm:"type:varchar(50);unique;not null" json:"inquiry_no"`
	Title       string        `gorm:"type:varchar(200)" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Status      InquiryStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Deadline    *time.Time    `gorm:"type:date" json:"deadline,omitempty"`
	CreatedBy   *uint         `json:"created_by,omitempty"`
	Creator     *User         `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	Quotations  []Quotation   `gorm:"foreignKey:InquiryID" json:"quotations,omitempty"`
}
