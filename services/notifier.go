package services

import (
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

// Notifier delivers user-facing events. Delivery is fire and forget:
// implementations must not be able to fail a business operation.
type Notifier interface {
	Notify(userID uint, event, title, content, link string)
}

// DBNotifier stores notifications in the notifications table so the portal
// bell can pick them up. Write failures are logged and swallowed.
type DBNotifier struct {
	DB *gorm.DB
}

func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{DB: db}
}

func (n *DBNotifier) Notify(userID uint, event, title, content, link string) {
	notif := models.Notification{
		UserID:  userID,
		Type:    event,
		Title:   title,
		Content: content,
		Link:    link,
	}
	if err := n.DB.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("notify user %d (%s): %v", userID, event, err)
	}
}
