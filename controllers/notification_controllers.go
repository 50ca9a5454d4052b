package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/utils"
)

// NotificationController serves the per-user notification feed. Every
// operation is scoped to the authenticated user.
type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	actor := currentActor(c)
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	q := nc.DB.Model(&models.Notification{}).Where("user_id = ?", actor.UserID)
	if c.Query("unread_only") == "true" {
		q = q.Where("read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var notifications []models.Notification
	if err := q.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&notifications).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var unread int64
	nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", actor.UserID, false).
		Count(&unread)

	utils.RespondJSON(c, http.StatusOK, "List of notifications", gin.H{
		"items":        notifications,
		"unread_count": unread,
		"pagination":   utils.NewPagination(page, limit, total),
	})
}

func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	actor := currentActor(c)

	var unread int64
	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", actor.UserID, false).
		Count(&unread).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"unread_count": unread})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := paramUint(c, "notification_id")
	if !ok {
		return
	}
	actor := currentActor(c)

	res := nc.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, actor.UserID).
		Update("read", true)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification marked read", nil)
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	actor := currentActor(c)

	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ?", actor.UserID).
		Update("read", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All notifications marked read", nil)
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, ok := paramUint(c, "notification_id")
	if !ok {
		return
	}
	actor := currentActor(c)

	res := nc.DB.Where("id = ? AND user_id = ?", id, actor.UserID).
		Delete(&models.Notification{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification deleted", nil)
}
