package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Adithyanbm/medlens-ai1/internal/models"
	"github.com/Adithyanbm/medlens-ai1/internal/utils"
)

// NotificationLimit caps how many notifications a listing returns.
const NotificationLimit = 20

type NotificationHandler struct {
	DB      *gorm.DB
	Hub     *Hub
	Origins []string
}

func NewNotificationHandler(database *gorm.DB, hub *Hub, origins []string) *NotificationHandler {
	return &NotificationHandler{DB: database, Hub: hub, Origins: origins}
}

// pushNotification persists a notification and fans it out to the owner's
// open websocket connections.
func pushNotification(database *gorm.DB, hub *Hub, userID uint, kind, title, description string) error {
	notification := models.Notification{
		UserID:      userID,
		Type:        kind,
		Title:       title,
		Description: description,
	}

	if err := database.Create(&notification).Error; err != nil {
		return err
	}

	if hub != nil {
		hub.Push(userID, notification)
	}

	return nil
}

func (h *NotificationHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var notifications []models.Notification

	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(NotificationLimit).
		Find(&notifications).Error; err != nil {
		log.Printf("Failed to list notifications: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}

	ctx.JSON(http.StatusOK, notifications)
}

// MarkRead flips is_read on one owned notification. Re-marking an already
// read notification succeeds without changing anything.
func (h *NotificationHandler) MarkRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	var notification models.Notification

	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notification"})
		}
		return
	}

	if !notification.IsRead {
		if err := h.DB.Model(&notification).Update("is_read", true).Error; err != nil {
			log.Printf("Failed to mark notification read: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
			return
		}
	}

	ctx.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) MarkAllRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		log.Printf("Failed to mark notifications read: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	var notification models.Notification

	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notification"})
		}
		return
	}

	if err := h.DB.Delete(&notification).Error; err != nil {
		log.Printf("Failed to delete notification: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
