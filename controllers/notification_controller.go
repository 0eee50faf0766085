package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hr-platform-api/services"
)

// NotificationController serves the per-user notification log.
type NotificationController struct {
	svc *services.NotificationService
}

func NewNotificationController(svc *services.NotificationService) *NotificationController {
	return &NotificationController{svc: svc}
}

func (ctl *NotificationController) GetNotifications(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "UNAUTHENTICATED", "error": "unauthorized"})
		return
	}

	unreadOnly := strings.TrimSpace(c.Query("unreadOnly"))
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	offset, _ := strconv.Atoi(strings.TrimSpace(c.Query("offset")))

	items, appErr := ctl.svc.List(uint(uid), services.ListOptions{
		UnreadOnly: unreadOnly == "1" || strings.EqualFold(unreadOnly, "true"),
		Type:       strings.TrimSpace(c.Query("type")),
		Limit:      limit,
		Offset:     offset,
	})
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

func (ctl *NotificationController) GetNotificationCounter(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "UNAUTHENTICATED", "error": "unauthorized"})
		return
	}

	count, appErr := ctl.svc.UnreadCount(uint(uid))
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "unread": count})
}

func (ctl *NotificationController) MarkNotificationRead(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "UNAUTHENTICATED", "error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "INVALID_ID", "error": "notification id must be an integer"})
		return
	}

	if appErr := ctl.svc.MarkRead(uint(uid), uint(id)); appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ctl *NotificationController) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "UNAUTHENTICATED", "error": "unauthorized"})
		return
	}

	updated, appErr := ctl.svc.MarkAllRead(uint(uid))
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}
