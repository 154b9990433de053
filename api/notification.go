package api

import (
	"vereinskasse/middleware"
	"vereinskasse/models"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 通知处理器
type NotificationHandler struct {
	center *service.NotificationCenter
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(center *service.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// InboxResponse 收件箱
type InboxResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

func inboxResponse(inbox *service.Inbox) InboxResponse {
	return InboxResponse{Notifications: inbox.Notifications, UnreadCount: inbox.UnreadCount()}
}

// List 获取通知
// @Summary 获取通知
// @Description 当前成员最新的通知及未读数
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=InboxResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	inbox, err := h.center.Load(middleware.GetCurrentIdentity(c))
	if err != nil {
		ServiceError(c, err, "failed to load notifications")
		return
	}
	Success(c, inboxResponse(inbox))
}

// MarkAsRead 标记单条通知已读
// @Summary 标记通知已读
// @Description 已读或不存在的通知同样返回成功
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param id path int true "通知ID"
// @Success 200 {object} Response{data=InboxResponse} "成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	notificationID, ok := parseID(c, "id")
	if !ok {
		return
	}
	id := middleware.GetCurrentIdentity(c)
	updated, err := h.center.MarkAsRead(id, notificationID)
	if err != nil {
		ServiceError(c, err, "failed to mark notification")
		return
	}

	inbox, err := h.center.Load(id)
	if err != nil {
		ServiceError(c, err, "failed to load notifications")
		return
	}
	if updated != nil {
		inbox.Replace(*updated)
	}
	Success(c, inboxResponse(inbox))
}

// MarkAllAsRead 全部标记已读
// @Summary 全部标记已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=InboxResponse} "成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	id := middleware.GetCurrentIdentity(c)
	if _, err := h.center.MarkAllAsRead(id); err != nil {
		ServiceError(c, err, "failed to mark notifications")
		return
	}
	inbox, err := h.center.Load(id)
	if err != nil {
		ServiceError(c, err, "failed to load notifications")
		return
	}
	Success(c, inboxResponse(inbox))
}
