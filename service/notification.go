package service

import (
	"errors"
	"fmt"

	"vereinskasse/models"

	"gorm.io/gorm"
)

// DefaultNotificationLimit 收件箱默认加载条数
const DefaultNotificationLimit = 20

// Inbox 已加载的通知列表
type Inbox struct {
	Notifications []models.Notification `json:"notifications"`
}

// UnreadCount 根据当前列表重新计算未读数
func (b *Inbox) UnreadCount() int {
	n := 0
	for _, item := range b.Notifications {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// Replace 用持久化后的记录原地替换列表中的同 ID 项
func (b *Inbox) Replace(n models.Notification) {
	for i := range b.Notifications {
		if b.Notifications[i].ID == n.ID {
			b.Notifications[i] = n
			return
		}
	}
}

// NotificationCenter 成员通知中心
type NotificationCenter struct {
	db    *gorm.DB
	limit int
}

// NewNotificationCenter 创建通知中心，limit<=0 时使用默认值
func NewNotificationCenter(db *gorm.DB, limit int) *NotificationCenter {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &NotificationCenter{db: db, limit: limit}
}

// Load 当前成员最新的通知，按创建时间倒序；未登录时返回空收件箱
func (c *NotificationCenter) Load(id Identity) (*Inbox, error) {
	inbox := &Inbox{Notifications: []models.Notification{}}
	if !id.Authenticated() {
		return inbox, nil
	}
	if err := c.db.Where("member_id = ?", id.MemberID).
		Order("created_at DESC").Order("id DESC").
		Limit(c.limit).
		Find(&inbox.Notifications).Error; err != nil {
		return nil, fmt.Errorf("查询通知失败: %w", err)
	}
	return inbox, nil
}

// MarkAsRead 标记单条通知为已读，已读时不写库
// 通知不存在或不属于当前成员时返回 nil 且不报错
func (c *NotificationCenter) MarkAsRead(id Identity, notificationID uint) (*models.Notification, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthenticated
	}

	var n models.Notification
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND member_id = ?", notificationID, id.MemberID).
			First(&n).Error; err != nil {
			return err
		}
		if n.IsRead {
			return nil
		}
		n.IsRead = true
		return tx.Model(&n).Update("is_read", true).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("标记通知失败: %w", err)
	}
	return &n, nil
}

// MarkAllAsRead 一次提交把当前成员的全部未读通知置为已读，返回更新条数
func (c *NotificationCenter) MarkAllAsRead(id Identity) (int64, error) {
	if !id.Authenticated() {
		return 0, ErrUnauthenticated
	}

	var updated int64
	err := c.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Notification{}).
			Where("member_id = ? AND is_read = ?", id.MemberID, false).
			Update("is_read", true)
		updated = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("批量标记通知失败: %w", err)
	}
	return updated, nil
}
