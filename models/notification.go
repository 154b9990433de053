package models

import (
	"time"
)

// Notification 成员收件箱中的通知
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MemberID  uint      `json:"member_id" gorm:"index;not null"`
	Message   string    `json:"message" gorm:"size:500;not null"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	Member    Member    `json:"-" gorm:"foreignKey:MemberID"`
}

// TableName 设置表名
func (Notification) TableName() string {
	return "notifications"
}
