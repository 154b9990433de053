package models

import (
	"time"
)

// DateLayout 费用日期的存储格式（ISO 日期字符串）
const DateLayout = "2006-01-02"

// Cost 费用记录
type Cost struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"size:255"`
	Amount      float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Date        string    `json:"date" gorm:"size:10;not null;index"`
	Category    string    `json:"category" gorm:"size:50;not null"`
	MemberID    uint      `json:"member_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	Member      Member    `json:"-" gorm:"foreignKey:MemberID"`
}

// TableName 设置表名
func (Cost) TableName() string {
	return "costs"
}

// CostWithMember 带成员姓名的费用记录，用于俱乐部总账
type CostWithMember struct {
	ID          uint    `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	MemberID    uint    `json:"member_id"`
	MemberName  string  `json:"member_name"`
}
