package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"vereinskasse/models"

	"gorm.io/gorm"
)

// CostInput 新增费用的表单数据
// Amount 保留原始字符串，固定价格类别会忽略它
type CostInput struct {
	Date        string
	Category    string
	Amount      string
	Description string
}

// CostSummary 费用汇总（按需计算，不落库）
type CostSummary struct {
	TotalSpent  float64 `json:"total_spent"`
	CountCosts  int     `json:"count_costs"`
	AverageCost float64 `json:"average_cost"`
}

// CostLedger 成员个人账本
type CostLedger struct {
	db      *gorm.DB
	catalog *models.CategoryCatalog
}

// NewCostLedger 创建个人账本服务
func NewCostLedger(db *gorm.DB, catalog *models.CategoryCatalog) *CostLedger {
	return &CostLedger{db: db, catalog: catalog}
}

// ListCosts 当前成员的费用，按日期倒序；未登录时返回空列表
func (l *CostLedger) ListCosts(id Identity) ([]models.Cost, error) {
	if !id.Authenticated() {
		return []models.Cost{}, nil
	}
	costs := []models.Cost{}
	if err := l.db.Where("member_id = ?", id.MemberID).
		Order("date DESC").Order("id DESC").
		Find(&costs).Error; err != nil {
		return nil, fmt.Errorf("查询费用失败: %w", err)
	}
	return costs, nil
}

// AddCost 为当前成员新增一条费用（本人录入，不产生通知）
func (l *CostLedger) AddCost(id Identity, in CostInput) (*models.Cost, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, ErrDateCategoryRequired
	}
	amount, err := ResolveAmount(l.catalog, in.Category, in.Amount)
	if err != nil {
		return nil, err
	}

	cost := models.Cost{
		Description: in.Description,
		Amount:      amount,
		Date:        in.Date,
		Category:    in.Category,
		MemberID:    id.MemberID,
	}
	if err := l.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&cost).Error
	}); err != nil {
		return nil, fmt.Errorf("保存费用失败: %w", err)
	}
	return &cost, nil
}

// DeleteCost 删除当前成员的一条费用，记录不存在时视为成功
func (l *CostLedger) DeleteCost(id Identity, costID uint) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ? AND member_id = ?", costID, id.MemberID).
			Delete(&models.Cost{}).Error
	})
}

// Summarize 计算总额、笔数与平均值，笔数为 0 时平均值为 0
func Summarize(costs []models.Cost) CostSummary {
	var s CostSummary
	for _, c := range costs {
		s.TotalSpent += c.Amount
	}
	s.CountCosts = len(costs)
	s.AverageCost = average(s.TotalSpent, s.CountCosts)
	return s
}

func average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// ResolveAmount 按类别规则确定金额
// 固定价格类别强制使用目录价格；Other 类别要求非负数字金额
func ResolveAmount(catalog *models.CategoryCatalog, category, amount string) (float64, error) {
	cat, ok := catalog.Lookup(category)
	if !ok {
		return 0, ErrInvalidCategory
	}
	if cat.Fixed {
		return cat.Price, nil
	}

	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatMoney 金额格式化，如 €1.50
func FormatMoney(symbol string, amount float64) string {
	return fmt.Sprintf("%s%.2f", symbol, amount)
}
