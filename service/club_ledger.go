package service

import (
	"fmt"
	"log"
	"sort"
	"time"

	"vereinskasse/models"

	"gorm.io/gorm"
)

// MemberCosts 某周内单个成员的费用及小计
type MemberCosts struct {
	MemberName string                  `json:"member_name"`
	Costs      []models.CostWithMember `json:"costs"`
	Subtotal   float64                 `json:"subtotal"`
}

// WeekGroup 以周一为起点的一周
type WeekGroup struct {
	WeekStart string        `json:"week_start"`
	Members   []MemberCosts `json:"members"`
	Total     float64       `json:"total"`
}

// ClubSummary 全部费用的汇总
type ClubSummary struct {
	TotalSpent   float64 `json:"total_spent"`
	CountCosts   int     `json:"count_costs"`
	AverageCost  float64 `json:"average_cost"`
	TotalMembers int     `json:"total_members"`
}

// ClubLedgerView 俱乐部总账视图
type ClubLedgerView struct {
	Weeks   []WeekGroup `json:"weeks"`
	Summary ClubSummary `json:"summary"`
}

// ClubLedger 俱乐部总账（只读）
type ClubLedger struct {
	db *gorm.DB
}

// NewClubLedger 创建俱乐部总账服务
func NewClubLedger(db *gorm.DB) *ClubLedger {
	return &ClubLedger{db: db}
}

// AllCosts 查询所有成员的费用并带上成员姓名
func (l *ClubLedger) AllCosts(id Identity) ([]models.CostWithMember, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthenticated
	}
	rows := []models.CostWithMember{}
	err := l.db.Model(&models.Cost{}).
		Select("costs.id, costs.description, costs.amount, costs.date, costs.category, costs.member_id, members.name AS member_name").
		Joins("JOIN members ON members.id = costs.member_id").
		Order("costs.date DESC").Order("members.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询俱乐部费用失败: %w", err)
	}
	return rows, nil
}

// View 每次调用都重新查询并分组，不做缓存
func (l *ClubLedger) View(id Identity) (*ClubLedgerView, error) {
	costs, err := l.AllCosts(id)
	if err != nil {
		return nil, err
	}
	return &ClubLedgerView{
		Weeks:   GroupByWeekAndMember(costs),
		Summary: SummarizeClub(costs),
	}, nil
}

// WeekStart 返回日期所在周的周一（YYYY-MM-DD）
func WeekStart(date string) (string, error) {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", err
	}
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset).Format(models.DateLayout), nil
}

// GroupByWeekAndMember 按周、再按成员分组
// 周倒序，周内成员按姓名升序，成员内费用按日期倒序；日期无法解析的记录跳过并记录日志
func GroupByWeekAndMember(costs []models.CostWithMember) []WeekGroup {
	grouped := make(map[string]map[string][]models.CostWithMember)
	for _, c := range costs {
		week, err := WeekStart(c.Date)
		if err != nil {
			log.Printf("警告: 费用 %d 的日期 %q 无法解析，已跳过: %v", c.ID, c.Date, err)
			continue
		}
		members, ok := grouped[week]
		if !ok {
			members = make(map[string][]models.CostWithMember)
			grouped[week] = members
		}
		members[c.MemberName] = append(members[c.MemberName], c)
	}

	weeks := make([]string, 0, len(grouped))
	for w := range grouped {
		weeks = append(weeks, w)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))

	result := make([]WeekGroup, 0, len(weeks))
	for _, w := range weeks {
		names := make([]string, 0, len(grouped[w]))
		for name := range grouped[w] {
			names = append(names, name)
		}
		sort.Strings(names)

		group := WeekGroup{WeekStart: w, Members: make([]MemberCosts, 0, len(names))}
		for _, name := range names {
			memberCosts := grouped[w][name]
			sort.SliceStable(memberCosts, func(i, j int) bool {
				return memberCosts[i].Date > memberCosts[j].Date
			})
			var subtotal float64
			for _, c := range memberCosts {
				subtotal += c.Amount
			}
			group.Members = append(group.Members, MemberCosts{
				MemberName: name,
				Costs:      memberCosts,
				Subtotal:   subtotal,
			})
			group.Total += subtotal
		}
		result = append(result, group)
	}
	return result
}

// SummarizeClub 俱乐部汇总：总额、笔数、平均值、出现过的成员数
func SummarizeClub(costs []models.CostWithMember) ClubSummary {
	var s ClubSummary
	members := make(map[uint]struct{})
	for _, c := range costs {
		s.TotalSpent += c.Amount
		members[c.MemberID] = struct{}{}
	}
	s.CountCosts = len(costs)
	s.AverageCost = average(s.TotalSpent, s.CountCosts)
	s.TotalMembers = len(members)
	return s
}
