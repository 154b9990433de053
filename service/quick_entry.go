package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"vereinskasse/models"

	"gorm.io/gorm"
)

// QuickEntryState 快速录入会话状态
type QuickEntryState string

const (
	StateIdle          QuickEntryState = "idle"
	StateSelectionOpen QuickEntryState = "selection_open"
	StateConfirmed     QuickEntryState = "confirmed"
)

// 草稿表单字段
const (
	FieldCategory    = "category"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldDate        = "date"
)

// Draft 某成员的草稿表单
type Draft struct {
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// LastBooking 撤销槽：只保存最近一次预订
type LastBooking struct {
	CostID         uint      `json:"cost_id"`
	NotificationID *uint     `json:"notification_id,omitempty"`
	BookedAt       time.Time `json:"booked_at"`
}

// Confirmation 预订成功后的确认信息
type Confirmation struct {
	MemberName string `json:"member_name"`
	ItemName   string `json:"item_name"`
	Amount     string `json:"amount"`
}

// QuickEntrySnapshot 会话状态快照，供接口返回
type QuickEntrySnapshot struct {
	State             QuickEntryState `json:"state"`
	SelectedMemberID  uint            `json:"selected_member_id,omitempty"`
	CustomFormVisible bool            `json:"custom_form_visible"`
	Drafts            map[uint]Draft  `json:"drafts"`
	Confirmation      *Confirmation   `json:"confirmation,omitempty"`
	CanUndo           bool            `json:"can_undo"`
}

// BookingResult 一次快速录入的结果
type BookingResult struct {
	Cost             models.Cost          `json:"cost"`
	Notification     *models.Notification `json:"notification,omitempty"`
	NotificationSent bool                 `json:"notification_sent"`
	Confirmation     Confirmation         `json:"confirmation"`
}

// QuickEntrySession 单个操作者的快速录入会话，不落库
type QuickEntrySession struct {
	mu                sync.Mutex
	state             QuickEntryState
	selectedMemberID  uint
	customFormVisible bool
	drafts            map[uint]*Draft
	lastBooking       *LastBooking
	confirmation      *Confirmation
}

func newQuickEntrySession() *QuickEntrySession {
	return &QuickEntrySession{
		state:  StateIdle,
		drafts: make(map[uint]*Draft),
	}
}

func (s *QuickEntrySession) ensureDraft(memberID uint, today string) *Draft {
	d, ok := s.drafts[memberID]
	if !ok {
		d = &Draft{Date: today}
		s.drafts[memberID] = d
	}
	return d
}

func (s *QuickEntrySession) snapshot() QuickEntrySnapshot {
	snap := QuickEntrySnapshot{
		State:             s.state,
		SelectedMemberID:  s.selectedMemberID,
		CustomFormVisible: s.customFormVisible,
		Drafts:            make(map[uint]Draft, len(s.drafts)),
		CanUndo:           s.lastBooking != nil,
	}
	for id, d := range s.drafts {
		snap.Drafts[id] = *d
	}
	if s.confirmation != nil {
		c := *s.confirmation
		snap.Confirmation = &c
	}
	return snap
}

// SessionRegistry 按操作者成员 ID 保存会话
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[uint]*QuickEntrySession
}

// NewSessionRegistry 创建会话表
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[uint]*QuickEntrySession)}
}

// Get 获取操作者的会话，不存在则创建
func (r *SessionRegistry) Get(actorID uint) *QuickEntrySession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[actorID]
	if !ok {
		s = newQuickEntrySession()
		r.sessions[actorID] = s
	}
	return s
}

// Drop 注销时丢弃会话
func (r *SessionRegistry) Drop(actorID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, actorID)
}

// QuickEntryOptions 快速录入配置
type QuickEntryOptions struct {
	CurrencySymbol string
	// TerminalEmail 录入终端账号，不出现在成员列表中
	TerminalEmail string
}

// QuickEntryService 快速录入：为任意成员记账，并支持撤销最近一次预订
type QuickEntryService struct {
	db       *gorm.DB
	catalog  *models.CategoryCatalog
	sessions *SessionRegistry
	opts     QuickEntryOptions
	mailer   Mailer
	now      func() time.Time
}

// NewQuickEntryService 创建快速录入服务，mailer 为 nil 时不发送邮件
func NewQuickEntryService(db *gorm.DB, catalog *models.CategoryCatalog, sessions *SessionRegistry, opts QuickEntryOptions, mailer Mailer) *QuickEntryService {
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "€"
	}
	return &QuickEntryService{
		db:       db,
		catalog:  catalog,
		sessions: sessions,
		opts:     opts,
		mailer:   mailer,
		now:      time.Now,
	}
}

func (s *QuickEntryService) today() string {
	return s.now().Format(models.DateLayout)
}

func (s *QuickEntryService) session(actor Identity) (*QuickEntrySession, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.sessions.Get(actor.MemberID), nil
}

func (s *QuickEntryService) findMember(memberID uint) (*models.Member, error) {
	var m models.Member
	if err := s.db.First(&m, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("查询成员失败: %w", err)
	}
	return &m, nil
}

// ListMembers 可录入的成员（排除终端账号），按姓名排序，并为每人准备空白草稿
func (s *QuickEntryService) ListMembers(actor Identity) ([]models.Member, error) {
	sess, err := s.session(actor)
	if err != nil {
		return nil, err
	}

	members := []models.Member{}
	q := s.db.Order("name ASC").Order("id ASC")
	if s.opts.TerminalEmail != "" {
		q = q.Where("email <> ?", s.opts.TerminalEmail)
	}
	if err := q.Find(&members).Error; err != nil {
		return nil, fmt.Errorf("查询成员失败: %w", err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	today := s.today()
	for _, m := range members {
		sess.ensureDraft(m.ID, today)
	}
	return members, nil
}

// Snapshot 当前会话状态
func (s *QuickEntryService) Snapshot(actor Identity) (QuickEntrySnapshot, error) {
	sess, err := s.session(actor)
	if err != nil {
		return QuickEntrySnapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// OpenSelection 选中成员，隐藏自定义表单并确保有空白草稿
func (s *QuickEntryService) OpenSelection(actor Identity, memberID uint) (QuickEntrySnapshot, error) {
	sess, err := s.session(actor)
	if err != nil {
		return QuickEntrySnapshot{}, err
	}
	if _, err := s.findMember(memberID); err != nil {
		return QuickEntrySnapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state = StateSelectionOpen
	sess.selectedMemberID = memberID
	sess.customFormVisible = false
	sess.ensureDraft(memberID, s.today())
	return sess.snapshot(), nil
}

// ToggleCustomForm 在饮品快捷选择与自定义表单之间切换
func (s *QuickEntryService) ToggleCustomForm(actor Identity) (QuickEntrySnapshot, error) {
	sess, err := s.session(actor)
	if err != nil {
		return QuickEntrySnapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state != StateSelectionOpen {
		return QuickEntrySnapshot{}, ErrNoSelection
	}
	sess.customFormVisible = !sess.customFormVisible
	return sess.snapshot(), nil
}

// SetFormField 修改草稿字段；选择固定价格类别时自动填入价格
func (s *QuickEntryService) SetFormField(actor Identity, memberID uint, field, value string) (Draft, error) {
	sess, err := s.session(actor)
	if err != nil {
		return Draft{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.ensureDraft(memberID, s.today())
	switch field {
	case FieldCategory:
		d.Category = value
		if cat, ok := s.catalog.Lookup(value); ok && cat.Fixed {
			d.Amount = strconv.FormatFloat(cat.Price, 'f', -1, 64)
		} else if value != models.CategoryOther {
			d.Amount = ""
		}
	case FieldAmount:
		d.Amount = value
	case FieldDescription:
		d.Description = value
	case FieldDate:
		d.Date = value
	default:
		return Draft{}, ErrInvalidField
	}
	return *d, nil
}

// AddCostForMember 按草稿为成员记账，校验规则与个人账本一致
func (s *QuickEntryService) AddCostForMember(actor Identity, memberID uint) (*BookingResult, error) {
	sess, err := s.session(actor)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.ensureDraft(memberID, s.today())
	if strings.TrimSpace(d.Date) == "" || strings.TrimSpace(d.Category) == "" {
		return nil, ErrDateCategoryRequired
	}
	amount, err := ResolveAmount(s.catalog, d.Category, d.Amount)
	if err != nil {
		return nil, err
	}

	return s.book(sess, actor, memberID, models.Cost{
		Description: d.Description,
		Amount:      amount,
		Date:        d.Date,
		Category:    d.Category,
	})
}

// AddQuickDrinkForMember 一键记一杯饮品，类别、价格与描述由饮品类型决定
func (s *QuickEntryService) AddQuickDrinkForMember(actor Identity, memberID uint, drinkType string) (*BookingResult, error) {
	sess, err := s.session(actor)
	if err != nil {
		return nil, err
	}
	cat, ok := s.catalog.ForDrink(drinkType)
	if !ok {
		return nil, ErrInvalidDrinkType
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.book(sess, actor, memberID, models.Cost{
		Description: cat.Label,
		Amount:      cat.Price,
		Date:        s.today(),
		Category:    cat.Key,
	})
}

// book 写入费用及（代他人记账时的）通知，两者同一事务提交；调用方持有 sess.mu
func (s *QuickEntryService) book(sess *QuickEntrySession, actor Identity, memberID uint, cost models.Cost) (*BookingResult, error) {
	member, err := s.findMember(memberID)
	if err != nil {
		return nil, err
	}
	cost.MemberID = member.ID

	item := cost.Description
	if item == "" {
		item = s.categoryLabel(cost.Category)
	}
	amount := FormatMoney(s.opts.CurrencySymbol, cost.Amount)

	var notification *models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cost).Error; err != nil {
			return err
		}
		if actor.MemberID == member.ID {
			return nil
		}
		notification = &models.Notification{
			MemberID: member.ID,
			Message:  fmt.Sprintf("%s hat %s (%s) für dich gebucht.", actor.Name, s.categoryLabel(cost.Category), amount),
		}
		return tx.Create(notification).Error
	})
	if err != nil {
		return nil, fmt.Errorf("保存预订失败: %w", err)
	}

	last := &LastBooking{CostID: cost.ID, BookedAt: s.now()}
	if notification != nil {
		nid := notification.ID
		last.NotificationID = &nid
		s.mailCopy(member, notification.Message)
	}
	sess.lastBooking = last

	confirmation := Confirmation{MemberName: member.Name, ItemName: item, Amount: amount}
	sess.drafts[member.ID] = &Draft{Date: s.today()}
	sess.customFormVisible = false
	sess.confirmation = &confirmation
	sess.state = StateConfirmed

	return &BookingResult{
		Cost:             cost,
		Notification:     notification,
		NotificationSent: notification != nil,
		Confirmation:     confirmation,
	}, nil
}

func (s *QuickEntryService) categoryLabel(key string) string {
	if cat, ok := s.catalog.Lookup(key); ok {
		return cat.Label
	}
	return key
}

// mailCopy 邮件抄送失败只记录日志，不影响预订结果
func (s *QuickEntryService) mailCopy(member *models.Member, message string) {
	if s.mailer == nil || member.Email == "" {
		return
	}
	if err := s.mailer.SendBookingNotification(member.Email, member.Name, message); err != nil {
		log.Printf("警告: 通知邮件发送失败 member=%d: %v", member.ID, err)
	}
}

// UndoLastBooking 撤销最近一次预订：删除记录的费用与通知（已不存在则忽略），清空撤销槽
func (s *QuickEntryService) UndoLastBooking(actor Identity) error {
	sess, err := s.session(actor)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	last := sess.lastBooking
	if last == nil {
		return ErrNothingToUndo
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Cost{}, last.CostID).Error; err != nil {
			return err
		}
		if last.NotificationID != nil {
			return tx.Delete(&models.Notification{}, *last.NotificationID).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("撤销预订失败: %w", err)
	}

	sess.lastBooking = nil
	sess.confirmation = nil
	sess.state = StateIdle
	sess.selectedMemberID = 0
	return nil
}

// CloseConfirmation 关闭确认视图，撤销槽保留
func (s *QuickEntryService) CloseConfirmation(actor Identity) (QuickEntrySnapshot, error) {
	sess, err := s.session(actor)
	if err != nil {
		return QuickEntrySnapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.confirmation = nil
	sess.state = StateIdle
	sess.selectedMemberID = 0
	return sess.snapshot(), nil
}
