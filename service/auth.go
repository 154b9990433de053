package service

import (
	"errors"
	"fmt"
	"strings"

	"vereinskasse/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 注册与登录（密码使用 bcrypt 哈希）
type AuthService struct {
	db *gorm.DB
}

// NewAuthService 创建认证服务
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register 注册新成员，email 必须唯一
func (s *AuthService) Register(name, email, password string) (*models.Member, error) {
	email = normalizeEmail(email)

	var existing models.Member
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailInUse
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询成员失败: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	member := models.Member{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashed),
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, fmt.Errorf("创建成员失败: %w", err)
	}
	return &member, nil
}

// Login 校验 email 与密码
func (s *AuthService) Login(email, password string) (*models.Member, error) {
	var member models.Member
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询成员失败: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &member, nil
}

// Profile 当前成员信息
func (s *AuthService) Profile(id Identity) (*models.Member, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthenticated
	}
	var member models.Member
	if err := s.db.First(&member, id.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("查询成员失败: %w", err)
	}
	return &member, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
