package api

import (
	"vereinskasse/config"
	"vereinskasse/middleware"
	"vereinskasse/models"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg    *config.Config
	auth   *service.AuthService
	ledger *service.CostLedger
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, auth *service.AuthService, ledger *service.CostLedger) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: auth, ledger: ledger}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"Anna"`
	Email    string `json:"email" binding:"required,email" example:"anna@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"password123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"anna@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token  string        `json:"token"`
	Member models.Member `json:"member"`
}

// ProfileResponse 个人信息及账本汇总
type ProfileResponse struct {
	Member  models.Member       `json:"member"`
	Summary service.CostSummary `json:"summary"`
}

// Register 成员注册
// @Summary 成员注册
// @Description 创建新成员账号，注册成功后直接登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=LoginResponse} "注册成功"
// @Failure 400 {object} Response "请求参数错误或邮箱已被使用"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	member, err := h.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		ServiceError(c, err, "registration failed")
		return
	}

	h.respondWithToken(c, "Registration successful!", member)
}

// Login 成员登录
// @Summary 成员登录
// @Description 使用邮箱和密码获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	member, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		ServiceError(c, err, "login failed")
		return
	}

	h.respondWithToken(c, "Login successful!", member)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, message string, member *models.Member) {
	token, err := middleware.GenerateToken(member.ID, member.Name, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "failed to issue token")
		return
	}
	SuccessWithMessage(c, message, LoginResponse{Token: token, Member: *member})
}

// GetProfile 获取当前成员信息
// @Summary 获取当前成员信息
// @Description 返回当前登录成员及其个人账本汇总
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=ProfileResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "成员不存在"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	id := middleware.GetCurrentIdentity(c)

	member, err := h.auth.Profile(id)
	if err != nil {
		ServiceError(c, err, "failed to load profile")
		return
	}
	costs, err := h.ledger.ListCosts(id)
	if err != nil {
		ServiceError(c, err, "failed to load costs")
		return
	}

	Success(c, ProfileResponse{Member: *member, Summary: service.Summarize(costs)})
}
