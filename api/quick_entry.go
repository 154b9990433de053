package api

import (
	"fmt"

	"vereinskasse/middleware"
	"vereinskasse/models"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
)

// QuickEntryHandler 快速录入处理器
type QuickEntryHandler struct {
	quick *service.QuickEntryService
}

// NewQuickEntryHandler 创建快速录入处理器
func NewQuickEntryHandler(quick *service.QuickEntryService) *QuickEntryHandler {
	return &QuickEntryHandler{quick: quick}
}

// SetDraftFieldRequest 修改草稿字段
type SetDraftFieldRequest struct {
	Field string `json:"field" binding:"required,oneof=category amount description date" example:"category"`
	Value string `json:"value" example:"Other"`
}

// QuickDrinkRequest 一键饮品
type QuickDrinkRequest struct {
	DrinkType string `json:"drink_type" binding:"required" example:"alcoholic"`
}

// MemberListResponse 可录入成员及当前会话状态
type MemberListResponse struct {
	Members []models.Member            `json:"members"`
	State   service.QuickEntrySnapshot `json:"state"`
}

// ListMembers 可录入的成员
// @Summary 可录入的成员
// @Description 除终端账号外的全部成员，按姓名排序
// @Tags 快速录入
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=MemberListResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/quick-entry/members [get]
func (h *QuickEntryHandler) ListMembers(c *gin.Context) {
	id := middleware.GetCurrentIdentity(c)
	members, err := h.quick.ListMembers(id)
	if err != nil {
		ServiceError(c, err, "failed to load members")
		return
	}
	snap, err := h.quick.Snapshot(id)
	if err != nil {
		ServiceError(c, err, "failed to load quick entry state")
		return
	}
	Success(c, MemberListResponse{Members: members, State: snap})
}

// State 当前会话状态
// @Summary 快速录入状态
// @Tags 快速录入
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.QuickEntrySnapshot} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/quick-entry/state [get]
func (h *QuickEntryHandler) State(c *gin.Context) {
	snap, err := h.quick.Snapshot(middleware.GetCurrentIdentity(c))
	if err != nil {
		ServiceError(c, err, "failed to load quick entry state")
		return
	}
	Success(c, snap)
}

// Select 选中成员
// @Summary 选中成员
// @Tags 快速录入
// @Produce json
// @Security BearerAuth
// @Param id path int true "成员ID"
// @Success 200 {object} Response{data=service.QuickEntrySnapshot} "成功"
// @Failure 404 {object} Response "成员不存在"
// @Router /api/v1/quick-entry/members/{id}/select [post]
func (h *QuickEntryHandler) Select(c *gin.Context) {
	memberID, ok := parseID(c, "id")
	if !ok {
		return
	}
	snap, err := h.quick.OpenSelection(middleware.GetCurrentIdentity(c), memberID)
	if err != nil {
		ServiceError(c, err, "failed to select member")
		return
	}
	Success(c, snap)
}

// SetDraftField 修改成员草稿
// @Summary 修改成员草稿
// @Description 选择固定价格类别时自动填入价格
// @Tags 快速录入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "成员ID"
// @Param request body SetDraftFieldRequest true "字段与值"
// @Success 200 {object} Response{data=service.Draft} "成功"
// @Failure 400 {object} Response "字段无效"
// @Router /api/v1/quick-entry/members/{id}/draft [put]
func (h *QuickEntryHandler) SetDraftField(c *gin.Context) {
	memberID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req SetDraftFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	draft, err := h.quick.SetFormField(middleware.GetCurrentIdentity(c), memberID, req.Field, req.Value)
	if err != nil {
		ServiceError(c, err, "failed to update draft")
		return
	}
	Success(c, draft)
}

// ToggleCustomForm 切换自定义表单
// @Summary 切换自定义表单
// @Tags 快速录入
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.QuickEntrySnapshot} "成功"
// @Failure 400 {object} Response "未选中成员"
// @Router /api/v1/quick-entry/custom-form/toggle [post]
func (h *QuickEntryHandler) ToggleCustomForm(c *gin.Context) {
	snap, err := h.quick.ToggleCustomForm(middleware.GetCurrentIdentity(c))
	if err != nil {
		ServiceError(c, err, "failed to toggle form")
		return
	}
	Success(c, snap)
}

// AddCost 按草稿为成员记账
// @Summary 按草稿为成员记账
// @Description 代他人记账时会给对方发送通知
// @Tags 快速录入
// @Produce json
// @Security BearerAuth
// @Param id path int true "成员ID"
// @Success 200 {object} Response{data=service.BookingResult} "记账成功"
// @Failure 400 {object} Response "校验失败"
// @Failure 404 {object} Response "成员不存在"
// @Router /api/v1/quick-entry/members/{id}/costs [post]
func (h *QuickEntryHandler) AddCost(c *gin.Context) {
	memberID, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.quick.AddCostForMember(middleware.GetCurrentIdentity(c), memberID)
	if err != nil {
		ServiceError(c, err, "failed to book cost")
		return
	}
	SuccessWithMessage(c, bookingMessage(result), result)
}

// AddDrink 一键记饮品
// @Summary 一键记饮品
// @Description drink_type 为 non-alcoholic 或 alcoholic，价格固定
// @Tags 快速录入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "成员ID"
// @Param request body QuickDrinkRequest true "饮品类型"
// @Success 200 {object} Response{data=service.BookingResult} "记账成功"
// @Failure 400 {object} Response "饮品类型无效"
// @Failure 404 {object} Response "成员不存在"
// @Router /api/v1/quick-entry/members/{id}/drinks [post]
func (h *QuickEntryHandler) AddDrink(c *gin.Context) {
	memberID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req QuickDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	result, err := h.quick.AddQuickDrinkForMember(middleware.GetCurrentIdentity(c), memberID, req.DrinkType)
	if err != nil {
		ServiceError(c, err, "failed to book drink")
		return
	}
	SuccessWithMessage(c, bookingMessage(result), result)
}

// Undo 撤销最近一次预订
// @Summary 撤销最近一次预订
// @Tags 快速录入
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.QuickEntrySnapshot} "撤销成功"
// @Failure 400 {object} Response "没有可撤销的预订"
// @Router /api/v1/quick-entry/undo [post]
func (h *QuickEntryHandler) Undo(c *gin.Context) {
	id := middleware.GetCurrentIdentity(c)
	if err := h.quick.UndoLastBooking(id); err != nil {
		ServiceError(c, err, "failed to undo booking")
		return
	}
	snap, err := h.quick.Snapshot(id)
	if err != nil {
		ServiceError(c, err, "failed to load quick entry state")
		return
	}
	SuccessWithMessage(c, "Booking undone.", snap)
}

// CloseConfirmation 关闭确认视图
// @Summary 关闭确认视图
// @Tags 快速录入
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.QuickEntrySnapshot} "成功"
// @Router /api/v1/quick-entry/confirmation/close [post]
func (h *QuickEntryHandler) CloseConfirmation(c *gin.Context) {
	snap, err := h.quick.CloseConfirmation(middleware.GetCurrentIdentity(c))
	if err != nil {
		ServiceError(c, err, "failed to close confirmation")
		return
	}
	Success(c, snap)
}

func bookingMessage(result *service.BookingResult) string {
	if result.NotificationSent {
		return fmt.Sprintf("Booked for %s. A notification was sent.", result.Confirmation.MemberName)
	}
	return fmt.Sprintf("Booked for %s.", result.Confirmation.MemberName)
}
