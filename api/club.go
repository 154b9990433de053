package api

import (
	"vereinskasse/middleware"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
)

// ClubHandler 俱乐部总账处理器
type ClubHandler struct {
	club *service.ClubLedger
}

// NewClubHandler 创建俱乐部总账处理器
func NewClubHandler(club *service.ClubLedger) *ClubHandler {
	return &ClubHandler{club: club}
}

// View 俱乐部总账
// @Summary 俱乐部总账
// @Description 所有成员的费用，按周（周一开始）倒序、周内按成员姓名分组，附小计与汇总
// @Tags 俱乐部
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.ClubLedgerView} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/club/costs [get]
func (h *ClubHandler) View(c *gin.Context) {
	view, err := h.club.View(middleware.GetCurrentIdentity(c))
	if err != nil {
		ServiceError(c, err, "failed to load club ledger")
		return
	}
	Success(c, view)
}
