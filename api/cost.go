package api

import (
	"vereinskasse/middleware"
	"vereinskasse/models"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
)

// CostHandler 个人费用处理器
type CostHandler struct {
	ledger  *service.CostLedger
	catalog *models.CategoryCatalog
}

// NewCostHandler 创建个人费用处理器
func NewCostHandler(ledger *service.CostLedger, catalog *models.CategoryCatalog) *CostHandler {
	return &CostHandler{ledger: ledger, catalog: catalog}
}

// CreateCostRequest 新增费用请求
// 固定价格类别忽略 amount
type CreateCostRequest struct {
	Date        string `json:"date" example:"2024-01-10"`
	Category    string `json:"category" example:"Other"`
	Amount      string `json:"amount" example:"4.20"`
	Description string `json:"description" example:"Chips"`
}

// CostListResponse 费用列表及汇总
type CostListResponse struct {
	Costs   []models.Cost       `json:"costs"`
	Summary service.CostSummary `json:"summary"`
}

// List 获取个人费用
// @Summary 获取个人费用
// @Description 当前成员的全部费用（按日期倒序）及汇总
// @Tags 费用
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=CostListResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/costs [get]
func (h *CostHandler) List(c *gin.Context) {
	costs, err := h.ledger.ListCosts(middleware.GetCurrentIdentity(c))
	if err != nil {
		ServiceError(c, err, "failed to load costs")
		return
	}
	Success(c, CostListResponse{Costs: costs, Summary: service.Summarize(costs)})
}

// Create 新增个人费用
// @Summary 新增个人费用
// @Description 为当前成员记一笔费用；饮料类别使用固定价格，Other 需要填写金额
// @Tags 费用
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCostRequest true "费用信息"
// @Success 200 {object} Response{data=models.Cost} "创建成功"
// @Failure 400 {object} Response "校验失败"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/costs [post]
func (h *CostHandler) Create(c *gin.Context) {
	var req CreateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	cost, err := h.ledger.AddCost(middleware.GetCurrentIdentity(c), service.CostInput{
		Date:        req.Date,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		ServiceError(c, err, "failed to save cost")
		return
	}
	SuccessWithMessage(c, "Cost added successfully!", cost)
}

// Delete 删除个人费用
// @Summary 删除个人费用
// @Description 删除当前成员的一条费用；记录不存在时同样返回成功
// @Tags 费用
// @Produce json
// @Security BearerAuth
// @Param id path int true "费用ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "ID 无效"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/costs/{id} [delete]
func (h *CostHandler) Delete(c *gin.Context) {
	costID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.ledger.DeleteCost(middleware.GetCurrentIdentity(c), costID); err != nil {
		ServiceError(c, err, "failed to delete cost")
		return
	}
	SuccessWithMessage(c, "Cost deleted.", nil)
}

// GetCategories 获取费用类别
// @Summary 获取费用类别
// @Description 返回可选类别及固定价格
// @Tags 费用
// @Produce json
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories [get]
func (h *CostHandler) GetCategories(c *gin.Context) {
	Success(c, h.catalog.All())
}
