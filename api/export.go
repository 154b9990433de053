package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"vereinskasse/middleware"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出处理器
type ExportHandler struct {
	ledger *service.CostLedger
	club   *service.ClubLedger
}

// NewExportHandler 创建导出处理器
func NewExportHandler(ledger *service.CostLedger, club *service.ClubLedger) *ExportHandler {
	return &ExportHandler{ledger: ledger, club: club}
}

// ExportCSV 导出个人费用为 CSV
// @Summary 导出个人费用
// @Description 导出当前成员全部费用为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/costs/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	id := middleware.GetCurrentIdentity(c)
	if !id.Authenticated() {
		Unauthorized(c, service.ErrUnauthenticated.Error())
		return
	}

	costs, err := h.ledger.ListCosts(id)
	if err != nil {
		ServiceError(c, err, "failed to load costs")
		return
	}

	buf := new(bytes.Buffer)
	// BOM，方便 Excel 直接打开
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)

	headers := []string{"ID", "Datum", "Kategorie", "Beschreibung", "Betrag"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "failed to build CSV")
		return
	}
	for _, cost := range costs {
		row := []string{
			fmt.Sprintf("%d", cost.ID),
			cost.Date,
			cost.Category,
			cost.Description,
			fmt.Sprintf("%.2f", cost.Amount),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "failed to build CSV")
			return
		}
	}
	summary := service.Summarize(costs)
	if err := writer.Write([]string{"", "", "", "Gesamt", fmt.Sprintf("%.2f", summary.TotalSpent)}); err != nil {
		InternalError(c, "failed to build CSV")
		return
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "failed to build CSV")
		return
	}

	filename := fmt.Sprintf("kosten_%d_%s.csv", id.MemberID, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出俱乐部总账为 Excel
// @Summary 导出俱乐部总账
// @Description 按周、成员分组导出所有成员的费用
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/club/costs/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	view, err := h.club.View(middleware.GetCurrentIdentity(c))
	if err != nil {
		ServiceError(c, err, "failed to load club ledger")
		return
	}

	buf, err := service.ExportClubLedger(view)
	if err != nil {
		ServiceError(c, err, "failed to build Excel file")
		return
	}

	filename := fmt.Sprintf("vereinskasse_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, excelContentType, buf.Bytes())
}
