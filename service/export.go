package service

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ClubLedgerSheet 导出的工作表名
const ClubLedgerSheet = "Vereinskasse"

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

// ExportClubLedger 把按周分组的总账写成 Excel
// 每周一个标题行，随后是各成员的费用明细与小计，最后是周合计；表尾为总计
func ExportClubLedger(view *ClubLedgerView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := ClubLedgerSheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"6D28D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	weekStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"EDE9FE"}, Pattern: 1},
		Border: thinBorder,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 20)
	f.SetColWidth(sheet, "C", "C", 14)
	f.SetColWidth(sheet, "D", "D", 30)
	f.SetColWidth(sheet, "E", "E", 12)

	headers := []string{"Woche", "Mitglied", "Datum", "Beschreibung", "Betrag"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 2
	for _, week := range view.Weeks {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), week.WeekStart)
		f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), weekStyle)
		row++

		for _, member := range week.Members {
			for _, c := range member.Costs {
				desc := c.Description
				if desc == "" {
					desc = c.Category
				}
				f.SetCellValue(sheet, fmt.Sprintf("A%d", row), week.WeekStart)
				f.SetCellValue(sheet, fmt.Sprintf("B%d", row), member.MemberName)
				f.SetCellValue(sheet, fmt.Sprintf("C%d", row), c.Date)
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), desc)
				f.SetCellValue(sheet, fmt.Sprintf("E%d", row), c.Amount)
				f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), dataStyle)
				row++
			}
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), member.MemberName)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Zwischensumme")
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), member.Subtotal)
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), dataStyle)
			row++
		}

		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Wochensumme")
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), week.Total)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), weekStyle)
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Gesamt")
	f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%d Einträge", view.Summary.CountCosts))
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("%d Mitglieder", view.Summary.TotalMembers))
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), view.Summary.TotalSpent)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), summaryStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return buf, nil
}
