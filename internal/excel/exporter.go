package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/privatep88/record-water-elc/internal/model"
	"github.com/privatep88/record-water-elc/internal/util"
)

// Exporter Excel 导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 导出某年台账到 Excel
//
// 版式：表头一行；每个 (站点, 行) 一行，站点名称/表号只写在
// 首行并纵向合并单元格；站点之间空一行；末尾一行总计。
// 附件只导出名称（逗号连接），载荷不导出。
func (e *Exporter) Export(year int, sites []*model.SiteData, grandTotals map[model.MonthKey]float64) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := fmt.Sprintf("%d年度", year)
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"站点名称", "表号", "项目"}
	for _, m := range model.Months {
		headers = append(headers, model.MonthLabel(m))
	}
	headers = append(headers, "全年合计", "附件")

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	f.SetRowStyle(sheetName, 1, 1, headerStyle)

	rowNum := 2
	for _, site := range sites {
		firstRow := rowNum
		for ri, r := range site.Rows {
			if ri == 0 {
				f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), site.Name)
				f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), site.MeterNumber)
			}
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), r.Label)
			for mi, m := range model.Months {
				cell, _ := excelize.CoordinatesToCellName(4+mi, rowNum)
				f.SetCellValue(sheetName, cell, util.FormatAmount(r.Value(m)))
			}
			f.SetCellValue(sheetName, fmt.Sprintf("P%d", rowNum), util.FormatAmount(r.YearTotal()))
			if r.Attachment != nil {
				f.SetCellValue(sheetName, fmt.Sprintf("Q%d", rowNum), r.Attachment.Name)
			}
			rowNum++
		}

		// 站点名称/表号纵向合并，便于宿主展示
		if rowNum-1 > firstRow {
			f.MergeCell(sheetName, fmt.Sprintf("A%d", firstRow), fmt.Sprintf("A%d", rowNum-1))
			f.MergeCell(sheetName, fmt.Sprintf("B%d", firstRow), fmt.Sprintf("B%d", rowNum-1))
		}

		// 站点之间空行分隔
		rowNum++
	}

	// 总计行
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), "总计")
	yearSum := 0.0
	for mi, m := range model.Months {
		cell, _ := excelize.CoordinatesToCellName(4+mi, rowNum)
		v := grandTotals[m]
		f.SetCellValue(sheetName, cell, util.FormatAmount(v))
		yearSum = model.Round2(yearSum + v)
	}
	f.SetCellValue(sheetName, fmt.Sprintf("P%d", rowNum), util.FormatAmount(yearSum))
	f.SetRowStyle(sheetName, rowNum, rowNum, headerStyle)

	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "Q", 10)

	return f, nil
}
