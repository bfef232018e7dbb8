package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/privatep88/record-water-elc/internal/ledger"
	"github.com/privatep88/record-water-elc/internal/model"
)

// ImportFormatError 导入格式错误
// 区分"文件不可读"与"读出来一个站点都没有"两种情况，
// 两者都不得触碰现有数据
type ImportFormatError struct {
	Reason string
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("import failed: %s", e.Reason)
}

func (e *ImportFormatError) Unwrap() error {
	return e.Err
}

// 标记词：标签命中即判定行类型
var (
	totalMarkers = []string{"合计", "总计", "total"}
	costMarkers  = []string{"金额", "费用", "cost"}
)

func matchesAny(label string, markers []string) bool {
	label = strings.ToLower(label)
	for _, m := range markers {
		if strings.Contains(label, m) {
			return true
		}
	}
	return false
}

// Importer Excel 导入器
type Importer struct {
	file *excelize.File
}

// NewImporter 创建导入器
func NewImporter() *Importer {
	return &Importer{}
}

// LoadFile 加载 Excel 文件
func (p *Importer) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return &ImportFormatError{Reason: "无法打开 Excel 文件", Err: err}
	}
	p.file = file
	return nil
}

// Close 关闭文件
func (p *Importer) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// Parse 从首个工作表解析站点列表
//
// 扁平表格还原规则：
//   - 第 0 列 站点名称：非空表示新站点开始，空则延续上一个站点
//   - 第 1 列 表号：仅在站点开始行读取
//   - 第 2 列 行标签
//   - 第 3..14 列 12 个月的值，按固定月份顺序
//
// 标签含合计标记词 → 合计行（isCost 强制 false）；
// 含金额/费用标记词 → isCost=true；其余为普通录入行。
// 首个站点名出现之前的行跳过；名称列本身是合计标记的汇总行跳过。
func (p *Importer) Parse() ([]*model.SiteData, error) {
	if p.file == nil {
		return nil, &ImportFormatError{Reason: "未加载文件"}
	}

	sheets := p.file.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ImportFormatError{Reason: "工作簿中没有工作表"}
	}

	rows, err := p.file.GetRows(sheets[0])
	if err != nil {
		return nil, &ImportFormatError{Reason: "读取工作表失败", Err: err}
	}

	sites := parseGrid(rows)
	if len(sites) == 0 {
		return nil, &ImportFormatError{Reason: "未解析到任何站点"}
	}
	return sites, nil
}

// parseGrid 按扁平表格规则还原站点
func parseGrid(grid [][]string) []*model.SiteData {
	var sites []*model.SiteData
	var current *model.SiteData

	for i, row := range grid {
		// 首行表头
		if i == 0 {
			continue
		}

		name := getCell(row, 0)
		label := getCell(row, 2)

		// 站点之间的空白分隔行
		if name == "" && label == "" {
			continue
		}

		if name != "" {
			// 总计汇总行不是站点
			if matchesAny(name, totalMarkers) {
				current = nil
				continue
			}
			current = &model.SiteData{
				ID:          uuid.New().String(),
				Name:        name,
				MeterNumber: getCell(row, 1),
			}
			sites = append(sites, current)
		}
		if current == nil {
			// 首个站点名出现之前的行
			continue
		}
		if label == "" {
			continue
		}

		r := &model.ConsumptionRow{
			ID:     uuid.New().String(),
			Label:  label,
			Kind:   model.RowKindInput,
			Values: model.ZeroValues(),
		}
		switch {
		case matchesAny(label, totalMarkers):
			r.Kind = model.RowKindCalculatedTotal
		case matchesAny(label, costMarkers):
			r.IsCost = true
		}

		for mi, m := range model.Months {
			r.Values[m] = model.Round2(ledger.ParseAmount(getCell(row, 3+mi)))
		}

		current.Rows = append(current.Rows, r)
	}

	return sites
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
