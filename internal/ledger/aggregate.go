package ledger

import (
	"strconv"
	"strings"

	"github.com/privatep88/record-water-elc/internal/model"
)

// recalcTotals 重算站点合计行
// 每个月份的合计 = 全部 isCost 录入行该月值之和，
// 逐项累加后即取 2 位小数，抑制浮点漂移
func recalcTotals(site *model.SiteData) {
	total := site.TotalRow()
	if total == nil {
		return
	}
	for _, m := range model.Months {
		sum := 0.0
		for _, r := range site.Rows {
			if r.Kind == model.RowKindInput && r.IsCost {
				sum = model.Round2(sum + r.Value(m))
			}
		}
		total.Values[m] = sum
	}
}

// RecalcSiteTotals 重算单个站点的合计行
// 导入等外部来源的站点在入账前恢复合计不变量
func RecalcSiteTotals(site *model.SiteData) {
	recalcTotals(site)
}

// ParseAmount 解析录入值
// 空串记 0；非法数字宽容为 0（输入层应当已拦截）；千分位分隔符剔除
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

// SetCellValue 写入某年某站点某行某月的值，并重算该站点合计行
func (l *Ledger) SetCellValue(year int, siteID, rowID string, month model.MonthKey, raw string) error {
	if model.MonthIndex(month) == 0 {
		return &ValidationError{Field: "month", Message: "未知月份"}
	}
	return l.mutateSite(year, siteID, func(site *model.SiteData) error {
		row, _ := site.FindRow(rowID)
		if row == nil {
			return ErrRowNotFound
		}
		row.SetValue(month, ParseAmount(raw))
		return nil
	})
}

// AddRow 为站点插入一条零值录入行
// afterIndex >= 0 时插在该下标之后；否则插在合计行之前；无合计行则追加
func (l *Ledger) AddRow(year int, siteID, label string, afterIndex int) (*model.ConsumptionRow, error) {
	row := model.NewInputRow(label)
	err := l.mutateSite(year, siteID, func(site *model.SiteData) error {
		pos := len(site.Rows)
		if afterIndex >= 0 && afterIndex < len(site.Rows) {
			pos = afterIndex + 1
		} else if total := site.TotalRow(); total != nil {
			_, idx := site.FindRow(total.ID)
			pos = idx
		}
		site.Rows = append(site.Rows, nil)
		copy(site.Rows[pos+1:], site.Rows[pos:])
		site.Rows[pos] = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteRow 删除站点的某行，合计行受保护不可删除
func (l *Ledger) DeleteRow(year int, siteID string, rowIndex int) error {
	return l.mutateSite(year, siteID, func(site *model.SiteData) error {
		if rowIndex < 0 || rowIndex >= len(site.Rows) {
			return ErrRowNotFound
		}
		if site.Rows[rowIndex].Kind == model.RowKindCalculatedTotal {
			return ErrTotalRowProtected
		}
		site.Rows = append(site.Rows[:rowIndex], site.Rows[rowIndex+1:]...)
		return nil
	})
}

// RowUpdate 行属性部分更新命令
type RowUpdate struct {
	Label  *string `json:"label,omitempty"`
	Unit   *string `json:"unit,omitempty"`
	IsCost *bool   `json:"isCost,omitempty"`
}

// UpdateRow 更新行的标签/单位/计费标记
// 合计行只允许改标签与单位；IsCost 对合计行无意义，忽略
func (l *Ledger) UpdateRow(year int, siteID, rowID string, upd RowUpdate) error {
	return l.mutateSite(year, siteID, func(site *model.SiteData) error {
		row, _ := site.FindRow(rowID)
		if row == nil {
			return ErrRowNotFound
		}
		if upd.Label != nil {
			row.Label = *upd.Label
		}
		if upd.Unit != nil {
			row.Unit = *upd.Unit
		}
		if upd.IsCost != nil && row.Kind == model.RowKindInput {
			row.IsCost = *upd.IsCost
		}
		return nil
	})
}

// SetAttachment 上传行附件，超限拒绝，已有附件被替换
func (l *Ledger) SetAttachment(year int, siteID, rowID string, att *model.Attachment) error {
	if att == nil {
		return &ValidationError{Field: "attachment", Message: "附件为空"}
	}
	if len(att.Payload) > model.MaxAttachmentSize {
		return &ValidationError{Field: "attachment", Message: "附件超过大小上限"}
	}
	return l.mutateSite(year, siteID, func(site *model.SiteData) error {
		row, _ := site.FindRow(rowID)
		if row == nil {
			return ErrRowNotFound
		}
		row.Attachment = att.Clone()
		return nil
	})
}

// RemoveAttachment 移除行附件
func (l *Ledger) RemoveAttachment(year int, siteID, rowID string) error {
	return l.mutateSite(year, siteID, func(site *model.SiteData) error {
		row, _ := site.FindRow(rowID)
		if row == nil {
			return ErrRowNotFound
		}
		row.Attachment = nil
		return nil
	})
}

// GrandTotals 某年的跨站点月度总计
// 纯派生值，随读随算，永不缓存
func (l *Ledger) GrandTotals(year int) map[model.MonthKey]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	totals := model.ZeroValues()
	var sites []*model.SiteData
	if materialized, ok := l.years[year]; ok {
		sites = materialized
	} else {
		for _, s := range l.template {
			if s.ExistsInYear(year) {
				sites = append(sites, s)
			}
		}
	}
	for _, m := range model.Months {
		sum := 0.0
		for _, s := range sites {
			sum = model.Round2(sum + s.MonthTotal(m))
		}
		totals[m] = sum
	}
	return totals
}
