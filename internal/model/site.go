package model

import "github.com/google/uuid"

// SiteData 站点：一个有名称与表号的计量地点，持有有序的用量行
type SiteData struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	MeterNumber string            `json:"meterNumber"`
	Rows        []*ConsumptionRow `json:"rows"`
	// ActivationYear 启用年份；0 表示一直存在。
	// 严格早于该年份的年度视图中该站点不出现。
	ActivationYear int `json:"activationYear,omitempty"`
}

// NewSite 创建站点，附带默认的水电录入行与合计行
func NewSite(name, meterNumber string, activationYear int) *SiteData {
	water := NewInputRow("水用量")
	water.Unit = "m³"
	waterCost := NewInputRow("水费金额")
	waterCost.IsCost = true
	elec := NewInputRow("电用量")
	elec.Unit = "kWh"
	elecCost := NewInputRow("电费金额")
	elecCost.IsCost = true

	return &SiteData{
		ID:             uuid.New().String(),
		Name:           name,
		MeterNumber:    meterNumber,
		ActivationYear: activationYear,
		Rows: []*ConsumptionRow{
			water, waterCost, elec, elecCost,
			NewTotalRow("合计"),
		},
	}
}

// Clone 深拷贝站点，跨集合复制的唯一入口（模板/年度/归档之间无结构共享）
func (s *SiteData) Clone() *SiteData {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Rows = make([]*ConsumptionRow, len(s.Rows))
	for i, r := range s.Rows {
		cp.Rows[i] = r.Clone()
	}
	return &cp
}

// CloneSites 深拷贝站点列表
func CloneSites(sites []*SiteData) []*SiteData {
	out := make([]*SiteData, len(sites))
	for i, s := range sites {
		out[i] = s.Clone()
	}
	return out
}

// TotalRow 返回合计行，不存在时返回 nil
// 不变量：一个站点最多一条合计行
func (s *SiteData) TotalRow() *ConsumptionRow {
	for _, r := range s.Rows {
		if r.Kind == RowKindCalculatedTotal {
			return r
		}
	}
	return nil
}

// FindRow 按 ID 查找行
func (s *SiteData) FindRow(rowID string) (*ConsumptionRow, int) {
	for i, r := range s.Rows {
		if r.ID == rowID {
			return r, i
		}
	}
	return nil, -1
}

// MonthTotal 站点某月的合计值：有合计行取合计行，
// 否则取全部计费录入行之和
func (s *SiteData) MonthTotal(m MonthKey) float64 {
	if total := s.TotalRow(); total != nil {
		return total.Value(m)
	}
	sum := 0.0
	for _, r := range s.Rows {
		if r.Kind == RowKindInput && r.IsCost {
			sum = Round2(sum + r.Value(m))
		}
	}
	return sum
}

// ExistsInYear 站点在某财年是否已启用
func (s *SiteData) ExistsInYear(year int) bool {
	return s.ActivationYear == 0 || s.ActivationYear <= year
}
