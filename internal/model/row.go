package model

import (
	"math"

	"github.com/google/uuid"
)

// RowKind 行类型
type RowKind string

const (
	RowKindInput           RowKind = "input"            // 录入行
	RowKindCalculatedTotal RowKind = "calculated_total" // 合计行（派生值，不可编辑）
)

// MaxAttachmentSize 附件载荷上限（base64 文本字节数）
const MaxAttachmentSize = 5 * 1024 * 1024

// Attachment 行附件，每行最多一个，上传即替换
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Payload  string `json:"payload"` // base64 文本
}

// Clone 深拷贝附件
func (a *Attachment) Clone() *Attachment {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// ConsumptionRow 用量行：一个站点下的一条录入项或合计项
type ConsumptionRow struct {
	ID         string               `json:"id"`
	Label      string               `json:"label"`
	Kind       RowKind              `json:"kind"`
	Unit       string               `json:"unit,omitempty"` // 仅展示用，如 m³ / kWh
	IsCost     bool                 `json:"isCost"`         // 是否计入站点合计；合计行忽略
	Values     map[MonthKey]float64 `json:"values"`
	Attachment *Attachment          `json:"attachment,omitempty"`
}

// NewInputRow 创建一条零值录入行
func NewInputRow(label string) *ConsumptionRow {
	return &ConsumptionRow{
		ID:     uuid.New().String(),
		Label:  label,
		Kind:   RowKindInput,
		Values: ZeroValues(),
	}
}

// NewTotalRow 创建一条零值合计行
func NewTotalRow(label string) *ConsumptionRow {
	return &ConsumptionRow{
		ID:     uuid.New().String(),
		Label:  label,
		Kind:   RowKindCalculatedTotal,
		Values: ZeroValues(),
	}
}

// ZeroValues 生成全月零值表
func ZeroValues() map[MonthKey]float64 {
	values := make(map[MonthKey]float64, len(Months))
	for _, m := range Months {
		values[m] = 0
	}
	return values
}

// Clone 深拷贝行，含值表与附件
func (r *ConsumptionRow) Clone() *ConsumptionRow {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Values = make(map[MonthKey]float64, len(r.Values))
	for m, v := range r.Values {
		cp.Values[m] = v
	}
	cp.Attachment = r.Attachment.Clone()
	return &cp
}

// Value 读取某月值，缺省为 0
func (r *ConsumptionRow) Value(m MonthKey) float64 {
	if r.Values == nil {
		return 0
	}
	return r.Values[m]
}

// SetValue 写入某月值，按 2 位小数存储
func (r *ConsumptionRow) SetValue(m MonthKey, v float64) {
	if r.Values == nil {
		r.Values = ZeroValues()
	}
	r.Values[m] = Round2(v)
}

// YearTotal 行的横向合计（跨 12 个月），随读随算
func (r *ConsumptionRow) YearTotal() float64 {
	sum := 0.0
	for _, m := range Months {
		sum = Round2(sum + r.Value(m))
	}
	return sum
}

// Round2 四舍五入到 2 位小数
// 每次累加后调用，抑制浮点漂移（0.1+0.2 不得显示为 0.30000000000000004）
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
