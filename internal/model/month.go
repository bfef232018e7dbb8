package model

import "fmt"

// MonthKey 月份键，固定 12 个，顺序即展示与汇总顺序
type MonthKey string

const (
	MonthJan MonthKey = "jan"
	MonthFeb MonthKey = "feb"
	MonthMar MonthKey = "mar"
	MonthApr MonthKey = "apr"
	MonthMay MonthKey = "may"
	MonthJun MonthKey = "jun"
	MonthJul MonthKey = "jul"
	MonthAug MonthKey = "aug"
	MonthSep MonthKey = "sep"
	MonthOct MonthKey = "oct"
	MonthNov MonthKey = "nov"
	MonthDec MonthKey = "dec"
)

// Months 规范月份顺序
var Months = [12]MonthKey{
	MonthJan, MonthFeb, MonthMar, MonthApr, MonthMay, MonthJun,
	MonthJul, MonthAug, MonthSep, MonthOct, MonthNov, MonthDec,
}

// MonthIndex 返回月份在一年中的序号 (1-12)，未知月份返回 0
func MonthIndex(m MonthKey) int {
	for i, k := range Months {
		if k == m {
			return i + 1
		}
	}
	return 0
}

// MonthByIndex 根据序号 (1-12) 返回月份键
func MonthByIndex(idx int) (MonthKey, bool) {
	if idx < 1 || idx > 12 {
		return "", false
	}
	return Months[idx-1], true
}

// MonthLabel 月份中文名 (1月..12月)
func MonthLabel(m MonthKey) string {
	idx := MonthIndex(m)
	if idx == 0 {
		return string(m)
	}
	return fmt.Sprintf("%d月", idx)
}

// ParseMonth 解析月份键
func ParseMonth(s string) (MonthKey, bool) {
	m := MonthKey(s)
	if MonthIndex(m) == 0 {
		return "", false
	}
	return m, true
}
