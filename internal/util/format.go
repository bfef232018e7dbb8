package util

import (
	"fmt"
	"math"
)

// FormatAmount 数值展示规则：
// 绝对值小于 0.005 显示 "0"（吸收负零与浮点尘埃）；
// 整数不带小数；其余固定 2 位小数
func FormatAmount(v float64) string {
	if math.Abs(v) < 0.005 {
		return "0"
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
