// Package aggregator 实现指标聚合器
package aggregator

import "errors"

// 错误定义
var (
	// ErrInvalidDelta 增量不是可精确累计的数值
	//
	// NaN、±Inf 或无法精确表示为整数的增量在聚合时被判定为无效。
	// 校验推迟到聚合时进行，Push 本身不返回错误。
	ErrInvalidDelta = errors.New("invalid delta: not an exactly representable number")
)
