// Package aggregator 实现指标聚合器
package aggregator

import (
	"math"
	"math/big"
)

// ============================================================================
//                              精确累计
// ============================================================================
//
// 累计值使用 big.Int 保存：大量小增量累加到超过 float64 的 53 位
// 精度后仍然精确，不产生浮点漂移。

// exactInt 把增量转换为精确的任意精度整数
//
// NaN、±Inf 和非整数值无法精确计入整数累计值，返回 ErrInvalidDelta。
// 整数值的 float64 转换是无损的（包括超出 int64 范围的值）。
func exactInt(delta float64) (*big.Int, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return nil, ErrInvalidDelta
	}
	if delta != math.Trunc(delta) {
		return nil, ErrInvalidDelta
	}
	inc, _ := new(big.Float).SetFloat64(delta).Int(nil)
	return inc, nil
}

// Total 返回单个计数器的累计值拷贝
//
// 计数器未知时返回 0。
func (a *Aggregator) Total(counter string) *big.Int {
	a.mu.Lock()
	defer a.mu.Unlock()

	total, ok := a.totals[counter]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(total)
}
