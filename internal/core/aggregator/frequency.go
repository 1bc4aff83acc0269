// Package aggregator 实现指标聚合器
package aggregator

import "time"

// ============================================================================
//                              频率计算
// ============================================================================
//
// 每次聚合只做一次频率计算：把"自上次计算以来的增量总和"换算为
// 速率（单位/秒），作为 (时间戳, 速率) 样本推入每个滑动平均窗口。
// 一次聚合可能包含同一计数器的大量操作，按聚合而不是按操作计算
// 使滑动平均的更新成本与突发大小无关。

// updateFrequenciesLocked 为所有已知计数器计算并记录速率
//
// latest 是本次聚合最后一条操作的时间戳。与上次计算的时间差不为
// 正时整体跳过：不除零、不清零累加器，下一次计算自然覆盖这段区间。
// 必须持有 a.mu 调用。
func (a *Aggregator) updateFrequenciesLocked(latest time.Time) {
	diffMs := latest.Sub(a.lastFreq).Milliseconds()
	if diffMs <= 0 {
		return
	}

	for name := range a.totals {
		// 空闲计数器的累加器为 0，记录显式的 0 速率
		rate := a.accums[name] / float64(diffMs) * 1000
		a.accums[name] = 0

		set, ok := a.averages[name]
		if !ok {
			// 首次出现的计数器惰性创建滑动平均集合
			set = a.newAverageSet(nil)
			a.averages[name] = set
		}
		for _, m := range set {
			m.Push(latest, rate)
		}
	}

	a.lastFreq = latest
}
