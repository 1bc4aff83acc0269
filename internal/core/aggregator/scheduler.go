// Package aggregator 实现指标聚合器
package aggregator

import "time"

// ============================================================================
//                              自适应聚合调度
// ============================================================================
//
// 调度器同时限制最坏聚合延迟和队列的最坏内存增长：
// 队列越接近上限，聚合延迟越短；达到上限时立即聚合。
// 每次 Push 重新计算延迟并重置调度，任一时刻至多一个待执行调度。

// nextDelayLocked 计算下一次聚合的延迟
//
// delay = max(computeThrottle × (1 - urgency), 0)，
// 其中 urgency = len(queue)/maxQueueSize。
// 延迟是队列长度的非增函数，队列达到上限后恒为 0。
// 必须持有 a.qmu 调用。
func (a *Aggregator) nextDelayLocked() time.Duration {
	urgency := float64(len(a.queue)) / float64(a.cfg.MaxQueueSize)
	delay := time.Duration(float64(a.cfg.ComputeThrottle) * (1 - urgency))
	if delay < 0 {
		delay = 0
	}
	return delay
}

// rearmLocked 重置聚合调度
//
// 取消上一个待执行调度（若有），按重新计算的延迟安排新调度。
// 旧调度被原子取代，绝不会两个同时生效。必须持有 a.qmu 调用。
func (a *Aggregator) rearmLocked() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = a.clk.AfterFunc(a.nextDelayLocked(), a.flush)
}
