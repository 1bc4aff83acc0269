// Package aggregator 实现指标聚合器
package aggregator

import "time"

// op 一条待聚合的增量操作
//
// 由 Push 生产，聚合时恰好消费一次。入队后不可变。
type op struct {
	// counter 计数器名称
	counter string

	// delta 增量（校验推迟到聚合时）
	delta float64

	// at 入队时间戳
	at time.Time
}

// takeQueueLocked 原子取走整个当前队列
//
// 后续 Push 从新队列开始。必须持有 a.qmu 调用。
func (a *Aggregator) takeQueueLocked() []op {
	ops := a.queue
	a.queue = nil
	return ops
}
