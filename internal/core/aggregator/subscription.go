// Package aggregator 实现指标聚合器
package aggregator

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-stats/pkg/interfaces"
	"github.com/dep2p/go-stats/pkg/types"
)

// ============================================================================
//                              更新订阅
// ============================================================================

// Subscription 聚合更新订阅
//
// 每次非空聚合完成后，Out 通道收到一条 Update。
// 缓冲区满时事件被丢弃，慢消费者不会阻塞聚合。
type Subscription struct {
	agg       *Aggregator
	out       chan types.Update
	closeOnce sync.Once
	closed    atomic.Bool

	// dropCount 丢弃事件计数（用于慢消费者警告）
	dropCount atomic.Int64
}

var _ interfaces.Subscription = (*Subscription)(nil)

// Out 返回更新事件通道
func (s *Subscription) Out() <-chan types.Update {
	return s.out
}

// Close 取消订阅
//
// Close 是并发安全的，可以多次调用。
// 关闭后会：
//  1. 从聚合器移除订阅
//  2. 后台排空通道（防止阻塞发布者）
//  3. 关闭通道
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		// 从聚合器移除
		s.agg.removeSub(s)

		// 后台排空通道，防止阻塞发布者
		go func() {
			for range s.out {
				// 丢弃剩余事件
			}
		}()

		// 关闭通道
		close(s.out)
	})

	return nil
}

// ============================================================================
//                              发布
// ============================================================================

// Subscribe 订阅聚合更新事件
func (a *Aggregator) Subscribe(opts ...interfaces.SubscriptionOpt) *Subscription {
	settings := &interfaces.SubscriptionSettings{
		Buffer: 16, // 默认缓冲区大小
	}
	for _, opt := range opts {
		opt(settings)
	}
	if settings.Buffer < 0 {
		settings.Buffer = 0
	}

	sub := &Subscription{
		agg: a,
		out: make(chan types.Update, settings.Buffer),
	}

	a.subMu.Lock()
	a.subs = append(a.subs, sub)
	a.subMu.Unlock()

	return sub
}

// removeSub 从订阅者列表移除订阅
func (a *Aggregator) removeSub(sub *Subscription) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	for i, s := range a.subs {
		if s == sub {
			a.subs = append(a.subs[:i], a.subs[i+1:]...)
			break
		}
	}
}

// notify 向所有订阅者发布一次更新
//
// 非阻塞发送：缓冲区满时丢弃，每丢弃 100 个事件警告一次。
func (a *Aggregator) notify(update types.Update) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	for _, sub := range a.subs {
		if sub.closed.Load() {
			continue
		}
		select {
		case sub.out <- update:
			// 成功发送
		default:
			dropped := sub.dropCount.Add(1)
			if dropped%100 == 1 {
				logger.Warn("慢消费者检测",
					"dropped", dropped,
					"reason", "subscriber buffer full")
			}
		}
	}
}
