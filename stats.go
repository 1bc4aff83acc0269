// Package stats 提供进程内指标聚合
package stats

import (
	"time"

	"github.com/dep2p/go-stats/internal/core/aggregator"
	"github.com/dep2p/go-stats/pkg/interfaces"
	"github.com/dep2p/go-stats/pkg/types"
)

// Stats 指标聚合服务
//
// Stats 是聚合器和按节点统计注册表的公共门面。
// 所有方法都是并发安全的。
type Stats struct {
	registry *aggregator.Registry
}

// 确保实现接口
var _ interfaces.Stats = (*Stats)(nil)

// New 创建指标聚合服务
//
// 不带选项时使用默认配置（启用记录，1s 节流，1000 队列上限，
// 1m/5m/15m 三个滑动平均窗口，启用按节点统计）。
func New(opts ...Option) (*Stats, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Stats{
		registry: aggregator.NewRegistry(
			aggregator.ConfigFromUnified(o.config),
			o.aggOpts()...,
		),
	}, nil
}

// ============================================================================
//                              记录
// ============================================================================

// Push 记录一条全局计数器增量
//
// 仅入队，O(1) 且不阻塞，永不返回错误。
// 增量的校验推迟到聚合时进行。
func (s *Stats) Push(counter string, delta float64) {
	s.registry.Push(counter, delta)
}

// PushFor 记录一条关联指定节点的计数器增量
//
// 增量同时计入全局聚合器和该节点的聚合器。
func (s *Stats) PushFor(peer string, counter string, delta float64) {
	s.registry.PushFor(peer, counter, delta)
}

// ============================================================================
//                              查询
// ============================================================================

// Snapshot 返回所有全局计数器累计值的时间点深拷贝
func (s *Stats) Snapshot() types.Snapshot {
	return s.registry.Global().Snapshot()
}

// MovingAverages 返回所有全局计数器滑动平均速率的时间点深拷贝
func (s *Stats) MovingAverages() types.Rates {
	return s.registry.Global().MovingAverages()
}

// ForPeer 返回指定节点的指标查询接口
//
// 节点未知时返回 nil。
func (s *Stats) ForPeer(peer string) interfaces.Reporter {
	agg := s.registry.ForPeer(peer)
	if agg == nil {
		return nil
	}
	return agg
}

// Peers 返回当前已知的节点列表
func (s *Stats) Peers() []string {
	return s.registry.Peers()
}

// ============================================================================
//                              订阅
// ============================================================================

// Subscribe 订阅聚合更新事件
//
// 每次非空聚合完成后收到一条 Update。
func (s *Stats) Subscribe(opts ...interfaces.SubscriptionOpt) interfaces.Subscription {
	return s.registry.Global().Subscribe(opts...)
}

// ============================================================================
//                              生命周期
// ============================================================================

// Enable 启用指标记录
func (s *Stats) Enable() {
	s.registry.Enable()
}

// Disable 停用指标记录
//
// 停用后 Push 直接丢弃增量；已聚合的状态不受影响。
func (s *Stats) Disable() {
	s.registry.Disable()
}

// Stop 停止聚合服务
//
// 取消所有待执行的聚合调度，此后不再有自动聚合发生。
// Stop 是幂等的，已聚合的状态仍可读取。
func (s *Stats) Stop() {
	s.registry.Stop()
}

// RemovePeer 移除指定节点的统计（断连清理）
func (s *Stats) RemovePeer(peer string) {
	s.registry.RemovePeer(peer)
}

// TrimIdle 清理指定时间之前无活动的节点统计
func (s *Stats) TrimIdle(since time.Time) {
	s.registry.TrimIdle(since)
}
