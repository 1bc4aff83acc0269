// Package interfaces 定义 go-stats 公共接口
//
// 本文件定义指标聚合的记录、查询与订阅接口。
package interfaces

import (
	"time"

	"github.com/dep2p/go-stats/pkg/types"
)

// ============================================================================
//                              记录与查询接口
// ============================================================================

// Recorder 定义指标记录接口
//
// Push 运行在调用方的热路径上，必须是 O(1) 且永不阻塞、永不返回错误。
// 增量的校验被推迟到聚合时进行。
type Recorder interface {
	// Push 记录一条全局计数器增量
	Push(counter string, delta float64)

	// PushFor 记录一条关联指定节点的计数器增量
	//
	// 增量同时计入全局聚合器和该节点的聚合器。
	PushFor(peer string, counter string, delta float64)
}

// Reporter 定义指标查询接口
//
// 所有返回值都是内部状态的时间点深拷贝。
type Reporter interface {
	// Snapshot 返回所有计数器的累计值快照
	Snapshot() types.Snapshot

	// MovingAverages 返回所有计数器的滑动平均速率快照
	MovingAverages() types.Rates
}

// ============================================================================
//                              订阅接口
// ============================================================================

// Subscription 更新事件订阅
//
// 每次非空聚合完成后，Out 通道收到一条 Update。
// 缓冲区满时事件被丢弃（慢消费者不会阻塞聚合）。
type Subscription interface {
	// Out 返回更新事件通道
	Out() <-chan types.Update

	// Close 取消订阅
	//
	// Close 是并发安全的，可以多次调用。
	Close() error
}

// SubscriptionSettings 订阅设置
type SubscriptionSettings struct {
	// Buffer 通道缓冲区大小
	Buffer int
}

// SubscriptionOpt 订阅选项函数
type SubscriptionOpt func(*SubscriptionSettings)

// BufSize 设置订阅缓冲区大小
func BufSize(size int) SubscriptionOpt {
	return func(s *SubscriptionSettings) {
		s.Buffer = size
	}
}

// ============================================================================
//                              聚合器接口
// ============================================================================

// Stats 定义指标聚合服务的完整接口
type Stats interface {
	Recorder
	Reporter

	// Enable 启用指标记录
	Enable()

	// Disable 停用指标记录
	//
	// 停用后 Push 直接丢弃增量（不入队）；
	// 已入队和已聚合的状态不受影响。
	Disable()

	// Stop 停止聚合器
	//
	// 取消待执行的聚合调度，此后不再有自动聚合发生。
	// Stop 是幂等的，无待执行调度时调用也安全。
	Stop()

	// Subscribe 订阅聚合更新事件
	Subscribe(opts ...SubscriptionOpt) Subscription

	// ForPeer 返回指定节点的指标查询接口
	//
	// 节点未知时返回 nil。
	ForPeer(peer string) Reporter

	// RemovePeer 移除指定节点的统计（断连清理）
	RemovePeer(peer string)

	// TrimIdle 清理指定时间之前无活动的节点统计
	TrimIdle(since time.Time)
}
