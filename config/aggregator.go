// Package config 提供统一的配置管理
package config

import "time"

// 默认值常量
const (
	// DefaultComputeThrottle 默认聚合节流基准延迟
	DefaultComputeThrottle = time.Second

	// DefaultMaxQueueSize 默认队列长度上限（用于紧迫度缩放）
	DefaultMaxQueueSize = 1000
)

// DefaultIntervals 返回默认滑动平均窗口集合（1 分钟 / 5 分钟 / 15 分钟）
func DefaultIntervals() []Duration {
	return []Duration{
		Duration(time.Minute),
		Duration(5 * time.Minute),
		Duration(15 * time.Minute),
	}
}

// AggregatorConfig 聚合器配置
//
// 配置增量队列、自适应聚合调度和滑动平均窗口。
// 配置在构造时生效，之后不可变。
type AggregatorConfig struct {
	// Enabled 是否启用指标记录
	// 停用时 Push 直接丢弃增量。
	// 默认值: true
	Enabled bool `json:"enabled"`

	// InitialCounters 构造时即初始化的计数器名称
	// 这些计数器从 0 开始累计，滑动平均在构造时刻以 0 值播种。
	// 其他计数器在首次出现时惰性创建。
	InitialCounters []string `json:"initial_counters,omitempty"`

	// ComputeThrottle 聚合节流基准延迟
	// 队列为空时的最大聚合延迟；随队列增长线性缩短。
	// 默认值: 1s
	ComputeThrottle Duration `json:"compute_throttle"`

	// MaxQueueSize 队列长度上限
	// 用于计算紧迫度 urgency = len(queue)/MaxQueueSize；
	// 队列达到上限时聚合延迟降为 0。
	// 默认值: 1000
	MaxQueueSize int `json:"max_queue_size"`

	// Intervals 滑动平均窗口集合
	// 所有计数器共享同一窗口集合。
	// 默认值: [1m, 5m, 15m]
	Intervals []Duration `json:"intervals,omitempty"`
}

// DefaultAggregatorConfig 返回默认的聚合器配置
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		Enabled:         true,
		ComputeThrottle: Duration(DefaultComputeThrottle),
		MaxQueueSize:    DefaultMaxQueueSize,
		Intervals:       DefaultIntervals(),
	}
}
