package aggregator

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-stats/config"
)

// Config 聚合器配置
type Config struct {
	// Enabled 是否启用指标记录
	Enabled bool

	// InitialCounters 构造时初始化的计数器名称
	InitialCounters []string

	// ComputeThrottle 聚合节流基准延迟
	ComputeThrottle time.Duration

	// MaxQueueSize 队列长度上限（紧迫度缩放）
	MaxQueueSize int

	// Intervals 滑动平均窗口集合
	Intervals []time.Duration

	// PerPeer 是否启用按节点统计
	PerPeer bool

	// IdleTimeout 节点空闲超时
	IdleTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建聚合器配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	intervals := make([]time.Duration, 0, len(cfg.Aggregator.Intervals))
	for _, iv := range cfg.Aggregator.Intervals {
		intervals = append(intervals, iv.Duration())
	}

	return Config{
		Enabled:         cfg.Aggregator.Enabled,
		InitialCounters: cfg.Aggregator.InitialCounters,
		ComputeThrottle: cfg.Aggregator.ComputeThrottle.Duration(),
		MaxQueueSize:    cfg.Aggregator.MaxQueueSize,
		Intervals:       intervals,
		PerPeer:         cfg.Registry.EnablePerPeer,
		IdleTimeout:     cfg.Registry.IdleTimeout.Duration(),
	}
}

// withDefaults 把不可用的字段回退为默认值
func (c Config) withDefaults() Config {
	if c.ComputeThrottle <= 0 {
		c.ComputeThrottle = config.DefaultComputeThrottle
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = config.DefaultMaxQueueSize
	}
	if len(c.Intervals) == 0 {
		for _, iv := range config.DefaultIntervals() {
			c.Intervals = append(c.Intervals, iv.Duration())
		}
	}
	return c
}

// ============================================================================
//                              Fx 模块
// ============================================================================

// Params Aggregator 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 是 aggregator 的 Fx 模块
var Module = fx.Module("aggregator",
	fx.Provide(NewRegistryFromParams),
)

// NewRegistryFromParams 从参数创建 Registry
//
// 注册生命周期钩子，应用关闭时停止聚合器。
func NewRegistryFromParams(p Params, lc fx.Lifecycle) *Registry {
	r := NewRegistry(ConfigFromUnified(p.UnifiedCfg))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			r.Stop()
			return nil
		},
	})

	return r
}
