package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-stats/config"
	"github.com/dep2p/go-stats/internal/core/aggregator"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 统一配置
	config *config.Config

	// 时钟源（测试注入）
	clk clock.Clock

	// 聚合错误回调
	drainErrHandler func(error)
}

// newOptions 应用选项并验证配置
func newOptions(opts ...Option) (*options, error) {
	o := &options{
		config: config.NewConfig(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	cfg, err := config.ValidateAndFix(o.config)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	o.config = cfg

	return o, nil
}

// aggOpts 转换为内部聚合器选项
func (o *options) aggOpts() []aggregator.Option {
	var out []aggregator.Option
	if o.clk != nil {
		out = append(out, aggregator.WithClock(o.clk))
	}
	if o.drainErrHandler != nil {
		out = append(out, aggregator.WithErrorHandler(o.drainErrHandler))
	}
	return out
}

// ============================================================================
//                              配置选项
// ============================================================================

// WithConfig 使用完整的统一配置
//
// 与其他选项组合时，后应用的选项覆盖先应用的字段。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config must not be nil")
		}
		o.config = cfg
		return nil
	}
}

// WithInitialCounters 设置构造时初始化的计数器
//
// 这些计数器从 0 开始累计，滑动平均在构造时刻以 0 值播种。
func WithInitialCounters(counters ...string) Option {
	return func(o *options) error {
		o.config.Aggregator.InitialCounters = counters
		return nil
	}
}

// WithEnabled 设置是否启用指标记录
//
// 停用时 Push 直接丢弃增量，可随后用 Enable 启用。
func WithEnabled(enabled bool) Option {
	return func(o *options) error {
		o.config.Aggregator.Enabled = enabled
		return nil
	}
}

// WithComputeThrottle 设置聚合节流基准延迟
//
// 队列为空时的最大聚合延迟；随队列增长线性缩短。
func WithComputeThrottle(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("compute throttle must be positive, got %s", d)
		}
		o.config.Aggregator.ComputeThrottle = config.Duration(d)
		return nil
	}
}

// WithMaxQueueSize 设置队列长度上限（紧迫度缩放）
func WithMaxQueueSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("max queue size must be positive, got %d", n)
		}
		o.config.Aggregator.MaxQueueSize = n
		return nil
	}
}

// WithMovingAverageIntervals 设置滑动平均窗口集合
//
// 所有计数器共享同一窗口集合，构造后不可变。
func WithMovingAverageIntervals(intervals ...time.Duration) Option {
	return func(o *options) error {
		if len(intervals) == 0 {
			return errors.New("at least one moving average interval is required")
		}
		out := make([]config.Duration, 0, len(intervals))
		for _, iv := range intervals {
			if iv <= 0 {
				return fmt.Errorf("moving average interval must be positive, got %s", iv)
			}
			out = append(out, config.Duration(iv))
		}
		o.config.Aggregator.Intervals = out
		return nil
	}
}

// WithPerPeer 设置是否启用按节点统计
func WithPerPeer(enabled bool) Option {
	return func(o *options) error {
		o.config.Registry.EnablePerPeer = enabled
		return nil
	}
}

// WithIdleTimeout 设置节点空闲超时
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("idle timeout must be positive, got %s", d)
		}
		o.config.Registry.IdleTimeout = config.Duration(d)
		return nil
	}
}

// ============================================================================
//                              运行时选项
// ============================================================================

// WithClock 设置时钟源
//
// 测试中使用 clock.NewMock() 驱动确定性聚合。
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk == nil {
			return errors.New("clock must not be nil")
		}
		o.clk = clk
		return nil
	}
}

// WithDrainErrorHandler 设置聚合错误回调
//
// 每次聚合中发现的无效增量被汇总为一个错误交给回调。
// 未设置时只记录日志。
func WithDrainErrorHandler(fn func(error)) Option {
	return func(o *options) error {
		o.drainErrHandler = fn
		return nil
	}
}
