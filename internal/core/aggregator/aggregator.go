// Package aggregator 实现指标聚合器
package aggregator

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/dep2p/go-stats/pkg/lib/ewma"
	"github.com/dep2p/go-stats/pkg/lib/log"
	"github.com/dep2p/go-stats/pkg/types"
)

var logger = log.Logger("core/aggregator")

// ============================================================================
//                              聚合器
// ============================================================================

// Aggregator 指标聚合器
//
// 接受高频的计数器增量事件，在负载下合并处理：
//   - Push 仅入队，O(1) 且不阻塞调用方
//   - 自适应调度器决定聚合时机（队列越满延迟越短）
//   - 聚合时更新任意精度累计值并推导滑动平均速率
//
// 所有方法都是并发安全的。
type Aggregator struct {
	cfg Config
	clk clock.Clock

	// onDrainError 聚合时发现无效增量的回调（可选，构造后不可变）
	onDrainError func(error)

	// qmu 只保护入队侧：队列、调度和启停标志。
	// Push 的临界区只有追加和重置调度，不会等待进行中的聚合。
	qmu sync.Mutex

	// queue 待聚合操作队列，只通过 Push 增长，只通过整体聚合清空
	queue []op

	// timer 待执行的聚合调度，至多一个
	timer *clock.Timer

	enabled bool
	stopped bool

	// mu 保护聚合状态：累计值、频率累加器和滑动平均。
	// 聚合应用和快照读取在此锁下进行，与入队侧互不阻塞。
	mu sync.Mutex

	// totals 任意精度累计值
	totals map[string]*big.Int

	// accums 自上次频率计算以来的增量累加（频率累加器）
	accums map[string]float64

	// averages 每个计数器的滑动平均集合（窗口 -> 实例）
	averages map[string]map[time.Duration]*ewma.MovingAverage

	// lastFreq 上次频率计算的时间戳
	lastFreq time.Time

	// 订阅者列表
	subMu sync.Mutex
	subs  []*Subscription
}

// Option 聚合器构造选项
type Option func(*Aggregator)

// WithClock 设置时钟源
//
// 测试中使用 clock.NewMock() 驱动确定性聚合。
func WithClock(clk clock.Clock) Option {
	return func(a *Aggregator) {
		a.clk = clk
	}
}

// WithErrorHandler 设置聚合错误回调
//
// 每次聚合中发现的无效增量被汇总为一个错误交给回调。
func WithErrorHandler(fn func(error)) Option {
	return func(a *Aggregator) {
		a.onDrainError = fn
	}
}

// New 创建聚合器
//
// cfg 中的非正节流延迟、非正队列上限和空窗口集合回退为默认值。
// 构造时列出的计数器初始化为 0，滑动平均以构造时刻的 0 值播种。
func New(cfg Config, opts ...Option) *Aggregator {
	cfg = cfg.withDefaults()

	a := &Aggregator{
		cfg:      cfg,
		clk:      clock.New(),
		totals:   make(map[string]*big.Int),
		accums:   make(map[string]float64),
		averages: make(map[string]map[time.Duration]*ewma.MovingAverage),
		enabled:  cfg.Enabled,
	}
	for _, opt := range opts {
		opt(a)
	}

	now := a.clk.Now()
	a.lastFreq = now
	for _, name := range cfg.InitialCounters {
		if _, ok := a.totals[name]; ok {
			continue
		}
		a.totals[name] = new(big.Int)
		a.averages[name] = a.newAverageSet(&now)
	}

	return a
}

// newAverageSet 创建一个计数器的滑动平均集合
//
// seed 非 nil 时以该时刻的 0 值播种（构造时的初始计数器）；
// 惰性创建的集合不播种，首个速率样本直接作为初始平均值。
func (a *Aggregator) newAverageSet(seed *time.Time) map[time.Duration]*ewma.MovingAverage {
	set := make(map[time.Duration]*ewma.MovingAverage, len(a.cfg.Intervals))
	for _, interval := range a.cfg.Intervals {
		m := ewma.New(interval)
		if seed != nil {
			m.Push(*seed, 0)
		}
		set[interval] = m
	}
	return set
}

// ============================================================================
//                              记录
// ============================================================================

// Push 记录一条计数器增量
//
// 仅入队并重置聚合调度，不做任何同步聚合；
// 停用或已停止时增量被直接丢弃（不入队）。
// 增量的校验推迟到聚合时进行，Push 永不返回错误。
func (a *Aggregator) Push(counter string, delta float64) {
	a.qmu.Lock()
	defer a.qmu.Unlock()

	if !a.enabled || a.stopped {
		return
	}

	a.queue = append(a.queue, op{
		counter: counter,
		delta:   delta,
		at:      a.clk.Now(),
	})
	a.rearmLocked()
}

// ============================================================================
//                              状态控制
// ============================================================================

// Enable 启用指标记录
func (a *Aggregator) Enable() {
	a.qmu.Lock()
	defer a.qmu.Unlock()
	a.enabled = true
}

// Disable 停用指标记录
//
// 停用后 Push 直接丢弃增量。已入队和已聚合的状态不受影响。
func (a *Aggregator) Disable() {
	a.qmu.Lock()
	defer a.qmu.Unlock()
	a.enabled = false
}

// Stop 停止聚合器
//
// 取消待执行的聚合调度，此后不再有自动聚合发生；
// 未聚合的队列内容被丢弃，已聚合的状态仍可读取。
// Stop 是幂等的，无待执行调度时调用也安全。
func (a *Aggregator) Stop() {
	a.qmu.Lock()
	defer a.qmu.Unlock()

	if a.stopped {
		return
	}
	a.stopped = true
	a.queue = nil

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Stopped 返回聚合器是否已停止
func (a *Aggregator) Stopped() bool {
	a.qmu.Lock()
	defer a.qmu.Unlock()
	return a.stopped
}

// ============================================================================
//                              聚合
// ============================================================================

// flush 执行一次聚合
//
// 由调度器触发。先在队列锁下取走整个队列（与 Push 的竞争只有
// 这一次快速交换），再在状态锁下按入队顺序应用每条操作并执行
// 一次频率计算，最后向订阅者发布更新。聚合期间 Push 只竞争
// 队列锁，不会等待聚合完成。
func (a *Aggregator) flush() {
	a.qmu.Lock()
	if a.stopped || len(a.queue) == 0 {
		// 空队列聚合是无操作：不改状态、不发通知
		a.qmu.Unlock()
		return
	}
	ops := a.takeQueueLocked()
	a.qmu.Unlock()

	a.mu.Lock()

	var errs error
	for _, o := range ops {
		if err := a.applyLocked(o); err != nil {
			// 无效增量跳过并上报，绝不污染累计值
			errs = multierr.Append(errs, err)
		}
	}

	latest := ops[len(ops)-1].at
	a.updateFrequenciesLocked(latest)

	update := types.Update{
		At:     latest,
		Totals: a.snapshotLocked(),
	}
	onErr := a.onDrainError
	a.mu.Unlock()

	if errs != nil {
		logger.Warn("跳过无效增量", "err", errs)
		if onErr != nil {
			onErr(errs)
		}
	}

	a.notify(update)
}

// applyLocked 应用一条增量操作
//
// 必须持有 a.mu 调用。增量无效时返回错误且不改动任何状态。
func (a *Aggregator) applyLocked(o op) error {
	inc, err := exactInt(o.delta)
	if err != nil {
		return fmt.Errorf("counter %q delta %v: %w", o.counter, o.delta, err)
	}

	total, ok := a.totals[o.counter]
	if !ok {
		// 首次出现的计数器从 0 开始
		total = new(big.Int)
		a.totals[o.counter] = total
	}
	total.Add(total, inc)

	a.accums[o.counter] += o.delta
	return nil
}

// ============================================================================
//                              查询
// ============================================================================

// Snapshot 返回所有计数器累计值的时间点深拷贝
func (a *Aggregator) Snapshot() types.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// snapshotLocked 深拷贝累计值。必须持有 a.mu 调用。
func (a *Aggregator) snapshotLocked() types.Snapshot {
	out := make(types.Snapshot, len(a.totals))
	for name, total := range a.totals {
		out[name] = new(big.Int).Set(total)
	}
	return out
}

// MovingAverages 返回所有计数器滑动平均速率的时间点深拷贝
//
// 外层键为计数器名称，内层键为窗口长度，值为当前平均速率（单位/秒）。
func (a *Aggregator) MovingAverages() types.Rates {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(types.Rates, len(a.averages))
	for name, set := range a.averages {
		rates := make(map[time.Duration]float64, len(set))
		for interval, m := range set {
			rates[interval] = m.Value()
		}
		out[name] = rates
	}
	return out
}

// QueueLen 返回当前队列长度（用于诊断）
func (a *Aggregator) QueueLen() int {
	a.qmu.Lock()
	defer a.qmu.Unlock()
	return len(a.queue)
}
