package prom

import (
	"math/big"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-stats/pkg/interfaces"
)

// ============================================================================
//                              Collector
// ============================================================================

// Collector 把 Reporter 的快照导出为 Prometheus 指标
type Collector struct {
	source interfaces.Reporter

	totalDesc *prometheus.Desc
	rateDesc  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// Option Collector 构造选项
type Option func(*collectorOptions)

type collectorOptions struct {
	namespace string
}

// WithNamespace 设置指标名称前缀
//
// 默认前缀为 "stats"。
func WithNamespace(ns string) Option {
	return func(o *collectorOptions) {
		o.namespace = ns
	}
}

// NewCollector 创建 Collector
func NewCollector(source interfaces.Reporter, opts ...Option) *Collector {
	o := &collectorOptions{namespace: "stats"}
	for _, opt := range opts {
		opt(o)
	}

	return &Collector{
		source: source,
		totalDesc: prometheus.NewDesc(
			prometheus.BuildFQName(o.namespace, "counter", "total"),
			"Cumulative total of a counter.",
			[]string{"counter"}, nil,
		),
		rateDesc: prometheus.NewDesc(
			prometheus.BuildFQName(o.namespace, "counter", "rate"),
			"Moving average rate of a counter in units per second.",
			[]string{"counter", "window_ms"}, nil,
		),
	}
}

// Describe 实现 prometheus.Collector 接口
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalDesc
	ch <- c.rateDesc
}

// Collect 实现 prometheus.Collector 接口
//
// 读取时间点快照并转换为指标。big.Int 累计值转 float64 时
// 超大值会有精度损失，这是导出格式的固有限制。
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, total := range c.source.Snapshot() {
		value, _ := new(big.Float).SetInt(total).Float64()
		ch <- prometheus.MustNewConstMetric(
			c.totalDesc, prometheus.CounterValue, value, name)
	}

	for name, set := range c.source.MovingAverages() {
		for window, rate := range set {
			ch <- prometheus.MustNewConstMetric(
				c.rateDesc, prometheus.GaugeValue, rate,
				name, strconv.FormatInt(window.Milliseconds(), 10))
		}
	}
}
