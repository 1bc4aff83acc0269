// Package main 提供 stats-demo 命令行入口
//
// stats-demo 模拟一个块传输工作负载，演示聚合器的
// 累计值、滑动平均速率和 Prometheus 导出。
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-stats"
	"github.com/dep2p/go-stats/config"
	"github.com/dep2p/go-stats/pkg/lib/log"
	"github.com/dep2p/go-stats/pkg/prom"
	"github.com/dep2p/go-stats/pkg/types"
)

var logger = log.Logger("stats/cmd")

// ─────────────────────────────────────────────────────────────────────
// 命令行参数
// ─────────────────────────────────────────────────────────────────────
var (
	configFile  = flag.String("config", "", "配置文件路径（JSON）")
	peers       = flag.Int("peers", 4, "模拟的节点数量")
	pushRate    = flag.Duration("push-interval", 10*time.Millisecond, "模拟记录间隔")
	report      = flag.Duration("report-interval", 5*time.Second, "快照打印间隔")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus 指标地址（如 :9090，空为禁用）")
)

func main() {
	flag.Parse()

	st, err := newStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer st.Stop()

	// Prometheus 导出（可选）
	if *metricsAddr != "" {
		prometheus.MustRegister(prom.NewCollector(st))
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			logger.Info("Prometheus 指标已启用", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Error("指标服务退出", "err", err)
			}
		}()
	}

	// 订阅聚合更新
	sub := st.Subscribe()
	defer sub.Close()
	go func() {
		for update := range sub.Out() {
			logger.Debug("聚合更新", "at", update.At, "counters", len(update.Totals))
		}
	}()

	// 模拟块传输工作负载
	stop := make(chan struct{})
	go simulate(st, stop)

	// 周期性打印快照
	ticker := time.NewTicker(*report)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("stats-demo 已启动", "peers", *peers)
	for {
		select {
		case <-ticker.C:
			printSnapshot(st)
		case <-sigCh:
			close(stop)
			logger.Info("stats-demo 退出")
			return
		}
	}
}

// newStats 从配置文件或默认配置创建聚合服务
func newStats() (*stats.Stats, error) {
	if *configFile == "" {
		return stats.New(
			stats.WithInitialCounters(
				types.BlocksSent, types.BlocksReceived,
				types.DataSent, types.DataReceived,
			),
		)
	}

	data, err := os.ReadFile(*configFile)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件: %w", err)
	}
	cfg, err := config.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("解析配置文件: %w", err)
	}
	return stats.New(stats.WithConfig(cfg))
}

// simulate 以近似恒定的速率产生随机大小的块传输事件
func simulate(st *stats.Stats, stop <-chan struct{}) {
	ticker := time.NewTicker(*pushRate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			peer := fmt.Sprintf("peer-%d", rand.Intn(*peers))
			size := float64(1024 + rand.Intn(64*1024))

			if rand.Intn(2) == 0 {
				st.PushFor(peer, types.BlocksSent, 1)
				st.PushFor(peer, types.DataSent, size)
			} else {
				st.PushFor(peer, types.BlocksReceived, 1)
				st.PushFor(peer, types.DataReceived, size)
			}
		}
	}
}

// printSnapshot 打印当前累计值和 1 分钟窗口速率
func printSnapshot(st *stats.Stats) {
	totals := st.Snapshot()
	rates := st.MovingAverages()

	for name, total := range totals {
		rate := rates[name][time.Minute]
		fmt.Printf("%-18s total=%-12s rate1m=%.1f/s\n", name, total.String(), rate)
	}
	fmt.Printf("known peers: %d\n\n", len(st.Peers()))
}
