// Package integration 提供 go-stats 的端到端集成测试
package integration

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-stats"
	"github.com/dep2p/go-stats/config"
	"github.com/dep2p/go-stats/pkg/prom"
	"github.com/dep2p/go-stats/pkg/types"
)

// TestEndToEnd_TransferAccounting 模拟块传输记账的完整流程
//
// 多个生产者并发记录，通过订阅等待聚合完成，
// 验证累计值守恒、速率产出和 Prometheus 导出。
func TestEndToEnd_TransferAccounting(t *testing.T) {
	st, err := stats.New(
		stats.WithInitialCounters(types.BlocksSent, types.DataSent),
		stats.WithComputeThrottle(20*time.Millisecond),
		stats.WithMovingAverageIntervals(time.Minute, 5*time.Minute),
	)
	require.NoError(t, err)
	defer st.Stop()

	sub := st.Subscribe()
	defer sub.Close()

	// 并发生产者：每个 peer 发送 100 个 1KB 块
	const (
		peerCount     = 4
		blocksPerPeer = 100
		blockSize     = 1024
	)

	var wg sync.WaitGroup
	for p := 0; p < peerCount; p++ {
		wg.Add(1)
		go func(peer string) {
			defer wg.Done()
			for i := 0; i < blocksPerPeer; i++ {
				st.PushFor(peer, types.BlocksSent, 1)
				st.PushFor(peer, types.DataSent, blockSize)
			}
		}(string(rune('a' + p)))
	}
	wg.Wait()

	// 等待聚合完成（可能跨多次聚合）
	require.Eventually(t, func() bool {
		return st.Snapshot()[types.BlocksSent].Int64() == peerCount*blocksPerPeer
	}, 5*time.Second, 10*time.Millisecond)

	// 守恒：字节累计精确
	assert.Equal(t, int64(peerCount*blocksPerPeer*blockSize),
		st.Snapshot()[types.DataSent].Int64())

	// 至少收到一次更新
	select {
	case update := <-sub.Out():
		assert.False(t, update.At.IsZero())
		assert.Contains(t, update.Totals, types.BlocksSent)
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
	}

	// 速率已经产出（两个窗口都有值）
	require.Eventually(t, func() bool {
		rates := st.MovingAverages()[types.DataSent]
		return rates != nil && rates[time.Minute] > 0
	}, 5*time.Second, 10*time.Millisecond)

	// 按节点统计
	for p := 0; p < peerCount; p++ {
		peer := st.ForPeer(string(rune('a' + p)))
		require.NotNil(t, peer)
		require.Eventually(t, func() bool {
			return peer.Snapshot()[types.BlocksSent].Int64() == blocksPerPeer
		}, 5*time.Second, 10*time.Millisecond)
	}

	// Prometheus 导出包含累计值指标
	collector := prom.NewCollector(st)
	count := testutil.CollectAndCount(collector, "stats_counter_total")
	assert.Greater(t, count, 0)
}

// TestEndToEnd_ConfigDriven 通过 JSON 配置装配并验证停用语义
func TestEndToEnd_ConfigDriven(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{
		"aggregator": {
			"enabled": false,
			"compute_throttle": "10ms",
			"max_queue_size": 16
		},
		"registry": {"enable_per_peer": false}
	}`))
	require.NoError(t, err)

	st, err := stats.New(stats.WithConfig(cfg))
	require.NoError(t, err)
	defer st.Stop()

	// 停用期间的记录不出现在任何快照中
	st.Push("ignored", 100)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, st.Snapshot())

	// 启用后记录生效
	st.Enable()
	st.Push("counted", 5)
	require.Eventually(t, func() bool {
		snapshot := st.Snapshot()
		return snapshot["counted"] != nil && snapshot["counted"].Int64() == 5
	}, 5*time.Second, 10*time.Millisecond)

	// 按节点统计已停用
	st.PushFor("peer-1", "counted", 1)
	assert.Nil(t, st.ForPeer("peer-1"))
}

// TestEndToEnd_StopIsFinal 验证停止后不再有自动聚合
func TestEndToEnd_StopIsFinal(t *testing.T) {
	st, err := stats.New(stats.WithComputeThrottle(10 * time.Millisecond))
	require.NoError(t, err)

	st.Push("x", 1)
	require.Eventually(t, func() bool {
		snapshot := st.Snapshot()
		return snapshot["x"] != nil && snapshot["x"].Int64() == 1
	}, 5*time.Second, 10*time.Millisecond)

	st.Stop()
	st.Stop() // 幂等

	// 停止后的记录被丢弃
	st.Push("x", 1)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), st.Snapshot()["x"].Int64())
}

// TestPrometheus_TextOutput 验证导出的指标文本格式
func TestPrometheus_TextOutput(t *testing.T) {
	st, err := stats.New(
		stats.WithComputeThrottle(10*time.Millisecond),
		stats.WithMovingAverageIntervals(time.Minute),
	)
	require.NoError(t, err)
	defer st.Stop()

	st.Push("dataSent", 2048)
	require.Eventually(t, func() bool {
		snapshot := st.Snapshot()
		return snapshot["dataSent"] != nil && snapshot["dataSent"].Int64() == 2048
	}, 5*time.Second, 10*time.Millisecond)

	collector := prom.NewCollector(st)
	expected := `
# HELP stats_counter_total Cumulative total of a counter.
# TYPE stats_counter_total counter
stats_counter_total{counter="dataSent"} 2048
`
	require.NoError(t, testutil.CollectAndCompare(collector,
		strings.NewReader(expected), "stats_counter_total"))
}
