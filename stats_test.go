package stats

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-stats/config"
	"github.com/dep2p/go-stats/pkg/interfaces"
	"github.com/dep2p/go-stats/pkg/types"
)

// ============================================================================
// 构造测试
// ============================================================================

func TestNew_Defaults(t *testing.T) {
	st, err := New()
	require.NoError(t, err)
	defer st.Stop()

	assert.Empty(t, st.Snapshot())
	assert.Empty(t, st.Peers())
}

func TestNew_OptionErrors(t *testing.T) {
	cases := []struct {
		name string
		opt  Option
	}{
		{"nil config", WithConfig(nil)},
		{"non-positive throttle", WithComputeThrottle(0)},
		{"non-positive queue size", WithMaxQueueSize(-1)},
		{"empty intervals", WithMovingAverageIntervals()},
		{"non-positive interval", WithMovingAverageIntervals(-time.Second)},
		{"non-positive idle timeout", WithIdleTimeout(0)},
		{"nil clock", WithClock(nil)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.opt)
			assert.Error(t, err)
		})
	}
}

func TestNew_WithConfigFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{
		"aggregator": {
			"enabled": true,
			"initial_counters": ["dataSent"],
			"compute_throttle": "100ms"
		}
	}`))
	require.NoError(t, err)

	st, err := New(WithConfig(cfg))
	require.NoError(t, err)
	defer st.Stop()

	snapshot := st.Snapshot()
	require.Contains(t, snapshot, "dataSent")
	assert.Equal(t, int64(0), snapshot["dataSent"].Int64())
}

// ============================================================================
// 端到端流程测试（mock 时钟）
// ============================================================================

func TestStats_PushSnapshotFlow(t *testing.T) {
	mock := clock.NewMock()
	st, err := New(
		WithClock(mock),
		WithInitialCounters(types.BlocksSent),
		WithMovingAverageIntervals(time.Minute),
	)
	require.NoError(t, err)
	defer st.Stop()

	sub := st.Subscribe()
	defer sub.Close()

	mock.Add(time.Second)
	st.Push(types.BlocksSent, 3)
	st.PushFor("peer-1", types.DataSent, 4096)

	mock.Add(2 * time.Second)

	select {
	case update := <-sub.Out():
		assert.Equal(t, int64(3), update.Totals[types.BlocksSent].Int64())
		assert.Equal(t, int64(4096), update.Totals[types.DataSent].Int64())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}

	rates := st.MovingAverages()
	assert.Contains(t, rates, types.BlocksSent)
	assert.Contains(t, rates, types.DataSent)

	// 按节点统计
	require.Eventually(t, func() bool {
		peer := st.ForPeer("peer-1")
		return peer != nil && peer.Snapshot()[types.DataSent].Int64() == 4096
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStats_ForPeerUnknownIsNil(t *testing.T) {
	st, err := New()
	require.NoError(t, err)
	defer st.Stop()

	// 接口值必须是真正的 nil，而不是包装了 nil 指针的非 nil 接口
	assert.Nil(t, st.ForPeer("ghost"))
	reporter := st.ForPeer("ghost")
	assert.True(t, reporter == nil)
}

func TestStats_RemoveAndTrim(t *testing.T) {
	mock := clock.NewMock()
	st, err := New(WithClock(mock))
	require.NoError(t, err)
	defer st.Stop()

	st.PushFor("a", "x", 1)
	mock.Add(time.Hour)
	st.PushFor("b", "x", 1)

	st.TrimIdle(mock.Now().Add(-time.Minute))
	assert.Nil(t, st.ForPeer("a"))
	assert.NotNil(t, st.ForPeer("b"))

	st.RemovePeer("b")
	assert.Empty(t, st.Peers())
}

// ============================================================================
// Fx 模块测试
// ============================================================================

func TestModule_ProvidesInterfaces(t *testing.T) {
	var (
		st       *Stats
		recorder interfaces.Recorder
		reporter interfaces.Reporter
	)

	app := fxtest.New(t,
		Module(WithInitialCounters(types.DataSent)),
		fx.Populate(&st, &recorder, &reporter),
	)
	app.RequireStart()

	require.NotNil(t, st)
	require.NotNil(t, recorder)
	require.NotNil(t, reporter)

	recorder.Push(types.DataSent, 10)
	assert.Contains(t, reporter.Snapshot(), types.DataSent)

	app.RequireStop()
}

func TestModule_BadOptionFailsStart(t *testing.T) {
	app := fx.New(
		Module(WithMaxQueueSize(-1)),
		fx.Invoke(func(st *Stats) {}),
		fx.NopLogger,
	)
	assert.Error(t, app.Err())
}
