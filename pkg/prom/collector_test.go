package prom

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-stats/pkg/types"
)

// fakeReporter 返回固定快照的 Reporter 桩
type fakeReporter struct {
	snapshot types.Snapshot
	rates    types.Rates
}

func (f *fakeReporter) Snapshot() types.Snapshot    { return f.snapshot }
func (f *fakeReporter) MovingAverages() types.Rates { return f.rates }

// ============================================================================
// Collector 测试
// ============================================================================

func TestCollector_Output(t *testing.T) {
	source := &fakeReporter{
		snapshot: types.Snapshot{
			"dataSent": big.NewInt(4096),
		},
		rates: types.Rates{
			"dataSent": {
				time.Minute: 68.25,
			},
		},
	}

	collector := NewCollector(source)

	expected := `
# HELP stats_counter_rate Moving average rate of a counter in units per second.
# TYPE stats_counter_rate gauge
stats_counter_rate{counter="dataSent",window_ms="60000"} 68.25
# HELP stats_counter_total Cumulative total of a counter.
# TYPE stats_counter_total counter
stats_counter_total{counter="dataSent"} 4096
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected)))
}

func TestCollector_Namespace(t *testing.T) {
	source := &fakeReporter{
		snapshot: types.Snapshot{"x": big.NewInt(1)},
	}

	collector := NewCollector(source, WithNamespace("transfer"))

	expected := `
# HELP transfer_counter_total Cumulative total of a counter.
# TYPE transfer_counter_total counter
transfer_counter_total{counter="x"} 1
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected)))
}

func TestCollector_Register(t *testing.T) {
	source := &fakeReporter{}
	collector := NewCollector(source)

	// 可以注册到标准 registry
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(collector))

	// 空快照下 Gather 不产生指标
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestCollector_MultipleWindows(t *testing.T) {
	source := &fakeReporter{
		snapshot: types.Snapshot{"n": big.NewInt(10)},
		rates: types.Rates{
			"n": {
				time.Minute:     1.5,
				5 * time.Minute: 0.5,
			},
		},
	}

	collector := NewCollector(source)
	count := testutil.CollectAndCount(collector)
	// 1 个 counter + 2 个窗口 gauge
	assert.Equal(t, 3, count)
}
