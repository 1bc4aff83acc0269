package ewma

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
//                              基础行为测试
// ============================================================================

func TestMovingAverage_FirstSampleSeeds(t *testing.T) {
	ma := New(time.Minute)

	// 初始状态
	assert.Equal(t, float64(0), ma.Value())

	// 首个样本直接作为平均值
	t0 := time.Unix(0, 0)
	ma.Push(t0, 150)

	assert.Equal(t, float64(150), ma.Value())
	assert.Equal(t, float64(0), ma.Variance())
	assert.Equal(t, t0, ma.LastTime())
}

func TestMovingAverage_Decay(t *testing.T) {
	window := time.Minute
	ma := New(window)

	t0 := time.Unix(0, 0)
	t1 := t0.Add(2 * time.Second)

	ma.Push(t0, 0)
	ma.Push(t1, 150)

	// α = 1 - exp(-2/60)
	a := 1 - math.Exp(-float64(2*time.Second)/float64(window))
	want := a * 150

	assert.InDelta(t, want, ma.Value(), 1e-9)
}

func TestMovingAverage_ConvergesToConstant(t *testing.T) {
	ma := New(time.Minute)

	// 持续推送同一个值，平均值应收敛到该值
	now := time.Unix(0, 0)
	for i := 0; i < 600; i++ {
		now = now.Add(time.Second)
		ma.Push(now, 42)
	}

	assert.InDelta(t, 42, ma.Value(), 0.01)
	assert.InDelta(t, 0, ma.Deviation(), 0.01)
}

func TestMovingAverage_VarianceAndDeviation(t *testing.T) {
	ma := New(time.Minute)

	now := time.Unix(0, 0)
	ma.Push(now, 100)

	// 波动的信号应产生非零方差
	values := []float64{200, 50, 300, 10}
	for _, v := range values {
		now = now.Add(time.Second)
		ma.Push(now, v)
	}

	require.Greater(t, ma.Variance(), float64(0))
	assert.InDelta(t, math.Sqrt(ma.Variance()), ma.Deviation(), 1e-9)
}

// ============================================================================
//                              边界条件测试
// ============================================================================

func TestMovingAverage_NonPositiveWindow(t *testing.T) {
	// 非正窗口回退为 1 分钟
	ma := New(0)
	assert.Equal(t, time.Minute, ma.Window())

	ma = New(-time.Second)
	assert.Equal(t, time.Minute, ma.Window())
}

func TestMovingAverage_BackwardsTimestamp(t *testing.T) {
	ma := New(time.Minute)

	t0 := time.Unix(100, 0)
	ma.Push(t0, 50)
	ma.Push(t0.Add(time.Second), 100)
	before := ma.Value()

	// 时间戳回退按 Δt=0 处理，平均值不变
	ma.Push(t0, 9999)
	assert.Equal(t, before, ma.Value())
}

func TestMovingAverage_ZeroInterval(t *testing.T) {
	ma := New(time.Minute)

	t0 := time.Unix(0, 0)
	ma.Push(t0, 50)
	ma.Push(t0, 100)

	// Δt=0 时 α=0，新样本无权重
	assert.Equal(t, float64(50), ma.Value())
}

func TestMovingAverage_Forecast(t *testing.T) {
	ma := New(time.Minute)

	t0 := time.Unix(0, 0)
	ma.Push(t0, 100)
	assert.Equal(t, float64(100), ma.Forecast())

	// 上升信号的预测值应高于平均值
	ma.Push(t0.Add(5*time.Second), 500)
	assert.Greater(t, ma.Forecast(), ma.Value())
}
