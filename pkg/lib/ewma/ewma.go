package ewma

import (
	"math"
	"time"
)

// MovingAverage 连续时间指数加权移动平均
//
// 按样本时间戳间隔计算衰减因子，适合不等间隔采样的速率信号。
type MovingAverage struct {
	window time.Duration

	average   float64
	variance  float64
	deviation float64
	forecast  float64

	lastTime time.Time
	primed   bool
}

// New 创建移动平均
//
// window 是时间窗口长度，必须为正；非正值回退为 1 分钟。
func New(window time.Duration) *MovingAverage {
	if window <= 0 {
		window = time.Minute
	}
	return &MovingAverage{window: window}
}

// Push 添加一个样本
//
// 首个样本直接作为初始平均值。时间戳早于上一个样本时按 Δt=0 处理
// （α=0，状态不变），不会导致平均值回退。
func (m *MovingAverage) Push(t time.Time, value float64) {
	if !m.primed {
		m.average = value
		m.forecast = value
		m.lastTime = t
		m.primed = true
		return
	}

	dt := t.Sub(m.lastTime)
	if dt < 0 {
		dt = 0
	}

	a := 1 - math.Exp(-float64(dt)/float64(m.window))
	diff := value - m.average
	incr := a * diff

	m.average += incr
	m.variance = (1 - a) * (m.variance + diff*incr)
	m.deviation = math.Sqrt(m.variance)
	m.forecast = m.average + incr
	m.lastTime = t
}

// Value 返回当前平均值
func (m *MovingAverage) Value() float64 {
	return m.average
}

// Variance 返回当前方差
func (m *MovingAverage) Variance() float64 {
	return m.variance
}

// Deviation 返回当前标准差
func (m *MovingAverage) Deviation() float64 {
	return m.deviation
}

// Forecast 返回一步预测值
//
// 预测值为平均值加上最近一次的修正量。
func (m *MovingAverage) Forecast() float64 {
	return m.forecast
}

// Window 返回时间窗口长度
func (m *MovingAverage) Window() time.Duration {
	return m.window
}

// LastTime 返回最近一个样本的时间戳
func (m *MovingAverage) LastTime() time.Time {
	return m.lastTime
}
