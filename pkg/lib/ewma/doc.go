// Package ewma 提供连续时间指数加权移动平均
//
// ewma 实现不等间隔采样的指数加权移动平均（EWMA）：
//   - 按样本时间戳计算衰减因子，不依赖固定 tick
//   - 支持平均值、方差、标准差和一步预测
//   - 零依赖，可独立复用
//
// # 快速开始
//
//	ma := ewma.New(time.Minute)
//
//	ma.Push(t0, 100)
//	ma.Push(t1, 200)
//
//	fmt.Printf("avg: %.2f\n", ma.Value())
//	fmt.Printf("dev: %.2f\n", ma.Deviation())
//
// # 算法
//
// 对时间间隔 Δt 和窗口长度 τ，衰减因子为：
//
//	α = 1 - exp(-Δt/τ)
//
// 平均值按 avg = α·value + (1-α)·avg 更新。
// 首个样本直接作为初始平均值（不衰减）。
//
// # 并发安全
//
// MovingAverage 本身不加锁，由调用方负责串行化访问。
package ewma
