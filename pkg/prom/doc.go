// Package prom 提供 Prometheus 指标桥接
//
// prom 把聚合器的时间点快照导出为 Prometheus 指标：
//   - 累计值 -> counter（stats_counter_total{counter="..."}）
//   - 滑动平均速率 -> gauge（stats_counter_rate{counter="...",window_ms="..."}）
//
// 桥接是纯进程内的拉取模型：Collect 时读取快照，不订阅更新，
// 对外提供 HTTP 端点由调用方自行决定。
//
// # 快速开始
//
//	st, _ := stats.New()
//	defer st.Stop()
//
//	collector := prom.NewCollector(st)
//	prometheus.MustRegister(collector)
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # 并发安全
//
// Collect 只读取深拷贝快照，可以与记录路径并发调用。
package prom
