// Package stats 提供轻量级进程内指标聚合
//
// go-stats 面向热路径的传输记账场景：调用方高频记录
// "计数器加 N" 事件，聚合、速率计算和通知被推迟合并执行，
// 记录本身的开销与突发大小无关。
//
// # 核心概念
//
// go-stats 围绕四个核心机制构建：
//
//   - 增量队列: Push 仅入队，O(1) 且不阻塞调用方
//   - 自适应调度: 队列越满聚合延迟越短，至多一个待执行调度
//   - 精确累计: big.Int 累计值，海量小增量累加无浮点漂移
//   - 频率引擎: 每次聚合推导一次速率，喂入多个 EWMA 窗口
//
// # 快速开始
//
//	import (
//	    "github.com/dep2p/go-stats"
//	    "github.com/dep2p/go-stats/pkg/types"
//	)
//
//	// 1. 创建聚合服务
//	st, err := stats.New(
//	    stats.WithInitialCounters(types.BlocksSent, types.DataSent),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Stop()
//
//	// 2. 热路径记录（按块记账）
//	st.Push(types.BlocksSent, 1)
//	st.Push(types.DataSent, float64(len(block)))
//	st.PushFor(peerID, types.DataSent, float64(len(block)))
//
//	// 3. 查询
//	totals := st.Snapshot()        // 计数器 -> *big.Int
//	rates := st.MovingAverages()   // 计数器 -> 窗口 -> 单位/秒
//
//	// 4. 订阅聚合更新
//	sub := st.Subscribe()
//	defer sub.Close()
//	for update := range sub.Out() {
//	    fmt.Println(update.At, update.Totals)
//	}
//
// # 文件组织
//
//	stats.go              Stats 门面（Push/Snapshot/Subscribe/...）
//	options.go            Option 函数
//	config/               统一配置（JSON 加载、验证修复）
//	pkg/interfaces/       公共接口
//	pkg/types/            快照与更新类型、标准计数器名称
//	pkg/lib/ewma/         连续时间 EWMA（可独立复用）
//	pkg/prom/             Prometheus 桥接
//	internal/core/aggregator/  聚合器实现
//
// # 并发安全
//
// 所有公共方法都是并发安全的。Push 永不阻塞、永不返回错误；
// 指标失败绝不拖垮生产路径。
package stats
