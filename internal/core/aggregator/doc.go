// Package aggregator 实现指标聚合器
//
// aggregator 模块实现进程内指标聚合，提供：
//   - 增量队列（Push 仅入队，O(1) 不阻塞热路径）
//   - 自适应聚合调度（队列越满延迟越短，至多一个待执行调度）
//   - 任意精度累计值（big.Int，无浮点漂移）
//   - 频率计算（每次聚合一次，速率推入多个 EWMA 窗口）
//   - 按节点统计注册表（惰性创建、空闲清理）
//
// # 快速开始
//
//	agg := aggregator.New(aggregator.DefaultConfig())
//	defer agg.Stop()
//
//	// 热路径记录
//	agg.Push("dataSent", 4096)
//	agg.Push("blocksSent", 1)
//
//	// 查询快照
//	totals := agg.Snapshot()
//	rates := agg.MovingAverages()
//
// # 聚合时机
//
// 每次 Push 按队列紧迫度重置聚合调度：
//
//	urgency = len(queue) / MaxQueueSize
//	delay   = max(ComputeThrottle × (1 - urgency), 0)
//
// 空闲生产者最多等待一个完整的 ComputeThrottle；
// 队列达到上限的突发生产者立即触发聚合。
//
// # 更新订阅
//
//	sub := agg.Subscribe(interfaces.BufSize(32))
//	defer sub.Close()
//
//	for update := range sub.Out() {
//	    fmt.Println(update.At, update.Totals)
//	}
//
// # 按节点统计
//
//	reg := aggregator.NewRegistry(aggregator.DefaultConfig())
//	defer reg.Stop()
//
//	reg.PushFor("peer-1", "dataReceived", 2048)
//	peerTotals := reg.ForPeer("peer-1").Snapshot()
//
//	// 断连清理
//	reg.RemovePeer("peer-1")
//	reg.TrimIdle(time.Now().Add(-30 * time.Minute))
//
// # Fx 模块
//
//	import "go.uber.org/fx"
//
//	app := fx.New(
//	    aggregator.Module,
//	    fx.Invoke(func(reg *aggregator.Registry) {
//	        reg.Push("dataSent", 100)
//	    }),
//	)
//
// # 架构定位
//
// Tier: Core Layer Level 1（无内部依赖）
//
// 依赖关系：
//   - 依赖：pkg/interfaces, pkg/types, pkg/lib/ewma, benbjohnson/clock
//   - 被依赖：根包 stats, pkg/prom
//
// # 并发安全
//
// 所有方法都是并发安全的：
//   - Push 只持锁入队，绝不等待聚合完成
//   - 任一时刻恰好一个聚合在执行（聚合持有状态锁）
//   - 队列整体换出，操作不丢失、不重复应用
//   - 调度重置原子取代上一个调度
//
// # 错误处理
//
// 指标是辅助性的：Push 永不返回错误，无效增量在聚合时
// 跳过并上报（日志 + 可选回调），绝不污染累计值。
//
// # 设计文档
//
//   - pkg/interfaces/stats.go
package aggregator
