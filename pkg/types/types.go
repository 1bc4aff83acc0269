// Package types 定义 go-stats 公共数据类型
package types

import (
	"math/big"
	"time"
)

// ============================================================================
//                              快照类型
// ============================================================================

// Snapshot 计数器累计值快照
//
// 键为计数器名称，值为任意精度的累计总和。
// 快照是内部状态的深拷贝，调用方可以安全持有和修改。
type Snapshot map[string]*big.Int

// Copy 返回快照的深拷贝
func (s Snapshot) Copy() Snapshot {
	out := make(Snapshot, len(s))
	for name, total := range s {
		out[name] = new(big.Int).Set(total)
	}
	return out
}

// Rates 滑动平均速率快照
//
// 外层键为计数器名称，内层键为时间窗口长度，
// 值为该窗口当前的平均速率（单位/秒）。
type Rates map[string]map[time.Duration]float64

// Update 一次聚合完成后发布的更新事件
//
// At 是本次聚合处理的最后一条操作的时间戳，
// Totals 是聚合完成后所有计数器的累计值深拷贝。
type Update struct {
	// At 更新时间戳
	At time.Time

	// Totals 累计值快照
	Totals Snapshot
}

// ============================================================================
//                              标准计数器名称
// ============================================================================

// 传输记账的标准计数器名称
//
// 这些名称用于块传输统计场景，调用方也可以使用任意自定义名称。
const (
	// BlocksSent 已发送块数
	BlocksSent = "blocksSent"

	// BlocksReceived 已接收块数
	BlocksReceived = "blocksReceived"

	// DataSent 已发送字节数
	DataSent = "dataSent"

	// DataReceived 已接收字节数
	DataReceived = "dataReceived"

	// DupBlksReceived 重复接收块数
	DupBlksReceived = "dupBlksReceived"

	// DupDataReceived 重复接收字节数
	DupDataReceived = "dupDataReceived"
)
