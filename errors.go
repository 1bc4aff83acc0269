package stats

import "github.com/dep2p/go-stats/internal/core/aggregator"

// 公共错误定义
var (
	// ErrInvalidDelta 增量不是可精确累计的数值
	//
	// NaN、±Inf 或无法精确表示为整数的增量在聚合时被判定为
	// 无效并跳过。校验推迟到聚合时进行，Push 本身不返回错误；
	// 通过 WithDrainErrorHandler 接收此错误。
	ErrInvalidDelta = aggregator.ErrInvalidDelta
)
