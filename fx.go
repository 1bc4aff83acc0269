package stats

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-stats/pkg/interfaces"
)

// Module 返回提供 *Stats 的 Fx 模块
//
// 提供的类型：
//   - *Stats
//   - interfaces.Stats / interfaces.Recorder / interfaces.Reporter
//
// 注册生命周期钩子，应用关闭时停止聚合服务。
//
// 使用示例：
//
//	app := fx.New(
//	    stats.Module(stats.WithInitialCounters(types.DataSent)),
//	    fx.Invoke(func(rec interfaces.Recorder) {
//	        rec.Push(types.DataSent, 4096)
//	    }),
//	)
func Module(opts ...Option) fx.Option {
	return fx.Module("stats",
		fx.Provide(
			func(lc fx.Lifecycle) (*Stats, error) {
				st, err := New(opts...)
				if err != nil {
					return nil, err
				}
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						st.Stop()
						return nil
					},
				})
				return st, nil
			},
			func(st *Stats) interfaces.Stats { return st },
			func(st *Stats) interfaces.Recorder { return st },
			func(st *Stats) interfaces.Reporter { return st },
		),
	)
}
