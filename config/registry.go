// Package config 提供统一的配置管理
package config

import "time"

// RegistryConfig 按节点统计配置
//
// 配置按节点（peer）分类统计的注册表行为。
type RegistryConfig struct {
	// EnablePerPeer 是否启用按节点统计
	// 停用时 PushFor 仅计入全局聚合器。
	// 默认值: true
	EnablePerPeer bool `json:"enable_per_peer"`

	// IdleTimeout 空闲超时
	// TrimIdle 清理超过此时间无活动的节点统计。
	// 默认值: 30m
	IdleTimeout Duration `json:"idle_timeout"`
}

// DefaultRegistryConfig 返回默认的按节点统计配置
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		EnablePerPeer: true,
		IdleTimeout:   Duration(30 * time.Minute),
	}
}
