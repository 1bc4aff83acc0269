// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Aggregator.ComputeThrottle = config.Duration(500 * time.Millisecond)
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import "encoding/json"

// Config 是 go-stats 的完整配置结构
//
// 配置按照功能模块组织：
//   - Aggregator: 聚合器（队列、调度、滑动平均窗口）
//   - Registry: 按节点统计注册表
type Config struct {
	// Aggregator 聚合器配置
	Aggregator AggregatorConfig `json:"aggregator"`

	// Registry 按节点统计配置
	Registry RegistryConfig `json:"registry"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
// 可以通过修改字段或使用根包的 Option 函数来定制配置。
func NewConfig() *Config {
	return &Config{
		Aggregator: DefaultAggregatorConfig(),
		Registry:   DefaultRegistryConfig(),
	}
}

// FromJSON 从 JSON 数据加载配置
//
// 未出现的字段保持默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToJSON 序列化配置为 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
