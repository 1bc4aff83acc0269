package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate 验证整个配置的有效性
//
// 递归验证所有子配置。
func (c *Config) Validate() error {
	if err := c.Aggregator.Validate(); err != nil {
		return fmt.Errorf("aggregator: %w", err)
	}
	if err := c.Registry.Validate(); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	return nil
}

// Validate 验证聚合器配置的有效性
func (c *AggregatorConfig) Validate() error {
	if c.ComputeThrottle < 0 {
		return errors.New("compute throttle must not be negative")
	}
	if c.MaxQueueSize < 0 {
		return errors.New("max queue size must not be negative")
	}
	for _, iv := range c.Intervals {
		if iv <= 0 {
			return fmt.Errorf("moving average interval must be positive, got %s", iv)
		}
	}
	return nil
}

// Validate 验证按节点统计配置的有效性
func (c *RegistryConfig) Validate() error {
	if c.IdleTimeout < 0 {
		return errors.New("idle timeout must not be negative")
	}
	return nil
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 该函数会：
//  1. 检查配置有效性
//  2. 对于某些可修复的问题，自动应用修复
//  3. 返回修复后的配置或错误
//
// 可修复的问题示例：
//   - 节流延迟为零或队列上限为零 -> 使用默认值
//   - 空的窗口集合 -> 使用默认值
//   - 重复的窗口 -> 去重
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	// 聚合器：修复非正的节流延迟和队列上限
	if c.Aggregator.ComputeThrottle <= 0 {
		c.Aggregator.ComputeThrottle = Duration(DefaultComputeThrottle)
	}
	if c.Aggregator.MaxQueueSize <= 0 {
		c.Aggregator.MaxQueueSize = DefaultMaxQueueSize
	}

	// 聚合器：空窗口集合使用默认值，重复窗口去重
	if len(c.Aggregator.Intervals) == 0 {
		c.Aggregator.Intervals = DefaultIntervals()
	} else {
		c.Aggregator.Intervals = dedupeIntervals(c.Aggregator.Intervals)
	}

	// 注册表：非正的空闲超时使用默认值
	if c.Registry.IdleTimeout <= 0 {
		c.Registry.IdleTimeout = DefaultRegistryConfig().IdleTimeout
	}

	// 验证修复后的配置
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}

	return c, nil
}

// dedupeIntervals 去除重复的窗口长度，保留首次出现的顺序
func dedupeIntervals(intervals []Duration) []Duration {
	seen := make(map[time.Duration]struct{}, len(intervals))
	out := intervals[:0]
	for _, iv := range intervals {
		if _, ok := seen[iv.Duration()]; ok {
			continue
		}
		seen[iv.Duration()] = struct{}{}
		out = append(out, iv)
	}
	return out
}
