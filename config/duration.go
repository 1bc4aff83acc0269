// Package config 提供统一的配置管理
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration 可从 JSON 解析的时间长度
//
// 本包的所有时间字段（compute_throttle、intervals、idle_timeout）
// 都使用该类型，JSON 中写作 time.ParseDuration 接受的字符串：
//
//	{"aggregator": {"compute_throttle": "500ms", "intervals": ["1m", "5m"]}}
//
// 也接受整数纳秒值，便于程序化生成的配置。
// 序列化时统一输出字符串形式。
type Duration time.Duration

// Duration 返回底层的 time.Duration 值
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String 返回字符串表示
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON 实现 json.Marshaler 接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 实现 json.Unmarshaler 接口
//
// 先按字符串解析，失败后回退为整数纳秒。
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var ns int64
	if err := json.Unmarshal(data, &ns); err == nil {
		*d = Duration(ns)
		return nil
	}

	return fmt.Errorf("duration must be a string like %q or an integer nanosecond count, got %s",
		"500ms", data)
}
