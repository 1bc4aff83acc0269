// Package aggregator 实现指标聚合器
package aggregator

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ============================================================================
//                              按节点统计注册表
// ============================================================================

// Registry 按节点统计注册表
//
// 维护一个全局聚合器和一组惰性创建的按节点聚合器，
// 共享同一份配置。PushFor 同时计入全局和对应节点。
type Registry struct {
	cfg  Config
	clk  clock.Clock
	opts []Option

	global *Aggregator

	mu      sync.RWMutex
	peers   map[string]*peerEntry
	enabled bool
	stopped bool
}

// peerEntry 单个节点的聚合器及其活动时间
type peerEntry struct {
	agg        *Aggregator
	lastActive time.Time
}

// NewRegistry 创建注册表
//
// opts 同时应用于全局聚合器和此后创建的每个按节点聚合器。
func NewRegistry(cfg Config, opts ...Option) *Registry {
	cfg = cfg.withDefaults()

	r := &Registry{
		cfg:     cfg,
		opts:    opts,
		peers:   make(map[string]*peerEntry),
		enabled: cfg.Enabled,
	}
	r.global = New(cfg, opts...)
	r.clk = r.global.clk
	return r
}

// Global 返回全局聚合器
func (r *Registry) Global() *Aggregator {
	return r.global
}

// ============================================================================
//                              记录
// ============================================================================

// Push 记录一条全局计数器增量
func (r *Registry) Push(counter string, delta float64) {
	r.global.Push(counter, delta)
}

// PushFor 记录一条关联指定节点的计数器增量
//
// 增量同时计入全局聚合器和该节点的聚合器（按节点统计
// 停用时仅计入全局）。节点聚合器在首次出现时惰性创建。
func (r *Registry) PushFor(peer string, counter string, delta float64) {
	r.global.Push(counter, delta)

	if !r.cfg.PerPeer {
		return
	}

	entry := r.entryFor(peer)
	entry.agg.Push(counter, delta)
}

// entryFor 获取或创建节点条目，并刷新活动时间
func (r *Registry) entryFor(peer string) *peerEntry {
	now := r.clk.Now()

	r.mu.RLock()
	entry, ok := r.peers[peer]
	r.mu.RUnlock()
	if ok {
		r.mu.Lock()
		entry.lastActive = now
		r.mu.Unlock()
		return entry
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok = r.peers[peer]; ok {
		entry.lastActive = now
		return entry
	}
	// 新节点的聚合器继承注册表当前的启停状态
	agg := New(r.cfg, r.opts...)
	if !r.enabled {
		agg.Disable()
	}
	if r.stopped {
		agg.Stop()
	}
	entry = &peerEntry{
		agg:        agg,
		lastActive: now,
	}
	r.peers[peer] = entry
	return entry
}

// ============================================================================
//                              节点管理
// ============================================================================

// ForPeer 返回指定节点的聚合器
//
// 节点未知时返回 nil（不创建）。
func (r *Registry) ForPeer(peer string) *Aggregator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.peers[peer]
	if !ok {
		return nil
	}
	return entry.agg
}

// Peers 返回当前已知的节点列表
func (r *Registry) Peers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.peers))
	for peer := range r.peers {
		out = append(out, peer)
	}
	return out
}

// RemovePeer 移除指定节点的统计
//
// 节点断连后调用，停止其聚合器并释放状态。
func (r *Registry) RemovePeer(peer string) {
	r.mu.Lock()
	entry, ok := r.peers[peer]
	if ok {
		delete(r.peers, peer)
	}
	r.mu.Unlock()

	if ok {
		entry.agg.Stop()
	}
}

// TrimIdle 清理指定时间之前无活动的节点统计
func (r *Registry) TrimIdle(since time.Time) {
	var idle []*peerEntry

	r.mu.Lock()
	for peer, entry := range r.peers {
		if entry.lastActive.Before(since) {
			idle = append(idle, entry)
			delete(r.peers, peer)
		}
	}
	r.mu.Unlock()

	for _, entry := range idle {
		entry.agg.Stop()
	}
	if len(idle) > 0 {
		logger.Debug("清理空闲节点统计", "count", len(idle))
	}
}

// ============================================================================
//                              级联控制
// ============================================================================

// Enable 启用全局和所有节点的指标记录
func (r *Registry) Enable() {
	r.mu.Lock()
	r.enabled = true
	r.mu.Unlock()

	r.global.Enable()
	r.forEach(func(a *Aggregator) { a.Enable() })
}

// Disable 停用全局和所有节点的指标记录
func (r *Registry) Disable() {
	r.mu.Lock()
	r.enabled = false
	r.mu.Unlock()

	r.global.Disable()
	r.forEach(func(a *Aggregator) { a.Disable() })
}

// Stop 停止全局和所有节点的聚合器
//
// Stop 是幂等的。
func (r *Registry) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	r.global.Stop()
	r.forEach(func(a *Aggregator) { a.Stop() })
}

func (r *Registry) forEach(fn func(*Aggregator)) {
	r.mu.RLock()
	aggs := make([]*Aggregator, 0, len(r.peers))
	for _, entry := range r.peers {
		aggs = append(aggs, entry.agg)
	}
	r.mu.RUnlock()

	for _, a := range aggs {
		fn(a)
	}
}
