// Package metrics provides in-process integration call accounting.
//
// The Collector accumulates per-adapter counters for outbound calls. It is
// a leaf package with no internal dependencies; failure kinds are plain
// strings so the package stays decoupled from the integration error types.
// Counters are informational for diagnostic surfaces — nothing in the
// fabric acts on them.
package metrics

import (
	"sync"
	"time"
)

// AdapterStats is an immutable per-adapter counter view.
type AdapterStats struct {
	Calls          int64
	Failures       int64
	FailuresByKind map[string]int64
	TotalLatency   time.Duration
}

// Snapshot is a point-in-time view of all adapter counters.
// Safe to read concurrently after creation.
type Snapshot struct {
	Adapters map[string]AdapterStats
}

// Collector accumulates call counters per adapter.
// Thread-safe via sync.Mutex. All methods are nil-receiver safe.
type Collector struct {
	mu       sync.Mutex
	adapters map[string]*adapterCounters
}

type adapterCounters struct {
	calls          int64
	failures       int64
	failuresByKind map[string]int64
	totalLatency   time.Duration
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{adapters: make(map[string]*adapterCounters)}
}

// RecordCall records one completed call for the named adapter. kind is the
// failure classification, empty for a successful call.
func (c *Collector) RecordCall(adapter, kind string, latency time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	counters, ok := c.adapters[adapter]
	if !ok {
		counters = &adapterCounters{failuresByKind: make(map[string]int64)}
		c.adapters[adapter] = counters
	}

	counters.calls++
	counters.totalLatency += latency
	if kind != "" {
		counters.failures++
		counters.failuresByKind[kind]++
	}
}

// Snapshot returns an immutable view of all counters. The Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{Adapters: map[string]AdapterStats{}}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	adapters := make(map[string]AdapterStats, len(c.adapters))
	for name, counters := range c.adapters {
		byKind := make(map[string]int64, len(counters.failuresByKind))
		for k, v := range counters.failuresByKind {
			byKind[k] = v
		}
		adapters[name] = AdapterStats{
			Calls:          counters.calls,
			Failures:       counters.failures,
			FailuresByKind: byKind,
			TotalLatency:   counters.totalLatency,
		}
	}
	return Snapshot{Adapters: adapters}
}
