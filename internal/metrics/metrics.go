package metrics

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
)

const maxLatencySamples = 10_000

// Metrics collects in-memory statistics over command invocations and API calls.
type Metrics struct {
	total   int64
	success int64

	mu        sync.Mutex
	latencies []int64 // end-to-end ms, rolling window
	perName   map[string]*nameCounts
}

type nameCounts struct {
	total  int64
	failed int64
}

// NameSnapshot is the per-command part of a Snapshot.
type NameSnapshot struct {
	Total  int64 `json:"total"`
	Failed int64 `json:"failed"`
}

// Snapshot is the computed snapshot returned by the /metrics endpoint.
type Snapshot struct {
	TotalRequests int64                   `json:"total_requests"`
	SuccessRate   float64                 `json:"success_rate"` // percentage 0–100
	AvgLatencyMs  float64                 `json:"avg_latency_ms"`
	P95LatencyMs  int64                   `json:"p95_latency_ms"`
	Commands      map[string]NameSnapshot `json:"commands"`
}

func New() *Metrics {
	return &Metrics{
		latencies: make([]int64, 0, 1024),
		perName:   make(map[string]*nameCounts),
	}
}

// Record captures one finished call of name.
func (m *Metrics) Record(name string, latencyMs int64, success bool) {
	atomic.AddInt64(&m.total, 1)
	if success {
		atomic.AddInt64(&m.success, 1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.perName[name]
	if !ok {
		c = &nameCounts{}
		m.perName[name] = c
	}
	c.total++
	if !success {
		c.failed++
	}

	if len(m.latencies) < maxLatencySamples {
		m.latencies = append(m.latencies, latencyMs)
	} else {
		// Rolling window: drop oldest sample.
		copy(m.latencies, m.latencies[1:])
		m.latencies[maxLatencySamples-1] = latencyMs
	}
}

// Snapshot computes and returns the current snapshot.
func (m *Metrics) Snapshot() Snapshot {
	total := atomic.LoadInt64(&m.total)
	success := atomic.LoadInt64(&m.success)

	var successRate float64
	if total > 0 {
		successRate = float64(success) / float64(total) * 100
	}

	m.mu.Lock()
	lats := make([]int64, len(m.latencies))
	copy(lats, m.latencies)
	commands := make(map[string]NameSnapshot, len(m.perName))
	for name, c := range m.perName {
		commands[name] = NameSnapshot{Total: c.total, Failed: c.failed}
	}
	m.mu.Unlock()

	var avgMs float64
	var p95Ms int64
	if len(lats) > 0 {
		sort.Slice(lats, func(i, j int) bool { return lats[i] < lats[j] })
		var sum int64
		for _, v := range lats {
			sum += v
		}
		avgMs = float64(sum) / float64(len(lats))
		idx := int(math.Ceil(float64(len(lats))*0.95)) - 1
		if idx < 0 {
			idx = 0
		}
		p95Ms = lats[idx]
	}

	return Snapshot{
		TotalRequests: total,
		SuccessRate:   math.Round(successRate*10) / 10,
		AvgLatencyMs:  math.Round(avgMs),
		P95LatencyMs:  p95Ms,
		Commands:      commands,
	}
}

// Handler returns an http.HandlerFunc that serves the snapshot as JSON.
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := m.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	}
}
