package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Per-tick CPU accounting. Totals accumulate until ResetTick.

var (
	mu         sync.Mutex
	tickTotals = make(map[string]time.Duration)
	tickCounts = make(map[string]int)
	observer   func(name string, d time.Duration)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("world.GenerateTerrain")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		tickTotals[name] += d
		tickCounts[name]++
		obs := observer
		mu.Unlock()
		if obs != nil {
			obs(name, d)
		}
	}
}

// SetObserver installs a callback that receives every finished span, e.g. to
// feed a metrics histogram. Pass nil to remove it.
func SetObserver(fn func(name string, d time.Duration)) {
	mu.Lock()
	observer = fn
	mu.Unlock()
}

// ResetTick clears the accumulated totals. Call at the start of each tick.
func ResetTick() {
	mu.Lock()
	clear(tickTotals)
	clear(tickCounts)
	mu.Unlock()
}

// Span is one accumulated entry of a snapshot.
type Span struct {
	Name  string
	Total time.Duration
	Count int
}

// Snapshot returns the current totals, longest first.
func Snapshot() []Span {
	mu.Lock()
	out := make([]Span, 0, len(tickTotals))
	for k, v := range tickTotals {
		out = append(out, Span{Name: k, Total: v, Count: tickCounts[k]})
	}
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopN formats the n longest spans of the current tick.
// Example: "world.GenerateTerrain:4.2ms, meshing.BuildChunkMesh:2.1ms"
func TopN(n int) string {
	spans := Snapshot()
	if n > len(spans) {
		n = len(spans)
	}
	parts := make([]string, 0, n)
	for _, s := range spans[:n] {
		parts = append(parts, s.Name+":"+formatMs(s.Total))
	}
	return strings.Join(parts, ", ")
}

func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("%.1f", ms)
	return strings.TrimSuffix(s, ".0") + "ms"
}
