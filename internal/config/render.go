package config

import "sync"

const (
	minRenderDistance = 0
	maxRenderDistance = 32
)

// RenderSettings holds the render distances that can change while the game
// runs. Safe for concurrent use.
type RenderSettings struct {
	mu         sync.RWMutex
	horizontal int // in chunks
	vertical   int
}

// NewRenderSettings starts from the configured distances.
func NewRenderSettings(cfg *Config) *RenderSettings {
	rs := &RenderSettings{}
	rs.Set(cfg.HorizontalRenderDistance, cfg.VerticalRenderDistance)
	return rs
}

// Distances returns the horizontal and vertical render distance in chunks.
func (rs *RenderSettings) Distances() (horizontal, vertical int) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.horizontal, rs.vertical
}

// Set changes both distances, clamped to a sane range.
func (rs *RenderSettings) Set(horizontal, vertical int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.horizontal = clamp(horizontal)
	rs.vertical = clamp(vertical)
}

func clamp(d int) int {
	return min(max(d, minRenderDistance), maxRenderDistance)
}
