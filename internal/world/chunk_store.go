package world

import "sort"

// Chunk returns the chunk at pos. It never creates chunks.
func (w *World) Chunk(pos ChunkPos) (*Chunk, bool) {
	c, ok := w.chunks[pos]
	return c, ok
}

// HasChunk checks if a chunk exists.
func (w *World) HasChunk(pos ChunkPos) bool {
	_, ok := w.chunks[pos]
	return ok
}

// InsertChunk stores c at pos, replacing any chunk already there.
func (w *World) InsertChunk(pos ChunkPos, c *Chunk) {
	w.chunks[pos] = c
}

// Len returns the number of chunks in the world.
func (w *World) Len() int {
	return len(w.chunks)
}

// Positions returns every chunk position in a deterministic (x, y, z) order.
func (w *World) Positions() []ChunkPos {
	out := make([]ChunkPos, 0, len(w.chunks))
	for pos := range w.chunks {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

// Range calls fn for every chunk until fn returns false. Order is unspecified.
func (w *World) Range(fn func(pos ChunkPos, c *Chunk) bool) {
	for pos, c := range w.chunks {
		if !fn(pos, c) {
			return
		}
	}
}

// CountLoaded returns how many chunks are simple loaded and how many are visible.
func (w *World) CountLoaded() (simple, visible int) {
	for _, c := range w.chunks {
		if c.Loaded.IsSimpleLoaded() {
			simple++
		}
		if c.Loaded.IsVisible() {
			visible++
		}
	}
	return simple, visible
}
