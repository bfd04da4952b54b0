package world

import (
	"slices"
	"sort"

	"voxel-game/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadingEvent reports a change of a chunk's load state.
type LoadingEvent struct {
	Pos ChunkPos
	Old IsLoaded
	New IsLoaded
}

// JustBecameVisible reports a transition into the visible state.
func (e LoadingEvent) JustBecameVisible() bool {
	return e.New.IsVisible() && !e.Old.IsVisible()
}

// JustBecameInvisible reports a transition out of the visible state.
func (e LoadingEvent) JustBecameInvisible() bool {
	return !e.New.IsVisible() && e.Old.IsVisible()
}

// chunkQueue is a deque of chunk positions with O(1) membership checks.
type chunkQueue struct {
	items  []ChunkPos
	queued map[ChunkPos]struct{}
}

func newChunkQueue() chunkQueue {
	return chunkQueue{queued: make(map[ChunkPos]struct{})}
}

func (q *chunkQueue) contains(pos ChunkPos) bool {
	_, ok := q.queued[pos]
	return ok
}

func (q *chunkQueue) push(pos ChunkPos) {
	q.items = append(q.items, pos)
	q.queued[pos] = struct{}{}
}

func (q *chunkQueue) popFront() (ChunkPos, bool) {
	if len(q.items) == 0 {
		return ChunkPos{}, false
	}
	pos := q.items[0]
	q.items = q.items[1:]
	delete(q.queued, pos)
	return pos, true
}

func (q *chunkQueue) popBack() (ChunkPos, bool) {
	if len(q.items) == 0 {
		return ChunkPos{}, false
	}
	pos := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	delete(q.queued, pos)
	return pos, true
}

func (q *chunkQueue) snapshot() []ChunkPos {
	return append([]ChunkPos(nil), q.items...)
}

// ChunkStreamer decides which chunks around the viewer get generated,
// loaded, unloaded and marked visible. It processes at most one load and one
// unload per Update to bound the work done each tick.
type ChunkStreamer struct {
	gen    TerrainGenerator
	load   chunkQueue
	unload chunkQueue

	// chunks outside the loaded one that generation wrote into
	changed []ChunkPos
}

// NewChunkStreamer creates a new chunk streamer.
func NewChunkStreamer(gen TerrainGenerator) *ChunkStreamer {
	return &ChunkStreamer{
		gen:    gen,
		load:   newChunkQueue(),
		unload: newChunkQueue(),
	}
}

// ChunksInRenderDistance returns every chunk position within the render
// distance of center, grown by one in every direction so the outermost
// visible chunks have loaded neighbours. Closest chunks come first.
func ChunksInRenderDistance(center ChunkPos, horizontal, vertical int) []ChunkPos {
	rh, rv := horizontal+1, vertical+1
	out := make([]ChunkPos, 0, (2*rh+1)*(2*rh+1)*(2*rv+1))
	for x := center.X - rh; x <= center.X+rh; x++ {
		for y := center.Y - rv; y <= center.Y+rv; y++ {
			for z := center.Z - rh; z <= center.Z+rh; z++ {
				out = append(out, ChunkPos{X: x, Y: y, Z: z})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceSquared(center) < out[j].DistanceSquared(center)
	})
	return out
}

// Update runs one streaming step for a viewer at the given world position and
// returns the load-state changes in the order they happened.
func (cs *ChunkStreamer) Update(w *World, viewer mgl32.Vec3, horizontal, vertical int) []LoadingEvent {
	defer profiling.Track("world.ChunkStreamer.Update")()

	center := ChunkPosFromWorld(viewer)
	inRange := ChunksInRenderDistance(center, horizontal, vertical)
	cs.queueLoads(w, inRange)
	cs.queueUnloads(w, center, inRange)

	var events []LoadingEvent
	if ev, ok := cs.loadOne(w); ok {
		events = append(events, ev)
	}
	if ev, ok := cs.unloadOne(w); ok {
		events = append(events, ev)
	}
	return append(events, cs.updateVisibility(w)...)
}

func (cs *ChunkStreamer) queueLoads(w *World, inRange []ChunkPos) {
	for _, pos := range inRange {
		if w.IsSimpleLoaded(pos) || cs.load.contains(pos) {
			continue
		}
		cs.load.push(pos)
	}
}

// queueUnloads appends loaded chunks that left the render distance, nearest
// first, so popping from the back drops the farthest chunk.
func (cs *ChunkStreamer) queueUnloads(w *World, center ChunkPos, inRange []ChunkPos) {
	keep := make(map[ChunkPos]struct{}, len(inRange))
	for _, pos := range inRange {
		keep[pos] = struct{}{}
	}
	var out []ChunkPos
	w.Range(func(pos ChunkPos, c *Chunk) bool {
		if !c.Loaded.IsSimpleLoaded() {
			return true
		}
		if _, ok := keep[pos]; ok || cs.unload.contains(pos) {
			return true
		}
		out = append(out, pos)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		da, db := a.DistanceSquared(center), b.DistanceSquared(center)
		if da != db {
			return da < db
		}
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	for _, pos := range out {
		cs.unload.push(pos)
	}
}

// loadOne pops the closest queued position and brings it to a complete,
// simple-loaded chunk.
func (cs *ChunkStreamer) loadOne(w *World) (LoadingEvent, bool) {
	pos, ok := cs.load.popFront()
	if !ok {
		return LoadingEvent{}, false
	}

	if c, exists := w.Chunk(pos); exists {
		if c.Loaded.IsSimpleLoaded() {
			return LoadingEvent{}, false
		}
		if !c.IsComplete() {
			cs.noteChanged(ContinueGeneration(w, cs.gen, pos))
		}
		// ContinueGeneration may have replaced the chunk
		c, _ = w.Chunk(pos)
		c.Loaded.SetSimpleLoaded(true)
	} else {
		cs.noteChanged(FullyGenerate(w, cs.gen, pos, SimpleLoaded))
	}

	c, _ := w.Chunk(pos)
	return LoadingEvent{Pos: pos, Old: NotLoaded, New: c.Loaded}, true
}

func (cs *ChunkStreamer) noteChanged(positions []ChunkPos) {
	for _, pos := range positions {
		if !slices.Contains(cs.changed, pos) {
			cs.changed = append(cs.changed, pos)
		}
	}
}

// TakeContentChanged returns and clears the chunks whose blocks were changed
// by generating their neighbours, such as leaves growing across a border.
func (cs *ChunkStreamer) TakeContentChanged() []ChunkPos {
	out := cs.changed
	cs.changed = nil
	return out
}

// unloadOne pops the most recently queued (farthest) position and clears its
// simple-loaded flag. Chunk data is kept.
func (cs *ChunkStreamer) unloadOne(w *World) (LoadingEvent, bool) {
	pos, ok := cs.unload.popBack()
	if !ok {
		return LoadingEvent{}, false
	}
	c, exists := w.Chunk(pos)
	if !exists {
		return LoadingEvent{}, false
	}
	old := c.Loaded
	c.Loaded.SetSimpleLoaded(false)
	return LoadingEvent{Pos: pos, Old: old, New: c.Loaded}, true
}

// updateVisibility recomputes visibility of every loaded chunk and reports changes.
func (cs *ChunkStreamer) updateVisibility(w *World) []LoadingEvent {
	var events []LoadingEvent
	for _, pos := range w.Positions() {
		c, _ := w.Chunk(pos)
		if !c.Loaded.IsSimpleLoaded() {
			continue
		}
		old := c.Loaded
		c.Loaded.SetVisible(w.NeighboursLoaded(pos))
		if old != c.Loaded {
			events = append(events, LoadingEvent{Pos: pos, Old: old, New: c.Loaded})
		}
	}
	return events
}

// QueuedLoads returns the pending load queue, front first.
func (cs *ChunkStreamer) QueuedLoads() []ChunkPos {
	return cs.load.snapshot()
}

// QueuedUnloads returns the pending unload queue, front first.
func (cs *ChunkStreamer) QueuedUnloads() []ChunkPos {
	return cs.unload.snapshot()
}
