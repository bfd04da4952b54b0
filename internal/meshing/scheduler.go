package meshing

import (
	"errors"
	"sort"

	"voxel-game/internal/logging"
	"voxel-game/internal/world"
)

// Observer is notified about mesh task outcomes, e.g. to count them.
type Observer interface {
	MeshBuilt()
	MeshDiscarded()
}

// Redrawer keeps the meshes of visible chunks up to date. It reacts to
// loading and content-change events, starts mesh tasks once a chunk's
// neighbours are available and collects their results.
//
// At most one task per chunk position is in flight; a newer request cancels
// the older task.
type Redrawer struct {
	pool     *WorkerPool
	models   *ModelTable
	observer Observer

	queued   map[world.ChunkPos]struct{}
	inFlight map[world.ChunkPos]*Task
	meshes   map[world.ChunkPos]*Mesh
}

func NewRedrawer(pool *WorkerPool, models *ModelTable) *Redrawer {
	return &Redrawer{
		pool:     pool,
		models:   models,
		queued:   make(map[world.ChunkPos]struct{}),
		inFlight: make(map[world.ChunkPos]*Task),
		meshes:   make(map[world.ChunkPos]*Mesh),
	}
}

// SetObserver installs o; nil disables notifications.
func (r *Redrawer) SetObserver(o Observer) {
	r.observer = o
}

// HandleLoadingEvents queues chunks that became visible and drops everything
// belonging to chunks that became invisible.
func (r *Redrawer) HandleLoadingEvents(events []world.LoadingEvent) {
	for _, ev := range events {
		switch {
		case ev.JustBecameVisible():
			r.queued[ev.Pos] = struct{}{}
		case ev.JustBecameInvisible():
			r.forget(ev.Pos)
		}
	}
}

// HandleContentChanged queues a redraw for every edited chunk that is loaded.
func (r *Redrawer) HandleContentChanged(w *world.World, positions []world.ChunkPos) {
	for _, pos := range positions {
		if w.IsSimpleLoaded(pos) {
			r.queued[pos] = struct{}{}
		}
	}
}

func (r *Redrawer) forget(pos world.ChunkPos) {
	delete(r.queued, pos)
	delete(r.meshes, pos)
	if task, ok := r.inFlight[pos]; ok {
		task.Cancel()
		delete(r.inFlight, pos)
		r.discarded()
	}
}

// Update turns queued requests into mesh tasks. Requests whose chunk or
// neighbours are not loaded yet stay queued; requests for chunks that are no
// longer loaded are dropped. It returns the number of tasks started.
func (r *Redrawer) Update(w *world.World) int {
	if r.models == nil {
		return 0
	}

	positions := make([]world.ChunkPos, 0, len(r.queued))
	for pos := range r.queued {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})

	started := 0
	for _, pos := range positions {
		if !w.IsSimpleLoaded(pos) {
			delete(r.queued, pos)
			continue
		}
		if !w.NeighboursLoaded(pos) {
			continue
		}
		snap, err := TakeSnapshot(w, pos, r.models)
		if err != nil {
			continue
		}
		task, ok := r.pool.Submit(snap)
		if !ok {
			// pool is full; try again next tick
			break
		}
		if old, ok := r.inFlight[pos]; ok {
			old.Cancel()
			r.discarded()
		}
		r.inFlight[pos] = task
		delete(r.queued, pos)
		started++
	}
	return started
}

// Collect stores every finished mesh that is still wanted and returns the
// positions whose mesh changed. It never blocks.
func (r *Redrawer) Collect() []world.ChunkPos {
	var updated []world.ChunkPos
	for {
		select {
		case res := <-r.pool.Results():
			if r.accept(res) {
				updated = append(updated, res.Task.Pos)
			}
		default:
			return updated
		}
	}
}

func (r *Redrawer) accept(res Result) bool {
	pos := res.Task.Pos
	if res.Task.Cancelled() || r.inFlight[pos] != res.Task {
		return false
	}
	delete(r.inFlight, pos)

	if res.Err != nil {
		if errors.Is(res.Err, ErrMissingNeighbour) {
			r.queued[pos] = struct{}{}
		} else {
			logging.Error("Failed to build mesh for chunk %v: %v", pos, res.Err)
		}
		r.discarded()
		return false
	}

	r.meshes[pos] = res.Mesh
	if r.observer != nil {
		r.observer.MeshBuilt()
	}
	return true
}

func (r *Redrawer) discarded() {
	if r.observer != nil {
		r.observer.MeshDiscarded()
	}
}

// Mesh returns the current mesh of the chunk at pos.
func (r *Redrawer) Mesh(pos world.ChunkPos) (*Mesh, bool) {
	m, ok := r.meshes[pos]
	return m, ok
}

// MeshCount returns how many chunk meshes are held.
func (r *Redrawer) MeshCount() int { return len(r.meshes) }

// Pending returns the number of tasks in flight.
func (r *Redrawer) Pending() int { return len(r.inFlight) }

// Queued returns the number of redraw requests waiting for a task.
func (r *Redrawer) Queued() int { return len(r.queued) }
