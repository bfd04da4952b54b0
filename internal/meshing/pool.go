package meshing

import (
	"context"
	"sync"
	"sync/atomic"

	"voxel-game/internal/world"
)

// Snapshot is everything a mesh task needs. The chunks are private copies;
// nothing else may touch them after submission.
type Snapshot struct {
	Pos        world.ChunkPos
	Chunk      *world.Chunk
	Neighbours world.FaceMap[*world.Chunk]
	Models     *ModelTable
}

// TakeSnapshot clones the chunk at pos and its 6 face neighbours. It fails
// with ErrMissingNeighbour if any of them does not exist.
func TakeSnapshot(w *world.World, pos world.ChunkPos, models *ModelTable) (Snapshot, error) {
	c, ok := w.Chunk(pos)
	if !ok {
		return Snapshot{}, ErrMissingNeighbour
	}
	var nb world.FaceMap[*world.Chunk]
	for _, f := range world.AllFaces {
		n, ok := w.Chunk(pos.Offset(f))
		if !ok {
			return Snapshot{}, ErrMissingNeighbour
		}
		nb.Set(f, n.Clone())
	}
	return Snapshot{Pos: pos, Chunk: c.Clone(), Neighbours: nb, Models: models}, nil
}

// Task is a handle to a submitted mesh job.
type Task struct {
	Pos       world.ChunkPos
	cancelled atomic.Bool
}

// Cancel marks the task so its result is never delivered as valid. A task
// that has not started yet is skipped by the workers.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
}

func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}

// Result is the outcome of one task.
type Result struct {
	Task *Task
	Mesh *Mesh
	Err  error
}

type meshJob struct {
	task     *Task
	snapshot Snapshot
}

// WorkerPool builds chunk meshes on a fixed set of goroutines.
type WorkerPool struct {
	jobQueue chan meshJob
	results  chan Result
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		jobQueue: make(chan meshJob, queueSize),
		results:  make(chan Result, queueSize+workers),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// Submit queues a snapshot for meshing. It returns false if the queue is full
// or the pool has shut down.
func (p *WorkerPool) Submit(s Snapshot) (*Task, bool) {
	if p.ctx.Err() != nil {
		return nil, false
	}
	task := &Task{Pos: s.Pos}
	select {
	case p.jobQueue <- meshJob{task: task, snapshot: s}:
		return task, true
	default:
		return nil, false
	}
}

// Results delivers finished tasks, including failed ones. Cancelled tasks
// may or may not show up and must be ignored by the receiver.
func (p *WorkerPool) Results() <-chan Result {
	return p.results
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			if job.task.Cancelled() {
				continue
			}
			s := job.snapshot
			mesh, err := BuildChunkMesh(s.Chunk, s.Neighbours, s.Models)
			if job.task.Cancelled() {
				continue
			}

			select {
			case p.results <- Result{Task: job.task, Mesh: mesh, Err: err}:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers and waits for them to exit. Queued jobs are dropped.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// QueueLength returns the current number of jobs in the queue
func (p *WorkerPool) QueueLength() int {
	return len(p.jobQueue)
}
