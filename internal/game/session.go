package game

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"voxel-game/internal/config"
	"voxel-game/internal/logging"
	"voxel-game/internal/meshing"
	"voxel-game/internal/metrics"
	"voxel-game/internal/player"
	"voxel-game/internal/profiling"
	"voxel-game/internal/savedata"
	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// FlatSurfaceHeight is the grass layer height of flat worlds.
const FlatSurfaceHeight = 4

// Viewport the camera assumes until a host reports its own size.
const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
	frustumMargin         = 1.0
)

// Options configures a Session.
type Options struct {
	Config *config.Config
	Store  savedata.Store
	// Models enables meshing. Without it chunks are streamed and simulated
	// but never meshed.
	Models  *meshing.ModelTable
	Metrics *metrics.Metrics
}

// Session owns one open world and everything that acts on it. All methods
// must be called from the tick goroutine.
type Session struct {
	Name    string
	World   *world.World
	Player  *player.Player
	Camera  *player.Camera
	Created bool // no save existed when the session started

	gen      world.TerrainGenerator
	render   *config.RenderSettings
	streamer *world.ChunkStreamer
	pool     *meshing.WorkerPool
	redrawer *meshing.Redrawer
	store    savedata.Store
	metrics  *metrics.Metrics
}

// NewSession loads the configured world, or creates it on first run, and
// puts the player at the spawn point.
func NewSession(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("session needs a store")
	}

	w, created, err := savedata.LoadOrCreate(opts.Store, cfg.World.Name, func() *world.World {
		seed := cfg.World.Seed
		if seed == 0 {
			seed = rand.Uint32()
		}
		return world.New(seed)
	})
	if err != nil {
		return nil, fmt.Errorf("open world %s: %w", cfg.World.Name, err)
	}

	gen := NewGenerator(cfg.World.Type, w.Seed())
	pool := meshing.NewWorkerPool(cfg.Meshing.Workers, cfg.Meshing.QueueSize)
	redrawer := meshing.NewRedrawer(pool, opts.Models)
	if opts.Metrics != nil {
		redrawer.SetObserver(opts.Metrics)
	}

	logging.Info("Opened world %s (seed %d, %d chunks, generator %s)",
		cfg.World.Name, w.Seed(), w.Len(), cfg.World.Type)

	return &Session{
		Name:     cfg.World.Name,
		World:    w,
		Player:   player.New(player.SpawnPosition(gen)),
		Camera:   player.NewCamera(cfg.FOV, defaultViewportWidth, defaultViewportHeight),
		Created:  created,
		gen:      gen,
		render:   config.NewRenderSettings(cfg),
		streamer: world.NewChunkStreamer(gen),
		pool:     pool,
		redrawer: redrawer,
		store:    opts.Store,
		metrics:  opts.Metrics,
	}, nil
}

// NewGenerator picks the terrain generator for a world type.
func NewGenerator(worldType string, seed uint32) world.TerrainGenerator {
	if strings.EqualFold(worldType, config.WorldTypeFlat) {
		return world.NewFlatGenerator(FlatSurfaceHeight)
	}
	return world.NewGenerator(seed)
}

// Tick runs one simulation step and returns the chunks whose mesh changed.
//
// Order: stream chunks around the player, forward loading events to the
// redrawer, move the player, apply block edits, then schedule and collect
// mesh work.
func (s *Session) Tick(dt float32, in player.Input) []world.ChunkPos {
	defer profiling.Track("game.Session.Tick")()
	before := s.World.Len()

	h, v := s.render.Distances()
	events := s.streamer.Update(s.World, s.Player.Position, h, v)
	s.redrawer.HandleLoadingEvents(events)
	s.redrawer.HandleContentChanged(s.World, s.streamer.TakeContentChanged())

	if s.bodyCanMove() {
		s.Player.Tick(s.World, in, dt)
	} else {
		// hold still until the ground under the player exists
		s.Player.Look = s.Player.Look.Rotate(in.Rotate.X(), in.Rotate.Y())
	}

	if in.SelectSlot != 0 {
		s.Player.SelectBlock(in.SelectSlot)
	}
	if in.Break {
		if edit, ok := s.Player.BreakBlock(s.World); ok {
			s.applyEdit(edit)
		}
	}
	if in.Place {
		if edit, ok := s.Player.PlaceBlock(s.World); ok {
			s.applyEdit(edit)
		}
	}

	s.redrawer.Update(s.World)
	updated := s.redrawer.Collect()

	if s.metrics != nil {
		s.metrics.TicksTotal.Inc()
		if n := s.World.Len() - before; n > 0 {
			s.metrics.ChunksGenerated.Add(float64(n))
		}
		s.metrics.Update(s.Stats().Stats)
	}
	return updated
}

func (s *Session) bodyCanMove() bool {
	return s.Player.FreeCam || s.World.IsSimpleLoaded(world.ChunkPosFromWorld(s.Player.Position))
}

func (s *Session) applyEdit(edit player.Edit) {
	logging.Debug("Block %v: %v -> %v", edit.Pos, edit.Old, edit.New)
	s.redrawer.HandleContentChanged(s.World, edit.Chunks)
	if s.metrics != nil {
		s.metrics.BlocksEdited.Inc()
	}
}

// SetRenderDistance changes the streaming radius from the next tick on.
func (s *Session) SetRenderDistance(horizontal, vertical int) {
	s.render.Set(horizontal, vertical)
}

// Mesh returns the current mesh of a chunk, if one has been built.
func (s *Session) Mesh(pos world.ChunkPos) (*meshing.Mesh, bool) {
	return s.redrawer.Mesh(pos)
}

// DrawList returns the meshed chunks that intersect the camera frustum,
// nearest first.
func (s *Session) DrawList() []world.ChunkPos {
	defer profiling.Track("game.Session.DrawList")()
	clip := s.Camera.ViewProjection(s.Player)
	center := world.ChunkPosFromWorld(s.Player.EyePosition())
	var out []world.ChunkPos
	for _, pos := range s.World.Positions() {
		if _, ok := s.redrawer.Mesh(pos); !ok {
			continue
		}
		if player.InFrustum(clip, player.ChunkBounds(pos), frustumMargin) {
			out = append(out, pos)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceSquared(center) < out[j].DistanceSquared(center)
	})
	return out
}

// Stats is a debug summary of the session.
type Stats struct {
	metrics.Stats
	PlayerPos   mgl32.Vec3
	PlayerChunk world.ChunkPos
}

func (s Stats) String() string {
	return fmt.Sprintf("chunks %d (loaded %d, visible %d) queue +%d/-%d meshes %d (pending %d) player %.1f,%.1f,%.1f in %v",
		s.ChunksTotal, s.ChunksLoaded, s.ChunksVisible, s.QueuedLoads, s.QueuedUnloads,
		s.MeshesResident, s.MeshesPending,
		s.PlayerPos.X(), s.PlayerPos.Y(), s.PlayerPos.Z(), s.PlayerChunk)
}

// Stats collects the current debug statistics.
func (s *Session) Stats() Stats {
	loaded, visible := s.World.CountLoaded()
	return Stats{
		Stats: metrics.Stats{
			ChunksTotal:    s.World.Len(),
			ChunksLoaded:   loaded,
			ChunksVisible:  visible,
			QueuedLoads:    len(s.streamer.QueuedLoads()),
			QueuedUnloads:  len(s.streamer.QueuedUnloads()),
			MeshesResident: s.redrawer.MeshCount(),
			MeshesPending:  s.redrawer.Pending(),
		},
		PlayerPos:   s.Player.Position,
		PlayerChunk: world.ChunkPosFromWorld(s.Player.Position),
	}
}

// Save writes the world to the store.
func (s *Session) Save() error {
	return savedata.SaveWorld(s.store, s.Name, s.World)
}

// Close stops the mesh workers. It does not save.
func (s *Session) Close() {
	s.pool.Shutdown()
}
