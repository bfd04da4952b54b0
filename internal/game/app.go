package game

import (
	"context"
	"time"

	"voxel-game/internal/logging"
	"voxel-game/internal/player"
	"voxel-game/internal/profiling"
)

const (
	slowTick      = 16 * time.Millisecond
	maxTickDelta  = 100 * time.Millisecond
	statsInterval = 5 * time.Second
	autosaveEvery = 5 * time.Minute
)

// InputSource provides the player's intent for each tick.
type InputSource interface {
	Next(dt float32) player.Input
}

// IdleInput never moves the player.
type IdleInput struct{}

func (IdleInput) Next(float32) player.Input { return player.Input{} }

// App drives a session at a fixed rate until its context ends.
type App struct {
	session *Session
	input   InputSource
	limiter *FPSLimiter

	lastTime  time.Time
	lastStats time.Time
	lastSave  time.Time
	Ticks     int
}

func NewApp(s *Session, input InputSource, fpsLimit int) *App {
	if input == nil {
		input = IdleInput{}
	}
	now := time.Now()
	return &App{
		session:   s,
		input:     input,
		limiter:   NewFPSLimiter(fpsLimit),
		lastTime:  now,
		lastStats: now,
		lastSave:  now,
	}
}

// Run ticks until ctx is cancelled, then saves the world.
func (a *App) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return a.session.Save()
		default:
		}
		a.tick()
		a.limiter.Wait()
	}
}

func (a *App) tick() {
	profiling.ResetTick()
	start := time.Now()
	dt := min(start.Sub(a.lastTime), maxTickDelta)
	a.lastTime = start

	seconds := float32(dt.Seconds())
	a.session.Tick(seconds, a.input.Next(seconds))
	a.Ticks++

	if d := time.Since(start); d > slowTick {
		logging.Warn("Slow tick: %v. Top tasks: %s", d, profiling.TopN(5))
	}

	if time.Since(a.lastStats) >= statsInterval {
		logging.Info("%v, %d meshes in view", a.session.Stats(), len(a.session.DrawList()))
		a.lastStats = time.Now()
	}
	if time.Since(a.lastSave) >= autosaveEvery {
		if err := a.session.Save(); err != nil {
			logging.Error("Autosave failed: %v", err)
		}
		a.lastSave = time.Now()
	}
}
