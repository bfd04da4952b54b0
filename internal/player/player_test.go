package player

import (
	"math"
	"testing"

	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatWorld returns a world whose chunk (0,0,0) has a stone floor at y=0.
func flatWorld() *world.World {
	w := world.New(0)
	c := world.NewChunk()
	for x := 0; x < world.ChunkLength; x++ {
		for z := 0; z < world.ChunkLength; z++ {
			c.SetBlockAt(x, 0, z, world.BlockStone)
		}
	}
	w.InsertChunk(world.NewChunkPos(0, 0, 0), c)
	return w
}

const dt = float32(1.0 / 60)

func settle(p *Player, w *world.World, ticks int) {
	for i := 0; i < ticks; i++ {
		p.Tick(w, Input{}, dt)
	}
}

func TestLookDirection(t *testing.T) {
	var l LookDirection
	assert.InDelta(t, -1, l.Dir().Z(), 1e-5)

	l = l.Rotate(0, math.Pi/2)
	assert.InDelta(t, -1, l.Dir().X(), 1e-5, "yaw a quarter turn left looks along -X")

	l = l.Rotate(10, 0)
	assert.Less(t, l.Pitch, float32(math.Pi/2))
	assert.Greater(t, l.Dir().Y(), float32(0.99))

	l = l.Rotate(0, 2*math.Pi)
	assert.GreaterOrEqual(t, l.Yaw, float32(0))
	assert.Less(t, l.Yaw, float32(2*math.Pi))
}

func TestRotateWrapsLargeNegativeYaw(t *testing.T) {
	l := LookDirection{}.Rotate(0, -3*math.Pi)
	assert.GreaterOrEqual(t, l.Yaw, float32(0))
	assert.Less(t, l.Yaw, float32(2*math.Pi))
	assert.InDelta(t, math.Pi, l.Yaw, 1e-5)

	l = LookDirection{}.Rotate(0, -0.5)
	assert.InDelta(t, 2*math.Pi-0.5, l.Yaw, 1e-5)

	l = LookDirection{Yaw: 1}.Rotate(0, -7*2*math.Pi)
	assert.InDelta(t, 1, l.Yaw, 1e-4)
}

func TestWalkVectorIsHorizontalAndClamped(t *testing.T) {
	l := LookDirection{Pitch: 1}
	v := l.WalkVector(mgl32.Vec2{1, 1})
	assert.Zero(t, v.Y())
	assert.InDelta(t, 1, v.Len(), 1e-5)

	fwd := l.WalkVector(mgl32.Vec2{0, 1})
	assert.InDelta(t, -1, fwd.Z(), 1e-5)
}

func TestFallsAndLands(t *testing.T) {
	w := flatWorld()
	p := New(mgl32.Vec3{8.5, 5, 8.5})

	settle(p, w, 120)
	require.True(t, p.OnGround)
	assert.InDelta(t, 1, p.Position.Y(), 1e-3)
	assert.GreaterOrEqual(t, p.Position.Y(), float32(1))
	assert.Zero(t, p.Velocity.Vel.Y())
}

func TestJumpOnlyFromGround(t *testing.T) {
	w := flatWorld()
	p := New(mgl32.Vec3{8.5, 1, 8.5})
	settle(p, w, 5)
	require.True(t, p.OnGround)

	p.Tick(w, Input{Jump: true}, dt)
	assert.False(t, p.OnGround)
	assert.Greater(t, p.Position.Y(), float32(1))
	vy := p.Velocity.Vel.Y()
	assert.InDelta(t, JumpVelocity+Gravity*dt, vy, 1e-4)

	// a second press mid-air does nothing
	p.Tick(w, Input{Jump: true}, dt)
	assert.Less(t, p.Velocity.Vel.Y(), vy)

	settle(p, w, 120)
	assert.True(t, p.OnGround)
	assert.InDelta(t, 1, p.Position.Y(), 1e-3)
}

func TestWalkForward(t *testing.T) {
	w := flatWorld()
	p := New(mgl32.Vec3{8.5, 1, 20.5})
	settle(p, w, 2)

	for i := 0; i < 30; i++ {
		p.Tick(w, Input{Walk: mgl32.Vec2{0, 1}}, dt)
	}
	assert.Less(t, p.Position.Z(), float32(20.5))
	assert.InDelta(t, 8.5, p.Position.X(), 1e-4)
	assert.True(t, p.OnGround)

	// friction brings the player to rest
	settle(p, w, 300)
	assert.InDelta(t, 0, p.Velocity.Vel.Len(), 1e-3)
}

func TestFreeCamIgnoresBlocks(t *testing.T) {
	w := flatWorld()
	p := New(mgl32.Vec3{8.5, 3, 8.5})
	p.Tick(w, Input{ToggleCam: true, Rotate: mgl32.Vec2{-math.Pi / 2, 0}}, dt)
	require.True(t, p.FreeCam)

	for i := 0; i < 120; i++ {
		p.Tick(w, Input{Walk: mgl32.Vec2{0, 1}}, dt)
	}
	assert.Less(t, p.Position.Y(), float32(0), "free cam flies through the floor")
	assert.False(t, p.OnGround)
}

func TestFlyingHasNoGravity(t *testing.T) {
	w := flatWorld()
	p := New(mgl32.Vec3{8.5, 10, 8.5})
	p.Tick(w, Input{ToggleFly: true}, dt)
	settle(p, w, 60)
	assert.InDelta(t, 10, p.Position.Y(), 1e-3)

	for i := 0; i < 10; i++ {
		p.Tick(w, Input{HoldJump: true}, dt)
	}
	assert.Greater(t, p.Position.Y(), float32(10))
}

func TestSpawnPosition(t *testing.T) {
	pos := SpawnPosition(world.NewFlatGenerator(5))
	assert.Equal(t, mgl32.Vec3{16.5, 9, 16.5}, pos)
}
