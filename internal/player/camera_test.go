package player

import (
	"math"
	"testing"

	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraAspect(t *testing.T) {
	c := NewCamera(math.Pi/4, 1280, 720)
	assert.InDelta(t, 16.0/9.0, c.AspectRatio, 1e-6)
	assert.Equal(t, float32(1), NewCamera(math.Pi/4, 0, 0).AspectRatio)
}

func TestInFrustumCullsChunksBehindAndAbove(t *testing.T) {
	c := NewCamera(math.Pi/4, 16, 9)
	p := New(mgl32.Vec3{16.5, 5, 16.5}) // yaw 0 looks along -Z
	clip := c.ViewProjection(p)

	cases := []struct {
		pos  world.ChunkPos
		want bool
	}{
		{world.NewChunkPos(0, 0, 0), true},
		{world.NewChunkPos(0, 0, -2), true},
		{world.NewChunkPos(0, 0, 2), false},
		{world.NewChunkPos(0, 10, -1), false},
		{world.NewChunkPos(40, 0, 0), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InFrustum(clip, ChunkBounds(tc.pos), 1), "chunk %v", tc.pos)
	}

	// turning around swaps front and back
	p.Look = p.Look.Rotate(0, math.Pi)
	clip = c.ViewProjection(p)
	assert.True(t, InFrustum(clip, ChunkBounds(world.NewChunkPos(0, 0, 2)), 1))
	assert.False(t, InFrustum(clip, ChunkBounds(world.NewChunkPos(0, 0, -2)), 1))
}

func TestChunkBounds(t *testing.T) {
	b := ChunkBounds(world.NewChunkPos(-1, 0, 2))
	assert.Equal(t, mgl32.Vec3{-32, 0, 64}, b.Min)
	assert.Equal(t, mgl32.Vec3{0, 32, 96}, b.Max)
}
