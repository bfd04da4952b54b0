package player

import (
	"math"
	"testing"

	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lookingDown puts the player's eye 3 blocks above the floor of flatWorld,
// away from the chunk borders, looking straight down.
func lookingDown(t *testing.T) (*Player, *world.World) {
	t.Helper()
	w := flatWorld()
	p := New(mgl32.Vec3{8.5, 1, 8.5})
	p.FreeCam = true
	p.Position = mgl32.Vec3{8.5, 4 - EyeHeight, 8.5}
	p.Look = LookDirection{Pitch: -math.Pi/2 + 0.001}
	return p, w
}

func TestBreakBlock(t *testing.T) {
	p, w := lookingDown(t)

	edit, ok := p.BreakBlock(w)
	require.True(t, ok)
	assert.Equal(t, world.NewBlockPos(8, 0, 8), edit.Pos)
	assert.Equal(t, world.BlockStone, edit.Old)
	assert.Equal(t, world.BlockAir, edit.New)
	assert.Equal(t, []world.ChunkPos{world.NewChunkPos(0, 0, 0), world.NewChunkPos(0, -1, 0)}, edit.Chunks)
	assert.True(t, w.IsAir(edit.Pos))

	// nothing left under the eye within reach
	_, ok = p.BreakBlock(w)
	assert.False(t, ok)
}

func TestPlaceBlock(t *testing.T) {
	p, w := lookingDown(t)
	require.True(t, p.SelectBlock(4))
	assert.Equal(t, world.BlockCobblestone, p.SelectedBlock())

	edit, ok := p.PlaceBlock(w)
	require.True(t, ok)
	assert.Equal(t, world.NewBlockPos(8, 1, 8), edit.Pos)
	assert.Equal(t, world.BlockCobblestone, edit.New)
	id, _ := w.Block(edit.Pos)
	assert.Equal(t, world.BlockCobblestone, id)
}

func TestPlaceBlockRejectsOverlapWithBody(t *testing.T) {
	p, w := lookingDown(t)
	p.FreeCam = false
	p.Position = mgl32.Vec3{8.5, 1, 8.5}
	p.Look = LookDirection{Pitch: -math.Pi/2 + 0.001}

	_, ok := p.PlaceBlock(w)
	assert.False(t, ok)
	assert.True(t, w.IsAir(world.NewBlockPos(8, 1, 8)))
}

func TestPlaceBlockNeedsReplaceableCell(t *testing.T) {
	p, w := lookingDown(t)
	// looking at the slab's top; the cell above the slab is taken by stone
	w.SetBlock(world.NewBlockPos(8, 1, 8), world.BlockDebugSlab)
	w.SetBlock(world.NewBlockPos(8, 2, 8), world.BlockStone)
	p.Position = mgl32.Vec3{8.5, 1.75 - EyeHeight, 8.5}

	_, ok := p.PlaceBlock(w)
	assert.False(t, ok)
}

func TestSelectBlockRange(t *testing.T) {
	p := New(mgl32.Vec3{})
	assert.Equal(t, world.BlockStone, p.SelectedBlock())
	assert.False(t, p.SelectBlock(0))
	assert.False(t, p.SelectBlock(len(Hotbar)+1))
	assert.True(t, p.SelectBlock(6))
	assert.Equal(t, world.BlockDebugSlab, p.SelectedBlock())
}
