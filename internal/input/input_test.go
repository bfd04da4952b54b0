package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeldKeysWalk(t *testing.T) {
	m := NewManager()
	m.HandleKey("w", true)
	m.HandleKey("D", true)

	in := m.Next(0)
	assert.Equal(t, mgl32.Vec2{1, 1}, in.Walk)

	// held keys stay active across ticks
	in = m.Next(0)
	assert.Equal(t, mgl32.Vec2{1, 1}, in.Walk)

	m.HandleKey("S", true)
	m.HandleKey("D", false)
	in = m.Next(0)
	assert.Equal(t, mgl32.Vec2{0, 0}, in.Walk)
}

func TestTapIsSeenOnce(t *testing.T) {
	m := NewManager()
	m.HandleKey("Space", true)
	m.HandleKey("Space", false)

	in := m.Next(0)
	assert.True(t, in.Jump)
	assert.False(t, in.HoldJump)

	in = m.Next(0)
	assert.False(t, in.Jump)
}

func TestHotbarAndButtons(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Exec("tap 3"))
	require.NoError(t, m.Exec("tap MouseRight"))

	in := m.Next(0)
	assert.Equal(t, 3, in.SelectSlot)
	assert.True(t, in.Place)
	assert.False(t, in.Break)

	assert.Zero(t, m.Next(0).SelectSlot)
}

func TestLookAccumulates(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Exec("look 0.1 0.2"))
	m.Look(0.1, 0)

	in := m.Next(0)
	assert.InDelta(t, 0.2, in.Rotate.X(), 1e-6)
	assert.InDelta(t, 0.2, in.Rotate.Y(), 1e-6)
	assert.Equal(t, mgl32.Vec2{}, m.Next(0).Rotate)
}

func TestExecErrors(t *testing.T) {
	m := NewManager()
	assert.NoError(t, m.Exec("   "))
	assert.Error(t, m.Exec("jump"))
	assert.Error(t, m.Exec("press"))
	assert.Error(t, m.Exec("press F12"))
	assert.Error(t, m.Exec("look 1"))
	assert.Error(t, m.Exec("look x 1"))
}

func TestBindings(t *testing.T) {
	m := NewManager()
	m.BindKey("Up", ActionMoveForward)
	m.HandleKey("up", true)
	assert.True(t, m.IsActive(ActionMoveForward))

	m.UnbindKey("W")
	assert.False(t, m.HandleKey("W", true))
	assert.False(t, m.IsActive(ActionCount))
}
