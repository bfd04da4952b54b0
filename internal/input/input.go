package input

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"voxel-game/internal/player"

	"github.com/go-gl/mathgl/mgl32"
)

// Action represents a logical game action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionCrouch
	ActionToggleFly
	ActionToggleCam
	ActionBreak
	ActionPlace
	ActionHotbar1
	ActionHotbar2
	ActionHotbar3
	ActionHotbar4
	ActionHotbar5
	ActionHotbar6
	ActionCount // Sentinel value for array sizing
)

// Manager maps named keys and buttons to logical actions, tracks their
// state between ticks and turns it into player input. Key events may arrive
// from any goroutine.
type Manager struct {
	mu sync.Mutex

	// one key can map to multiple actions
	keyToActions map[string][]Action

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool

	look mgl32.Vec2 // pitch, yaw accumulated since the last tick
}

// NewManager creates a Manager with the default bindings.
func NewManager() *Manager {
	m := &Manager{keyToActions: make(map[string][]Action)}

	m.BindKey("W", ActionMoveForward)
	m.BindKey("S", ActionMoveBackward)
	m.BindKey("A", ActionMoveLeft)
	m.BindKey("D", ActionMoveRight)
	m.BindKey("Space", ActionJump)
	m.BindKey("LeftShift", ActionCrouch)
	m.BindKey("C", ActionToggleFly)
	m.BindKey("F1", ActionToggleCam)
	m.BindKey("MouseLeft", ActionBreak)
	m.BindKey("MouseRight", ActionPlace)
	m.BindKey("1", ActionHotbar1)
	m.BindKey("2", ActionHotbar2)
	m.BindKey("3", ActionHotbar3)
	m.BindKey("4", ActionHotbar4)
	m.BindKey("5", ActionHotbar5)
	m.BindKey("6", ActionHotbar6)

	return m
}

// BindKey binds a key name to an action. Names are case-insensitive.
// Multiple keys can be bound to the same action.
func (m *Manager) BindKey(key string, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := strings.ToLower(key)
	m.keyToActions[k] = append(m.keyToActions[k], action)
}

// UnbindKey removes all action bindings for a key
func (m *Manager) UnbindKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, strings.ToLower(key))
}

// HandleKey records a key going down or up. It reports whether the key is bound.
func (m *Manager) HandleKey(key string, pressed bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions, ok := m.keyToActions[strings.ToLower(key)]
	for _, act := range actions {
		// edges are detected when the event arrives so short taps are not lost
		if pressed && !m.currentState[act] {
			m.justPressed[act] = true
		}
		m.currentState[act] = pressed
	}
	return ok
}

// Look adds a view rotation in radians.
func (m *Manager) Look(dPitch, dYaw float32) {
	m.mu.Lock()
	m.look = m.look.Add(mgl32.Vec2{dPitch, dYaw})
	m.mu.Unlock()
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentState[action]
}

// Next builds the player input for one tick and clears the per-tick edges.
func (m *Manager) Next(float32) player.Input {
	m.mu.Lock()
	defer m.mu.Unlock()

	axis := func(pos, neg Action) float32 {
		var v float32
		if m.currentState[pos] {
			v++
		}
		if m.currentState[neg] {
			v--
		}
		return v
	}

	in := player.Input{
		Walk:       mgl32.Vec2{axis(ActionMoveRight, ActionMoveLeft), axis(ActionMoveForward, ActionMoveBackward)},
		Rotate:     m.look,
		Jump:       m.justPressed[ActionJump],
		HoldJump:   m.currentState[ActionJump],
		HoldCrouch: m.currentState[ActionCrouch],
		ToggleFly:  m.justPressed[ActionToggleFly],
		ToggleCam:  m.justPressed[ActionToggleCam],
		Break:      m.justPressed[ActionBreak],
		Place:      m.justPressed[ActionPlace],
	}
	for i := ActionHotbar1; i <= ActionHotbar6; i++ {
		if m.justPressed[i] {
			in.SelectSlot = int(i-ActionHotbar1) + 1
		}
	}

	m.justPressed = [ActionCount]bool{}
	m.look = mgl32.Vec2{}
	return in
}

// Exec applies one text command:
//
//	press <key>          key down
//	release <key>        key up
//	tap <key>            down and up before the next tick
//	look <pitch> <yaw>   rotate the view, in radians
func (m *Manager) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "press", "release", "tap":
		if len(args) != 1 {
			return fmt.Errorf("%s: expected one key", cmd)
		}
		if cmd == "release" {
			m.HandleKey(args[0], false)
			return nil
		}
		if !m.HandleKey(args[0], true) {
			return fmt.Errorf("%s: unbound key %q", cmd, args[0])
		}
		if cmd == "tap" {
			m.HandleKey(args[0], false)
		}
		return nil
	case "look":
		if len(args) != 2 {
			return fmt.Errorf("look: expected pitch and yaw")
		}
		pitch, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return fmt.Errorf("look: %w", err)
		}
		yaw, err := strconv.ParseFloat(args[1], 32)
		if err != nil {
			return fmt.Errorf("look: %w", err)
		}
		m.Look(float32(pitch), float32(yaw))
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
