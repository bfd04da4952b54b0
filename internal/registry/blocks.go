package registry

import (
	"errors"
	"fmt"

	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownBlock is returned for ids that are not part of the block table.
var ErrUnknownBlock = errors.New("unknown block id")

// Descriptor defines the static properties of a block type.
type Descriptor struct {
	ID          world.BlockID
	Name        string
	Replaceable bool
	// Collision shapes in block-local space.
	Collision []world.Cuboid
	// Outline shapes used by ray casts. Defaults to Collision.
	Outline    []world.Cuboid
	ShouldCull bool
}

var blocks [256]*Descriptor

var slabCuboid = world.NewCuboid(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0.5, 1})

func init() {
	RegisterBlock(&Descriptor{ID: world.BlockAir, Replaceable: true})

	for _, id := range []world.BlockID{
		world.BlockStone,
		world.BlockDirt,
		world.BlockGrass,
		world.BlockCobblestone,
		world.BlockLog,
		world.BlockPlanks,
		world.BlockLeaves,
		world.BlockDebug,
	} {
		RegisterBlock(&Descriptor{
			ID:         id,
			Collision:  []world.Cuboid{world.UnitCuboid},
			ShouldCull: true,
		})
	}

	RegisterBlock(&Descriptor{
		ID:        world.BlockDebugSlab,
		Collision: []world.Cuboid{slabCuboid},
	})
}

// RegisterBlock adds def to the table. It is only called during package init.
func RegisterBlock(def *Descriptor) {
	if def.Name == "" {
		def.Name = def.ID.DebugName()
	}
	if def.Outline == nil {
		def.Outline = def.Collision
	}
	blocks[def.ID] = def
}

// Lookup returns the descriptor for id.
func Lookup(id world.BlockID) (*Descriptor, bool) {
	d := blocks[id]
	return d, d != nil
}

// Get returns the descriptor for id and panics for ids outside the table.
// World data only ever holds validated ids.
func Get(id world.BlockID) *Descriptor {
	d := blocks[id]
	if d == nil {
		panic(fmt.Errorf("registry: %w: %d", ErrUnknownBlock, id))
	}
	return d
}

// Validate reports ErrUnknownBlock for ids without a descriptor.
func Validate(id world.BlockID) error {
	if blocks[id] == nil {
		return fmt.Errorf("%w: %d", ErrUnknownBlock, id)
	}
	return nil
}

func IsReplaceable(id world.BlockID) bool {
	return Get(id).Replaceable
}

func CollisionShapes(id world.BlockID) []world.Cuboid {
	return Get(id).Collision
}

func OutlineShapes(id world.BlockID) []world.Cuboid {
	return Get(id).Outline
}

func ShouldCull(id world.BlockID) bool {
	return Get(id).ShouldCull
}

// All returns every registered descriptor in id order.
func All() []*Descriptor {
	var out []*Descriptor
	for _, d := range blocks {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
