package meshing

import (
	"errors"
	"fmt"
	"path/filepath"

	"voxel-game/internal/registry"
	"voxel-game/internal/world"
	"voxel-game/pkg/blockmodel"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrMissingModel is returned when a block id has no entry in the model table.
var ErrMissingModel = errors.New("missing block model")

// ErrCullMismatch is returned when a model file contradicts the block table.
var ErrCullMismatch = errors.New("block model cull flag mismatch")

// FaceTexture selects the texture drawn on one face.
type FaceTexture struct {
	Layer uint32
	UV    blockmodel.Rect
}

// ModelCuboid is one textured box of a block model, in block-local units.
type ModelCuboid struct {
	Min, Max mgl32.Vec3
	Faces    world.FaceMap[FaceTexture]
}

// Model is the render geometry of a block type.
type Model struct {
	ShouldCull bool
	Cuboids    []ModelCuboid
}

// emptyModel is used for air: nothing to draw, hides nothing.
var emptyModel = &Model{}

// ModelTable maps every block id to its model. It must be complete before
// meshing starts and is read-only afterwards, so workers can share it.
type ModelTable [256]*Model

// Get returns the model for id.
func (t *ModelTable) Get(id world.BlockID) (*Model, error) {
	if m := t[id]; m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrMissingModel, id)
}

func (t *ModelTable) Set(id world.BlockID, m *Model) {
	t[id] = m
}

// NewModel converts a resolved descriptor, looking up every face texture in
// atlas. Cullability comes from the block table; a descriptor that sets
// should_cull must agree with it.
func NewModel(id world.BlockID, d *blockmodel.Descriptor, atlas *blockmodel.Atlas) (*Model, error) {
	cull := registry.ShouldCull(id)
	if d.ShouldCull != nil && *d.ShouldCull != cull {
		return nil, fmt.Errorf("%w: should_cull is %v, block table says %v", ErrCullMismatch, *d.ShouldCull, cull)
	}
	m := &Model{ShouldCull: cull}
	for _, c := range d.Cuboids {
		mc := ModelCuboid{
			Min: mgl32.Vec3(c.Min),
			Max: mgl32.Vec3(c.Max),
		}
		for i, tex := range c.Sides.InFaceOrder() {
			entry, ok := atlas.Lookup(tex)
			if !ok {
				return nil, fmt.Errorf("texture '%s' not in atlas", tex)
			}
			mc.Faces[i] = FaceTexture{Layer: entry.Layer, UV: entry.UV}
		}
		m.Cuboids = append(m.Cuboids, mc)
	}
	return m, nil
}

// BuildModelTable loads a model for every registered block from
// <assets>/blockmodel, packs the textures they use from <assets>/sprite and
// returns the finished table together with its atlas.
func BuildModelTable(loader *blockmodel.Loader, tile int) (*ModelTable, *blockmodel.Atlas, error) {
	descs := make(map[world.BlockID]*blockmodel.Descriptor)
	var textures []string
	seen := make(map[string]bool)

	for _, block := range registry.All() {
		if block.ID == world.BlockAir {
			continue
		}
		d, err := loader.LoadBlockModel(block.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v: %v", ErrMissingModel, block.ID, err)
		}
		texs, err := blockmodel.Textures(d)
		if err != nil {
			return nil, nil, fmt.Errorf("block model %v: %w", block.ID, err)
		}
		for _, tex := range texs {
			if !seen[tex] {
				seen[tex] = true
				textures = append(textures, tex)
			}
		}
		descs[block.ID] = d
	}

	atlas, err := blockmodel.BuildAtlas(filepath.Join(loader.AssetsPath(), "sprite"), textures, tile)
	if err != nil {
		return nil, nil, err
	}

	table := &ModelTable{}
	table.Set(world.BlockAir, emptyModel)
	for id, d := range descs {
		m, err := NewModel(id, d, atlas)
		if err != nil {
			return nil, nil, fmt.Errorf("block model %v: %w", id, err)
		}
		table.Set(id, m)
	}
	return table, atlas, nil
}
