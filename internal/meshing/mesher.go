package meshing

import (
	"errors"

	"voxel-game/internal/profiling"
	"voxel-game/internal/world"
)

// ErrMissingNeighbour means a face neighbour chunk was not supplied. Callers
// should retry once the neighbour is loaded.
var ErrMissingNeighbour = errors.New("missing neighbour chunk")

// Mesh is the triangle mesh of one chunk in chunk-local coordinates.
// Positions, UVs and Layers are parallel per-vertex arrays.
type Mesh struct {
	Positions [][3]float32
	UVs       [][2]float32
	Layers    []uint32
	Indices   []uint32
}

func (m *Mesh) VertexCount() int { return len(m.Positions) }

func (m *Mesh) IsEmpty() bool { return len(m.Positions) == 0 }

// faceCorners lists the 4 corners of every face; 0 picks the cuboid's min and
// 1 its max on that axis. The order fixes the winding of each face.
var faceCorners = world.FaceMap[[4][3]uint8]{
	world.FaceRight:   {{1, 1, 1}, {1, 0, 1}, {1, 0, 0}, {1, 1, 0}},
	world.FaceLeft:    {{0, 1, 0}, {0, 0, 0}, {0, 0, 1}, {0, 1, 1}},
	world.FaceUp:      {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	world.FaceDown:    {{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {1, 0, 1}},
	world.FaceBack:    {{0, 1, 1}, {0, 0, 1}, {1, 0, 1}, {1, 1, 1}},
	world.FaceForward: {{1, 1, 0}, {1, 0, 0}, {0, 0, 0}, {0, 1, 0}},
}

// quadIndices triangulates one face.
var quadIndices = [6]uint32{0, 1, 3, 2, 3, 1}

// BuildChunkMesh builds the mesh of c. Faces hidden by a culling block are
// skipped, looking into the neighbour chunks at the borders.
func BuildChunkMesh(c *world.Chunk, neighbours world.FaceMap[*world.Chunk], models *ModelTable) (*Mesh, error) {
	defer profiling.Track("meshing.BuildChunkMesh")()

	if !world.AllSome(neighbours) {
		return nil, ErrMissingNeighbour
	}

	mesh := &Mesh{}
	for x := 0; x < world.ChunkLength; x++ {
		for y := 0; y < world.ChunkLength; y++ {
			for z := 0; z < world.ChunkLength; z++ {
				model, err := models.Get(c.BlockAt(x, y, z))
				if err != nil {
					return nil, err
				}
				if len(model.Cuboids) == 0 {
					continue
				}

				var culled world.FacesMask
				if model.ShouldCull {
					for _, f := range world.AllFaces {
						nb, err := models.Get(neighbourBlock(c, neighbours, x, y, z, f))
						if err != nil {
							return nil, err
						}
						if nb.ShouldCull {
							culled.Set(f)
						}
					}
				}
				if culled.IsAll() {
					continue
				}

				offset := [3]float32{float32(x), float32(y), float32(z)}
				for i := range model.Cuboids {
					mesh.appendCuboid(&model.Cuboids[i], culled, offset)
				}
			}
		}
	}
	return mesh, nil
}

// neighbourBlock returns the block next to (x, y, z) across face f, reading
// from the neighbour chunk when that block lies outside c.
func neighbourBlock(c *world.Chunk, neighbours world.FaceMap[*world.Chunk], x, y, z int, f world.Face) world.BlockID {
	n := f.Normal()
	nx, ny, nz := x+n.X, y+n.Y, z+n.Z
	if nx >= 0 && nx < world.ChunkLength && ny >= 0 && ny < world.ChunkLength && nz >= 0 && nz < world.ChunkLength {
		return c.BlockAt(nx, ny, nz)
	}
	wrap := func(v int) int { return (v + world.ChunkLength) % world.ChunkLength }
	return neighbours.Get(f).BlockAt(wrap(nx), wrap(ny), wrap(nz))
}

func (m *Mesh) appendCuboid(mc *ModelCuboid, culled world.FacesMask, offset [3]float32) {
	for _, f := range world.AllFaces {
		if culled.Contains(f) {
			continue
		}
		base := uint32(len(m.Positions))
		for _, corner := range faceCorners.Get(f) {
			var p [3]float32
			for axis := 0; axis < 3; axis++ {
				if corner[axis] == 0 {
					p[axis] = mc.Min[axis] + offset[axis]
				} else {
					p[axis] = mc.Max[axis] + offset[axis]
				}
			}
			m.Positions = append(m.Positions, p)
		}

		tex := mc.Faces.Get(f)
		uv := tex.UV
		m.UVs = append(m.UVs,
			[2]float32{uv.U0, uv.V0},
			[2]float32{uv.U0, uv.V1},
			[2]float32{uv.U1, uv.V1},
			[2]float32{uv.U1, uv.V0},
		)
		m.Layers = append(m.Layers, tex.Layer, tex.Layer, tex.Layer, tex.Layer)
		for _, i := range quadIndices {
			m.Indices = append(m.Indices, base+i)
		}
	}
}
