package world

import (
	"voxel-game/internal/profiling"
)

// TerrainGenerator fills freshly created chunks with terrain.
// Implementations must be a pure function of the chunk position and their seed.
type TerrainGenerator interface {
	// HeightAt returns the world Y of the surface (grass) block of a column.
	HeightAt(worldX, worldZ int) int
	// PopulateChunk writes terrain blocks for the chunk at pos into c.
	PopulateChunk(c *Chunk, pos ChunkPos)
}

// Terrain shape constants.
const (
	coarseStretch    = 74.379
	coarseAmplitude  = 23.748
	fineStretch      = 21.174
	fineAmplitude    = 4.849
	dirtDepth        = 3
	fieldThreshold   = 0.5
	caveStretchX     = 0.058
	caveStretchY     = 0.053
	caveStretchZ     = 0.050
	cobbleStretchX   = 33.6521
	cobbleStretchY   = 20.4731
	cobbleStretchZ   = 26.9035
	caveSeedOffset   = 1
	cobbleSeedOffset = 2
)

// Generator is the default noise terrain generator: a two-octave height map,
// carved by a 3D cave field, with stone randomly swapped for cobblestone.
type Generator struct {
	seed   uint32
	height noiseField
	cave   noiseField
	cobble noiseField
}

// NewGenerator creates a generator for the given world seed.
func NewGenerator(seed uint32) *Generator {
	s := int64(seed)
	return &Generator{
		seed:   seed,
		height: newNoiseField(s),
		cave:   newNoiseField(s + caveSeedOffset),
		cobble: newNoiseField(s + cobbleSeedOffset),
	}
}

// Seed returns the seed the generator was built from.
func (g *Generator) Seed() uint32 {
	return g.seed
}

// HeightAt computes the surface height at world X,Z as the sum of a coarse and
// a fine Perlin sample, truncated toward zero.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	x, z := float64(worldX), float64(worldZ)
	coarse := g.height.at2(x/coarseStretch, z/coarseStretch) * coarseAmplitude
	fine := g.height.at2(x/fineStretch, z/fineStretch) * fineAmplitude
	return int(coarse + fine)
}

func (g *Generator) isCaveAir(x, y, z int) bool {
	return g.cave.at3(float64(x)*caveStretchX, float64(y)*caveStretchY, float64(z)*caveStretchZ) > fieldThreshold
}

func (g *Generator) isCobblestone(x, y, z int) bool {
	return g.cobble.at3(float64(x)*cobbleStretchX, float64(y)*cobbleStretchY, float64(z)*cobbleStretchZ) > fieldThreshold
}

// PopulateChunk fills every column up to the surface height. Cave carving is
// checked before the cobblestone swap, and only surviving stone is swapped.
func (g *Generator) PopulateChunk(c *Chunk, pos ChunkPos) {
	fillColumns(c, pos, g.HeightAt, func(id BlockID, x, y, z int) BlockID {
		if g.isCaveAir(x, y, z) {
			return BlockAir
		}
		if id == BlockStone && g.isCobblestone(x, y, z) {
			return BlockCobblestone
		}
		return id
	})
}

// FlatGenerator produces flat terrain at a fixed surface height.
type FlatGenerator struct {
	height int
}

// NewFlatGenerator creates a flat generator whose grass layer sits at height.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{height: height}
}

func (g *FlatGenerator) HeightAt(worldX, worldZ int) int {
	return g.height
}

func (g *FlatGenerator) PopulateChunk(c *Chunk, pos ChunkPos) {
	fillColumns(c, pos, g.HeightAt, nil)
}

// fillColumns writes stone, dirt and grass layers up to the surface of every
// column. decorate may replace each block before it is written.
func fillColumns(c *Chunk, pos ChunkPos, heightAt func(x, z int) int, decorate func(id BlockID, x, y, z int) BlockID) {
	origin := pos.BlockPos()
	for lx := 0; lx < ChunkLength; lx++ {
		for lz := 0; lz < ChunkLength; lz++ {
			wx, wz := origin.X+lx, origin.Z+lz
			surface := heightAt(wx, wz) - origin.Y
			top := min(max(surface+1, 0), ChunkLength)
			for ly := 0; ly < top; ly++ {
				id := layerBlock(ly - surface)
				if decorate != nil {
					id = decorate(id, wx, origin.Y+ly, wz)
				}
				c.SetBlockAt(lx, ly, lz, id)
			}
		}
	}
}

// layerBlock picks the block for a column cell diff blocks above the surface.
func layerBlock(diff int) BlockID {
	switch {
	case diff < -dirtDepth:
		return BlockStone
	case diff < 0:
		return BlockDirt
	default:
		return BlockGrass
	}
}

// GenerateTerrain creates a new chunk at StageTerrain with the given load state.
func GenerateTerrain(gen TerrainGenerator, pos ChunkPos, loaded IsLoaded) *Chunk {
	defer profiling.Track("world.GenerateTerrain")()
	c := NewChunk()
	gen.PopulateChunk(c, pos)
	c.AdvanceStage(StageTerrain)
	c.Loaded = loaded
	return c
}

// FullyGenerate replaces whatever is at pos with a freshly generated, complete
// chunk. Afterwards w.Chunk(pos) always exists. The returned chunks are those
// the tree pass reached outside pos.
func FullyGenerate(w *World, gen TerrainGenerator, pos ChunkPos, loaded IsLoaded) []ChunkPos {
	w.InsertChunk(pos, GenerateTerrain(gen, pos, loaded))
	return GenerateTrees(w, gen, pos)
}

// ContinueGeneration runs only the passes the chunk at pos is still missing.
// Chunks that are absent or at StageNothing are generated from scratch and
// start out not loaded; complete chunks are left untouched. Like
// FullyGenerate it returns the other chunks the tree pass changed.
func ContinueGeneration(w *World, gen TerrainGenerator, pos ChunkPos) []ChunkPos {
	c, ok := w.Chunk(pos)
	if !ok {
		return FullyGenerate(w, gen, pos, NotLoaded)
	}
	switch c.Stage() {
	case StageNothing:
		return FullyGenerate(w, gen, pos, c.Loaded)
	case StageTerrain:
		return GenerateTrees(w, gen, pos)
	}
	return nil
}
