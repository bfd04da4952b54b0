package world

import (
	"crypto/sha256"
	"slices"
	"testing"
)

func chunkHash(c *Chunk) [32]byte {
	h := sha256.New()
	for _, id := range c.Blocks() {
		h.Write([]byte{byte(id)})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func TestGeneratorsImplementInterface(t *testing.T) {
	var _ TerrainGenerator = NewGenerator(123)
	var _ TerrainGenerator = NewFlatGenerator(10)
}

func TestFlatGeneratorLayers(t *testing.T) {
	c := GenerateTerrain(NewFlatGenerator(5), NewChunkPos(0, 0, 0), NotLoaded)

	want := map[int]BlockID{0: BlockStone, 1: BlockStone, 2: BlockDirt, 3: BlockDirt, 4: BlockDirt, 5: BlockGrass, 6: BlockAir, 31: BlockAir}
	for y, id := range want {
		if got := c.BlockAt(7, y, 9); got != id {
			t.Errorf("y=%d: expected %v, got %v", y, id, got)
		}
	}
	if c.Stage() != StageTerrain {
		t.Errorf("expected StageTerrain, got %v", c.Stage())
	}
}

func TestFlatGeneratorChunkAboveAndBelow(t *testing.T) {
	g := NewFlatGenerator(5)
	if c := GenerateTerrain(g, NewChunkPos(3, 1, -2), NotLoaded); !c.IsEmpty() {
		t.Error("chunk above the surface should be empty")
	}
	c := GenerateTerrain(g, NewChunkPos(0, -1, 0), NotLoaded)
	c.ForEach(func(p BlockInChunkPos, id BlockID) {
		if id != BlockStone {
			t.Fatalf("expected solid stone below the surface, got %v at %v", id, p)
		}
	})
}

func TestGeneratorDeterministic(t *testing.T) {
	for _, pos := range []ChunkPos{{0, 0, 0}, {1, -1, 2}, {-3, 0, 5}} {
		a := GenerateTerrain(NewGenerator(42), pos, NotLoaded)
		b := GenerateTerrain(NewGenerator(42), pos, NotLoaded)
		if chunkHash(a) != chunkHash(b) {
			t.Errorf("chunk %v differs between runs with the same seed", pos)
		}
	}
}

func TestGeneratorSeedChangesTerrain(t *testing.T) {
	hashAll := func(seed uint32) [][32]byte {
		g := NewGenerator(seed)
		var out [][32]byte
		for _, pos := range []ChunkPos{{0, 0, 0}, {0, -1, 0}, {2, 0, -2}} {
			out = append(out, chunkHash(GenerateTerrain(g, pos, NotLoaded)))
		}
		return out
	}
	a, b := hashAll(1), hashAll(2)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical terrain")
	}
}

func TestGeneratorNothingAboveSurface(t *testing.T) {
	g := NewGenerator(7)
	pos := NewChunkPos(0, 0, 0)
	c := GenerateTerrain(g, pos, NotLoaded)
	for x := 0; x < ChunkLength; x++ {
		for z := 0; z < ChunkLength; z++ {
			surface := g.HeightAt(x, z)
			for y := 0; y < ChunkLength; y++ {
				id := c.BlockAt(x, y, z)
				if y > surface && id != BlockAir {
					t.Fatalf("(%d,%d,%d): %v above surface %d", x, y, z, id, surface)
				}
				if id == BlockGrass && y != surface {
					t.Fatalf("(%d,%d,%d): grass below surface %d", x, y, z, surface)
				}
			}
		}
	}
}

func TestChunkRandDeterministic(t *testing.T) {
	p := NewBlockPos(-32, 0, 64)
	a, b := NewChunkRand(p, saltTreeX), NewChunkRand(p, saltTreeX)
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			t.Fatal("same seed produced different streams")
		}
	}
	r := NewChunkRand(p, saltTreeHeight)
	for i := 0; i < 1000; i++ {
		if v := r.Range(minTrunkHeight, maxTrunkHeight); v < minTrunkHeight || v >= maxTrunkHeight {
			t.Fatalf("value %d out of range", v)
		}
	}
}

func countBlocks(w *World, id BlockID) int {
	n := 0
	w.Range(func(_ ChunkPos, c *Chunk) bool {
		for _, b := range c.Blocks() {
			if b == id {
				n++
			}
		}
		return true
	})
	return n
}

func TestFullyGeneratePlacesOneTree(t *testing.T) {
	w := New(0)
	g := NewFlatGenerator(5)
	pos := NewChunkPos(0, 0, 0)
	FullyGenerate(w, g, pos, SimpleLoaded)

	c, ok := w.Chunk(pos)
	if !ok || !c.IsComplete() || !c.Loaded.IsSimpleLoaded() {
		t.Fatalf("chunk not generated as expected: %v", c)
	}
	logs := countBlocks(w, BlockLog)
	if logs < minTrunkHeight || logs >= maxTrunkHeight {
		t.Errorf("expected a trunk of 4..6 logs, got %d", logs)
	}
	if leaves := countBlocks(w, BlockLeaves); leaves != len(leafOffsets) {
		t.Errorf("expected %d leaves, got %d", len(leafOffsets), leaves)
	}

	// every chunk created for spilled leaves only has terrain and is not loaded
	w.Range(func(p ChunkPos, other *Chunk) bool {
		if p != pos && (other.Stage() != StageTerrain || other.Loaded != NotLoaded) {
			t.Errorf("neighbour %v: stage %v loaded %v", p, other.Stage(), other.Loaded)
		}
		return true
	})
}

func TestTreeSpillsIntoNewChunk(t *testing.T) {
	w := New(0)
	g := NewFlatGenerator(ChunkLength - 5) // the crown reaches past y=31
	pos := NewChunkPos(0, 0, 0)
	above := NewChunkPos(0, 1, 0)

	touched := FullyGenerate(w, g, pos, SimpleLoaded)

	c, ok := w.Chunk(above)
	if !ok {
		t.Fatalf("expected leaves to create chunk %v; world has %v", above, w.Positions())
	}
	if c.Stage() != StageTerrain {
		t.Errorf("spilled chunk should only have terrain, got stage %v", c.Stage())
	}
	if c.Loaded != NotLoaded {
		t.Errorf("spilled chunk should not be loaded, got %v", c.Loaded)
	}
	leaves := 0
	for _, b := range c.Blocks() {
		if b == BlockLeaves {
			leaves++
		}
	}
	if leaves == 0 {
		t.Error("no leaves in the spilled chunk")
	}
	if countBlocks(w, BlockLeaves) != len(leafOffsets) {
		t.Errorf("expected %d leaves in total, got %d", len(leafOffsets), countBlocks(w, BlockLeaves))
	}
	if !slices.Contains(touched, above) || slices.Contains(touched, pos) {
		t.Errorf("unexpected touched chunks %v", touched)
	}
}

func TestTreeReportsExistingChunks(t *testing.T) {
	w := New(0)
	g := NewFlatGenerator(ChunkLength - 5)
	pos := NewChunkPos(0, 0, 0)
	above := NewChunkPos(0, 1, 0)
	w.InsertChunk(above, GenerateTerrain(g, above, SimpleLoaded))

	touched := FullyGenerate(w, g, pos, SimpleLoaded)
	if !slices.Contains(touched, above) {
		t.Fatalf("existing chunk %v not reported, got %v", above, touched)
	}
	c, _ := w.Chunk(above)
	if !c.Loaded.IsSimpleLoaded() || c.Stage() != StageTerrain {
		t.Errorf("existing chunk changed state: stage %v loaded %v", c.Stage(), c.Loaded)
	}
	if c.IsEmpty() {
		t.Error("leaves were not written into the existing chunk")
	}
}

func TestContinueGenerationIsIdempotent(t *testing.T) {
	w := New(0)
	g := NewGenerator(99)
	pos := NewChunkPos(0, 0, 0)

	ContinueGeneration(w, g, pos)
	c, ok := w.Chunk(pos)
	if !ok || !c.IsComplete() || c.Loaded != NotLoaded {
		t.Fatalf("absent chunk should be fully generated and not loaded")
	}
	before := chunkHash(c)
	ContinueGeneration(w, g, pos)
	c, _ = w.Chunk(pos)
	if chunkHash(c) != before {
		t.Error("continuing a complete chunk changed it")
	}
}

func TestContinueGenerationRunsMissingPasses(t *testing.T) {
	w := New(0)
	g := NewFlatGenerator(5)

	terrainOnly := NewChunkPos(0, 0, 0)
	w.InsertChunk(terrainOnly, GenerateTerrain(g, terrainOnly, SimpleLoaded))
	ContinueGeneration(w, g, terrainOnly)
	c, _ := w.Chunk(terrainOnly)
	if !c.IsComplete() || countBlocks(w, BlockLog) == 0 {
		t.Error("trees pass did not run")
	}
	if !c.Loaded.IsSimpleLoaded() {
		t.Error("load state lost")
	}

	blank := NewChunkPos(5, 0, 5)
	nc := NewChunk()
	nc.Loaded = SimpleLoaded
	w.InsertChunk(blank, nc)
	ContinueGeneration(w, g, blank)
	c, _ = w.Chunk(blank)
	if !c.IsComplete() || c.IsEmpty() || !c.Loaded.IsSimpleLoaded() {
		t.Errorf("StageNothing chunk not regenerated correctly: stage %v loaded %v", c.Stage(), c.Loaded)
	}
}

func BenchmarkGenerateTerrain(b *testing.B) {
	g := NewGenerator(1234)
	for i := 0; i < b.N; i++ {
		GenerateTerrain(g, NewChunkPos(i%8, -1, i/8%8), NotLoaded)
	}
}

func BenchmarkFullyGenerate(b *testing.B) {
	g := NewGenerator(1234)
	for i := 0; i < b.N; i++ {
		w := New(1234)
		FullyGenerate(w, g, NewChunkPos(i%8, 0, i/8%8), SimpleLoaded)
	}
}
