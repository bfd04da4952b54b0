package savedata

import (
	"os"
	"path/filepath"
	"testing"

	"voxel-game/internal/registry"
	"voxel-game/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(4242)
	gen := world.NewFlatGenerator(5)
	world.FullyGenerate(w, gen, world.NewChunkPos(0, 0, 0), world.SimpleLoaded)
	world.ContinueGeneration(w, gen, world.NewChunkPos(-1, 0, 2))
	require.True(t, w.SetBlock(world.NewBlockPos(3, 10, 3), world.BlockDebugSlab))
	return w
}

func requireSameWorld(t *testing.T, want, got *world.World) {
	t.Helper()
	require.Equal(t, want.Seed(), got.Seed())
	require.Equal(t, want.Positions(), got.Positions())
	for _, pos := range want.Positions() {
		a, _ := want.Chunk(pos)
		b, _ := got.Chunk(pos)
		assert.Equal(t, a.Stage(), b.Stage(), "stage of %v", pos)
		assert.Equal(t, *a.Blocks(), *b.Blocks(), "blocks of %v", pos)
		assert.Equal(t, world.NotLoaded, b.Loaded, "load state of %v", pos)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	w := sampleWorld(t)
	data, err := Encode(w)
	require.NoError(t, err)
	assert.Equal(t, "VXWD", string(data[:4]))

	got, err := Decode(data)
	require.NoError(t, err)
	requireSameWorld(t, w, got)
}

func TestEncodeEmptyWorld(t *testing.T) {
	data, err := Encode(world.New(7))
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), got.Seed())
	assert.Zero(t, got.Len())
}

func TestDecodeRejectsUnknownBlock(t *testing.T) {
	w := world.New(1)
	c := world.NewChunk()
	c.SetBlockAt(1, 2, 3, world.BlockID(200))
	c.AdvanceStage(world.StageComplete)
	w.InsertChunk(world.NewChunkPos(0, 0, 0), c)

	data, err := Encode(w)
	require.NoError(t, err)

	_, err = Decode(data)
	require.ErrorIs(t, err, registry.ErrUnknownBlock)
}

func TestDecodeRejectsCorruptData(t *testing.T) {
	data, err := Encode(sampleWorld(t))
	require.NoError(t, err)

	cases := map[string][]byte{
		"empty":     nil,
		"bad magic": append([]byte("NOPE"), data[4:]...),
		"version":   append(append([]byte{}, data[:4]...), append([]byte{9, 0}, data[6:]...)...),
		"truncated": data[:len(data)/2],
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(blob)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	mem, err := OpenInMemoryBadgerStore()
	require.NoError(t, err)
	disk, err := OpenBadgerStore(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	stores := map[string]Store{
		"file":          NewFileStore(t.TempDir()),
		"badger-memory": mem,
		"badger-disk":   disk,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			w := sampleWorld(t)
			require.NoError(t, SaveWorld(s, "test", w))

			got, err := LoadWorld(s, "test")
			require.NoError(t, err)
			requireSameWorld(t, w, got)

			// overwrite
			w2 := world.New(9)
			require.NoError(t, SaveWorld(s, "test", w2))
			got, err = LoadWorld(s, "test")
			require.NoError(t, err)
			assert.Equal(t, uint32(9), got.Seed())
			assert.Zero(t, got.Len())
		})
	}
}

func TestStoreMissingWorld(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWorld(s, "nothing-here")
			require.ErrorIs(t, err, ErrWorldNotFound)
		})
	}
}

func TestStoreRejectsBadNames(t *testing.T) {
	s := NewFileStore(t.TempDir())
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, s.Save(name, []byte{1}), "name %q", name)
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, SaveWorld(s, "alpha", world.New(1)))

	_, err := os.Stat(filepath.Join(dir, "worlds", "alpha.bin"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "worlds"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLoadOrCreate(t *testing.T) {
	s := NewFileStore(t.TempDir())
	calls := 0
	create := func() *world.World {
		calls++
		return world.New(55)
	}

	w, created, err := LoadOrCreate(s, "fresh", create)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint32(55), w.Seed())

	require.NoError(t, SaveWorld(s, "fresh", sampleWorld(t)))
	w, created, err = LoadOrCreate(s, "fresh", create)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint32(4242), w.Seed())
}

func TestLoadOrCreateSurfacesCorruption(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, s.Save("broken", []byte("VXWD garbage")))

	_, _, err := LoadOrCreate(s, "broken", func() *world.World {
		t.Fatal("must not create over a corrupt save")
		return nil
	})
	require.ErrorIs(t, err, ErrCorrupt)
}
