package blockmodel

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const testAssets = "assets-test"

func TestLoadSimpleModel(t *testing.T) {
	loader := NewLoader(testAssets)
	d, err := loader.LoadBlockModel("cube_all")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if len(d.Cuboids) != 1 {
		t.Errorf("Expected 1 cuboid, got %d", len(d.Cuboids))
	}
	if !d.Cull() {
		t.Errorf("Expected should_cull to default to true")
	}
	if d.Cuboids[0].Sides.Up != "#all" {
		t.Errorf("Expected the abstract parent to keep '#all', got '%s'", d.Cuboids[0].Sides.Up)
	}
}

func TestLoadChildModel(t *testing.T) {
	loader := NewLoader(testAssets)
	d, err := loader.LoadBlockModel("Stone")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if len(d.Cuboids) != 1 {
		t.Fatalf("Expected 1 cuboid from parent, got %d", len(d.Cuboids))
	}
	for i, tex := range d.Cuboids[0].Sides.InFaceOrder() {
		if tex != "stone" {
			t.Errorf("face %d: expected 'stone', got '%s'", i, tex)
		}
	}
}

func TestTextureResolveChain(t *testing.T) {
	loader := NewLoader(testAssets)
	d, err := loader.LoadBlockModel("GrassBlock")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	s := d.Cuboids[0].Sides
	if s.Up != "grass_top" || s.Down != "dirt" || s.Right != "grass_side" {
		t.Errorf("unexpected sides %+v", s)
	}

	texs, err := Textures(d)
	if err != nil {
		t.Fatalf("Textures: %v", err)
	}
	if len(texs) != 3 || texs[0] != "dirt" || texs[1] != "grass_side" || texs[2] != "grass_top" {
		t.Errorf("unexpected texture list %v", texs)
	}
}

func TestSiblingsDoNotShareParentState(t *testing.T) {
	loader := NewLoader(testAssets)
	stone, err := loader.LoadBlockModel("Stone")
	if err != nil {
		t.Fatal(err)
	}
	dirt, err := loader.LoadBlockModel("Dirt")
	if err != nil {
		t.Fatal(err)
	}
	if stone.Cuboids[0].Sides.Up != "stone" || dirt.Cuboids[0].Sides.Up != "dirt" {
		t.Errorf("siblings polluted each other: %s %s", stone.Cuboids[0].Sides.Up, dirt.Cuboids[0].Sides.Up)
	}
	parent, _ := loader.LoadBlockModel("cube_all")
	if parent.Cuboids[0].Sides.Up != "#all" {
		t.Errorf("Parent model in cache was mutated! Got %s", parent.Cuboids[0].Sides.Up)
	}
}

func TestSlabOverridesCull(t *testing.T) {
	loader := NewLoader(testAssets)
	d, err := loader.LoadBlockModel("DebugSlab")
	if err != nil {
		t.Fatal(err)
	}
	if d.Cull() {
		t.Error("slab should not cull")
	}
	if d.Cuboids[0].Max[1] != 0.5 {
		t.Errorf("expected a half-height cuboid, got %v", d.Cuboids[0].Max)
	}
}

func TestCache(t *testing.T) {
	loader := NewLoader(testAssets)
	m1, err := loader.LoadBlockModel("Stone")
	if err != nil {
		t.Fatalf("Failed to load model first time: %v", err)
	}
	m2, err := loader.LoadBlockModel("Stone")
	if err != nil {
		t.Fatalf("Failed to load model second time: %v", err)
	}
	if m1 != m2 {
		t.Errorf("Expected the same model instance to be returned from cache")
	}
}

func TestMissingModel(t *testing.T) {
	loader := NewLoader(testAssets)
	if _, err := loader.LoadBlockModel("Nope"); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := loader.LoadAll([]string{"Stone", "Nope"}); err == nil {
		t.Error("LoadAll should fail when one model is missing")
	}
}

func TestBuildAtlas(t *testing.T) {
	atlas, err := BuildAtlas(filepath.Join(testAssets, "sprite"), []string{"stone", "dirt", "missing"}, 16)
	if err != nil {
		t.Fatalf("BuildAtlas: %v", err)
	}
	if atlas.Columns != 2 || atlas.Image.Bounds().Dx() != 32 || atlas.Image.Bounds().Dy() != 32 {
		t.Fatalf("unexpected atlas layout %d cols, %v", atlas.Columns, atlas.Image.Bounds())
	}

	dirt, ok := atlas.Lookup("dirt")
	if !ok || dirt.Layer != 1 {
		t.Fatalf("unexpected dirt entry %+v %v", dirt, ok)
	}
	if dirt.UV != (Rect{U0: 0.5, V0: 0, U1: 1, V1: 0.5}) {
		t.Errorf("unexpected dirt rect %+v", dirt.UV)
	}

	// the 4x4 stone sprite is scaled up to fill its 16x16 tile
	if got := atlas.Layer(0).RGBAAt(15, 15); got != (color.RGBA{R: 128, G: 128, B: 128, A: 255}) {
		t.Errorf("stone tile not scaled: %v", got)
	}
	if _, ok := atlas.Lookup("missing"); !ok {
		t.Error("missing sprites should get a placeholder entry")
	}
}

func TestMain(m *testing.M) {
	os.MkdirAll(filepath.Join(testAssets, "blockmodel"), 0755)
	os.MkdirAll(filepath.Join(testAssets, "sprite"), 0755)

	writeTestFile(filepath.Join(testAssets, "blockmodel", "cube_all.json"), `{
		"cuboids": [ { "min": [0,0,0], "max": [1,1,1], "sides": {
			"right": "#all", "left": "#all", "up": "#all", "down": "#all", "back": "#all", "forward": "#all" } } ]
	}`)
	writeTestFile(filepath.Join(testAssets, "blockmodel", "cube_column.json"), `{
		"textures": { "top": "#end", "bottom": "#end" },
		"cuboids": [ { "min": [0,0,0], "max": [1,1,1], "sides": {
			"right": "#side", "left": "#side", "up": "#top", "down": "#bottom", "back": "#side", "forward": "#side" } } ]
	}`)
	writeTestFile(filepath.Join(testAssets, "blockmodel", "Stone.json"), `{ "parent": "cube_all", "textures": { "all": "stone" } }`)
	writeTestFile(filepath.Join(testAssets, "blockmodel", "Dirt.json"), `{ "parent": "cube_all", "textures": { "all": "dirt" } }`)
	writeTestFile(filepath.Join(testAssets, "blockmodel", "GrassBlock.json"), `{
		"parent": "cube_column",
		"textures": { "end": "grass_top", "bottom": "dirt", "side": "grass_side" }
	}`)
	writeTestFile(filepath.Join(testAssets, "blockmodel", "DebugSlab.json"), `{
		"should_cull": false,
		"textures": { "all": "debug" },
		"cuboids": [ { "min": [0,0,0], "max": [1,0.5,1], "sides": {
			"right": "#all", "left": "#all", "up": "#all", "down": "#all", "back": "#all", "forward": "#all" } } ]
	}`)

	writeTestSprite(filepath.Join(testAssets, "sprite", "stone.png"), 4, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	writeTestSprite(filepath.Join(testAssets, "sprite", "dirt.png"), 16, color.RGBA{R: 120, G: 80, B: 40, A: 255})

	exitCode := m.Run()
	os.RemoveAll(testAssets)
	os.Exit(exitCode)
}

func writeTestFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		panic(err)
	}
}

func writeTestSprite(path string, size int, c color.RGBA) {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}
