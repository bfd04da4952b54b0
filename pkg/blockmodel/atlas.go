package blockmodel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"voxel-game/internal/logging"

	"golang.org/x/image/draw"
)

// DefaultTileSize is the edge length of one atlas tile in pixels.
const DefaultTileSize = 16

// Rect is a normalised texture-space rectangle.
type Rect struct {
	U0, V0, U1, V1 float32
}

// AtlasEntry locates one texture: its layer in an array texture and its
// rectangle in the grid atlas image.
type AtlasEntry struct {
	Layer uint32
	UV    Rect
}

// Atlas packs sprites into square tiles laid out on a grid.
type Atlas struct {
	Image   *image.RGBA
	Tile    int
	Columns int
	entries map[string]AtlasEntry
	names   []string
}

// Lookup returns the entry for a texture name.
func (a *Atlas) Lookup(name string) (AtlasEntry, bool) {
	e, ok := a.entries[name]
	return e, ok
}

// Names returns the texture names in layer order.
func (a *Atlas) Names() []string {
	return append([]string(nil), a.names...)
}

// Layer returns the tile of one layer as its own image.
func (a *Atlas) Layer(i uint32) *image.RGBA {
	col, row := int(i)%a.Columns, int(i)/a.Columns
	r := image.Rect(col*a.Tile, row*a.Tile, (col+1)*a.Tile, (row+1)*a.Tile)
	out := image.NewRGBA(image.Rect(0, 0, a.Tile, a.Tile))
	draw.Draw(out, out.Bounds(), a.Image, r.Min, draw.Src)
	return out
}

// BuildAtlas loads <spriteDir>/<name>.png for every name, scales each to
// tile×tile and packs them in order. A missing sprite is replaced by a
// checkerboard and reported with a warning; other decode errors fail.
func BuildAtlas(spriteDir string, names []string, tile int) (*Atlas, error) {
	if tile <= 0 {
		tile = DefaultTileSize
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(names)))))
	if cols == 0 {
		cols = 1
	}
	rows := (len(names) + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}

	a := &Atlas{
		Image:   image.NewRGBA(image.Rect(0, 0, cols*tile, rows*tile)),
		Tile:    tile,
		Columns: cols,
		entries: make(map[string]AtlasEntry, len(names)),
	}

	w, h := float32(cols*tile), float32(rows*tile)
	for _, name := range names {
		if _, dup := a.entries[name]; dup {
			continue
		}
		img, err := loadSprite(filepath.Join(spriteDir, name+".png"))
		if errors.Is(err, fs.ErrNotExist) {
			logging.Warn("Missing sprite %s, using placeholder", name)
			img = placeholder(tile)
		} else if err != nil {
			return nil, fmt.Errorf("sprite '%s': %w", name, err)
		}

		layer := uint32(len(a.names))
		col, row := int(layer)%cols, int(layer)/cols
		dst := image.Rect(col*tile, row*tile, (col+1)*tile, (row+1)*tile)
		draw.NearestNeighbor.Scale(a.Image, dst, img, img.Bounds(), draw.Src, nil)

		a.entries[name] = AtlasEntry{
			Layer: layer,
			UV: Rect{
				U0: float32(dst.Min.X) / w,
				V0: float32(dst.Min.Y) / h,
				U1: float32(dst.Max.X) / w,
				V1: float32(dst.Max.Y) / h,
			},
		}
		a.names = append(a.names, name)
	}
	return a, nil
}

func loadSprite(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func placeholder(tile int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, tile, tile))
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	half := max(tile/2, 1)
	for y := 0; y < tile; y++ {
		for x := 0; x < tile; x++ {
			if (x/half+y/half)%2 == 0 {
				img.Set(x, y, magenta)
			} else {
				img.Set(x, y, black)
			}
		}
	}
	return img
}
