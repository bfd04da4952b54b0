package blockmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const maxParentDepth = 16

// Loader reads block model descriptors from <assets>/blockmodel and caches them.
type Loader struct {
	assetsPath string
	// merged with parents, references untouched
	raw   map[string]*Descriptor
	cache map[string]*Descriptor
}

func NewLoader(assetsPath string) *Loader {
	return &Loader{
		assetsPath: assetsPath,
		raw:        make(map[string]*Descriptor),
		cache:      make(map[string]*Descriptor),
	}
}

// AssetsPath returns the root the loader reads from.
func (l *Loader) AssetsPath() string {
	return l.assetsPath
}

// LoadBlockModel loads the descriptor called name with its parents merged in
// and its texture references resolved. Results are cached and shared; callers
// must not modify them.
func (l *Loader) LoadBlockModel(name string) (*Descriptor, error) {
	if d, ok := l.cache[name]; ok {
		return d, nil
	}
	raw, err := l.load(name, 0)
	if err != nil {
		return nil, err
	}

	d := *raw
	d.Cuboids = append([]Cuboid(nil), raw.Cuboids...)
	resolveTextures(&d)
	l.cache[name] = &d
	return &d, nil
}

// load returns the descriptor merged with its parents. Texture references
// are resolved only on the copy handed out by LoadBlockModel, so a child can
// still override any texture its parent refers to.
func (l *Loader) load(name string, depth int) (*Descriptor, error) {
	if d, ok := l.raw[name]; ok {
		return d, nil
	}
	if depth > maxParentDepth {
		return nil, fmt.Errorf("parent chain of '%s' is too deep", name)
	}

	path := filepath.Join(l.assetsPath, "blockmodel", name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read block model file: %w", err)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("could not unmarshal block model json '%s': %w", name, err)
	}
	if d.Textures == nil {
		d.Textures = make(map[string]string)
	}

	if d.Parent != "" {
		parent, err := l.load(d.Parent, depth+1)
		if err != nil {
			return nil, fmt.Errorf("could not load parent model '%s': %w", d.Parent, err)
		}
		if d.ShouldCull == nil {
			d.ShouldCull = parent.ShouldCull
		}
		if len(d.Cuboids) == 0 {
			d.Cuboids = parent.Cuboids
		}
		for key, val := range parent.Textures {
			if _, ok := d.Textures[key]; !ok {
				d.Textures[key] = val
			}
		}
	}

	l.raw[name] = &d
	return &d, nil
}

func resolveTextures(d *Descriptor) {
	for i := range d.Cuboids {
		for f, tex := range d.Cuboids[i].Sides.InFaceOrder() {
			d.Cuboids[i].Sides.set(f, ResolveTexture(tex, d))
		}
	}
}

// ResolveTexture follows '#name' references through d.Textures. Unknown
// references are returned as they are.
func ResolveTexture(tex string, d *Descriptor) string {
	for i := 0; i < 10 && strings.HasPrefix(tex, "#"); i++ {
		resolved, ok := d.Textures[strings.TrimPrefix(tex, "#")]
		if !ok {
			break
		}
		tex = resolved
	}
	return tex
}

// Textures returns the distinct texture names used by d's cuboids, sorted.
// It fails if any face still holds an unresolved reference.
func Textures(d *Descriptor) ([]string, error) {
	seen := make(map[string]struct{})
	for _, c := range d.Cuboids {
		for _, tex := range c.Sides.InFaceOrder() {
			if tex == "" || strings.HasPrefix(tex, "#") {
				return nil, fmt.Errorf("unresolved texture '%s'", tex)
			}
			seen[tex] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tex := range seen {
		out = append(out, tex)
	}
	sort.Strings(out)
	return out, nil
}

// LoadAll loads the descriptors for every name in names.
func (l *Loader) LoadAll(names []string) (map[string]*Descriptor, error) {
	out := make(map[string]*Descriptor, len(names))
	for _, name := range names {
		d, err := l.LoadBlockModel(name)
		if err != nil {
			return nil, fmt.Errorf("block model '%s': %w", name, err)
		}
		out[name] = d
	}
	return out, nil
}
