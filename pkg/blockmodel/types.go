package blockmodel

// Descriptor is the on-disk form of a block model: assets/blockmodel/<Name>.json.
//
//	{
//	  "parent": "cube_all",
//	  "textures": { "all": "stone" },
//	  "should_cull": true,
//	  "cuboids": [ { "min": [0,0,0], "max": [1,1,1], "sides": { "up": "#all", ... } } ]
//	}
//
// A descriptor without cuboids inherits them from its parent; texture
// references starting with '#' are looked up in the merged textures map.
type Descriptor struct {
	Parent     string            `json:"parent"`
	ShouldCull *bool             `json:"should_cull"`
	Textures   map[string]string `json:"textures"`
	Cuboids    []Cuboid          `json:"cuboids"`
}

// Cull reports whether faces touching another culling block are hidden.
// Defaults to true.
func (d *Descriptor) Cull() bool {
	return d.ShouldCull == nil || *d.ShouldCull
}

// Cuboid is one box of a model in block-local units (0..1).
type Cuboid struct {
	Min   [3]float32 `json:"min"`
	Max   [3]float32 `json:"max"`
	Sides Sides      `json:"sides"`
}

// Sides names the texture of each face of a cuboid.
type Sides struct {
	Right   string `json:"right"`
	Left    string `json:"left"`
	Up      string `json:"up"`
	Down    string `json:"down"`
	Back    string `json:"back"`
	Forward string `json:"forward"`
}

// InFaceOrder returns the textures as Right, Left, Up, Down, Back, Forward.
func (s Sides) InFaceOrder() [6]string {
	return [6]string{s.Right, s.Left, s.Up, s.Down, s.Back, s.Forward}
}

func (s *Sides) set(i int, v string) {
	switch i {
	case 0:
		s.Right = v
	case 1:
		s.Left = v
	case 2:
		s.Up = v
	case 3:
		s.Down = v
	case 4:
		s.Back = v
	case 5:
		s.Forward = v
	}
}
