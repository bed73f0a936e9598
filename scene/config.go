// Package scene reads scene descriptions from TOML files: a mesh, the fields
// sampled on it, the cuts to take, and how to view and light the result.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"

	"github.com/smasonuk/slice3d"
)

var ErrInvalidScene = errors.New("scene: invalid description")

type MeshConfig struct {
	// Kind is "regular", "rectilinear" or "tetra", a regular grid split
	// into tetrahedra.
	Kind    string     `toml:"kind"`
	Cells   [3]int     `toml:"cells"`
	Origin  mgl64.Vec3 `toml:"origin"`
	Spacing mgl64.Vec3 `toml:"spacing"`
	// X, Y and Z are the vertex coordinates of a rectilinear mesh.
	X []float64 `toml:"x"`
	Y []float64 `toml:"y"`
	Z []float64 `toml:"z"`
}

// SolidConfig is a signed distance solid. Union and Subtract name solids
// declared earlier in the file.
type SolidConfig struct {
	Name     string     `toml:"name"`
	Shape    string     `toml:"shape"`
	Radius   float64    `toml:"radius"`
	Size     mgl64.Vec3 `toml:"size"`
	Height   float64    `toml:"height"`
	Round    float64    `toml:"round"`
	Center   mgl64.Vec3 `toml:"center"`
	Union    []string   `toml:"union"`
	Subtract []string   `toml:"subtract"`
}

// FieldConfig samples a vertex field. Kind "x", "y" or "z" is the
// coordinate, "radius" the distance from Center, "solid" the signed
// distance to a solid.
type FieldConfig struct {
	Name   string     `toml:"name"`
	Kind   string     `toml:"kind"`
	Center mgl64.Vec3 `toml:"center"`
	Solid  string     `toml:"solid"`
}

// CutConfig is one slice of the mesh. Kind "plane" uses Normal and Point,
// "iso" uses Field and Value, "solid" cuts along the surface of Solid.
type CutConfig struct {
	Kind   string     `toml:"kind"`
	Normal mgl64.Vec3 `toml:"normal"`
	Point  mgl64.Vec3 `toml:"point"`
	Field  string     `toml:"field"`
	Value  float64    `toml:"value"`
	Solid  string     `toml:"solid"`

	Color     string `toml:"color"`
	PerVertex bool   `toml:"per_vertex"`
	Edges     bool   `toml:"edges"`

	// Contours fills the cut with filled contour bands: Levels when given,
	// otherwise that many levels spaced on Scale. Heights are Axis·x, or
	// the Color field interpolated per vertex when Axis is zero.
	Contours int                `toml:"contours,omitempty"`
	Levels   []float64          `toml:"levels,omitempty"`
	Scale    slice3d.LevelScale `toml:"scale,omitempty"`
	Axis     mgl64.Vec3         `toml:"axis,omitempty"`
}

func (cc CutConfig) banded() bool { return cc.Contours > 0 || len(cc.Levels) > 0 }

type ViewConfig struct {
	Phi    float64 `toml:"phi"`
	Theta  float64 `toml:"theta"`
	ZC     float64 `toml:"zc"`
	Extent float64 `toml:"extent"`
}

type Config struct {
	Mesh     MeshConfig       `toml:"mesh"`
	Options  slice3d.Options  `toml:"options"`
	Lighting slice3d.Lighting `toml:"lighting"`
	View     ViewConfig       `toml:"view"`
	Solids   []SolidConfig    `toml:"solids"`
	Fields   []FieldConfig    `toml:"fields"`
	Cuts     []CutConfig      `toml:"cuts"`
}

// Default returns the settings a file starts from; keys present in the
// file override them.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			Kind:    "regular",
			Cells:   [3]int{16, 16, 16},
			Origin:  mgl64.Vec3{-1, -1, -1},
			Spacing: mgl64.Vec3{0.125, 0.125, 0.125},
		},
		Options:  slice3d.DefaultOptions(),
		Lighting: slice3d.DefaultLighting(),
		View:     ViewConfig{Phi: -math.Pi / 4, Theta: math.Pi / 6, Extent: slice3d.DefaultExtent},
	}
}

// Parse decodes a scene description. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %w", ErrInvalidScene, row, col, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes c back out as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks the references between sections. Geometry is checked
// when the mesh is built.
func (c *Config) Validate() error {
	switch c.Mesh.Kind {
	case "regular", "rectilinear", "tetra":
	default:
		return fmt.Errorf("%w: mesh kind %q", ErrInvalidScene, c.Mesh.Kind)
	}
	solids := map[string]bool{}
	for i, s := range c.Solids {
		if s.Name == "" {
			return fmt.Errorf("%w: solid %d has no name", ErrInvalidScene, i)
		}
		if solids[s.Name] {
			return fmt.Errorf("%w: solid %q declared twice", ErrInvalidScene, s.Name)
		}
		for _, ref := range append(append([]string{}, s.Union...), s.Subtract...) {
			if !solids[ref] {
				return fmt.Errorf("%w: solid %q refers to undeclared %q", ErrInvalidScene, s.Name, ref)
			}
		}
		solids[s.Name] = true
	}
	fields := map[string]bool{}
	for i, f := range c.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidScene, i)
		}
		switch f.Kind {
		case "x", "y", "z", "radius":
		case "solid":
			if !solids[f.Solid] {
				return fmt.Errorf("%w: field %q uses unknown solid %q", ErrInvalidScene, f.Name, f.Solid)
			}
		default:
			return fmt.Errorf("%w: field %q has kind %q", ErrInvalidScene, f.Name, f.Kind)
		}
		fields[f.Name] = true
	}
	for i, cut := range c.Cuts {
		switch cut.Kind {
		case "plane":
		case "iso":
			if !fields[cut.Field] {
				return fmt.Errorf("%w: cut %d uses unknown field %q", ErrInvalidScene, i, cut.Field)
			}
		case "solid":
			if !solids[cut.Solid] {
				return fmt.Errorf("%w: cut %d uses unknown solid %q", ErrInvalidScene, i, cut.Solid)
			}
		default:
			return fmt.Errorf("%w: cut %d has kind %q", ErrInvalidScene, i, cut.Kind)
		}
		if cut.Color != "" && !fields[cut.Color] {
			return fmt.Errorf("%w: cut %d colored by unknown field %q", ErrInvalidScene, i, cut.Color)
		}
		if cut.Contours < 0 {
			return fmt.Errorf("%w: cut %d has %d contours", ErrInvalidScene, i, cut.Contours)
		}
		if cut.banded() && cut.Axis == (mgl64.Vec3{}) && cut.Color == "" {
			return fmt.Errorf("%w: cut %d has contours but neither an axis nor a color field", ErrInvalidScene, i)
		}
	}
	return nil
}
