package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/golang/glog"
	"sigs.k8s.io/yaml"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrUnknownMaterial is returned when a scene file names a material that is not defined,
// or defines one of an unsupported type
var ErrUnknownMaterial = errors.New("unknown material")

// Vec3 is a vector written as a three element list, e.g. [0, 1, 0]
type Vec3 [3]float64

// UnmarshalJSON rejects lists that do not have exactly three elements. The decoder fills in
// the struct and field name of the returned *json.UnmarshalTypeError.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var xs []float64
	if err := json.Unmarshal(data, &xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return &json.UnmarshalTypeError{
			Value: fmt.Sprintf("list of %d elements", len(xs)),
			Type:  reflect.TypeOf(*v),
		}
	}
	copy(v[:], xs)
	return nil
}

func (v Vec3) toCore() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SceneFile is the on-disk scene description. The same json tags serve YAML and JSON.
type SceneFile struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Camera      CameraSection  `json:"camera"`
	Sky         *SkySection    `json:"sky,omitempty"`
	Materials   []MaterialSpec `json:"materials"`
	Spheres     []SphereSpec   `json:"spheres"`
}

// CameraSection holds camera placement; zero numeric fields take the loader defaults
type CameraSection struct {
	Center          Vec3    `json:"center"`
	LookAt          Vec3    `json:"lookAt"`
	Up              *Vec3   `json:"up,omitempty"`
	Width           int     `json:"width,omitempty"`
	AspectRatio     float64 `json:"aspectRatio,omitempty"`
	VFov            float64 `json:"vfov,omitempty"`
	DefocusAngle    float64 `json:"defocusAngle,omitempty"`
	FocusDistance   float64 `json:"focusDistance,omitempty"`
	SamplesPerPixel int     `json:"samplesPerPixel,omitempty"`
	MaxDepth        int     `json:"maxDepth,omitempty"`
}

// SkySection overrides the background gradient
type SkySection struct {
	Zenith  Vec3 `json:"zenith"`
	Horizon Vec3 `json:"horizon"`
}

// MaterialSpec defines a named material
type MaterialSpec struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"` // lambertian, metal or dielectric
	Albedo          Vec3    `json:"albedo,omitempty"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractionIndex float64 `json:"refractionIndex,omitempty"`
}

// SphereSpec places a sphere and binds it to a named material
type SphereSpec struct {
	Label    string  `json:"label,omitempty"`
	Center   Vec3    `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// Camera defaults for fields a scene file leaves out
const (
	DefaultWidth           = 400
	DefaultAspectRatio     = 16.0 / 9.0
	DefaultVFov            = 90.0
	DefaultSamplesPerPixel = 40
	DefaultMaxDepth        = 50
)

// LoadSceneFile reads a YAML or JSON scene description from disk
func LoadSceneFile(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("while reading scene file: %w", err)
	}
	sc, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("while loading %s: %w", path, err)
	}
	return sc, nil
}

// ParseScene builds a scene from YAML or JSON. Unknown fields are rejected.
func ParseScene(data []byte) (*scene.Scene, error) {
	var file SceneFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("while parsing scene: %w", err)
	}
	return file.Build()
}

// Build converts the parsed description into a scene
func (f *SceneFile) Build() (*scene.Scene, error) {
	sc := scene.NewScene(f.Camera.config())
	if f.Sky != nil {
		sc.SkyZenith = f.Sky.Zenith.toCore()
		sc.SkyHorizon = f.Sky.Horizon.toCore()
	}

	indices := make(map[string]int, len(f.Materials))
	for i, spec := range f.Materials {
		if spec.Name == "" {
			return nil, fmt.Errorf("material %d has no name", i)
		}
		if _, dup := indices[spec.Name]; dup {
			return nil, fmt.Errorf("material %q defined twice", spec.Name)
		}
		m, err := spec.build()
		if err != nil {
			return nil, err
		}
		indices[spec.Name] = sc.AddMaterial(m)
	}

	for i, spec := range f.Spheres {
		idx, ok := indices[spec.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d (%s) uses %q: %w", i, spec.Label, spec.Material, ErrUnknownMaterial)
		}
		label := spec.Label
		if label == "" {
			label = fmt.Sprintf("sphere%d", i)
		}
		if err := sc.AddSphere(label, spec.Center.toCore(), spec.Radius, idx); err != nil {
			return nil, fmt.Errorf("while adding sphere %d: %w", i, err)
		}
	}

	glog.V(1).Infof("Loaded scene %q: %d materials, %d spheres", f.Name, len(f.Materials), len(f.Spheres))
	return sc, nil
}

func (c CameraSection) config() geometry.CameraConfig {
	config := geometry.CameraConfig{
		Center:          c.Center.toCore(),
		LookAt:          c.LookAt.toCore(),
		Up:              core.NewVec3(0, 1, 0),
		Width:           c.Width,
		AspectRatio:     c.AspectRatio,
		VFov:            c.VFov,
		DefocusAngle:    c.DefocusAngle,
		FocusDistance:   c.FocusDistance,
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
	}
	if c.Up != nil {
		config.Up = c.Up.toCore()
	}
	if config.Width == 0 {
		config.Width = DefaultWidth
	}
	if config.AspectRatio == 0 {
		config.AspectRatio = DefaultAspectRatio
	}
	if config.VFov == 0 {
		config.VFov = DefaultVFov
	}
	if config.SamplesPerPixel == 0 {
		config.SamplesPerPixel = DefaultSamplesPerPixel
	}
	if config.MaxDepth == 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	return config
}

func (m MaterialSpec) build() (material.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian", "diffuse":
		return material.NewLambertian(m.Albedo.toCore()), nil
	case "metal":
		if m.Fuzz < 0 || m.Fuzz > 1 {
			glog.Warningf("Material %q: fuzz %g clamped to [0, 1]", m.Name, m.Fuzz)
		}
		return material.NewMetal(m.Albedo.toCore(), m.Fuzz), nil
	case "dielectric", "glass":
		if !(m.RefractionIndex > 0) {
			return nil, fmt.Errorf("material %q: refraction index %g must be positive", m.Name, m.RefractionIndex)
		}
		return material.NewDielectric(m.RefractionIndex), nil
	default:
		return nil, fmt.Errorf("material %q has type %q: %w", m.Name, m.Type, ErrUnknownMaterial)
	}
}
