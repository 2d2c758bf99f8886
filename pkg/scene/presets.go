package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrUnknownScene is returned by Build for names with no preset
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
	build       func() (*Scene, error)
}

var presets = []SceneInfo{
	{"default", "Red sphere resting on a large grey ground sphere", NewDefaultScene},
	{"showcase", "Glass, metal and diffuse spheres of several sizes", NewShowcaseScene},
	{"shiny-metal", "Diffuse, metal and glass spheres with a metal bead inside the glass", NewShinyMetalScene},
	{"single-sphere", "One red diffuse sphere in front of the camera", NewSingleSphereScene},
}

// ListScenes returns the built-in scenes in display order
func ListScenes() []SceneInfo {
	out := make([]SceneInfo, len(presets))
	copy(out, presets)
	return out
}

// Build constructs the built-in scene with the given name
func Build(name string) (*Scene, error) {
	for _, info := range presets {
		if info.Name == name {
			s, err := info.build()
			if err != nil {
				return nil, fmt.Errorf("while building scene %q: %w", name, err)
			}
			return s, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
}

// defaultCameraConfig is the hillside view used by the larger scenes
func defaultCameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:          core.NewVec3(7, 4, 7),
		LookAt:          core.NewVec3(0, 3, 0.1),
		Up:              core.NewVec3(0, 1, 0),
		Width:           400,
		AspectRatio:     8.0 / 5.0,
		VFov:            46,
		DefocusAngle:    0.5,
		SamplesPerPixel: 40,
		MaxDepth:        50,
	}
}

// paletteIndices are the material slots shared by the default and showcase scenes
type paletteIndices struct {
	ground, glass, metal, green, red, pink int
}

func addPalette(s *Scene) paletteIndices {
	return paletteIndices{
		ground: s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		glass:  s.AddMaterial(material.NewDielectric(1.5)),
		metal:  s.AddMaterial(material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0)),
		green:  s.AddMaterial(material.NewLambertian(Green)),
		red:    s.AddMaterial(material.NewLambertian(Red)),
		pink:   s.AddMaterial(material.NewLambertian(Pink)),
	}
}

// sphereSpec is a sphere waiting to be added to a scene
type sphereSpec struct {
	label    string
	center   core.Vec3
	radius   float64
	material int
}

func addSpheres(s *Scene, spheres []sphereSpec) error {
	for _, sp := range spheres {
		if err := s.AddSphere(sp.label, sp.center, sp.radius, sp.material); err != nil {
			return err
		}
	}
	return nil
}

// NewDefaultScene creates a red sphere on a large ground sphere
func NewDefaultScene() (*Scene, error) {
	s := NewScene(defaultCameraConfig())
	p := addPalette(s)

	err := addSpheres(s, []sphereSpec{
		{"ground", core.NewVec3(0, -1000, 0), 1000, p.ground},
		{"central", core.NewVec3(0, 1, 0), 1, p.red},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewShowcaseScene creates the extended sphere arrangement with every material type
func NewShowcaseScene() (*Scene, error) {
	s := NewScene(defaultCameraConfig())
	p := addPalette(s)

	err := addSpheres(s, []sphereSpec{
		{"ground", core.NewVec3(0, -1000, 0), 1000, p.ground},
		{"central", core.NewVec3(0, 1, 0), 1, p.red},
		{"glass", core.NewVec3(1.7, 0.7, 0), 0.7, p.glass},
		{"small", core.NewVec3(2.8, 0.4, 0), 0.4, p.green},
		{"mirror", core.NewVec3(-5, 4, 0), 4, p.metal},
		{"backdrop", core.NewVec3(2, 10, -13), 10, p.metal},
		{"sky-ball", core.NewVec3(100, 100, 30), 100, p.pink},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewShinyMetalScene creates three spheres on a ground sphere, the right one glass with a
// small metal bead inside it
func NewShinyMetalScene() (*Scene, error) {
	s := NewScene(geometry.CameraConfig{
		Center:          core.NewVec3(-2, 2, 1),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		Width:           400,
		AspectRatio:     8.0 / 5.0,
		VFov:            30,
		SamplesPerPixel: 40,
		MaxDepth:        50,
	})

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	center := s.AddMaterial(material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	left := s.AddMaterial(material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0))
	s.AddMaterial(material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0))
	glass := s.AddMaterial(material.NewDielectric(1.5))
	s.AddMaterial(material.NewDielectric(1.0 / 1.33)) // air bubble in water
	s.AddMaterial(material.NewDielectric(1.0 / 1.5))  // air bubble in glass

	err := addSpheres(s, []sphereSpec{
		{"center", core.NewVec3(0, 0, -1.2), 0.5, center},
		{"ground", core.NewVec3(0, -100.5, 0), 100, ground},
		{"left", core.NewVec3(-1, 0, -1), 0.5, left},
		{"right", core.NewVec3(1, 0, -1), 0.5, glass},
		{"interior", core.NewVec3(1, 0, -1), 0.1, left},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewSingleSphereScene creates one red diffuse sphere straight ahead of the camera
func NewSingleSphereScene() (*Scene, error) {
	s := NewScene(geometry.CameraConfig{
		Center:          core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		Width:           200,
		AspectRatio:     1.0,
		VFov:            90,
		SamplesPerPixel: 16,
		MaxDepth:        10,
	})

	red := s.AddMaterial(material.NewLambertian(Red))
	if err := s.AddSphere("sphere", core.NewVec3(0, 0, -1), 0.5, red); err != nil {
		return nil, err
	}
	return s, nil
}
