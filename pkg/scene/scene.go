package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrMaterialIndex is returned when an object is bound to a material slot that cannot be used
var ErrMaterialIndex = errors.New("invalid material index")

// Object binds a shape to a slot in the scene's material pool
type Object struct {
	Shape         geometry.Shape
	MaterialIndex int
}

// Scene contains all the elements needed for rendering. It is read-only while rendering
// and shared by every render worker.
type Scene struct {
	Materials    []material.Material // Slot 0 holds the unassigned placeholder
	Objects      []Object
	SkyZenith    core.Vec3 // Background color straight up
	SkyHorizon   core.Vec3 // Background color straight down
	CameraConfig geometry.CameraConfig
}

// NewScene creates an empty scene with the default sky and the given camera
func NewScene(cameraConfig geometry.CameraConfig) *Scene {
	return &Scene{
		Materials:    []material.Material{material.Unassigned{}},
		SkyZenith:    SkyBlue,
		SkyHorizon:   White,
		CameraConfig: cameraConfig,
	}
}

// AddMaterial appends a material to the pool and returns its index
func (s *Scene) AddMaterial(m material.Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// AddObject binds shape to the material at index. Index 0 is reserved.
func (s *Scene) AddObject(shape geometry.Shape, index int) error {
	if index <= 0 || index >= len(s.Materials) {
		return fmt.Errorf("binding %v to material %d of %d: %w", &shape, index, len(s.Materials), ErrMaterialIndex)
	}
	s.Objects = append(s.Objects, Object{Shape: shape, MaterialIndex: index})
	return nil
}

// AddSphere creates a sphere and binds it to the material at index
func (s *Scene) AddSphere(label string, center core.Vec3, radius float64, index int) error {
	sphere, err := geometry.NewSphere(label, center, radius)
	if err != nil {
		return err
	}
	return s.AddObject(sphere, index)
}

// Hit finds the nearest intersection in the interval by scanning every object.
// The upper bound shrinks to each closer hit, so rec always ends up describing the nearest
// surface and carries that surface's material.
func (s *Scene) Hit(ray core.Ray, interval core.Interval, rec *material.HitRecord) bool {
	_, ok := s.HitObject(ray, interval, rec)
	return ok
}

// HitObject is Hit that also reports the index into Objects of the surface that was hit
func (s *Scene) HitObject(ray core.Ray, interval core.Interval, rec *material.HitRecord) (int, bool) {
	hitIndex := -1
	closest := interval.Max

	for i := range s.Objects {
		obj := &s.Objects[i]
		if obj.Shape.Hit(ray, core.NewInterval(interval.Min, closest), rec) {
			hitIndex = i
			closest = rec.T
			rec.Material = s.Materials[obj.MaterialIndex]
		}
	}

	return hitIndex, hitIndex >= 0
}

// GetBackgroundColors returns the sky gradient endpoints
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.SkyZenith, s.SkyHorizon
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}
