package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrInvalidShape is returned when shape parameters violate their invariants
var ErrInvalidShape = errors.New("invalid shape")

// ShapeKind tags the variant held by a Shape
type ShapeKind int

const (
	KindSphere ShapeKind = iota
)

func (k ShapeKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Shape is a closed set of primitives. Kind selects which variant field is valid.
type Shape struct {
	Kind   ShapeKind
	Label  string
	Sphere Sphere
}

// Hit tests the ray against the shape within the interval, filling rec on success.
// The material field of rec is left to the caller.
func (s *Shape) Hit(ray core.Ray, interval core.Interval, rec *material.HitRecord) bool {
	switch s.Kind {
	case KindSphere:
		return s.Sphere.Hit(ray, interval, rec)
	default:
		return false
	}
}

func (s *Shape) String() string {
	switch s.Kind {
	case KindSphere:
		return fmt.Sprintf("sphere %q center=%v radius=%g", s.Label, s.Sphere.Center, s.Sphere.Radius)
	default:
		return fmt.Sprintf("%v %q", s.Kind, s.Label)
	}
}
