package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a labelled sphere shape. The radius must be positive.
func NewSphere(label string, center core.Vec3, radius float64) (Shape, error) {
	if !(radius > 0) {
		return Shape{}, fmt.Errorf("sphere %q radius %g: %w", label, radius, ErrInvalidShape)
	}
	return Shape{
		Kind:   KindSphere,
		Label:  label,
		Sphere: Sphere{Center: center, Radius: radius},
	}, nil
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, interval core.Interval, rec *material.HitRecord) bool {
	// Vector from ray origin to sphere center
	oc := s.Center.Subtract(ray.Origin)

	// Quadratic in half-b form: a t² - 2h t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	h := ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// Tangent rays count as misses
	discriminant := h*h - a*c
	if discriminant <= 0 {
		return false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (h - sqrtD) / a
	if !interval.Contains(root) {
		// Origin inside the sphere, or the near hit is out of range
		root = (h + sqrtD) / a
		if !interval.Contains(root) {
			return false
		}
	}

	rec.T = root
	rec.Point = ray.At(root)
	outwardNormal := rec.Point.Subtract(s.Center).Divide(s.Radius)
	rec.SetFaceNormal(ray, outwardNormal)

	return true
}
