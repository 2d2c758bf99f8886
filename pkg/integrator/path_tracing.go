package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ShadowAcneEpsilon is the minimum hit distance. It keeps scattered rays from re-hitting
// the surface they leave because of floating point error.
const ShadowAcneEpsilon = 0.001

// PathTracer implements recursive unidirectional path tracing with a sky gradient as the
// only light source
type PathTracer struct {
	// TruncatedColor is returned for paths that run out of bounces
	TruncatedColor core.Vec3
}

// NewPathTracer creates a path tracer that treats truncated paths as black
func NewPathTracer() *PathTracer {
	return &PathTracer{}
}

// RayColor computes the color for a single ray, allocating its own hit record
func (pt *PathTracer) RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	var rec material.HitRecord
	return pt.Trace(ray, scene, sampler, &rec, depth)
}

// Trace computes the color for a single ray, reusing rec for every bounce
func (pt *PathTracer) Trace(ray core.Ray, scene *scene.Scene, sampler core.Sampler, rec *material.HitRecord, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return pt.TruncatedColor
	}

	if !scene.Hit(ray, core.NewInterval(ShadowAcneEpsilon, math.Inf(1)), rec) {
		return pt.backgroundGradient(ray, scene)
	}

	scatter, didScatter := rec.Material.Scatter(ray, rec, sampler)
	if !didScatter {
		// Absorbed
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(pt.Trace(scatter.Scattered, scene, sampler, rec, depth-1))
}

// backgroundGradient blends from the horizon color straight down to the zenith color
// straight up
func (pt *PathTracer) backgroundGradient(ray core.Ray, scene *scene.Scene) core.Vec3 {
	top, bottom := scene.GetBackgroundColors()
	unitDirection := ray.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	return bottom.Multiply(1.0 - a).Add(top.Multiply(a))
}
