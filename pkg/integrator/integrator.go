package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace computes the color carried back along ray. rec is scratch space owned by the
	// caller; implementations may overwrite it freely but must not retain it.
	Trace(ray core.Ray, scene *scene.Scene, sampler core.Sampler, rec *material.HitRecord, depth int) core.Vec3
}
