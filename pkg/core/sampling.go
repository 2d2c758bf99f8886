package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// Vec2 is a pair of sample values
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Seed restarts the underlying generator at the given seed
func (r *RandomSampler) Seed(seed int64) {
	r.random.Seed(seed)
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// SampleInCube returns a uniform point in [-1,1]³
func SampleInCube(sampler Sampler) Vec3 {
	s := sampler.Get3D()
	return NewVec3(2*s.X-1, 2*s.Y-1, 2*s.Z-1)
}

// SampleUnitVector returns a uniformly distributed direction on the unit sphere.
// Cube samples are rejected until their squared length lies in (1e-100, 1]; the lower
// bound keeps the normalization away from zero.
func SampleUnitVector(sampler Sampler) Vec3 {
	for {
		p := SampleInCube(sampler)
		lensq := p.LengthSquared()
		if 1e-100 < lensq && lensq <= 1.0 {
			return p.Divide(math.Sqrt(lensq))
		}
	}
}

// SampleInUnitDisk generates a random point in the unit disk on the z=0 plane (for depth of field)
func SampleInUnitDisk(sampler Sampler) Vec3 {
	for {
		s := sampler.Get2D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
