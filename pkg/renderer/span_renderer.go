package renderer

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Gamma is the display gamma applied to every finished pixel
const Gamma = 2.0

// SpanRenderer renders runs of pixels within a row. Each render worker owns one, since the
// sampler, hit record and accumulator are reused from pixel to pixel.
type SpanRenderer struct {
	scene      *scene.Scene
	camera     *geometry.Camera
	integrator integrator.Integrator
	seed       int64

	sampler *core.RandomSampler
	rec     material.HitRecord
	pixel   PixelStats
}

// NewSpanRenderer creates a span renderer with its own random state
func NewSpanRenderer(sc *scene.Scene, camera *geometry.Camera, integ integrator.Integrator, seed int64) *SpanRenderer {
	return &SpanRenderer{
		scene:      sc,
		camera:     camera,
		integrator: integ,
		seed:       seed,
		sampler:    core.NewRandomSampler(rand.New(rand.NewSource(seed))),
	}
}

// RenderSpan fills out[i] with the finished color of pixel (row, startCol+i) and returns
// the number of camera rays traced. A panic while shading a pixel is returned as an error
// naming that pixel.
func (sr *SpanRenderer) RenderSpan(row, startCol int, out []core.Vec3) (samples int, err error) {
	col := startCol
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = fmt.Errorf("while rendering pixel (row %d, col %d): %w", row, col, cause)
		}
	}()

	spp := sr.camera.SamplesPerPixel()
	depth := sr.camera.MaxDepth()

	for i := range out {
		col = startCol + i
		sr.sampler.Seed(PixelSeed(sr.seed, row, col))
		sr.pixel.Reset()

		for s := 0; s < spp; s++ {
			ray := sr.camera.GetRay(row, col, sr.sampler)
			sr.pixel.AddSample(sr.integrator.Trace(ray, sr.scene, sr.sampler, &sr.rec, depth))
		}

		out[i] = sr.pixel.GetColor().GammaCorrect(Gamma)
		samples += spp
	}

	return samples, nil
}

// PixelSeed derives the random seed for one pixel, so a pixel's samples depend only on the
// render seed and its position
func PixelSeed(seed int64, row, col int) int64 {
	h := mix64(uint64(seed))
	h = mix64(h ^ uint64(row))
	h = mix64(h ^ uint64(col))
	return int64(h)
}

// mix64 is the splitmix64 finalizer
func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
