package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

// createTestScene creates a scene with one sphere in front of the origin
func createTestScene(t *testing.T, m material.Material) *scene.Scene {
	t.Helper()
	sc := scene.NewScene(geometry.CameraConfig{})
	idx := sc.AddMaterial(m)
	if err := sc.AddSphere("sphere", core.NewVec3(0, 0, -1), 0.5, idx); err != nil {
		t.Fatal(err)
	}
	return sc
}

// absorber never scatters
type absorber struct{}

func (absorber) Scatter(core.Ray, *material.HitRecord, core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

// mirrorUp sends every hit straight up into the sky with a fixed attenuation
type mirrorUp struct{ albedo core.Vec3 }

func (m mirrorUp) Scatter(_ core.Ray, hit *material.HitRecord, _ core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{
		Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
		Attenuation: m.albedo,
	}, true
}

func TestPathTracer_DepthZeroReturnsTruncatedColor(t *testing.T) {
	sc := createTestScene(t, material.NewLambertian(scene.Red))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name      string
		truncated core.Vec3
	}{
		{"default black", core.Vec3{}},
		{"red sentinel", scene.Red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := NewPathTracer()
			pt.TruncatedColor = tt.truncated
			for _, depth := range []int{0, -3} {
				if got := pt.RayColor(ray, sc, sampler, depth); got != tt.truncated {
					t.Errorf("depth %d: expected %v, got %v", depth, tt.truncated, got)
				}
			}
		})
	}
}

func TestPathTracer_SkyGradient(t *testing.T) {
	sc := scene.NewScene(geometry.CameraConfig{})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))
	pt := NewPathTracer()

	tests := []struct {
		name      string
		direction core.Vec3
		want      core.Vec3
	}{
		{"straight up is zenith", core.NewVec3(0, 5, 0), scene.SkyBlue},
		{"straight down is horizon", core.NewVec3(0, -2, 0), scene.White},
		{"level is halfway", core.NewVec3(1, 0, 0), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pt.RayColor(core.NewRay(core.Vec3{}, tt.direction), sc, sampler, 5)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("unexpected sky color (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPathTracer_CustomSky(t *testing.T) {
	sc := scene.NewScene(geometry.CameraConfig{})
	sc.SkyZenith = core.NewVec3(0, 0, 1)
	sc.SkyHorizon = core.NewVec3(1, 0, 0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	got := NewPathTracer().RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), sc, sampler, 1)
	if got != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected zenith color, got %v", got)
	}
}

func TestPathTracer_AbsorbedPathIsBlack(t *testing.T) {
	sc := createTestScene(t, absorber{})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))
	pt := NewPathTracer()
	pt.TruncatedColor = core.NewVec3(1, 1, 1)

	got := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, sampler, 10)
	if got != (core.Vec3{}) {
		t.Errorf("Expected black for absorbed path, got %v", got)
	}
}

func TestPathTracer_AttenuationMultipliesRecursiveColor(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.25, 1)
	sc := createTestScene(t, mirrorUp{albedo: albedo})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))
	pt := NewPathTracer()
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	// One bounce then sky straight up
	got := pt.RayColor(ray, sc, sampler, 2)
	if diff := cmp.Diff(albedo.MultiplyVec(scene.SkyBlue), got, approx); diff != "" {
		t.Errorf("unexpected color (-want +got):\n%s", diff)
	}

	// Bounce budget exhausted after the hit
	pt.TruncatedColor = core.NewVec3(1, 1, 1)
	if got := pt.RayColor(ray, sc, sampler, 1); got != albedo {
		t.Errorf("Expected attenuation times truncated color %v, got %v", albedo, got)
	}
}

func TestPathTracer_RedSphereDepthOne(t *testing.T) {
	sc := createTestScene(t, material.NewLambertian(core.NewVec3(1, 0, 0)))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(9)))
	pt := NewPathTracer()
	pt.TruncatedColor = core.NewVec3(1, 1, 1)

	got := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, sampler, 1)
	if got != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected pure red, got %v", got)
	}
}

func TestPathTracer_ColorsStayFinite(t *testing.T) {
	sc, err := scene.NewShowcaseScene()
	if err != nil {
		t.Fatal(err)
	}
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(3)))
	pt := NewPathTracer()
	var rec material.HitRecord

	for i := 0; i < 2000; i++ {
		dir := core.SampleUnitVector(sampler)
		c := pt.Trace(core.NewRay(core.NewVec3(7, 4, 7), dir), sc, sampler, &rec, 50)
		for _, ch := range []float64{c.X, c.Y, c.Z} {
			if math.IsNaN(ch) || math.IsInf(ch, 0) || ch < 0 || ch > 1 {
				t.Fatalf("Sample %d produced color %v", i, c)
			}
		}
	}
}
