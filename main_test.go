package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "ball.yaml")
	content := `
camera: {center: [0, 0, 0], lookAt: [0, 0, -1]}
materials: [{name: red, type: lambertian, albedo: [1, 0, 0]}]
spheres: [{center: [0, 0, -1], radius: 0.5, material: red}]
`
	if err := os.WriteFile(sceneFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		sceneName   string
		sceneFile   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", "", false},
		{"showcase scene", "showcase", "", false},
		{"shiny-metal scene", "shiny-metal", "", false},
		{"single-sphere scene", "single-sphere", "", false},

		// Scene files
		{"scene file", "", sceneFile, false},
		{"scene file wins over name", "nonexistent", sceneFile, false},

		// Invalid scenes
		{"unknown scene", "nonexistent", "", true},
		{"missing scene file", "", filepath.Join(dir, "missing.yaml"), true},
		{"empty scene name", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := createScene(tt.sceneName, tt.sceneFile)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error, but got none")
				}
				if sc != nil {
					t.Errorf("Expected nil scene, got %T", sc)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if sc.CameraConfig.Width <= 0 {
				t.Errorf("Scene camera width should be positive, got %d", sc.CameraConfig.Width)
			}
			if sc.GetPrimitiveCount() == 0 {
				t.Error("Scene has no objects")
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	base := geometry.CameraConfig{Width: 400, SamplesPerPixel: 40, MaxDepth: 50, VFov: 46}

	got := applyOverrides(base, 0, 0, 0)
	if got != base {
		t.Errorf("Zero overrides changed the config: %+v", got)
	}

	got = applyOverrides(base, 100, 4, 3)
	if got.Width != 100 || got.SamplesPerPixel != 4 || got.MaxDepth != 3 || got.VFov != 46 {
		t.Errorf("Unexpected overridden config: %+v", got)
	}
}

func TestParseTruncatedColor(t *testing.T) {
	tests := []struct {
		in      string
		want    core.Vec3
		wantErr bool
	}{
		{"black", scene.Black, false},
		{"RED", scene.Red, false},
		{"white", scene.White, false},
		{"purple", core.Vec3{}, true},
	}
	for _, tt := range tests {
		got, err := parseTruncatedColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTruncatedColor(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseTruncatedColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, path string
		want         string
		wantErr      bool
	}{
		{"", "out.png", "png", false},
		{"", "out.PNG", "png", false},
		{"", "out.ppm", "ppm", false},
		{"", "", "ppm", false},
		{"PNG", "out.ppm", "png", false},
		{"jpeg", "", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, %v", tt.format, tt.path, got, err)
		}
	}
}

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	want := filepath.Join("output", "default", "render_20240309_140507.ppm")
	if got := defaultOutputPath("default", "ppm", now); got != want {
		t.Errorf("defaultOutputPath = %q, want %q", got, want)
	}
}

// closeRecorder buffers output and fails Close with closeErr
type closeRecorder struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.closeErr
}

func TestRenderAndClose(t *testing.T) {
	sc, err := scene.NewSingleSphereScene()
	if err != nil {
		t.Fatal(err)
	}
	sc.CameraConfig = applyOverrides(sc.CameraConfig, 4, 1, 2)
	rt, err := renderer.NewRaytracer(sc, integrator.NewPathTracer(), renderer.RenderConfig{Seed: 1, NumWorkers: 1})
	if err != nil {
		t.Fatal(err)
	}

	ok := &closeRecorder{}
	stats, err := renderAndClose(context.Background(), rt, "ppm", ok)
	if err != nil {
		t.Fatalf("renderAndClose: %v", err)
	}
	if !ok.closed || stats.TotalPixels != 16 || !bytes.HasPrefix(ok.Bytes(), []byte("P3\n4 4\n255\n")) {
		t.Errorf("closed=%t stats=%+v output starts %q", ok.closed, stats, ok.Bytes()[:min(ok.Len(), 12)])
	}

	flushFailed := errors.New("short write on close")
	bad := &closeRecorder{closeErr: flushFailed}
	if _, err := renderAndClose(context.Background(), rt, "ppm", bad); !errors.Is(err, flushFailed) {
		t.Errorf("Expected close error, got %v", err)
	}
}
