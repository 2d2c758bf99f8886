package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderConfig contains the parameters of a render that are not part of the scene
type RenderConfig struct {
	Seed       int64 // Base seed; each pixel derives its own from this
	NumWorkers int   // Parallel workers, <= 0 means one per CPU

	// OnRow, when set, is called after each row has been written
	OnRow func(row, height int)
}

// Raytracer renders a scene row by row through a worker pool
type Raytracer struct {
	scene      *scene.Scene
	camera     *geometry.Camera
	integrator integrator.Integrator
	config     RenderConfig
}

// NewRaytracer creates a raytracer for the scene, building the camera from the scene's
// camera configuration
func NewRaytracer(sc *scene.Scene, integ integrator.Integrator, config RenderConfig) (*Raytracer, error) {
	camera, err := geometry.NewCamera(sc.CameraConfig)
	if err != nil {
		return nil, fmt.Errorf("while building camera: %w", err)
	}
	return &Raytracer{
		scene:      sc,
		camera:     camera,
		integrator: integ,
		config:     config,
	}, nil
}

// Camera returns the camera the raytracer shoots primary rays from
func (rt *Raytracer) Camera() *geometry.Camera {
	return rt.camera
}

// finishedRow is a fully rendered row waiting for the writer
type finishedRow struct {
	y      int
	pixels []core.Vec3
}

// Render traces every pixel and hands rows to w strictly from top to bottom.
// Identical seeds and scenes produce identical pixels whatever the worker count.
func (rt *Raytracer) Render(ctx context.Context, w ImageWriter) (RenderStats, error) {
	width, height := rt.camera.ImageWidth(), rt.camera.ImageHeight()

	pool := NewWorkerPool(rt.scene, rt.camera, rt.integrator, rt.config.Seed, rt.config.NumWorkers)
	stats := RenderStats{
		Width:      width,
		Height:     height,
		NumWorkers: pool.GetNumWorkers(),
	}

	glog.V(1).Infof("Rendering %dx%d, %d samples per pixel, depth %d, %d workers, %d objects",
		width, height, rt.camera.SamplesPerPixel(), rt.camera.MaxDepth(), stats.NumWorkers,
		rt.scene.GetPrimitiveCount())

	if err := w.Begin(width, height); err != nil {
		return stats, fmt.Errorf("while starting image: %w", err)
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	rows := make(chan finishedRow, 1)

	g.Go(func() error {
		pool.Start()
		defer pool.Stop()

		spans := splitRow(width, pool.GetNumWorkers())
		for y := 0; y < height; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			pixels := make([]core.Vec3, width)
			for i, span := range spans {
				pool.SubmitTask(SpanTask{
					Row:      y,
					StartCol: span[0],
					Pixels:   pixels[span[0]:span[1]],
					TaskID:   i,
				})
			}

			// Row barrier
			var errs []error
			for range spans {
				result, _ := pool.GetResult()
				if result.Error != nil {
					errs = append(errs, result.Error)
				}
				stats.TotalSamples += result.Samples
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}

			select {
			case rows <- finishedRow{y: y, pixels: pixels}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		close(rows)
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case row, ok := <-rows:
				if !ok {
					return nil
				}
				if err := w.WriteRow(row.y, row.pixels); err != nil {
					return fmt.Errorf("while writing row %d: %w", row.y, err)
				}
				stats.TotalPixels += len(row.pixels)
				glog.V(2).Infof("Rendered row %d of %d", row.y+1, height)
				if rt.config.OnRow != nil {
					rt.config.OnRow(row.y, height)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("while rendering: %w", err)
	}
	stats.Elapsed = time.Since(start)

	if err := w.End(); err != nil {
		return stats, fmt.Errorf("while finishing image: %w", err)
	}

	glog.V(1).Infof("Rendered %d samples in %v (%.0f samples/s)",
		stats.TotalSamples, stats.Elapsed, stats.SamplesPerSecond())
	return stats, nil
}
