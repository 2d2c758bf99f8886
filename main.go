// pathtracer renders sphere scenes with a Monte Carlo path tracer and writes the result
// as a PPM or PNG image.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/web/server"
)

var cmdRoot = &cobra.Command{
	Use:   "pathtracer",
	Short: "Monte Carlo path tracer for sphere scenes",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// glog reads its settings from the Go flag set that cobra already filled in
		flag.CommandLine.Parse(nil)
	},
}

var cmdRender = &cobra.Command{
	Use:   "render",
	Short: "Render a built-in scene or a scene file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		return runRender(ctx)
	},
}

var (
	renderScene          string
	renderSceneFile      string
	renderWidth          int
	renderSamples        int
	renderDepth          int
	renderSeed           int64
	renderWorkers        int
	renderOutput         string
	renderFormat         string
	renderTruncatedColor string
)

func init() {
	cmdRender.Flags().StringVar(&renderScene, "scene", "default", "Built-in scene to render (see 'pathtracer scenes')")
	cmdRender.Flags().StringVar(&renderSceneFile, "scene-file", "", "YAML or JSON scene file, overrides --scene")
	cmdRender.Flags().IntVar(&renderWidth, "width", 0, "Image width in pixels, 0 keeps the scene's width")
	cmdRender.Flags().IntVar(&renderSamples, "samples", 0, "Samples per pixel, 0 keeps the scene's setting")
	cmdRender.Flags().IntVar(&renderDepth, "depth", 0, "Maximum bounce depth, 0 keeps the scene's setting")
	cmdRender.Flags().Int64Var(&renderSeed, "seed", 42, "Random seed; equal seeds give identical images")
	cmdRender.Flags().IntVar(&renderWorkers, "workers", 0, "Render workers, 0 uses one per CPU")
	cmdRender.Flags().StringVar(&renderOutput, "output", "", "Output file, '-' for stdout (default output/<scene>/render_<timestamp>.<format>)")
	cmdRender.Flags().StringVar(&renderFormat, "format", "", "Image format: ppm or png (default from the output extension, else ppm)")
	cmdRender.Flags().StringVar(&renderTruncatedColor, "truncated-color", "black", "Color of paths that run out of bounces: black, red or white")
}

var cmdScenes = &cobra.Command{
	Use:   "scenes",
	Short: "List built-in scenes and scene files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Built-in scenes:")
		for _, info := range scene.ListScenes() {
			fmt.Fprintf(out, "  %-14s %s\n", info.Name, info.Description)
		}

		if scenesDir == "" {
			return nil
		}
		files, err := loaders.DiscoverSceneFiles(scenesDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nScene files in %s:\n", scenesDir)
		for _, f := range files {
			fmt.Fprintf(out, "  %-30s %s  %s\n", f.FilePath, f.Name, f.Description)
		}
		return nil
	},
}

var scenesDir string

func init() {
	cmdScenes.Flags().StringVar(&scenesDir, "dir", "", "Directory to search for YAML or JSON scene files")
}

var cmdServe = &cobra.Command{
	Use:   "serve",
	Short: "Serve renders and pixel inspection over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		srv := server.NewServer(scenesDir, renderWorkers)
		glog.Infof("Visit http://localhost:%d/api/scenes to list scenes", servePort)
		return srv.Start(ctx, fmt.Sprintf(":%d", servePort))
	},
}

var servePort int

func init() {
	cmdServe.Flags().IntVar(&servePort, "port", 8080, "Port to serve on")
	cmdServe.Flags().StringVar(&scenesDir, "dir", "", "Directory of YAML or JSON scene files to offer")
	cmdServe.Flags().IntVar(&renderWorkers, "workers", 0, "Render workers per request, 0 uses one per CPU")
}

// createScene builds the built-in scene or loads the scene file when one is given
func createScene(sceneName, sceneFile string) (*scene.Scene, error) {
	if sceneFile != "" {
		return loaders.LoadSceneFile(sceneFile)
	}
	if sceneName == "" {
		return nil, fmt.Errorf("no scene given")
	}
	return scene.Build(sceneName)
}

// applyOverrides replaces scene camera settings with the nonzero command line values
func applyOverrides(config geometry.CameraConfig, width, samples, depth int) geometry.CameraConfig {
	return geometry.MergeCameraConfig(config, geometry.CameraConfig{
		Width:           width,
		SamplesPerPixel: samples,
		MaxDepth:        depth,
	})
}

func parseTruncatedColor(name string) (core.Vec3, error) {
	switch strings.ToLower(name) {
	case "black":
		return scene.Black, nil
	case "red":
		return scene.Red, nil
	case "white":
		return scene.White, nil
	}
	return core.Vec3{}, fmt.Errorf("unknown truncated color %q (want black, red or white)", name)
}

// resolveFormat picks the image format from the flag or the output file extension
func resolveFormat(format, path string) (string, error) {
	if format == "" {
		if strings.EqualFold(filepath.Ext(path), ".png") {
			return "png", nil
		}
		return "ppm", nil
	}
	switch f := strings.ToLower(format); f {
	case "ppm", "png":
		return f, nil
	}
	return "", fmt.Errorf("unknown image format %q (want ppm or png)", format)
}

func newImageWriter(format string, w io.Writer) renderer.ImageWriter {
	if format == "png" {
		return output.NewPNGWriter(w)
	}
	return output.NewPPMWriter(w)
}

// defaultOutputPath is output/<scene>/render_<timestamp>.<format>
func defaultOutputPath(sceneName, format string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.%s", timestamp, format))
}

// renderAndClose renders into out and closes it, reporting a failed close when the render
// itself succeeded
func renderAndClose(ctx context.Context, rt *renderer.Raytracer, format string, out io.WriteCloser) (renderer.RenderStats, error) {
	stats, err := rt.Render(ctx, newImageWriter(format, out))
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("while closing output: %w", cerr)
	}
	return stats, err
}

func runRender(ctx context.Context) error {
	sc, err := createScene(renderScene, renderSceneFile)
	if err != nil {
		return fmt.Errorf("while creating scene: %w", err)
	}
	sc.CameraConfig = applyOverrides(sc.CameraConfig, renderWidth, renderSamples, renderDepth)

	truncated, err := parseTruncatedColor(renderTruncatedColor)
	if err != nil {
		return err
	}
	pt := integrator.NewPathTracer()
	pt.TruncatedColor = truncated

	format, err := resolveFormat(renderFormat, renderOutput)
	if err != nil {
		return err
	}

	config := renderer.RenderConfig{
		Seed:       renderSeed,
		NumWorkers: renderWorkers,
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		config.OnRow = func(row, height int) {
			fmt.Fprintf(os.Stderr, "\rRendering line %d/%d", row+1, height)
			if row+1 == height {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	rt, err := renderer.NewRaytracer(sc, pt, config)
	if err != nil {
		return err
	}

	glog.Infof("Rendering %dx%d with %d samples per pixel",
		rt.Camera().ImageWidth(), rt.Camera().ImageHeight(), rt.Camera().SamplesPerPixel())

	path := renderOutput
	var stats renderer.RenderStats
	if path == "-" {
		stats, err = rt.Render(ctx, newImageWriter(format, os.Stdout))
	} else {
		if path == "" {
			name := renderScene
			if renderSceneFile != "" {
				base := filepath.Base(renderSceneFile)
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}
			path = defaultOutputPath(name, format, time.Now())
		}
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return fmt.Errorf("while creating output directory: %w", mkErr)
		}
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("while creating output file: %w", createErr)
		}
		stats, err = renderAndClose(ctx, rt, format, f)
	}
	if err != nil {
		return err
	}

	glog.Infof("Render completed in %v (%d samples, %d workers)", stats.Elapsed, stats.TotalSamples, stats.NumWorkers)
	if path != "-" {
		glog.Infof("Render saved as %s", path)
	}
	return nil
}

func main() {
	glog.CopyStandardLogTo("INFO")
	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmdRoot.AddCommand(cmdRender, cmdScenes, cmdServe)

	if err := cmdRoot.Execute(); err != nil {
		glog.Exitf("%v", err)
	}
}
