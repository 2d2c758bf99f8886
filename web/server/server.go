// Package server exposes the renderer over HTTP: scene listing, single-image renders and
// pixel inspection.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Request limits
const (
	MaxWidth   = 2000
	MaxSamples = 10000
	MaxDepth   = 1000
)

// Server handles web requests for the path tracer
type Server struct {
	echo     *echo.Echo
	sceneDir string
	workers  int
}

// NewServer creates a server. Scene files in sceneDir, when set, can be requested by name.
func NewServer(sceneDir string, workers int) *Server {
	s := &Server{
		echo:     echo.New(),
		sceneDir: sceneDir,
		workers:  workers,
	}
	s.echo.HideBanner = true
	s.echo.Use(corsMiddleware)

	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/scene-config", s.handleSceneConfig)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/inspect", s.handleInspect)
	return s
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		glog.Infof("Starting web server on %s", addr)
		errc <- s.echo.Start(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		if err := s.echo.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("while shutting down: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SceneEntry is one scene in the /api/scenes listing
type SceneEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"` // "builtin" or "file"
}

func (s *Server) handleScenes(c echo.Context) error {
	var entries []SceneEntry
	for _, info := range scene.ListScenes() {
		entries = append(entries, SceneEntry{
			ID:          info.Name,
			Name:        info.Name,
			Description: info.Description,
			Type:        "builtin",
		})
	}

	if s.sceneDir != "" {
		files, err := loaders.DiscoverSceneFiles(s.sceneDir)
		if err != nil {
			glog.Warningf("Listing scene files: %v", err)
		}
		for _, f := range files {
			entries = append(entries, SceneEntry{
				ID:          filepath.Base(f.FilePath),
				Name:        f.Name,
				Description: f.Description,
				Type:        "file",
			})
		}
	}

	return c.JSON(http.StatusOK, entries)
}

// createScene resolves a built-in scene name or a file in the scene directory
func (s *Server) createScene(name string) (*scene.Scene, error) {
	sc, err := scene.Build(name)
	if err == nil || !errors.Is(err, scene.ErrUnknownScene) {
		return sc, err
	}
	if s.sceneDir == "" {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return loaders.LoadSceneFile(filepath.Join(s.sceneDir, filepath.Base(name)))
	}
	return nil, err
}

func (s *Server) handleSceneConfig(c echo.Context) error {
	name := c.QueryParam("scene")
	if name == "" {
		name = "default"
	}
	sc, err := s.createScene(name)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	cfg := sc.CameraConfig
	return c.JSON(http.StatusOK, map[string]interface{}{
		"scene": name,
		"defaults": map[string]interface{}{
			"width":           cfg.Width,
			"height":          cfg.ImageHeight(),
			"samplesPerPixel": cfg.SamplesPerPixel,
			"maxDepth":        cfg.MaxDepth,
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": 1, "max": MaxWidth},
			"samplesPerPixel": map[string]int{"min": 1, "max": MaxSamples},
			"maxDepth":        map[string]int{"min": 1, "max": MaxDepth},
		},
	})
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string
	Width   int // 0 keeps the scene's width
	Samples int // 0 keeps the scene's samples per pixel
	Depth   int // 0 keeps the scene's max depth
	Seed    int64
	Format  string
}

func (s *Server) parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	req := &RenderRequest{
		Scene:  c.QueryParam("scene"),
		Format: strings.ToLower(c.QueryParam("format")),
	}
	if req.Scene == "" {
		req.Scene = "default"
	}
	switch req.Format {
	case "":
		req.Format = "png"
	case "png", "ppm":
	default:
		return nil, fmt.Errorf("unknown format %q", req.Format)
	}

	var err error
	if req.Width, err = parseIntParam(c, "width", 0, 1, MaxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(c, "samples", 0, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(c, "depth", 0, 1, MaxDepth); err != nil {
		return nil, err
	}
	if v := c.QueryParam("seed"); v != "" {
		if req.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed %q", v)
		}
	}
	return req, nil
}

// handleRender renders one image and returns it in the requested format
func (s *Server) handleRender(c echo.Context) error {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	sc, err := s.createScene(req.Scene)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	sc.CameraConfig = geometry.MergeCameraConfig(sc.CameraConfig, geometry.CameraConfig{
		Width:           req.Width,
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.Depth,
	})
	if sc.CameraConfig.Width > MaxWidth || sc.CameraConfig.ImageHeight() > MaxWidth {
		return jsonError(c, http.StatusBadRequest, fmt.Errorf("image larger than %d pixels on a side", MaxWidth))
	}

	rt, err := renderer.NewRaytracer(sc, integrator.NewPathTracer(), renderer.RenderConfig{
		Seed:       req.Seed,
		NumWorkers: s.workers,
	})
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	var buf bytes.Buffer
	var w renderer.ImageWriter
	contentType := "image/png"
	if req.Format == "ppm" {
		w = output.NewPPMWriter(&buf)
		contentType = "image/x-portable-pixmap"
	} else {
		w = output.NewPNGWriter(&buf)
	}

	// The request context stops the render when the client goes away
	stats, err := rt.Render(c.Request().Context(), w)
	if err != nil {
		glog.Errorf("Render of %q failed: %v", req.Scene, err)
		return jsonError(c, http.StatusInternalServerError, err)
	}
	glog.V(1).Infof("Served %q %dx%d in %v", req.Scene, stats.Width, stats.Height, stats.Elapsed)

	c.Response().Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

// parseIntParam reads an optional integer query parameter. Absent values give
// defaultValue; present values must lie in [min, max].
func parseIntParam(c echo.Context, key string, defaultValue, min, max int) (int, error) {
	str := c.QueryParam(key)
	if str == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, str)
	}
	if val < min || val > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return val, nil
}

func jsonError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}
