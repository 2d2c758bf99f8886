package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrInvalidCamera is returned by CameraConfig.Validate
var ErrInvalidCamera = errors.New("invalid camera configuration")

// CameraConfig contains the placement and sampling parameters for a camera
type CameraConfig struct {
	Center          core.Vec3 // Eye position
	LookAt          core.Vec3 // Point the camera looks at
	Up              core.Vec3 // World up direction, (0,1,0) when zero
	Width           int       // Image width in pixels
	AspectRatio     float64   // Width / height
	VFov            float64   // Vertical field of view in degrees
	DefocusAngle    float64   // Cone angle in degrees subtended by the lens at the focus plane; 0 disables depth of field
	FocusDistance   float64   // Distance to the plane of perfect focus, 0 = distance from Center to LookAt
	SamplesPerPixel int       // Rays per pixel
	MaxDepth        int       // Maximum ray bounce depth
}

// MergeCameraConfig returns base with every non-zero field of override applied on top
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	var zero core.Vec3
	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	return result
}

// Validate checks the configuration before a camera is built from it
func (c CameraConfig) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("width %d must be positive: %w", c.Width, ErrInvalidCamera)
	case !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0):
		return fmt.Errorf("aspect ratio %g must be positive and finite: %w", c.AspectRatio, ErrInvalidCamera)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("vertical field of view %g must be in (0, 180) degrees: %w", c.VFov, ErrInvalidCamera)
	case !(c.DefocusAngle >= 0 && c.DefocusAngle < 180):
		return fmt.Errorf("defocus angle %g must be in [0, 180) degrees: %w", c.DefocusAngle, ErrInvalidCamera)
	case c.FocusDistance < 0:
		return fmt.Errorf("focus distance %g must not be negative: %w", c.FocusDistance, ErrInvalidCamera)
	case c.SamplesPerPixel < 1:
		return fmt.Errorf("samples per pixel %d must be at least 1: %w", c.SamplesPerPixel, ErrInvalidCamera)
	case c.MaxDepth < 1:
		return fmt.Errorf("max depth %d must be at least 1: %w", c.MaxDepth, ErrInvalidCamera)
	}

	view := c.Center.Subtract(c.LookAt)
	if view.NearZero() {
		return fmt.Errorf("camera center %v coincides with look-at point: %w", c.Center, ErrInvalidCamera)
	}
	if c.up().Cross(view).NearZero() {
		return fmt.Errorf("up vector %v is parallel to the view direction: %w", c.up(), ErrInvalidCamera)
	}
	return nil
}

func (c CameraConfig) up() core.Vec3 {
	if c.Up == (core.Vec3{}) {
		return core.NewVec3(0, 1, 0)
	}
	return c.Up
}

// ImageHeight derives the pixel height from width and aspect ratio (at least 1)
func (c CameraConfig) ImageHeight() int {
	return max(1, int(float64(c.Width)/c.AspectRatio))
}

// Camera generates primary rays. It is immutable once built and safe for concurrent use.
type Camera struct {
	config      CameraConfig
	imageHeight int
	center      core.Vec3
	pixel00     core.Vec3 // Center of the upper-left pixel
	pixelDeltaU core.Vec3 // Offset to the pixel to the right
	pixelDeltaV core.Vec3 // Offset to the pixel below
	u, v, w     core.Vec3 // Camera frame basis
	lensU       core.Vec3 // Defocus disk horizontal radius
	lensV       core.Vec3 // Defocus disk vertical radius
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	imageHeight := config.ImageHeight()

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	// Right-handed frame: w points back toward the eye
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.up().Cross(w).Normalize()
	v := w.Cross(u)

	h := math.Tan(core.DegreesToRadians(config.VFov) / 2)
	viewportHeight := 2 * h * focusDistance
	viewportWidth := viewportHeight * (float64(config.Width) / float64(imageHeight))

	// Image rows run top to bottom, so the vertical edge points down
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Multiply(-viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(config.Width))
	pixelDeltaV := viewportV.Divide(float64(imageHeight))

	viewportUpperLeft := config.Center.
		Subtract(w.Multiply(focusDistance)).
		Subtract(viewportU.Add(viewportV).Divide(2))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Divide(2))

	lensRadius := focusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle)/2)

	return &Camera{
		config:      config,
		imageHeight: imageHeight,
		center:      config.Center,
		pixel00:     pixel00,
		pixelDeltaU: pixelDeltaU,
		pixelDeltaV: pixelDeltaV,
		u:           u,
		v:           v,
		w:           w,
		lensU:       u.Multiply(lensRadius),
		lensV:       v.Multiply(lensRadius),
	}, nil
}

// GetRay returns a jittered ray through pixel (row, col). With a nonzero defocus angle the
// origin is sampled on the lens disk.
func (c *Camera) GetRay(row, col int, sampler core.Sampler) core.Ray {
	offsetV := sampler.Get1D() - 0.5
	offsetU := sampler.Get1D() - 0.5

	pixelSample := c.pixel00.
		Add(c.pixelDeltaV.Multiply(float64(row) + offsetV)).
		Add(c.pixelDeltaU.Multiply(float64(col) + offsetU))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		p := core.SampleInUnitDisk(sampler)
		origin = c.center.Add(c.lensU.Multiply(p.X)).Add(c.lensV.Multiply(p.Y))
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

// GetCameraForward returns the unit view direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// ImageWidth returns the image width in pixels
func (c *Camera) ImageWidth() int { return c.config.Width }

// ImageHeight returns the image height in pixels
func (c *Camera) ImageHeight() int { return c.imageHeight }

// SamplesPerPixel returns the number of rays averaged per pixel
func (c *Camera) SamplesPerPixel() int { return c.config.SamplesPerPixel }

// MaxDepth returns the bounce limit for each camera ray
func (c *Camera) MaxDepth() int { return c.config.MaxDepth }
