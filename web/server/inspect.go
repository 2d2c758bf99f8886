package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Label        string                 `json:"label,omitempty"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// centerSampler always returns the middle of the sample domain, which puts camera rays
// through pixel centers and lens origins at the lens center
type centerSampler struct{}

func (centerSampler) Get1D() float64 { return 0.5 }
func (centerSampler) Get2D() core.Vec2 {
	return core.NewVec2(0.5, 0.5)
}
func (centerSampler) Get3D() core.Vec3 {
	return core.NewVec3(0.5, 0.5, 0.5)
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = toArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = toArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// InspectResult describes the nearest surface seen through a pixel
type InspectResult struct {
	Hit       bool
	HitRecord material.HitRecord
	Object    scene.Object
}

// inspectPixel casts a ray through the center of pixel (x, y) and reports the first
// object hit
func inspectPixel(sc *scene.Scene, camera *geometry.Camera, x, y int) InspectResult {
	ray := camera.GetRay(y, x, centerSampler{})

	var rec material.HitRecord
	idx, ok := sc.HitObject(ray, core.NewInterval(integrator.ShadowAcneEpsilon, math.Inf(1)), &rec)
	if !ok {
		return InspectResult{}
	}
	return InspectResult{Hit: true, HitRecord: rec, Object: sc.Objects[idx]}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch shape.Kind {
	case geometry.KindSphere:
		properties["center"] = toArray(shape.Sphere.Center)
		properties["radius"] = shape.Sphere.Radius
	}
	return shape.Kind.String(), properties
}

// handleInspect reports what the camera sees through one pixel of a scene
func (s *Server) handleInspect(c echo.Context) error {
	name := c.QueryParam("scene")
	if name == "" {
		name = "default"
	}
	sc, err := s.createScene(name)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	width, err := parseIntParam(c, "width", 0, 1, MaxWidth)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	sc.CameraConfig = geometry.MergeCameraConfig(sc.CameraConfig, geometry.CameraConfig{Width: width})

	camera, err := geometry.NewCamera(sc.CameraConfig)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	x, err := parseIntParam(c, "x", -1, 0, camera.ImageWidth()-1)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	y, err := parseIntParam(c, "y", -1, 0, camera.ImageHeight()-1)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	if x < 0 || y < 0 {
		return jsonError(c, http.StatusBadRequest, fmt.Errorf("x and y are required"))
	}

	result := inspectPixel(sc, camera, x, y)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Object.Shape)

	properties := map[string]interface{}{
		"material":      materialProps,
		"geometry":      geometryProps,
		"materialIndex": result.Object.MaterialIndex,
	}

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		Label:        result.Object.Shape.Label,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        toArray(result.HitRecord.Point),
		Normal:       toArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties:   properties,
	})
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(v core.Vec3) string {
	c := v.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}
