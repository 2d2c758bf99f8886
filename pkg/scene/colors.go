package scene

import "github.com/df07/go-pathtracer/pkg/core"

// Named colors shared by the built-in scenes
var (
	SkyBlue = core.NewVec3(0.5, 0.7, 1.0)
	White   = core.NewVec3(1.0, 1.0, 1.0)
	Black   = core.NewVec3(0.0, 0.0, 0.0)
	Red     = core.NewVec3(1.0, 0.0, 0.0)
	Green   = ColorRGB(50, 200, 90)
	Pink    = ColorRGB(255, 192, 203)
)

// ColorRGB converts 8-bit channel values to a linear color in [0,1]
func ColorRGB(r, g, b uint8) core.Vec3 {
	return core.NewVec3(float64(r)/255.0, float64(g)/255.0, float64(b)/255.0)
}
