package material

import "github.com/df07/go-pathtracer/pkg/core"

// fixedSampler replays the same values on every call
type fixedSampler struct {
	value1D float64
	value3D core.Vec3
}

func (s fixedSampler) Get1D() float64 { return s.value1D }

func (s fixedSampler) Get2D() core.Vec2 { return core.NewVec2(s.value1D, s.value1D) }

func (s fixedSampler) Get3D() core.Vec3 { return s.value3D }

// cubeSample returns the Get3D value that SampleUnitVector maps to the unit vector d
func cubeSample(d core.Vec3) core.Vec3 {
	return core.NewVec3((d.X+1)/2, (d.Y+1)/2, (d.Z+1)/2)
}
