package material

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Unassigned occupies slot 0 of a scene's material pool. It only stands in for a real
// material before the first hit is recorded; scattering off it means a shape was never
// bound to a material.
type Unassigned struct{}

// Scatter panics: there is no meaningful response for an unbound surface.
func (Unassigned) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	panic(fmt.Sprintf("material: no material assigned for hit at t=%g point=%v", hit.T, hit.Point))
}
