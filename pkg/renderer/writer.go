package renderer

import "github.com/df07/go-pathtracer/pkg/core"

// ImageWriter receives finished pixels from a render.
// Begin is called once, then WriteRow for each row from top (y = 0) to bottom, then End.
// End is not called when the render fails.
type ImageWriter interface {
	Begin(width, height int) error
	// WriteRow receives sample-averaged, gamma-corrected colors, one per column.
	// The slice is only valid for the duration of the call.
	WriteRow(y int, pixels []core.Vec3) error
	End() error
}
