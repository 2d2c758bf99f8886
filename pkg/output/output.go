// Package output writes rendered rows to image files.
package output

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrRowOrder is returned when rows arrive out of order, with the wrong width, or before Begin
var ErrRowOrder = errors.New("row out of sequence")

// QuantizeChannel maps a color channel in [0,1] to a byte, clamping values outside the range
func QuantizeChannel(c float64) uint8 {
	return uint8(max(0, min(1, c)) * 255.999)
}

// rowTracker enforces the Begin / WriteRow / End protocol shared by every writer
type rowTracker struct {
	width, height int
	next          int
	begun         bool
}

func (t *rowTracker) begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image size %dx%d must be positive", width, height)
	}
	*t = rowTracker{width: width, height: height, begun: true}
	return nil
}

func (t *rowTracker) row(y int, pixels []core.Vec3) error {
	switch {
	case !t.begun:
		return fmt.Errorf("row %d written before Begin: %w", y, ErrRowOrder)
	case y != t.next:
		return fmt.Errorf("got row %d, expected row %d: %w", y, t.next, ErrRowOrder)
	case len(pixels) != t.width:
		return fmt.Errorf("row %d has %d pixels, expected %d: %w", y, len(pixels), t.width, ErrRowOrder)
	}
	t.next++
	return nil
}

func (t *rowTracker) end() error {
	if !t.begun {
		return fmt.Errorf("End called before Begin: %w", ErrRowOrder)
	}
	if t.next != t.height {
		return fmt.Errorf("image ended after %d of %d rows: %w", t.next, t.height, ErrRowOrder)
	}
	return nil
}
