package output

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PNGWriter collects rows into an image and encodes it as PNG when the render ends
type PNGWriter struct {
	w       io.Writer
	img     *image.RGBA
	tracker rowTracker
}

// NewPNGWriter creates a PNG writer on top of w
func NewPNGWriter(w io.Writer) *PNGWriter {
	return &PNGWriter{w: w}
}

// Begin allocates the image
func (p *PNGWriter) Begin(width, height int) error {
	if err := p.tracker.begin(width, height); err != nil {
		return err
	}
	p.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// WriteRow stores one row of pixels
func (p *PNGWriter) WriteRow(y int, pixels []core.Vec3) error {
	if err := p.tracker.row(y, pixels); err != nil {
		return err
	}
	for x, c := range pixels {
		p.img.SetRGBA(x, y, color.RGBA{
			R: QuantizeChannel(c.X),
			G: QuantizeChannel(c.Y),
			B: QuantizeChannel(c.Z),
			A: 255,
		})
	}
	return nil
}

// End encodes the finished image
func (p *PNGWriter) End() error {
	if err := p.tracker.end(); err != nil {
		return err
	}
	return png.Encode(p.w, p.img)
}
