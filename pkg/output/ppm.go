package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PPMWriter writes plain-text P3 images: a "P3", "<width> <height>", "255" header followed
// by one "R G B" line per pixel in row-major order
type PPMWriter struct {
	w       *bufio.Writer
	tracker rowTracker
}

// NewPPMWriter creates a PPM writer on top of w
func NewPPMWriter(w io.Writer) *PPMWriter {
	return &PPMWriter{w: bufio.NewWriter(w)}
}

// Begin writes the header
func (p *PPMWriter) Begin(width, height int) error {
	if err := p.tracker.begin(width, height); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.w, "P3\n%d %d\n255\n", width, height)
	return err
}

// WriteRow writes one line per pixel
func (p *PPMWriter) WriteRow(y int, pixels []core.Vec3) error {
	if err := p.tracker.row(y, pixels); err != nil {
		return err
	}
	for _, c := range pixels {
		if _, err := fmt.Fprintf(p.w, "%d %d %d\n",
			QuantizeChannel(c.X), QuantizeChannel(c.Y), QuantizeChannel(c.Z)); err != nil {
			return err
		}
	}
	return nil
}

// End flushes buffered output
func (p *PPMWriter) End() error {
	if err := p.tracker.end(); err != nil {
		return err
	}
	return p.w.Flush()
}
