package renderer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestSplitRow(t *testing.T) {
	tests := []struct {
		name  string
		width int
		n     int
		want  [][2]int
	}{
		{"even", 4, 2, [][2]int{{0, 2}, {2, 4}}},
		{"uneven", 5, 2, [][2]int{{0, 2}, {2, 5}}},
		{"more workers than columns", 2, 8, [][2]int{{0, 1}, {1, 2}}},
		{"single worker", 3, 1, [][2]int{{0, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, splitRow(tt.width, tt.n)); diff != "" {
				t.Errorf("unexpected spans (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPixelSeed_Distinct(t *testing.T) {
	seen := make(map[int64]bool)
	for row := 0; row < 64; row++ {
		for col := 0; col < 64; col++ {
			s := PixelSeed(1, row, col)
			if seen[s] {
				t.Fatalf("Seed collision at (%d,%d)", row, col)
			}
			seen[s] = true
		}
	}
	if PixelSeed(1, 2, 3) == PixelSeed(1, 3, 2) {
		t.Error("Transposed pixels share a seed")
	}
	if PixelSeed(1, 0, 0) == PixelSeed(2, 0, 0) {
		t.Error("Render seed ignored")
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if got := ps.GetColor(); got != (core.Vec3{}) {
		t.Errorf("Empty pixel should be black, got %v", got)
	}
	ps.AddSample(core.NewVec3(1, 1, 1))
	ps.AddSample(core.NewVec3(0, 0, 0))
	if got := ps.GetColor(); got != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Expected average %v, got %v", core.NewVec3(0.5, 0.5, 0.5), got)
	}
	ps.Reset()
	if ps.SampleCount != 0 {
		t.Error("Reset left samples behind")
	}
}
