package models

import (
	"testing"
)

func TestNewMask(t *testing.T) {
	pixels := []bool{true, false, false, true, true, false}
	mask, err := NewMask(3, 2, pixels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// the mask keeps its own copy
	pixels[0] = false
	if !mask.At(0, 0) {
		t.Error("Mask changed after the input slice was modified")
	}
	if !mask.At(0, 1) || mask.At(2, 1) {
		t.Error("Row-major layout not respected")
	}
	if mask.At(3, 0) || mask.At(-1, 0) {
		t.Error("Out of range pixels must be empty")
	}
	if mask.SolidCount() != 3 {
		t.Errorf("Expected 3 solid pixels, got %d", mask.SolidCount())
	}

	if _, err := NewMask(3, 3, pixels); err == nil {
		t.Error("Expected error for wrong pixel count")
	}
}

func TestMaskRow(t *testing.T) {
	mask := NewMaskFunc(3, 2, func(x, y int) bool { return x == y })

	for y := 0; y < mask.Height; y++ {
		row := mask.Row(y)
		if len(row) != mask.Width {
			t.Fatalf("Row %d: expected %d pixels, got %d", y, mask.Width, len(row))
		}
		for x, solid := range row {
			if solid != mask.At(x, y) {
				t.Errorf("Row %d pixel %d does not match At", y, x)
			}
		}
	}
}

func TestGridIndex(t *testing.T) {
	g := NewGrid(2, 3, 4)

	if len(g.Voxels) != 24 {
		t.Fatalf("Expected 24 voxels, got %d", len(g.Voxels))
	}
	if got := g.Index(1, 2, 3); got != 3+4*(2+3*1) {
		t.Errorf("Unexpected index %d", got)
	}

	g.Voxels[g.Index(1, 0, 2)] = true
	if !g.At(1, 0, 2) || g.At(0, 0, 2) {
		t.Error("At does not follow Index")
	}
	if g.At(2, 0, 0) || g.At(0, -1, 0) {
		t.Error("Cells outside the grid must be empty")
	}
	if g.SolidCount() != 1 {
		t.Errorf("Expected 1 solid voxel, got %d", g.SolidCount())
	}
}

func TestViewAxes(t *testing.T) {
	tests := []struct {
		view    View
		name    string
		h, v, d int
	}{
		{ViewTop, "XY", 0, 1, 2},
		{ViewFront, "XZ", 0, 2, 1},
		{ViewSide, "ZY", 2, 1, 0},
	}
	for _, tt := range tests {
		h, v, d := tt.view.Axes()
		if h != tt.h || v != tt.v || d != tt.d {
			t.Errorf("%s: expected axes (%d,%d,%d), got (%d,%d,%d)", tt.name, tt.h, tt.v, tt.d, h, v, d)
		}
		if tt.view.String() != tt.name {
			t.Errorf("Expected name %s, got %s", tt.name, tt.view)
		}
	}
}
