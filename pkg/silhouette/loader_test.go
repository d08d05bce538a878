package silhouette

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"silhouette3d/internal/models"
)

// createTestImage builds a grey image where only the top-left pixel is bright
func createTestImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: 50})
		}
	}
	img.SetGray(0, 0, color.Gray{Y: 200})
	return img
}

func TestToMaskFlipsRows(t *testing.T) {
	img := createTestImage(3, 4)

	mask := ToMask(img, Options{Level: 128})

	if mask.Width != 3 || mask.Height != 4 {
		t.Fatalf("Expected 3x4 mask, got %dx%d", mask.Width, mask.Height)
	}
	// raster row 0 is the top of the picture, which is mask row Height-1
	if !mask.At(0, 3) {
		t.Error("Expected top-left raster pixel at mask (0,3)")
	}
	if mask.At(0, 0) {
		t.Error("Mask (0,0) should be empty")
	}
	if got := mask.SolidCount(); got != 1 {
		t.Errorf("Expected 1 solid pixel, got %d", got)
	}
}

func TestToMaskInvert(t *testing.T) {
	img := createTestImage(3, 4)

	mask := ToMask(img, Options{Level: 128, Invert: true})

	if mask.At(0, 3) {
		t.Error("Bright pixel should be empty when inverted")
	}
	if got := mask.SolidCount(); got != 11 {
		t.Errorf("Expected 11 solid pixels, got %d", got)
	}
}

// TestToMaskTransparentBackground checks that transparent pixels count as dark
func TestToMaskTransparentBackground(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	mask := ToMask(img, Options{Level: 128})
	if got := mask.SolidCount(); got != 1 {
		t.Errorf("Expected 1 solid pixel, got %d", got)
	}
	if !mask.At(1, 1) {
		t.Error("Expected the opaque white pixel at mask (1,1)")
	}

	inverted := ToMask(img, Options{Level: 128, Invert: true})
	if got := inverted.SolidCount(); got != 15 {
		t.Errorf("Expected 15 solid pixels when inverted, got %d", got)
	}
	if inverted.At(1, 1) {
		t.Error("The white pixel should be empty when inverted")
	}
}

func TestAnnotate(t *testing.T) {
	mask := models.NewMaskFunc(2, 2, func(x, y int) bool { return y == 0 })
	unexplained := models.NewMaskFunc(2, 2, func(x, y int) bool { return x == 1 && y == 0 })
	p := NewPalette(false, color.RGBA{R: 255, B: 255, A: 255})

	img := Annotate(mask, unexplained, p)

	// mask row 0 is the bottom raster row
	if got := img.NRGBAAt(0, 1); got != p.Solid {
		t.Errorf("Expected solid colour at (0,1), got %v", got)
	}
	if got := img.NRGBAAt(1, 1); got != p.Marker {
		t.Errorf("Expected marker colour at (1,1), got %v", got)
	}
	if got := img.NRGBAAt(0, 0); got != p.Empty {
		t.Errorf("Expected empty colour at (0,0), got %v", got)
	}
	for _, c := range []color.NRGBA{img.NRGBAAt(0, 0), img.NRGBAAt(1, 0), img.NRGBAAt(0, 1), img.NRGBAAt(1, 1)} {
		if c.A != 255 {
			t.Errorf("Expected opaque pixel, got alpha %d", c.A)
		}
	}
}

func TestNewPaletteForcesOpaqueMarker(t *testing.T) {
	p := NewPalette(true, color.NRGBA{R: 255, G: 0, B: 255, A: 10})
	if p.Marker.A != 255 {
		t.Errorf("Expected opaque marker, got alpha %d", p.Marker.A)
	}
	if p.Solid != (color.NRGBA{A: 255}) {
		t.Errorf("Expected black solid pixels when inverted, got %v", p.Solid)
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "top.png")
	if err := imaging.Save(createTestImage(5, 6), in); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	mask, err := Load(in, Options{Level: 128})
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if mask.Width != 5 || mask.Height != 6 || !mask.At(0, 5) {
		t.Errorf("Unexpected mask %dx%d", mask.Width, mask.Height)
	}

	out := OutputPath(in, "_Error_XY", ".png")
	if err := Save(out, Annotate(mask, nil, NewPalette(false, color.White))); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Annotated image missing: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png"), Options{Level: 128}); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"views/top.png", "views/top_Model.stl"},
		{"top", "top_Model.stl"},
		{".png", ".png_Model.stl"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, "_Model", ".stl"); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
