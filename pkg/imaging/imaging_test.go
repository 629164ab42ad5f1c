package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/videostab/pkg/ports"
)

func TestToGray(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	g := ToGray(src)

	if g.Bounds().Dx() != 4 || g.Bounds().Dy() != 4 {
		t.Fatalf("unexpected bounds %v", g.Bounds())
	}
	if g.GrayAt(1, 1).Y < 200 {
		t.Errorf("white pixel should stay bright, got %d", g.GrayAt(1, 1).Y)
	}
	if g.GrayAt(0, 0).Y != 0 {
		t.Errorf("black pixel should stay dark, got %d", g.GrayAt(0, 0).Y)
	}
}

func TestToGrayPassthrough(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	if ToGray(g) != g {
		t.Error("grayscale input should be returned as-is")
	}
}

func TestDownscale(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 64, 48))

	small := Downscale(g, 4)

	if small.Bounds().Dx() != 16 || small.Bounds().Dy() != 12 {
		t.Errorf("expected 16x12, got %v", small.Bounds())
	}
	if Downscale(g, 1) != g {
		t.Error("factor 1 should return the input")
	}
}

func TestGradientMagnitude(t *testing.T) {
	// Vertical step edge at x=8.
	g := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			g.SetGray(x, y, color.Gray{Y: 200})
		}
	}

	grad := GradientMagnitude(g)

	if grad.GrayAt(8, 8).Y == 0 {
		t.Error("expected non-zero gradient on the edge")
	}
	if grad.GrayAt(3, 8).Y != 0 {
		t.Error("expected zero gradient in the flat region")
	}
	if grad.GrayAt(0, 0).Y != 0 {
		t.Error("border pixels should be zero")
	}
}

func TestWarpAffineIdentity(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	src.Set(3, 5, color.RGBA{R: 120, G: 30, B: 60, A: 255})

	dst := WarpAffine(src, ports.Identity(), 8, 8)

	if dst.RGBAAt(3, 5) != src.RGBAAt(3, 5) {
		t.Errorf("identity warp changed pixel: %v vs %v", dst.RGBAAt(3, 5), src.RGBAAt(3, 5))
	}
}

func TestWarpAffineTranslation(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	src.Set(4, 4, color.RGBA{R: 255, A: 255})

	dst := WarpAffine(src, ports.Translation(3, 2), 16, 16)

	if dst.RGBAAt(7, 6).R < 200 {
		t.Errorf("expected translated pixel at (7,6), got %v", dst.RGBAAt(7, 6))
	}
}
