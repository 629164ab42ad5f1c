package ffmpegencoder

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/videostab/pkg/ports"
)

func TestBeginRejectsInvalidSession(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		height    int
		fps       float64
		container string
	}{
		{"zero width", 0, 100, 30, "mp4"},
		{"zero height", 100, 0, 30, "mp4"},
		{"zero fps", 100, 100, 0, "mp4"},
		{"negative fps", 100, 100, -1, "mp4"},
		{"unknown container", 100, 100, 30, "mkv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			err := e.Begin(tt.width, tt.height, tt.fps, ports.EncoderOptions{Container: tt.container})
			if err == nil {
				e.End()
				t.Error("expected Begin to fail")
			}
		})
	}
}

func TestEncodeFrameWithoutSession(t *testing.T) {
	e := New()

	err := e.EncodeFrame(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err == nil {
		t.Error("expected error without Begin")
	}
}

func TestEndWithoutSession(t *testing.T) {
	e := New()

	if _, err := e.End(); err == nil {
		t.Error("expected error without Begin")
	}
}

func TestToRGBAPassthrough(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))

	if toRGBA(src, 8, 6) != src {
		t.Error("origin-anchored RGBA should be returned as-is")
	}
}

func TestToRGBAConvertsOtherFormats(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 6))
	gray.SetGray(2, 3, color.Gray{Y: 200})

	out := toRGBA(gray, 8, 6)

	if out.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Errorf("unexpected bounds %v", out.Bounds())
	}
	px := out.RGBAAt(2, 3)
	if px.R != 200 || px.G != 200 || px.B != 200 || px.A != 255 {
		t.Errorf("unexpected pixel %v", px)
	}
}

func TestToRGBANormalizesOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 18, 16))
	src.Set(12, 13, color.RGBA{R: 99, A: 255})

	out := toRGBA(src, 8, 6)

	if out.Bounds().Min != (image.Point{}) {
		t.Errorf("expected origin-anchored output, got %v", out.Bounds())
	}
	if out.RGBAAt(2, 3).R != 99 {
		t.Error("pixel content should be preserved relative to the origin")
	}
}
