// Package imaging provides the shared raster operations used by the aligner
// adapters: grayscale conversion, downscaling, gradient images, and affine
// warping.
package imaging

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/user/videostab/pkg/ports"
)

// ToGray converts an image to 8-bit grayscale.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// Downscale resizes a grayscale image by an integer factor using bilinear
// filtering. A factor of 1 returns the input unchanged.
func Downscale(g *image.Gray, factor int) *image.Gray {
	if factor <= 1 {
		return g
	}
	w := g.Bounds().Dx() / factor
	h := g.Bounds().Dy() / factor
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), g, g.Bounds(), draw.Src, nil)
	return dst
}

// GradientMagnitude returns the per-pixel gradient magnitude of a grayscale
// image using central differences. Border pixels are zero.
func GradientMagnitude(g *image.Gray) *image.Gray {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := int(g.GrayAt(x+1, y).Y) - int(g.GrayAt(x-1, y).Y)
			gy := int(g.GrayAt(x, y+1).Y) - int(g.GrayAt(x, y-1).Y)
			if gx < 0 {
				gx = -gx
			}
			if gy < 0 {
				gy = -gy
			}
			m := gx + gy
			if m > 255 {
				m = 255
			}
			out.Pix[out.PixOffset(x, y)] = uint8(m)
		}
	}
	return out
}

// WarpAffine resamples src through the transform into a width x height RGBA
// output using bilinear interpolation. Areas without source coverage stay
// transparent black.
func WarpAffine(src image.Image, t ports.Transform, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	m := f64.Aff3{t.A, t.C, t.Tx, t.B, t.D, t.Ty}
	draw.BiLinear.Transform(dst, m, src, src.Bounds(), draw.Src, nil)
	return dst
}
