// Package corraligner estimates inter-frame translation by correlating
// gradient magnitude images. The search runs coarse-to-fine: an exhaustive
// scan on a downscaled level followed by a local refinement at full
// resolution.
package corraligner

import (
	"fmt"
	"image"

	"github.com/user/videostab/pkg/imaging"
	"github.com/user/videostab/pkg/ports"
)

const (
	// DefaultMaxShift is the largest translation, in pixels, the search covers.
	DefaultMaxShift = 32

	// coarseMaxDim bounds the longer side of the downscaled search level.
	coarseMaxDim = 128

	// minFrameDim is the smallest frame side the search can work with.
	minFrameDim = 16
)

// Options configures the correlation aligner.
type Options struct {
	// MaxShift is the search radius in pixels. Zero means DefaultMaxShift.
	MaxShift int
}

// Aligner implements ports.FrameAligner with a translation-only model.
type Aligner struct {
	maxShift int
}

// New creates a correlation aligner.
func New(opts Options) *Aligner {
	maxShift := opts.MaxShift
	if maxShift <= 0 {
		maxShift = DefaultMaxShift
	}
	return &Aligner{maxShift: maxShift}
}

// Name returns the strategy tag used in output file names.
func (a *Aligner) Name() string {
	return "CORR"
}

// EstimateTransform finds the translation that best maps moving onto fixed.
func (a *Aligner) EstimateTransform(moving, fixed image.Image) (ports.Transform, error) {
	mw, mh := moving.Bounds().Dx(), moving.Bounds().Dy()
	fw, fh := fixed.Bounds().Dx(), fixed.Bounds().Dy()
	if mw != fw || mh != fh {
		return ports.Transform{}, fmt.Errorf("%w: frame dimensions differ (%dx%d vs %dx%d)", ports.ErrAlignment, mw, mh, fw, fh)
	}
	if mw < minFrameDim || mh < minFrameDim {
		return ports.Transform{}, fmt.Errorf("%w: frame %dx%d too small for correlation", ports.ErrAlignment, mw, mh)
	}

	movGrad := imaging.GradientMagnitude(imaging.ToGray(moving))
	fixGrad := imaging.GradientMagnitude(imaging.ToGray(fixed))

	factor := 1
	for mw/factor > coarseMaxDim || mh/factor > coarseMaxDim {
		factor *= 2
	}

	dx, dy := 0, 0
	if factor > 1 {
		radius := a.maxShift / factor
		if radius < 1 {
			radius = 1
		}
		cdx, cdy, ok := bestShift(imaging.Downscale(movGrad, factor), imaging.Downscale(fixGrad, factor), 0, 0, radius)
		if !ok {
			return ports.Transform{}, fmt.Errorf("%w: no usable overlap at coarse level", ports.ErrAlignment)
		}
		dx, dy = cdx*factor, cdy*factor
	}

	radius := factor
	if factor == 1 {
		radius = a.maxShift
	}
	dx, dy, ok := bestShift(movGrad, fixGrad, dx, dy, radius)
	if !ok {
		return ports.Transform{}, fmt.Errorf("%w: no usable overlap between frames", ports.ErrAlignment)
	}

	return ports.Translation(float64(dx), float64(dy)), nil
}

// Warp applies the transform to a frame, producing a width x height image.
func (a *Aligner) Warp(frame image.Image, t ports.Transform, width, height int) image.Image {
	return imaging.WarpAffine(frame, t, width, height)
}

// bestShift scans shifts (cx+dx, cy+dy) for dx, dy in [-radius, radius] and
// returns the one minimizing the mean absolute difference between the moving
// image displaced by the shift and the fixed image. The overlap must cover at
// least a quarter of the frame for a shift to count.
func bestShift(moving, fixed *image.Gray, cx, cy, radius int) (int, int, bool) {
	w, h := fixed.Bounds().Dx(), fixed.Bounds().Dy()
	minOverlap := w * h / 4

	bestDx, bestDy := 0, 0
	bestScore := -1.0
	found := false

	for dy := cy - radius; dy <= cy+radius; dy++ {
		for dx := cx - radius; dx <= cx+radius; dx++ {
			sum, count := 0, 0
			for y := 0; y < h; y++ {
				sy := y - dy
				if sy < 0 || sy >= h {
					continue
				}
				fixRow := fixed.Pix[y*fixed.Stride:]
				movRow := moving.Pix[sy*moving.Stride:]
				for x := 0; x < w; x++ {
					sx := x - dx
					if sx < 0 || sx >= w {
						continue
					}
					d := int(movRow[sx]) - int(fixRow[x])
					if d < 0 {
						d = -d
					}
					sum += d
					count++
				}
			}
			if count < minOverlap {
				continue
			}
			score := float64(sum) / float64(count)
			if !found || score < bestScore {
				found = true
				bestScore = score
				bestDx, bestDy = dx, dy
			}
		}
	}
	return bestDx, bestDy, found
}

// Ensure Aligner implements ports.FrameAligner
var _ ports.FrameAligner = (*Aligner)(nil)
