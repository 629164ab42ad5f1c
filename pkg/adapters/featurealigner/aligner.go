// Package featurealigner estimates a full affine transform between frames.
// Corners are detected with the Harris response, matched by normalized
// cross-correlation of small patches, and the matches are fed into an affine
// least-squares fit.
package featurealigner

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/user/videostab/pkg/imaging"
	"github.com/user/videostab/pkg/ports"
)

const (
	// DefaultMaxCorners bounds the number of corners kept per frame.
	DefaultMaxCorners = 200

	// DefaultPatchRadius is the half-size of the matching patch.
	DefaultPatchRadius = 4

	// DefaultSearchRadius limits how far a corner may travel between frames.
	DefaultSearchRadius = 24

	// DefaultMinMatches is the smallest match count an affine fit accepts.
	DefaultMinMatches = 3

	// znccThreshold is the minimum correlation for a match to count.
	znccThreshold = 0.7

	// harrisK is the trace weight in the Harris response.
	harrisK = 0.04
)

// Options configures the feature aligner. Zero fields take their defaults.
type Options struct {
	MaxCorners   int
	PatchRadius  int
	SearchRadius int
	MinMatches   int
}

// Aligner implements ports.FrameAligner with an affine motion model.
type Aligner struct {
	maxCorners   int
	patchRadius  int
	searchRadius int
	minMatches   int
}

// New creates a feature aligner.
func New(opts Options) *Aligner {
	a := &Aligner{
		maxCorners:   opts.MaxCorners,
		patchRadius:  opts.PatchRadius,
		searchRadius: opts.SearchRadius,
		minMatches:   opts.MinMatches,
	}
	if a.maxCorners <= 0 {
		a.maxCorners = DefaultMaxCorners
	}
	if a.patchRadius <= 0 {
		a.patchRadius = DefaultPatchRadius
	}
	if a.searchRadius <= 0 {
		a.searchRadius = DefaultSearchRadius
	}
	if a.minMatches < DefaultMinMatches {
		a.minMatches = DefaultMinMatches
	}
	return a
}

// Name returns the strategy tag used in output file names.
func (a *Aligner) Name() string {
	return "FEAT"
}

type point struct {
	x, y int
}

type match struct {
	moving point
	fixed  point
}

// EstimateTransform fits an affine transform mapping moving onto fixed.
func (a *Aligner) EstimateTransform(moving, fixed image.Image) (ports.Transform, error) {
	mw, mh := moving.Bounds().Dx(), moving.Bounds().Dy()
	fw, fh := fixed.Bounds().Dx(), fixed.Bounds().Dy()
	if mw != fw || mh != fh {
		return ports.Transform{}, fmt.Errorf("%w: frame dimensions differ (%dx%d vs %dx%d)", ports.ErrAlignment, mw, mh, fw, fh)
	}

	movGray := imaging.ToGray(moving)
	fixGray := imaging.ToGray(fixed)

	corners := a.detectCorners(movGray)
	if len(corners) < a.minMatches {
		return ports.Transform{}, fmt.Errorf("%w: only %d corners detected, need %d", ports.ErrAlignment, len(corners), a.minMatches)
	}

	matches := a.matchCorners(movGray, fixGray, corners)
	if len(matches) < a.minMatches {
		return ports.Transform{}, fmt.Errorf("%w: only %d corner matches, need %d", ports.ErrAlignment, len(matches), a.minMatches)
	}

	t, ok := fitAffine(matches)
	if !ok {
		return ports.Transform{}, fmt.Errorf("%w: degenerate corner configuration", ports.ErrAlignment)
	}

	// Reject fits that imply implausible scale changes between frames.
	det := t.A*t.D - t.B*t.C
	if det < 0.5 || det > 2.0 {
		return ports.Transform{}, fmt.Errorf("%w: implausible affine fit (det %.3f)", ports.ErrAlignment, det)
	}
	return t, nil
}

// Warp applies the transform to a frame, producing a width x height image.
func (a *Aligner) Warp(frame image.Image, t ports.Transform, width, height int) image.Image {
	return imaging.WarpAffine(frame, t, width, height)
}

// detectCorners runs Harris detection with 5x5 non-maximum suppression and
// keeps the strongest responses.
func (a *Aligner) detectCorners(g *image.Gray) []point {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	margin := a.patchRadius + 2
	if w <= 2*margin || h <= 2*margin {
		return nil
	}

	ix := make([]float64, w*h)
	iy := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			ix[y*w+x] = float64(int(g.GrayAt(x+1, y).Y)-int(g.GrayAt(x-1, y).Y)) / 2
			iy[y*w+x] = float64(int(g.GrayAt(x, y+1).Y)-int(g.GrayAt(x, y-1).Y)) / 2
		}
	}

	// Harris response with a 5x5 box window.
	response := make([]float64, w*h)
	maxResponse := 0.0
	for y := margin; y < h-margin; y++ {
		for x := margin; x < w-margin; x++ {
			var sxx, syy, sxy float64
			for wy := -2; wy <= 2; wy++ {
				for wx := -2; wx <= 2; wx++ {
					gx := ix[(y+wy)*w+x+wx]
					gy := iy[(y+wy)*w+x+wx]
					sxx += gx * gx
					syy += gy * gy
					sxy += gx * gy
				}
			}
			r := sxx*syy - sxy*sxy - harrisK*(sxx+syy)*(sxx+syy)
			response[y*w+x] = r
			if r > maxResponse {
				maxResponse = r
			}
		}
	}
	if maxResponse <= 0 {
		return nil
	}

	threshold := 0.01 * maxResponse
	var corners []point
	for y := margin; y < h-margin; y++ {
		for x := margin; x < w-margin; x++ {
			r := response[y*w+x]
			if r < threshold {
				continue
			}
			localMax := true
			for wy := -2; wy <= 2 && localMax; wy++ {
				for wx := -2; wx <= 2; wx++ {
					if wy == 0 && wx == 0 {
						continue
					}
					if response[(y+wy)*w+x+wx] > r {
						localMax = false
						break
					}
				}
			}
			if localMax {
				corners = append(corners, point{x, y})
			}
		}
	}

	sort.Slice(corners, func(i, j int) bool {
		return response[corners[i].y*w+corners[i].x] > response[corners[j].y*w+corners[j].x]
	})
	if len(corners) > a.maxCorners {
		corners = corners[:a.maxCorners]
	}
	return corners
}

// matchCorners finds, for each moving corner, the fixed-frame position with
// the highest patch correlation inside the search window.
func (a *Aligner) matchCorners(movGray, fixGray *image.Gray, corners []point) []match {
	w, h := fixGray.Bounds().Dx(), fixGray.Bounds().Dy()
	r := a.patchRadius

	var matches []match
	for _, c := range corners {
		best := point{}
		bestScore := znccThreshold
		found := false
		for dy := -a.searchRadius; dy <= a.searchRadius; dy++ {
			for dx := -a.searchRadius; dx <= a.searchRadius; dx++ {
				fx, fy := c.x+dx, c.y+dy
				if fx < r || fx >= w-r || fy < r || fy >= h-r {
					continue
				}
				score := zncc(movGray, c.x, c.y, fixGray, fx, fy, r)
				if score > bestScore {
					bestScore = score
					best = point{fx, fy}
					found = true
				}
			}
		}
		if found {
			matches = append(matches, match{moving: c, fixed: best})
		}
	}
	return matches
}

// zncc computes the zero-mean normalized cross-correlation of two square
// patches. Flat patches correlate to zero.
func zncc(a *image.Gray, ax, ay int, b *image.Gray, bx, by int, radius int) float64 {
	n := float64((2*radius + 1) * (2*radius + 1))
	var sumA, sumB float64
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			sumA += float64(a.GrayAt(ax+dx, ay+dy).Y)
			sumB += float64(b.GrayAt(bx+dx, by+dy).Y)
		}
	}
	meanA, meanB := sumA/n, sumB/n

	var num, varA, varB float64
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			da := float64(a.GrayAt(ax+dx, ay+dy).Y) - meanA
			db := float64(b.GrayAt(bx+dx, by+dy).Y) - meanB
			num += da * db
			varA += da * da
			varB += db * db
		}
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return num / math.Sqrt(varA*varB)
}

// fitAffine solves the least-squares affine transform mapping moving points
// to fixed points. The six parameters split into two 3-unknown systems
// sharing the same normal matrix.
func fitAffine(matches []match) (ports.Transform, bool) {
	var m [3][3]float64
	var bx, by [3]float64
	for _, mt := range matches {
		px, py := float64(mt.moving.x), float64(mt.moving.y)
		qx, qy := float64(mt.fixed.x), float64(mt.fixed.y)
		m[0][0] += px * px
		m[0][1] += px * py
		m[0][2] += px
		m[1][1] += py * py
		m[1][2] += py
		m[2][2] += 1
		bx[0] += qx * px
		bx[1] += qx * py
		bx[2] += qx
		by[0] += qy * px
		by[1] += qy * py
		by[2] += qy
	}
	m[1][0] = m[0][1]
	m[2][0] = m[0][2]
	m[2][1] = m[1][2]

	rowX, okX := solve3(m, bx)
	rowY, okY := solve3(m, by)
	if !okX || !okY {
		return ports.Transform{}, false
	}
	return ports.Transform{
		A: rowX[0], C: rowX[1], Tx: rowX[2],
		B: rowY[0], D: rowY[1], Ty: rowY[2],
	}, true
}

// solve3 solves a 3x3 linear system by Gaussian elimination with partial
// pivoting. It reports false for singular systems.
func solve3(a [3][3]float64, b [3]float64) ([3]float64, bool) {
	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-9 {
			return [3]float64{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for row := col + 1; row < 3; row++ {
			f := a[row][col] / a[col][col]
			for k := col; k < 3; k++ {
				a[row][k] -= f * a[col][k]
			}
			b[row] -= f * b[col]
		}
	}

	var x [3]float64
	for row := 2; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < 3; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, true
}

// Ensure Aligner implements ports.FrameAligner
var _ ports.FrameAligner = (*Aligner)(nil)
