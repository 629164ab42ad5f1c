package ports

import (
	"errors"
	"image"
)

// ErrAlignment indicates that a usable transform could not be estimated for
// a frame (insufficient correspondences, degenerate estimate, or an internal
// failure). It is non-fatal: callers fall back to the original frame.
var ErrAlignment = errors.New("aligner: transform estimation failed")

// Transform is a 2D affine transform mapping moving-frame coordinates onto
// the fixed frame:
//
//	x' = A*x + C*y + Tx
//	y' = B*x + D*y + Ty
type Transform struct {
	A, B, C, D float64
	Tx, Ty     float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Translation returns a pure translation transform.
func Translation(dx, dy float64) Transform {
	return Transform{A: 1, D: 1, Tx: dx, Ty: dy}
}

// FrameAligner estimates and applies the geometric transform that makes a
// moving frame match the fixed reference frame.
type FrameAligner interface {
	// Name returns a short strategy tag used in the output filename.
	Name() string

	// EstimateTransform estimates the transform aligning moving onto fixed.
	// Returns an error wrapping ErrAlignment when no usable transform exists.
	EstimateTransform(moving, fixed image.Image) (Transform, error)

	// Warp resamples frame through the transform into a width x height output.
	// Warping never fails; areas without source coverage are left blank.
	Warp(frame image.Image, t Transform, width, height int) image.Image
}
