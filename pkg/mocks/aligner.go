package mocks

import (
	"image"

	"github.com/user/videostab/pkg/ports"
)

// FrameAligner is a mock implementation of ports.FrameAligner. The zero
// value estimates the identity transform and warps by returning the frame
// unchanged.
type FrameAligner struct {
	NameValue string

	EstimateTransformFunc func(moving, fixed image.Image) (ports.Transform, error)
	WarpFunc              func(frame image.Image, t ports.Transform, width, height int) image.Image
}

// NewFailingAligner returns an aligner whose estimation always reports
// ports.ErrAlignment.
func NewFailingAligner() *FrameAligner {
	return &FrameAligner{
		NameValue: "FAIL",
		EstimateTransformFunc: func(moving, fixed image.Image) (ports.Transform, error) {
			return ports.Transform{}, ports.ErrAlignment
		},
	}
}

func (m *FrameAligner) Name() string {
	if m.NameValue == "" {
		return "MOCK"
	}
	return m.NameValue
}

func (m *FrameAligner) EstimateTransform(moving, fixed image.Image) (ports.Transform, error) {
	if m.EstimateTransformFunc != nil {
		return m.EstimateTransformFunc(moving, fixed)
	}
	return ports.Identity(), nil
}

func (m *FrameAligner) Warp(frame image.Image, t ports.Transform, width, height int) image.Image {
	if m.WarpFunc != nil {
		return m.WarpFunc(frame, t, width, height)
	}
	return frame
}

var _ ports.FrameAligner = (*FrameAligner)(nil)
