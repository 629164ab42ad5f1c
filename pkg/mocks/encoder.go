package mocks

import (
	"image"

	"github.com/user/videostab/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder that records
// the frames it receives.
type VideoEncoder struct {
	Width   int
	Height  int
	FPS     float64
	Opts    ports.EncoderOptions
	Frames  []image.Image
	Ended   bool
	Output  []byte

	BeginFunc       func(width, height int, fps float64, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img image.Image) error
	EndFunc         func() ([]byte, error)
}

// NewVideoEncoder creates a mock encoder returning output as the video data.
func NewVideoEncoder(output []byte) *VideoEncoder {
	return &VideoEncoder{Output: output}
}

func (m *VideoEncoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	if m.BeginFunc != nil {
		return m.BeginFunc(width, height, fps, opts)
	}
	m.Width = width
	m.Height = height
	m.FPS = fps
	m.Opts = opts
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image) error {
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img)
	}
	m.Frames = append(m.Frames, img)
	return nil
}

func (m *VideoEncoder) End() ([]byte, error) {
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	m.Ended = true
	return m.Output, nil
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
