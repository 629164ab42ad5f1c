package mocks

import (
	"image"
	"io"
	"sync"

	"github.com/user/videostab/pkg/ports"
)

// VideoDecoder is a mock implementation of ports.VideoDecoder that serves a
// fixed frame slice and counts Open calls.
type VideoDecoder struct {
	mu        sync.Mutex
	Frames    []image.Image
	Meta      ports.StreamMetadata
	OpenCalls int

	OpenFunc  func(path string) (ports.FrameReader, ports.StreamMetadata, error)
	ProbeFunc func(path string) (ports.StreamMetadata, error)
}

// NewVideoDecoder creates a mock decoder serving the given frames.
func NewVideoDecoder(frames []image.Image, meta ports.StreamMetadata) *VideoDecoder {
	return &VideoDecoder{Frames: frames, Meta: meta}
}

func (m *VideoDecoder) Open(path string) (ports.FrameReader, ports.StreamMetadata, error) {
	m.mu.Lock()
	m.OpenCalls++
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	return &frameReader{frames: m.Frames}, m.Meta, nil
}

func (m *VideoDecoder) Probe(path string) (ports.StreamMetadata, error) {
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	return m.Meta, nil
}

// Opens returns the number of Open calls made so far.
func (m *VideoDecoder) Opens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.OpenCalls
}

type frameReader struct {
	frames []image.Image
	pos    int
}

func (r *frameReader) Next() (image.Image, error) {
	if r.pos >= len(r.frames) {
		return nil, io.EOF
	}
	img := r.frames[r.pos]
	r.pos++
	return img, nil
}

func (r *frameReader) Close() error {
	return nil
}

var _ ports.VideoDecoder = (*VideoDecoder)(nil)
