package mocks

import (
	"image"
	"sync"

	"github.com/user/videostab/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink that records what
// was saved.
type DebugSink struct {
	mu      sync.Mutex
	enabled bool

	IngestJSON     [][]byte
	TransformsJSON [][]byte
	AlignedFrames  map[int]image.Image
}

// NewDebugSink creates a mock sink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:       enabled,
		AlignedFrames: make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveIngestJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IngestJSON = append(m.IngestJSON, data)
	return nil
}

func (m *DebugSink) SaveTransformsJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransformsJSON = append(m.TransformsJSON, data)
	return nil
}

func (m *DebugSink) SaveAlignedFrame(index int, img image.Image, t ports.Transform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AlignedFrames[index] = img
	return nil
}

// AlignedCount returns the number of aligned frames saved.
func (m *DebugSink) AlignedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.AlignedFrames)
}

var _ ports.DebugSink = (*DebugSink)(nil)
