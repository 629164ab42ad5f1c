// Package nullsink provides a debug sink that discards everything.
package nullsink

import (
	"image"

	"github.com/user/videostab/pkg/ports"
)

// Sink implements ports.DebugSink without persisting anything.
type Sink struct{}

// New creates a disabled sink.
func New() *Sink {
	return &Sink{}
}

// Enabled reports false so callers can skip artifact preparation.
func (s *Sink) Enabled() bool {
	return false
}

// SaveIngestJSON discards the data.
func (s *Sink) SaveIngestJSON([]byte) error {
	return nil
}

// SaveTransformsJSON discards the data.
func (s *Sink) SaveTransformsJSON([]byte) error {
	return nil
}

// SaveAlignedFrame discards the frame.
func (s *Sink) SaveAlignedFrame(int, image.Image, ports.Transform) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
