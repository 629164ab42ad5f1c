package ports

import (
	"image"
)

// StreamMetadata describes a video stream as reported by its container.
// When frames are loaded from a cache directory instead of a decode, only
// FrameRate is re-derived; the remaining fields stay zero.
type StreamMetadata struct {
	Width       int
	Height      int
	DurationSec float64
	FrameRate   float64
}

// EstimatedFrameCount returns duration times frame rate, rounded down.
// The value is a capacity hint only; the true frame count is whatever the
// decoder actually produces.
func (m StreamMetadata) EstimatedFrameCount() int {
	if m.DurationSec <= 0 || m.FrameRate <= 0 {
		return 0
	}
	return int(m.DurationSec * m.FrameRate)
}

// FrameReader pulls decoded frames one at a time. Decoding is inherently
// sequential; implementations are not safe for concurrent use and must not
// be parallelized by callers.
type FrameReader interface {
	// Next returns the next decoded frame, or io.EOF after the last one.
	Next() (image.Image, error)

	// Close releases decoder resources. Safe to call after io.EOF.
	Close() error
}

// VideoDecoder abstracts sequential container decoding.
type VideoDecoder interface {
	// Open starts a sequential decode of the video at path and returns the
	// stream metadata alongside the frame reader.
	Open(path string) (FrameReader, StreamMetadata, error)

	// Probe returns stream metadata without decoding any frames.
	Probe(path string) (StreamMetadata, error)
}

// MetadataProber re-derives stream metadata from a source without decoding.
// Used to recover the frame rate when frames are served from the cache.
type MetadataProber interface {
	Probe(path string) (StreamMetadata, error)
}
