package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveIngestJSON saves the ingest result metadata as JSON.
	SaveIngestJSON(data []byte) error

	// SaveTransformsJSON saves the per-frame transform estimates as JSON.
	SaveTransformsJSON(data []byte) error

	// SaveAlignedFrame saves an aligned frame annotated with its transform.
	SaveAlignedFrame(index int, img image.Image, t Transform) error
}
