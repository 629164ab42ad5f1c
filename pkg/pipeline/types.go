package pipeline

import (
	"image"

	"github.com/user/videostab/pkg/ports"
)

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// DimensionsOf returns the dimensions of an image.
func DimensionsOf(img image.Image) Dimension {
	if img == nil {
		return Dimension{}
	}
	b := img.Bounds()
	return Dimension{Width: b.Dx(), Height: b.Dy()}
}

// FrameSet is an ordered, gap-free sequence of decoded frames. Frame indices
// are 1-based everywhere in the pipeline: frame i lives at slice position i-1.
// Once established, the length is fixed and every slot is non-nil before the
// set is handed to the next stage.
type FrameSet []image.Image

// Frame returns the frame at the 1-based index i.
func (fs FrameSet) Frame(i int) image.Image {
	return fs[i-1]
}

// ValidIndex reports whether i is a valid 1-based index into the set.
func (fs FrameSet) ValidIndex(i int) bool {
	return i >= 1 && i <= len(fs)
}

// =============================================================================
// Ingest Stage Types
// =============================================================================

// IngestInput contains parameters for cache-aware frame ingestion.
type IngestInput struct {
	SourcePath        string  // Path of the input video
	CacheRoot         string  // Root directory holding per-video frame caches
	FallbackFrameRate float64 // Frame rate used when re-probing the source fails
}

// IngestResult contains the ordered frame set and its stream metadata.
type IngestResult struct {
	Frames    FrameSet
	Meta      ports.StreamMetadata
	FromCache bool   // True when frames were loaded from the cache directory
	CacheDir  string // The cache directory for this source
}

// =============================================================================
// Stabilize Stage Types
// =============================================================================

// StabilizeInput contains parameters for the per-frame alignment stage.
type StabilizeInput struct {
	Frames         FrameSet
	ReferenceIndex int // 1-based index of the frame all others align to
}

// StabilizeResult contains the stabilized frame set.
type StabilizeResult struct {
	Frames FrameSet

	// Fallbacks lists the 1-based indices of frames that could not be
	// aligned and were passed through unmodified. Sorted ascending.
	Fallbacks []int

	// Transforms holds the estimated transform per frame, indexed by slice
	// position (frame index - 1). The reference frame and fallback frames
	// carry the identity transform.
	Transforms []ports.Transform
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput contains parameters for video encoding.
type EncodeInput struct {
	Frames    FrameSet
	FPS       float64 // Output frame rate
	CRF       int     // Constant rate factor
	Bitrate   int     // Target bitrate in kbps (0 = CRF only)
	Container string  // "mp4" or "avi"
}

// EncodeResult contains the encoded video.
type EncodeResult struct {
	VideoData  []byte
	DurationMs int
	FileSize   int64
}
