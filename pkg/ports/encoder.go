package ports

import (
	"image"
)

// VideoEncoder abstracts video encoding operations. Frames are appended
// strictly in order at a fixed frame rate; the container is finalized by End.
type VideoEncoder interface {
	// Begin initializes the encoder with the output dimensions and frame rate.
	Begin(width, height int, fps float64, opts EncoderOptions) error

	// EncodeFrame appends a single frame to the output stream.
	EncodeFrame(img image.Image) error

	// End finalizes the container and returns the video data.
	End() ([]byte, error)
}

// EncoderOptions configures video encoding parameters.
type EncoderOptions struct {
	CRF       int    // Constant rate factor (lower is higher quality)
	Bitrate   int    // Target bitrate in kbps (0 = rate control by CRF only)
	Container string // Output container format: "mp4" or "avi"
}
