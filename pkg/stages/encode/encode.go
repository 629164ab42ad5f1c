// Package encode implements the video encoding stage.
package encode

import (
	"context"
	"fmt"

	"github.com/user/videostab/pkg/pipeline"
	"github.com/user/videostab/pkg/ports"
)

// Stage encodes a stabilized frame set into a video container. Frames are
// appended strictly in index order; encoding is sequential.
type Stage struct {
	encoder ports.VideoEncoder
	logger  ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(encoder ports.VideoEncoder, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		logger:  logger.WithComponent("encode"),
	}
}

// Execute encodes all frames into a video.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if len(input.Frames) == 0 {
		return result, fmt.Errorf("no frames to encode")
	}
	if input.FPS <= 0 {
		return result, fmt.Errorf("invalid frame rate %f", input.FPS)
	}

	dims := pipeline.DimensionsOf(input.Frames[0])

	opts := ports.EncoderOptions{
		CRF:       input.CRF,
		Bitrate:   input.Bitrate,
		Container: input.Container,
	}

	s.logger.Debug("Encoding %d frames at %.1f fps", len(input.Frames), input.FPS)

	if err := s.encoder.Begin(dims.Width, dims.Height, input.FPS, opts); err != nil {
		return result, fmt.Errorf("begin encoding: %w", err)
	}

	for i, frame := range input.Frames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.encoder.EncodeFrame(frame); err != nil {
			return result, fmt.Errorf("encode frame %d: %w", i+1, err)
		}
	}

	data, err := s.encoder.End()
	if err != nil {
		return result, fmt.Errorf("end encoding: %w", err)
	}

	result.VideoData = data
	result.DurationMs = int(float64(len(input.Frames)) * 1000.0 / input.FPS)
	result.FileSize = int64(len(data))

	s.logger.Debug("Encoding completed: %d bytes", len(data))

	return result, nil
}
