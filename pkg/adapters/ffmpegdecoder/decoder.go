// Package ffmpegdecoder decodes video files into frames by streaming raw
// RGBA video from an ffmpeg child process.
package ffmpegdecoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/user/videostab/pkg/ports"
)

// probeOutput mirrors the subset of ffprobe JSON the decoder needs.
type probeOutput struct {
	Streams []struct {
		CodecType    string        `json:"codec_type"`
		Width        int           `json:"width"`
		Height       int           `json:"height"`
		AvgFrameRate fractionFloat `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// fractionFloat parses ffprobe rational fields like "30000/1001".
type fractionFloat float64

func (f *fractionFloat) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid frame rate %q: %w", raw, err)
		}
		*f = fractionFloat(value)
		return nil
	}
	numerator, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return fmt.Errorf("invalid numerator: %w", err)
	}
	denominator, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return fmt.Errorf("invalid denominator: %w", err)
	}
	if denominator == 0 {
		*f = 0
		return nil
	}
	*f = fractionFloat(numerator / denominator)
	return nil
}

// Decoder implements ports.VideoDecoder on top of the ffmpeg CLI.
type Decoder struct{}

// New creates an ffmpeg-backed decoder.
func New() *Decoder {
	return &Decoder{}
}

// Probe reads stream metadata without decoding any frames.
func (d *Decoder) Probe(path string) (ports.StreamMetadata, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return ports.StreamMetadata{}, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}
	return parseProbe(raw)
}

func parseProbe(raw string) (ports.StreamMetadata, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return ports.StreamMetadata{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var meta ports.StreamMetadata
	found := false
	for _, stream := range out.Streams {
		if stream.CodecType != "video" {
			continue
		}
		meta.Width = stream.Width
		meta.Height = stream.Height
		meta.FrameRate = float64(stream.AvgFrameRate)
		found = true
		break
	}
	if !found {
		return ports.StreamMetadata{}, errors.New("no video stream found")
	}
	if meta.Width <= 0 || meta.Height <= 0 {
		return ports.StreamMetadata{}, fmt.Errorf("invalid video dimensions %dx%d", meta.Width, meta.Height)
	}
	if out.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
			meta.DurationSec = dur
		}
	}
	return meta, nil
}

// Open starts decoding and returns a reader producing frames in order.
func (d *Decoder) Open(path string) (ports.FrameReader, ports.StreamMetadata, error) {
	meta, err := d.Probe(path)
	if err != nil {
		return nil, ports.StreamMetadata{}, err
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := ffmpeg.
			Input(path).
			Output("pipe:", ffmpeg.KwArgs{
				"format":  "rawvideo",
				"pix_fmt": "rgba",
			}).
			WithOutput(pw).
			GlobalArgs("-loglevel", "error").
			Run()
		pw.CloseWithError(err)
		done <- err
	}()

	reader := &frameReader{
		pipe:   pr,
		done:   done,
		width:  meta.Width,
		height: meta.Height,
		buf:    make([]byte, meta.Width*meta.Height*4),
	}
	return reader, meta, nil
}

// frameReader consumes the raw RGBA stream one frame at a time.
type frameReader struct {
	pipe     *io.PipeReader
	done     chan error
	width    int
	height   int
	buf      []byte
	finished bool
	ffErr    error
}

// Next returns the next frame, or io.EOF after the last one.
func (r *frameReader) Next() (image.Image, error) {
	if r.finished {
		if r.ffErr != nil {
			return nil, r.ffErr
		}
		return nil, io.EOF
	}

	n, err := io.ReadFull(r.pipe, r.buf)
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			r.finished = true
			if ffErr := <-r.done; ffErr != nil {
				r.ffErr = fmt.Errorf("ffmpeg decode failed: %w", ffErr)
				return nil, r.ffErr
			}
			return nil, io.EOF
		}
		return nil, fmt.Errorf("truncated frame data: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	copy(img.Pix, r.buf)
	return img, nil
}

// Close stops the stream. Safe to call after io.EOF.
func (r *frameReader) Close() error {
	return r.pipe.Close()
}

// Ensure Decoder implements ports.VideoDecoder
var _ ports.VideoDecoder = (*Decoder)(nil)
