// Package ffmpegencoder assembles frames into a video file by piping raw
// RGBA data into an ffmpeg child process.
package ffmpegencoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/image/draw"

	"github.com/user/videostab/pkg/ports"
)

// Encoder implements ports.VideoEncoder on top of the ffmpeg CLI. A session
// runs Begin, any number of EncodeFrame calls, then End.
type Encoder struct {
	width   int
	height  int
	pipe    *io.PipeWriter
	done    chan error
	tmpPath string
}

// New creates an ffmpeg-backed encoder.
func New() *Encoder {
	return &Encoder{}
}

// Begin starts an encoding session for frames of the given size.
func (e *Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	if e.pipe != nil {
		return errors.New("encoding session already in progress")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if fps <= 0 {
		return fmt.Errorf("invalid frame rate %v", fps)
	}

	container := opts.Container
	if container == "" {
		container = "mp4"
	}
	tmpFile, err := os.CreateTemp("", "videostab-encode-*."+container)
	if err != nil {
		return fmt.Errorf("failed to create temp output: %w", err)
	}
	tmpFile.Close()

	outputArgs := ffmpeg.KwArgs{"an": ""}
	switch container {
	case "mp4":
		outputArgs["vcodec"] = "libx264"
		outputArgs["pix_fmt"] = "yuv420p"
		outputArgs["movflags"] = "+faststart"
	case "avi":
		outputArgs["vcodec"] = "mpeg4"
	default:
		os.Remove(tmpFile.Name())
		return fmt.Errorf("unsupported container %q", container)
	}
	if opts.Bitrate > 0 {
		outputArgs["b:v"] = strconv.Itoa(opts.Bitrate * 1000)
	} else if container == "mp4" {
		outputArgs["crf"] = strconv.Itoa(opts.CRF)
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- ffmpeg.
			Input("pipe:", ffmpeg.KwArgs{
				"format":    "rawvideo",
				"pix_fmt":   "rgba",
				"s":         fmt.Sprintf("%dx%d", width, height),
				"framerate": fmt.Sprintf("%g", fps),
			}).
			Output(tmpFile.Name(), outputArgs).
			OverWriteOutput().
			WithInput(pr).
			GlobalArgs("-loglevel", "error").
			Run()
	}()

	e.width = width
	e.height = height
	e.pipe = pw
	e.done = done
	e.tmpPath = tmpFile.Name()
	return nil
}

// EncodeFrame appends one frame to the session.
func (e *Encoder) EncodeFrame(img image.Image) error {
	if e.pipe == nil {
		return errors.New("no encoding session, call Begin first")
	}
	if img.Bounds().Dx() != e.width || img.Bounds().Dy() != e.height {
		return fmt.Errorf("frame size %dx%d does not match session %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), e.width, e.height)
	}
	if _, err := e.pipe.Write(toRGBA(img, e.width, e.height).Pix); err != nil {
		return fmt.Errorf("failed to feed frame to ffmpeg: %w", err)
	}
	return nil
}

// End finishes the session and returns the encoded video bytes.
func (e *Encoder) End() ([]byte, error) {
	if e.pipe == nil {
		return nil, errors.New("no encoding session, call Begin first")
	}
	e.pipe.Close()
	encodeErr := <-e.done

	tmpPath := e.tmpPath
	e.pipe = nil
	e.done = nil
	e.tmpPath = ""
	defer os.Remove(tmpPath)

	if encodeErr != nil {
		return nil, fmt.Errorf("ffmpeg encode failed: %w", encodeErr)
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded output: %w", err)
	}
	return data, nil
}

// toRGBA returns img as a tightly packed RGBA image anchored at the origin.
func toRGBA(img image.Image, width, height int) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		b := rgba.Bounds()
		if b.Min.X == 0 && b.Min.Y == 0 && rgba.Stride == 4*width && b.Dx() == width && b.Dy() == height {
			return rgba
		}
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)
