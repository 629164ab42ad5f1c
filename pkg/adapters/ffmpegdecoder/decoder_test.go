package ffmpegdecoder

import (
	"image"
	"io"
	"testing"
)

const probeJSON = `{
	"streams": [
		{"codec_type": "audio", "codec_name": "aac"},
		{"codec_type": "video", "width": 1280, "height": 720, "avg_frame_rate": "30000/1001"}
	],
	"format": {"duration": "12.480000"}
}`

func TestParseProbe(t *testing.T) {
	meta, err := parseProbe(probeJSON)
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}

	if meta.Width != 1280 || meta.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", meta.Width, meta.Height)
	}
	if meta.FrameRate < 29.9 || meta.FrameRate > 30.0 {
		t.Errorf("expected NTSC frame rate, got %v", meta.FrameRate)
	}
	if meta.DurationSec != 12.48 {
		t.Errorf("expected duration 12.48, got %v", meta.DurationSec)
	}
	if got := meta.EstimatedFrameCount(); got != 374 {
		t.Errorf("expected estimate 374, got %d", got)
	}
}

func TestParseProbeNoVideoStream(t *testing.T) {
	_, err := parseProbe(`{"streams": [{"codec_type": "audio"}], "format": {}}`)
	if err == nil {
		t.Error("expected error for audio-only input")
	}
}

func TestParseProbeInvalidDimensions(t *testing.T) {
	_, err := parseProbe(`{"streams": [{"codec_type": "video", "width": 0, "height": 720, "avg_frame_rate": "30/1"}], "format": {}}`)
	if err == nil {
		t.Error("expected error for zero width")
	}
}

func TestParseProbeZeroFrameRate(t *testing.T) {
	// Still images probe as 0/0.
	meta, err := parseProbe(`{"streams": [{"codec_type": "video", "width": 64, "height": 64, "avg_frame_rate": "0/0"}], "format": {}}`)
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if meta.FrameRate != 0 {
		t.Errorf("expected zero frame rate, got %v", meta.FrameRate)
	}
}

func TestParseProbeMalformedJSON(t *testing.T) {
	if _, err := parseProbe("not json"); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestFrameReaderStreams(t *testing.T) {
	const width, height = 4, 3
	frameSize := width * height * 4

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		for i := 0; i < 2; i++ {
			frame := make([]byte, frameSize)
			for j := range frame {
				frame[j] = byte(i + 1)
			}
			pw.Write(frame)
		}
		done <- nil
		pw.Close()
	}()

	reader := &frameReader{
		pipe:   pr,
		done:   done,
		width:  width,
		height: height,
		buf:    make([]byte, frameSize),
	}
	defer reader.Close()

	first, err := reader.Next()
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if first.Bounds().Dx() != width || first.Bounds().Dy() != height {
		t.Errorf("unexpected frame bounds %v", first.Bounds())
	}
	if rgba, ok := first.(*image.RGBA); !ok || rgba.Pix[0] != 1 {
		t.Error("first frame should carry the first chunk of pixel data")
	}

	second, err := reader.Next()
	if err != nil {
		t.Fatalf("second Next failed: %v", err)
	}
	if rgba := second.(*image.RGBA); rgba.Pix[0] != 2 {
		t.Error("second frame should carry the second chunk of pixel data")
	}

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last frame, got %v", err)
	}
	// Repeated calls keep reporting end of stream.
	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF on repeat call, got %v", err)
	}
}
