package mp4probe

import (
	"bytes"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
)

// buildTestMP4 assembles an ftyp+moov header for a 640x360 video track with
// the given timescale, duration, and sample count.
func buildTestMP4(t *testing.T, timescale uint32, duration uint64, samples uint32) []byte {
	t.Helper()

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")

	trak := init.Moov.Trak
	trak.Tkhd.Width = mp4.Fixed32(640 << 16)
	trak.Tkhd.Height = mp4.Fixed32(360 << 16)
	trak.Mdia.Mdhd.Duration = duration
	trak.Mdia.Minf.Stbl.Stsz.SampleUniformSize = 100
	trak.Mdia.Minf.Stbl.Stsz.SampleNumber = samples

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "avc1", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		t.Fatalf("encode ftyp: %v", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	return buf.Bytes()
}

func TestProbeReader(t *testing.T) {
	// 4 seconds at 30 fps.
	data := buildTestMP4(t, 90000, 360000, 120)

	meta, err := New().ProbeReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ProbeReader failed: %v", err)
	}

	if meta.Width != 640 || meta.Height != 360 {
		t.Errorf("expected 640x360, got %dx%d", meta.Width, meta.Height)
	}
	if meta.DurationSec != 4 {
		t.Errorf("expected duration 4s, got %v", meta.DurationSec)
	}
	if meta.FrameRate != 30 {
		t.Errorf("expected 30 fps, got %v", meta.FrameRate)
	}
}

func TestProbeReaderZeroDuration(t *testing.T) {
	data := buildTestMP4(t, 90000, 0, 0)

	meta, err := New().ProbeReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ProbeReader failed: %v", err)
	}

	// Without a duration the frame rate cannot be derived.
	if meta.FrameRate != 0 {
		t.Errorf("expected zero frame rate, got %v", meta.FrameRate)
	}
}

func TestProbeReaderGarbage(t *testing.T) {
	if _, err := New().ProbeReader(bytes.NewReader([]byte("not an mp4 file"))); err == nil {
		t.Error("expected error for non-MP4 input")
	}
}

func TestProbeMissingFile(t *testing.T) {
	if _, err := New().Probe("/nonexistent/clip.mp4"); err == nil {
		t.Error("expected error for missing file")
	}
}
