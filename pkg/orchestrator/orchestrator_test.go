package orchestrator

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/user/videostab/pkg/adapters/logger"
	"github.com/user/videostab/pkg/framewriter"
	"github.com/user/videostab/pkg/mocks"
	"github.com/user/videostab/pkg/ports"
	"github.com/user/videostab/pkg/stages/encode"
	"github.com/user/videostab/pkg/stages/ingest"
	"github.com/user/videostab/pkg/stages/stabilize"
)

func testFrames(n int) []image.Image {
	frames := make([]image.Image, n)
	for i := range frames {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				img.SetRGBA(x, y, color.RGBA{R: uint8(30 * (i + 1)), A: 255})
			}
		}
		frames[i] = img
	}
	return frames
}

func newOrchestrator(decoder ports.VideoDecoder, aligner ports.FrameAligner, encoder ports.VideoEncoder, fs ports.FileSystem) *Orchestrator {
	log := logger.NewNoop()
	sink := mocks.NewDebugSink(false)
	writer := framewriter.New(fs, log, 2)

	return New(
		ingest.NewStage(decoder, []ports.MetadataProber{decoder}, writer, fs, log),
		stabilize.NewStage(aligner, sink, log, 2),
		encode.NewStage(encoder, log),
		fs,
		sink,
		log,
	)
}

func TestRun_EndToEnd(t *testing.T) {
	meta := ports.StreamMetadata{Width: 8, Height: 8, DurationSec: 0.2, FrameRate: 25}
	decoder := mocks.NewVideoDecoder(testFrames(5), meta)
	aligner := &mocks.FrameAligner{NameValue: "CORR"}
	encoder := mocks.NewVideoEncoder([]byte("mp4-bytes"))
	fs := mocks.NewFileSystem()

	orch := newOrchestrator(decoder, aligner, encoder, fs)

	config := DefaultConfig()
	config.SourcePath = "/videos/shaky.mp4"
	config.OutputDir = "/out"
	config.CacheRoot = "cache"
	config.ReferenceIndex = 3
	config.Strategy = "corr"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FrameCount != 5 {
		t.Errorf("expected 5 frames, got %d", result.FrameCount)
	}
	if result.FromCache {
		t.Error("first run should decode, not hit the cache")
	}
	if result.FrameRate != 25 {
		t.Errorf("expected source frame rate 25, got %f", result.FrameRate)
	}
	if result.OutputPath != "/out/shaky_stabilized_CORR.mp4" {
		t.Errorf("unexpected output path %q", result.OutputPath)
	}
	if data, ok := fs.GetFile(result.OutputPath); !ok || string(data) != "mp4-bytes" {
		t.Error("output video was not written")
	}
	if len(encoder.Frames) != 5 {
		t.Errorf("expected 5 encoded frames, got %d", len(encoder.Frames))
	}
}

func TestRun_SecondRunHitsCache(t *testing.T) {
	meta := ports.StreamMetadata{Width: 8, Height: 8, FrameRate: 30}
	decoder := mocks.NewVideoDecoder(testFrames(3), meta)
	fs := mocks.NewFileSystem()

	config := DefaultConfig()
	config.SourcePath = "/videos/shaky.mp4"
	config.OutputDir = "/out"
	config.CacheRoot = "cache"
	config.Strategy = "corr"

	for i := 0; i < 2; i++ {
		orch := newOrchestrator(decoder, &mocks.FrameAligner{}, mocks.NewVideoEncoder(nil), fs)
		result, err := orch.Run(context.Background(), config)
		if err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
		if i == 1 && !result.FromCache {
			t.Error("second run should load frames from cache")
		}
	}

	if decoder.Opens() != 1 {
		t.Errorf("expected one decode across runs, got %d", decoder.Opens())
	}
}

func TestRun_CallerFrameRateWins(t *testing.T) {
	meta := ports.StreamMetadata{Width: 8, Height: 8, FrameRate: 25}
	decoder := mocks.NewVideoDecoder(testFrames(2), meta)
	fs := mocks.NewFileSystem()
	orch := newOrchestrator(decoder, &mocks.FrameAligner{}, mocks.NewVideoEncoder(nil), fs)

	config := DefaultConfig()
	config.SourcePath = "/videos/shaky.mp4"
	config.OutputDir = "/out"
	config.CacheRoot = "cache"
	config.Strategy = "feat"
	config.FrameRate = 60

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FrameRate != 60 {
		t.Errorf("caller-supplied frame rate should win, got %f", result.FrameRate)
	}
}

func TestRun_FallbacksAreNonFatal(t *testing.T) {
	meta := ports.StreamMetadata{Width: 8, Height: 8, FrameRate: 30}
	decoder := mocks.NewVideoDecoder(testFrames(4), meta)
	fs := mocks.NewFileSystem()
	encoder := mocks.NewVideoEncoder(nil)
	orch := newOrchestrator(decoder, mocks.NewFailingAligner(), encoder, fs)

	config := DefaultConfig()
	config.SourcePath = "/videos/shaky.mp4"
	config.OutputDir = "/out"
	config.CacheRoot = "cache"
	config.ReferenceIndex = 2
	config.Strategy = "corr"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("alignment failures must not abort the run: %v", err)
	}
	if result.FallbackCount != 3 {
		t.Errorf("expected 3 fallbacks, got %d", result.FallbackCount)
	}
	if len(encoder.Frames) != 4 {
		t.Errorf("output video must still be complete, got %d frames", len(encoder.Frames))
	}
}

func TestOutputPath(t *testing.T) {
	config := Config{
		SourcePath: "/in/clip.mov",
		OutputDir:  "/out",
		Strategy:   "feat",
		Container:  "avi",
	}
	if got := OutputPath(config); got != "/out/clip_stabilized_FEAT.avi" {
		t.Errorf("unexpected output path %q", got)
	}
}
