// Package ingest implements cache-aware frame ingestion: it resolves a
// source video to an ordered, gap-free frame set, decoding at most once per
// source while the cache directory stays intact.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	// Cached frames are stored as PNG; JPEG tolerated for externally
	// produced caches.
	_ "image/jpeg"
	_ "image/png"

	"github.com/user/videostab/pkg/framewriter"
	"github.com/user/videostab/pkg/natsort"
	"github.com/user/videostab/pkg/pipeline"
	"github.com/user/videostab/pkg/ports"
)

// DefaultFrameRate is used when the source cannot be re-probed on a cache
// load.
const DefaultFrameRate = 30.0

// Stage resolves a video source to a frame set, via the cache directory when
// possible.
type Stage struct {
	decoder ports.VideoDecoder
	probers []ports.MetadataProber
	writer  *framewriter.Writer
	fs      ports.FileSystem
	logger  ports.Logger
}

// NewStage creates an ingest stage. Probers are tried in order to re-derive
// the frame rate on cache loads; the decoder's own Probe is a sensible last
// entry.
func NewStage(decoder ports.VideoDecoder, probers []ports.MetadataProber, writer *framewriter.Writer, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		decoder: decoder,
		probers: probers,
		writer:  writer,
		fs:      fs,
		logger:  logger.WithComponent("ingest"),
	}
}

// SourceStem returns the filesystem stem of a video path, which names its
// cache directory.
func SourceStem(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CacheDir returns the canonical cache directory for a source.
func CacheDir(cacheRoot, sourcePath string) string {
	return filepath.Join(cacheRoot, SourceStem(sourcePath))
}

// Execute resolves the source to a frame set. An intact cache directory is
// loaded without touching the decoder; otherwise the source is decoded once
// and the frames persisted for the next run.
func (s *Stage) Execute(ctx context.Context, input pipeline.IngestInput) (pipeline.IngestResult, error) {
	cacheDir := CacheDir(input.CacheRoot, input.SourcePath)

	exists, err := s.fs.Exists(cacheDir)
	if err != nil {
		return pipeline.IngestResult{}, fmt.Errorf("stat cache dir: %w", err)
	}

	if exists {
		return s.loadFromCache(ctx, input, cacheDir)
	}
	return s.decodeAndCache(ctx, input, cacheDir)
}

// loadFromCache reads an existing cache directory. An empty or unparsable
// directory is corrupt, never a trigger for a silent re-decode.
func (s *Stage) loadFromCache(ctx context.Context, input pipeline.IngestInput, cacheDir string) (pipeline.IngestResult, error) {
	names, err := s.fs.ReadDir(cacheDir)
	if err != nil {
		return pipeline.IngestResult{}, fmt.Errorf("read cache dir: %w", err)
	}

	frameNames := make([]string, 0, len(names))
	for _, name := range names {
		if !isFrameFile(name) {
			continue
		}
		if _, ok := natsort.FrameIndex(name); !ok {
			return pipeline.IngestResult{}, &pipeline.CacheCorruptError{
				Dir:    cacheDir,
				Reason: fmt.Sprintf("entry %q has no frame number", name),
			}
		}
		frameNames = append(frameNames, name)
	}
	if len(frameNames) == 0 {
		return pipeline.IngestResult{}, &pipeline.CacheCorruptError{
			Dir:    cacheDir,
			Reason: "no frame files",
		}
	}

	natsort.Sort(frameNames)

	s.logger.Debug("Loading %d cached frames from %s", len(frameNames), cacheDir)

	frames := make(pipeline.FrameSet, 0, len(frameNames))
	for _, name := range frameNames {
		select {
		case <-ctx.Done():
			return pipeline.IngestResult{}, ctx.Err()
		default:
		}

		data, err := s.fs.ReadFile(filepath.Join(cacheDir, name))
		if err != nil {
			return pipeline.IngestResult{}, fmt.Errorf("read cached frame %s: %w", name, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return pipeline.IngestResult{}, &pipeline.CacheCorruptError{
				Dir:    cacheDir,
				Reason: fmt.Sprintf("entry %q does not decode: %v", name, err),
			}
		}
		frames = append(frames, img)
	}

	// Width/height/duration are not fabricated on a cache load; only the
	// frame rate is best-effort re-derived from the original source.
	meta := ports.StreamMetadata{FrameRate: s.reprobeFrameRate(input)}

	return pipeline.IngestResult{
		Frames:    frames,
		Meta:      meta,
		FromCache: true,
		CacheDir:  cacheDir,
	}, nil
}

// reprobeFrameRate re-opens the original source for its frame rate, falling
// back to the configured default. The fallback is a degraded mode, not an
// error.
func (s *Stage) reprobeFrameRate(input pipeline.IngestInput) float64 {
	for _, prober := range s.probers {
		meta, err := prober.Probe(input.SourcePath)
		if err == nil && meta.FrameRate > 0 {
			return meta.FrameRate
		}
	}

	fallback := input.FallbackFrameRate
	if fallback <= 0 {
		fallback = DefaultFrameRate
	}
	s.logger.Warn("Frame rate unavailable for %s, assuming %.0f fps", input.SourcePath, fallback)
	return fallback
}

// decodeAndCache decodes the source sequentially and persists every frame.
func (s *Stage) decodeAndCache(ctx context.Context, input pipeline.IngestInput, cacheDir string) (pipeline.IngestResult, error) {
	reader, meta, err := s.decoder.Open(input.SourcePath)
	if err != nil {
		return pipeline.IngestResult{}, &pipeline.SourceUnreadableError{Path: input.SourcePath, Err: err}
	}
	defer reader.Close()

	s.logger.Debug("Decoding %s (%.1f fps, ~%d frames)", input.SourcePath, meta.FrameRate, meta.EstimatedFrameCount())

	// The duration-based count only pre-sizes capacity; the set's true
	// length is however many frames the decoder actually produces.
	frames := make(pipeline.FrameSet, 0, meta.EstimatedFrameCount())
	for {
		select {
		case <-ctx.Done():
			return pipeline.IngestResult{}, ctx.Err()
		default:
		}

		img, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pipeline.IngestResult{}, &pipeline.SourceUnreadableError{Path: input.SourcePath, Err: err}
		}
		frames = append(frames, img)
	}
	if len(frames) == 0 {
		return pipeline.IngestResult{}, &pipeline.SourceUnreadableError{
			Path: input.SourcePath,
			Err:  errors.New("no frames decoded"),
		}
	}

	if err := s.fs.MkdirAll(cacheDir); err != nil {
		return pipeline.IngestResult{}, fmt.Errorf("create cache dir: %w", err)
	}
	if _, err := s.writer.WriteAll(ctx, frames, cacheDir); err != nil {
		return pipeline.IngestResult{}, fmt.Errorf("persist frames: %w", err)
	}

	s.logger.Debug("Decoded and cached %d frames", len(frames))

	return pipeline.IngestResult{
		Frames:    frames,
		Meta:      meta,
		FromCache: false,
		CacheDir:  cacheDir,
	}, nil
}

func isFrameFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}
