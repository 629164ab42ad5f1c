// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ideamans/go-l10n"
	"github.com/user/videostab/pkg/pipeline"
	"github.com/user/videostab/pkg/ports"
	"github.com/user/videostab/pkg/stages/ingest"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	SourcePath string
	OutputDir  string
	CacheRoot  string

	// Stabilization
	ReferenceIndex int    // 1-based
	Strategy       string // Strategy tag of the configured aligner

	// Encoding
	FrameRate float64 // Output frame rate; 0 means use the source's rate
	CRF       int
	Bitrate   int
	Container string // "mp4" or "avi"
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		CacheRoot:      "Extracted_Frames",
		ReferenceIndex: 1,
		FrameRate:      0,
		CRF:            23,
		Bitrate:        0,
		Container:      "mp4",
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	ingestStage    pipeline.Stage[pipeline.IngestInput, pipeline.IngestResult]
	stabilizeStage pipeline.Stage[pipeline.StabilizeInput, pipeline.StabilizeResult]
	encodeStage    pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	fs             ports.FileSystem
	sink           ports.DebugSink
	logger         ports.Logger
}

// New creates a new Orchestrator.
func New(
	ingestStage pipeline.Stage[pipeline.IngestInput, pipeline.IngestResult],
	stabilizeStage pipeline.Stage[pipeline.StabilizeInput, pipeline.StabilizeResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		ingestStage:    ingestStage,
		stabilizeStage: stabilizeStage,
		encodeStage:    encodeStage,
		fs:             fs,
		sink:           sink,
		logger:         logger,
	}
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info(l10n.T("Starting pipeline"))

	// 1. Resolve frames (cache or decode)
	ingestInput := pipeline.IngestInput{
		SourcePath: config.SourcePath,
		CacheRoot:  config.CacheRoot,
	}
	ingested, err := o.ingestStage.Execute(ctx, ingestInput)
	if err != nil {
		o.logger.Error(l10n.F("Failed to ingest frames: %s", err))
		return RunResult{}, fmt.Errorf("ingest stage: %w", err)
	}
	if ingested.FromCache {
		o.logger.Info(l10n.F("Loaded %d frames from cache %s", len(ingested.Frames), ingested.CacheDir))
	} else {
		o.logger.Info(l10n.F("Decoded %d frames from %s", len(ingested.Frames), config.SourcePath))
	}

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(ingestSummary(ingested), "", "  "); err == nil {
			o.sink.SaveIngestJSON(data)
		}
	}

	// 2. Stabilize
	stabilizeInput := pipeline.StabilizeInput{
		Frames:         ingested.Frames,
		ReferenceIndex: config.ReferenceIndex,
	}
	o.logger.Info(l10n.F("Stabilizing %d frames against reference %d", len(ingested.Frames), config.ReferenceIndex))
	stabilized, err := o.stabilizeStage.Execute(ctx, stabilizeInput)
	if err != nil {
		o.logger.Error(l10n.F("Failed to stabilize frames: %s", err))
		return RunResult{}, fmt.Errorf("stabilize stage: %w", err)
	}
	if len(stabilized.Fallbacks) > 0 {
		o.logger.Warn(l10n.F("%d frames could not be aligned and were kept as-is", len(stabilized.Fallbacks)))
	}

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(stabilized.Transforms, "", "  "); err == nil {
			o.sink.SaveTransformsJSON(data)
		}
	}

	// 3. Encode
	fps := config.FrameRate
	if fps <= 0 {
		fps = ingested.Meta.FrameRate
	}
	encodeInput := pipeline.EncodeInput{
		Frames:    stabilized.Frames,
		FPS:       fps,
		CRF:       config.CRF,
		Bitrate:   config.Bitrate,
		Container: config.Container,
	}
	o.logger.Info(l10n.F("Encoding video with CRF %d", config.CRF))
	encoded, err := o.encodeStage.Execute(ctx, encodeInput)
	if err != nil {
		o.logger.Error(l10n.F("Failed to encode video: %s", err))
		return RunResult{}, fmt.Errorf("encode stage: %w", err)
	}

	// 4. Write output file
	outputPath := OutputPath(config)
	if err := o.fs.WriteFile(outputPath, encoded.VideoData); err != nil {
		o.logger.Error(l10n.F("Failed to write output: %s", err))
		return RunResult{}, fmt.Errorf("write output: %w", err)
	}

	o.logger.Info(l10n.T("Pipeline completed successfully"))

	return RunResult{
		FrameCount:    len(ingested.Frames),
		FromCache:     ingested.FromCache,
		CacheDir:      ingested.CacheDir,
		FrameRate:     fps,
		FallbackCount: len(stabilized.Fallbacks),
		OutputPath:    outputPath,
		VideoDuration: encoded.DurationMs,
		VideoFileSize: encoded.FileSize,
	}, nil
}

// OutputPath returns the output file path for a configuration:
// <stem>_stabilized_<STRATEGY>.<container> inside the output folder.
func OutputPath(config Config) string {
	name := fmt.Sprintf("%s_stabilized_%s.%s",
		ingest.SourceStem(config.SourcePath),
		strings.ToUpper(config.Strategy),
		config.Container,
	)
	return filepath.Join(config.OutputDir, name)
}

func ingestSummary(r pipeline.IngestResult) map[string]any {
	return map[string]any{
		"frameCount": len(r.Frames),
		"fromCache":  r.FromCache,
		"cacheDir":   r.CacheDir,
		"meta":       r.Meta,
	}
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	FrameCount    int
	FromCache     bool
	CacheDir      string
	FrameRate     float64
	FallbackCount int
	OutputPath    string
	VideoDuration int // in ms
	VideoFileSize int64
}
