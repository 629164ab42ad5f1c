// Package main provides the CLI entry point for videostab.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/videostab/pkg/adapters/corraligner"
	"github.com/user/videostab/pkg/adapters/featurealigner"
	"github.com/user/videostab/pkg/adapters/ffmpegdecoder"
	"github.com/user/videostab/pkg/adapters/ffmpegencoder"
	"github.com/user/videostab/pkg/adapters/filesink"
	"github.com/user/videostab/pkg/adapters/logger"
	"github.com/user/videostab/pkg/adapters/mp4probe"
	"github.com/user/videostab/pkg/adapters/nullsink"
	"github.com/user/videostab/pkg/adapters/osfilesystem"
	"github.com/user/videostab/pkg/config"
	"github.com/user/videostab/pkg/framewriter"
	"github.com/user/videostab/pkg/orchestrator"
	"github.com/user/videostab/pkg/ports"
	"github.com/user/videostab/pkg/stages/encode"
	"github.com/user/videostab/pkg/stages/ingest"
	"github.com/user/videostab/pkg/stages/stabilize"
	"github.com/user/videostab/pkg/summarizer"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "videostab",
		Usage:   l10n.T("Stabilize shaky videos with frame-cache-aware processing"),
		Version: version,
		Commands: []*cli.Command{
			stabilizeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func stabilizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "stabilize",
		Usage:     l10n.T("Stabilize a video file"),
		ArgsUsage: "VIDEO",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   l10n.T("Directory for the stabilized video"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: l10n.T("Path to a YAML configuration file"),
			},
			&cli.StringFlag{
				Name:  "cache-root",
				Usage: l10n.T("Root directory of the frame cache"),
			},
			&cli.IntFlag{
				Name:    "reference",
				Aliases: []string{"r"},
				Usage:   l10n.T("Reference frame number, starting at 1"),
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   l10n.T("Alignment strategy (correlation or feature)"),
			},
			&cli.IntFlag{
				Name:  "max-shift",
				Usage: l10n.T("Largest translation in pixels the correlation search covers"),
			},
			&cli.Float64Flag{
				Name:  "fps",
				Usage: l10n.T("Output frame rate (default: the source's rate)"),
			},
			&cli.IntFlag{
				Name:  "crf",
				Usage: l10n.T("Video quality (CRF, lower is better)"),
			},
			&cli.IntFlag{
				Name:  "bitrate",
				Usage: l10n.T("Video bitrate in kbit/s (overrides CRF)"),
			},
			&cli.StringFlag{
				Name:  "container",
				Usage: l10n.T("Output container (mp4 or avi)"),
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: l10n.T("Number of parallel workers (0 = all CPUs)"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   l10n.T("Write debug artifacts"),
			},
			&cli.StringFlag{
				Name:  "debug-dir",
				Value: "./debug",
				Usage: l10n.T("Directory for debug artifacts"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   l10n.T("Log level (debug, info, warn, error)"),
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"Q"},
				Usage:   l10n.T("Suppress all log output"),
			},
		},
		Action: runStabilize,
	}
}

func runStabilize(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New(l10n.T("expected exactly one video file argument"))
	}

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	// Create adapters
	fs := osfilesystem.New()
	decoder := ffmpegdecoder.New()
	encoder := ffmpegencoder.New()

	// MP4 box probing is cheap and needs no child process, so it goes first.
	probers := []ports.MetadataProber{mp4probe.New(), decoder}

	var aligner ports.FrameAligner
	switch cfg.Strategy {
	case config.StrategyFeature:
		aligner = featurealigner.New(featurealigner.Options{})
	default:
		aligner = corraligner.New(corraligner.Options{MaxShift: cfg.MaxShift})
	}

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(fs, cfg.DebugDir)
	} else {
		sink = nullsink.New()
	}

	// Create stages
	writer := framewriter.New(fs, log, cfg.Workers)
	ingestStage := ingest.NewStage(decoder, probers, writer, fs, log)
	stabilizeStage := stabilize.NewStage(aligner, sink, log, cfg.Workers)
	encodeStage := encode.NewStage(encoder, log)

	orch := orchestrator.New(ingestStage, stabilizeStage, encodeStage, fs, sink, log)
	orchConfig := cfg.ToOrchestratorConfig()

	log.Info(l10n.F("Stabilizing %s with the %s strategy...", cfg.InputPath, cfg.Strategy))

	result, err := orch.Run(ctx, orchConfig)
	if err != nil {
		return err
	}

	if cfg.Debug {
		if err := writeSummary(cfg, result); err != nil {
			log.Warn(l10n.F("Failed to write summary: %s", err))
		}
	}

	log.Info(l10n.F("Output saved to %s", result.OutputPath))
	return nil
}

// buildConfig merges defaults, an optional YAML file, and CLI overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}

	cfg.InputPath = c.Args().First()
	cfg.OutputDir = c.String("output-dir")

	if c.IsSet("cache-root") {
		cfg.CacheRoot = c.String("cache-root")
	}
	if c.IsSet("reference") {
		cfg.ReferenceIndex = c.Int("reference")
	}
	if c.IsSet("strategy") {
		cfg.Strategy = c.String("strategy")
	}
	if c.IsSet("max-shift") {
		cfg.MaxShift = c.Int("max-shift")
	}
	if c.IsSet("fps") {
		cfg.FPS = c.Float64("fps")
	}
	if c.IsSet("crf") {
		cfg.CRF = c.Int("crf")
	}
	if c.IsSet("bitrate") {
		cfg.Bitrate = c.Int("bitrate")
	}
	if c.IsSet("container") {
		cfg.Container = c.String("container")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	return cfg, nil
}

// writeSummary renders a Markdown report of the run into the debug directory.
func writeSummary(cfg config.Config, result orchestrator.RunResult) error {
	summary := summarizer.NewBuilder().
		WithSource(cfg.InputPath, result.FrameCount, result.FrameRate).
		WithCache(result.CacheDir, result.FromCache).
		WithAlignment(cfg.StrategyTag(), cfg.ReferenceIndex, result.FallbackCount).
		WithVideo(summarizer.VideoInfo{
			Path:       result.OutputPath,
			DurationMs: result.VideoDuration,
			FileSize:   result.VideoFileSize,
			Container:  cfg.Container,
			CRF:        cfg.CRF,
		}).
		Build()

	formatter := summarizer.NewMarkdownFormatter(summarizer.WithTranslator(l10n.T))
	writer := summarizer.NewWriter(formatter)
	return writer.Write(cfg.DebugDir+"/summary.md", summary)
}
