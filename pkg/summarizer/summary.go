// Package summarizer provides summary generation for stabilization results.
package summarizer

import "time"

// Summary contains all data collected during a stabilization run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Source video information
	Source SourceInfo

	// Frame cache information
	Cache CacheInfo

	// Alignment results
	Alignment AlignmentInfo

	// Video output details
	Video VideoInfo
}

// SourceInfo describes the input video.
type SourceInfo struct {
	Path       string
	FrameCount int
	FrameRate  float64
}

// CacheInfo describes how frames were obtained.
type CacheInfo struct {
	Dir      string
	CacheHit bool
}

// AlignmentInfo contains the stabilization outcome.
type AlignmentInfo struct {
	Strategy       string
	ReferenceIndex int
	FallbackCount  int
}

// VideoInfo contains information about the output video.
type VideoInfo struct {
	Path       string
	DurationMs int
	FileSize   int64
	Container  string
	CRF        int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets source video information.
func (b *Builder) WithSource(path string, frameCount int, frameRate float64) *Builder {
	b.summary.Source = SourceInfo{
		Path:       path,
		FrameCount: frameCount,
		FrameRate:  frameRate,
	}
	return b
}

// WithCache sets frame cache information.
func (b *Builder) WithCache(dir string, hit bool) *Builder {
	b.summary.Cache = CacheInfo{
		Dir:      dir,
		CacheHit: hit,
	}
	return b
}

// WithAlignment sets alignment results.
func (b *Builder) WithAlignment(strategy string, referenceIndex, fallbackCount int) *Builder {
	b.summary.Alignment = AlignmentInfo{
		Strategy:       strategy,
		ReferenceIndex: referenceIndex,
		FallbackCount:  fallbackCount,
	}
	return b
}

// WithVideo sets video output information.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
