package summarizer

import (
	"strings"
	"testing"
	"time"
)

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Source: SourceInfo{
			Path:       "videos/shaky.mp4",
			FrameCount: 120,
			FrameRate:  29.97,
		},
		Cache: CacheInfo{
			Dir:      "Extracted_Frames/shaky",
			CacheHit: true,
		},
		Alignment: AlignmentInfo{
			Strategy:       "CORR",
			ReferenceIndex: 1,
			FallbackCount:  2,
		},
		Video: VideoInfo{
			Path:       "out/shaky_stabilized_CORR.mp4",
			DurationMs: 4000,
			FileSize:   1024 * 1024,
			Container:  "mp4",
			CRF:        23,
		},
	}

	result := formatter.Format(summary)

	checks := []string{
		"# Stabilization Summary",
		"videos/shaky.mp4",
		"120",
		"29.97 fps",
		"Extracted_Frames/shaky",
		"hit",
		"CORR",
		"4.00 s",
		"1.00 MB",
		"CRF: 23",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Format_NoFallbacks(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := NewSummary()
	summary.Alignment = AlignmentInfo{Strategy: "FEAT", ReferenceIndex: 3}

	result := formatter.Format(summary)

	if !strings.Contains(result, "None") {
		t.Error("expected 'None' when all frames aligned")
	}
}

func TestMarkdownFormatter_Format_CacheMiss(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := NewSummary()
	summary.Cache = CacheInfo{Dir: "Extracted_Frames/clip", CacheHit: false}

	result := formatter.Format(summary)

	if !strings.Contains(result, "decoded") {
		t.Error("expected 'decoded' for a cache miss")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Stabilization Summary": "安定化サマリー",
			"Source":                "入力",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	formatter := NewMarkdownFormatter(WithTranslator(translator))
	result := formatter.Format(NewSummary())

	if !strings.Contains(result, "安定化サマリー") {
		t.Error("expected translated title")
	}
	if !strings.Contains(result, "入力") {
		t.Error("expected translated section header")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{500, "500 B"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDurationMs(t *testing.T) {
	if got := formatDurationMs(500); got != "500 ms" {
		t.Errorf("unexpected %q", got)
	}
	if got := formatDurationMs(2500); got != "2.50 s" {
		t.Errorf("unexpected %q", got)
	}
}
