package summarizer

import (
	"fmt"
	"strings"
)

// Translator converts a display string, typically for localization.
type Translator func(key string) string

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate Translator
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the translator used for section titles and labels.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// NewMarkdownFormatter creates a Markdown formatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders the summary.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	t := f.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Stabilization Summary"))
	fmt.Fprintf(&sb, "%s: %s\n\n", t("Generated"), summary.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&sb, "## %s\n\n", t("Source"))
	fmt.Fprintf(&sb, "- %s: %s\n", t("Path"), summary.Source.Path)
	fmt.Fprintf(&sb, "- %s: %d\n", t("Frames"), summary.Source.FrameCount)
	fmt.Fprintf(&sb, "- %s: %.2f fps\n", t("Frame Rate"), summary.Source.FrameRate)
	if summary.Cache.CacheHit {
		fmt.Fprintf(&sb, "- %s: %s (%s)\n", t("Frame Cache"), summary.Cache.Dir, t("hit"))
	} else {
		fmt.Fprintf(&sb, "- %s: %s (%s)\n", t("Frame Cache"), summary.Cache.Dir, t("decoded"))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## %s\n\n", t("Alignment"))
	fmt.Fprintf(&sb, "- %s: %s\n", t("Strategy"), summary.Alignment.Strategy)
	fmt.Fprintf(&sb, "- %s: %d\n", t("Reference Frame"), summary.Alignment.ReferenceIndex)
	if summary.Alignment.FallbackCount > 0 {
		fmt.Fprintf(&sb, "- %s: %d\n", t("Unaligned Frames"), summary.Alignment.FallbackCount)
	} else {
		fmt.Fprintf(&sb, "- %s: %s\n", t("Unaligned Frames"), t("None"))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## %s\n\n", t("Output"))
	fmt.Fprintf(&sb, "- %s: %s\n", t("Path"), summary.Video.Path)
	fmt.Fprintf(&sb, "- %s: %s\n", t("Container"), summary.Video.Container)
	fmt.Fprintf(&sb, "- %s: %s\n", t("Duration"), formatDurationMs(summary.Video.DurationMs))
	fmt.Fprintf(&sb, "- %s: %s\n", t("File Size"), formatBytes(summary.Video.FileSize))
	if summary.Video.CRF > 0 {
		fmt.Fprintf(&sb, "- CRF: %d\n", summary.Video.CRF)
	}

	return sb.String()
}

func formatDurationMs(ms int) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.2f s", float64(ms)/1000)
	}
	return fmt.Sprintf("%d ms", ms)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
