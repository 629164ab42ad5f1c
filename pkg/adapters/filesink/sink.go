// Package filesink writes pipeline debug artifacts to a directory: the
// ingest and transform reports as JSON, and each aligned frame as an
// annotated PNG.
package filesink

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path"

	"github.com/fogleman/gg"

	"github.com/user/videostab/pkg/ports"
)

// Sink implements ports.DebugSink on top of a FileSystem.
type Sink struct {
	fs      ports.FileSystem
	baseDir string
}

// New creates a sink rooted at baseDir.
func New(fs ports.FileSystem, baseDir string) *Sink {
	return &Sink{fs: fs, baseDir: baseDir}
}

// Enabled reports that this sink persists artifacts.
func (s *Sink) Enabled() bool {
	return true
}

// SaveIngestJSON writes the ingest report.
func (s *Sink) SaveIngestJSON(data []byte) error {
	return s.fs.WriteFile(path.Join(s.baseDir, "ingest.json"), data)
}

// SaveTransformsJSON writes the per-frame transform report.
func (s *Sink) SaveTransformsJSON(data []byte) error {
	return s.fs.WriteFile(path.Join(s.baseDir, "transforms.json"), data)
}

// SaveAlignedFrame writes an aligned frame with its translation stamped into
// the top-left corner.
func (s *Sink) SaveAlignedFrame(index int, img image.Image, t ports.Transform) error {
	dc := gg.NewContextForImage(img)
	label := fmt.Sprintf("#%d dx=%.1f dy=%.1f", index, t.Tx, t.Ty)

	w, _ := dc.MeasureString(label)
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(4, 4, w+12, 20)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(label, 10, 18)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return fmt.Errorf("encode aligned frame %d: %w", index, err)
	}
	name := fmt.Sprintf("frame-%04d.png", index)
	return s.fs.WriteFile(path.Join(s.baseDir, "aligned", name), buf.Bytes())
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
