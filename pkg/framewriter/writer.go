// Package framewriter persists a frame set to numbered image files
// concurrently. Each task owns a disjoint filename, so no synchronization is
// needed between writer tasks and the final directory state is deterministic
// for any worker count.
package framewriter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/user/videostab/pkg/ports"
)

// Ext is the image file extension used for cached frames.
const Ext = ".png"

// minPadWidth is the minimum zero-padding width of the frame number.
const minPadWidth = 4

// FileName returns the file name for the frame at the 1-based index, padded
// wide enough for total frames (at least 4 digits).
func FileName(index, total int) string {
	return fmt.Sprintf("frame_%0*d%s", PadWidth(total), index, Ext)
}

// PadWidth returns the zero-padding width used for a frame set of the given
// size.
func PadWidth(total int) int {
	width := 1
	for n := total; n >= 10; n /= 10 {
		width++
	}
	if width < minPadWidth {
		width = minPadWidth
	}
	return width
}

// Writer writes frames to numbered files using a worker pool.
type Writer struct {
	fs         ports.FileSystem
	logger     ports.Logger
	numWorkers int
}

// New creates a Writer. A non-positive worker count defaults to the number
// of CPUs.
func New(fs ports.FileSystem, logger ports.Logger, numWorkers int) *Writer {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Writer{
		fs:         fs,
		logger:     logger.WithComponent("framewriter"),
		numWorkers: numWorkers,
	}
}

// WriteAll persists every non-nil frame to dir as frame_NNNN.png, where NNNN
// is the frame's 1-based index. Nil frames are skipped with a warning rather
// than failing the batch. Returns the number of files written.
func (w *Writer) WriteAll(ctx context.Context, frames []image.Image, dir string) (int, error) {
	if len(frames) == 0 {
		return 0, nil
	}

	w.logger.Debug("Writing %d frames to %s with %d workers", len(frames), dir, w.numWorkers)

	jobs := make(chan int, len(frames))
	errChan := make(chan error, w.numWorkers)
	var written int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < w.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				frame := frames[idx]
				if frame == nil {
					w.logger.Warn("Frame %d is empty, skipping", idx+1)
					continue
				}

				if err := w.writeFrame(frame, idx+1, len(frames), dir); err != nil {
					select {
					case errChan <- fmt.Errorf("write frame %d: %w", idx+1, err):
					default:
					}
					return
				}

				mu.Lock()
				written++
				mu.Unlock()
			}
		}()
	}

	for i := range frames {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return written, err
	}
	if err := ctx.Err(); err != nil {
		return written, err
	}

	w.logger.Debug("Wrote %d frames", written)
	return written, nil
}

func (w *Writer) writeFrame(frame image.Image, index, total int, dir string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	path := filepath.Join(dir, FileName(index, total))
	return w.fs.WriteFile(path, buf.Bytes())
}
