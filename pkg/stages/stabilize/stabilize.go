// Package stabilize implements the per-frame alignment stage. Every frame
// except the reference is aligned concurrently; a frame whose alignment
// fails is passed through unmodified rather than aborting the batch.
package stabilize

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/user/videostab/pkg/pipeline"
	"github.com/user/videostab/pkg/ports"
)

// Stage aligns frames to the reference frame using a worker pool.
type Stage struct {
	aligner    ports.FrameAligner
	sink       ports.DebugSink
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a stabilize stage. A non-positive worker count defaults
// to the number of CPUs.
func NewStage(aligner ports.FrameAligner, sink ports.DebugSink, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		aligner:    aligner,
		sink:       sink,
		logger:     logger.WithComponent("stabilize"),
		numWorkers: numWorkers,
	}
}

// Execute aligns every non-reference frame to the reference frame. The
// output has the same length and index space as the input; the reference
// frame is copied through untouched. The stage waits for every task before
// returning, so partial results are never exposed.
func (s *Stage) Execute(ctx context.Context, input pipeline.StabilizeInput) (pipeline.StabilizeResult, error) {
	frames := input.Frames
	ref := input.ReferenceIndex
	if !frames.ValidIndex(ref) {
		return pipeline.StabilizeResult{}, fmt.Errorf("reference index %d out of range [1, %d]", ref, len(frames))
	}

	fixed := frames.Frame(ref)
	dims := pipeline.DimensionsOf(fixed)

	s.logger.Debug("Aligning %d frames to reference %d with %d workers", len(frames)-1, ref, s.numWorkers)

	output := make(pipeline.FrameSet, len(frames))
	transforms := make([]ports.Transform, len(frames))
	output[ref-1] = fixed
	transforms[ref-1] = ports.Identity()

	type result struct {
		index     int // 1-based
		transform ports.Transform
		fellBack  bool
	}

	jobs := make(chan int, len(frames))
	results := make(chan result, len(frames))

	var wg sync.WaitGroup
	for w := 0; w < s.numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				moving := frames.Frame(i)
				t, err := s.aligner.EstimateTransform(moving, fixed)
				if err != nil {
					// Non-fatal: the unaligned frame stands in.
					s.logger.Warn("Frame %d alignment failed (%v), keeping original", i, err)
					output[i-1] = moving
					results <- result{index: i, transform: ports.Identity(), fellBack: true}
					continue
				}

				output[i-1] = s.aligner.Warp(moving, t, dims.Width, dims.Height)
				results <- result{index: i, transform: t}
			}
		}()
	}

	for i := 1; i <= len(frames); i++ {
		if i != ref {
			jobs <- i
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var fallbacks []int
	for r := range results {
		transforms[r.index-1] = r.transform
		if r.fellBack {
			fallbacks = append(fallbacks, r.index)
		}
		if s.sink.Enabled() {
			s.sink.SaveAlignedFrame(r.index, output[r.index-1], r.transform)
		}
	}

	if err := ctx.Err(); err != nil {
		return pipeline.StabilizeResult{}, err
	}

	sort.Ints(fallbacks)
	if len(fallbacks) > 0 {
		s.logger.Warn("%d of %d frames fell back to their original content", len(fallbacks), len(frames))
	}
	s.logger.Debug("Alignment completed")

	return pipeline.StabilizeResult{
		Frames:     output,
		Fallbacks:  fallbacks,
		Transforms: transforms,
	}, nil
}
