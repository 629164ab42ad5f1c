// Package mp4probe reads stream metadata directly from MP4 container boxes,
// without spawning any external process.
package mp4probe

import (
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/videostab/pkg/ports"
)

// Prober implements ports.MetadataProber for MP4 files.
type Prober struct{}

// New creates an MP4 box prober.
func New() *Prober {
	return &Prober{}
}

// Probe parses the container and returns the video track metadata.
func (p *Prober) Probe(path string) (ports.StreamMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.StreamMetadata{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return p.ProbeReader(f)
}

// ProbeReader parses MP4 data from an io.ReadSeeker.
func (p *Prober) ProbeReader(reader io.ReadSeeker) (ports.StreamMetadata, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return ports.StreamMetadata{}, fmt.Errorf("decode mp4: %w", err)
	}

	moov := mp4File.Moov
	if mp4File.IsFragmented() && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return ports.StreamMetadata{}, fmt.Errorf("no moov box found")
	}

	var videoTrack *mp4.TrakBox
	for _, trak := range moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			videoTrack = trak
			break
		}
	}
	if videoTrack == nil {
		return ports.StreamMetadata{}, fmt.Errorf("no video track found")
	}

	var meta ports.StreamMetadata
	if videoTrack.Tkhd != nil {
		// Track header dimensions are 16.16 fixed point.
		meta.Width = int(videoTrack.Tkhd.Width >> 16)
		meta.Height = int(videoTrack.Tkhd.Height >> 16)
	}

	if videoTrack.Mdia.Mdhd != nil && videoTrack.Mdia.Mdhd.Timescale > 0 {
		meta.DurationSec = float64(videoTrack.Mdia.Mdhd.Duration) / float64(videoTrack.Mdia.Mdhd.Timescale)
	}

	// Frame rate falls out of the sample count over the track duration.
	// Fragmented files keep their samples outside moov, so the count is
	// unavailable there and the rate stays zero.
	if meta.DurationSec > 0 &&
		videoTrack.Mdia.Minf != nil &&
		videoTrack.Mdia.Minf.Stbl != nil &&
		videoTrack.Mdia.Minf.Stbl.Stsz != nil {
		meta.FrameRate = float64(videoTrack.Mdia.Minf.Stbl.Stsz.SampleNumber) / meta.DurationSec
	}

	return meta, nil
}

// Ensure Prober implements ports.MetadataProber
var _ ports.MetadataProber = (*Prober)(nil)
