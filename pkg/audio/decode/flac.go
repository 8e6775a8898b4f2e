// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC files frame by frame into int32 samples
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/harperreed/dualdeck/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLAC decodes a FLAC stream
func FLAC(r io.ReadSeeker) (*audio.Clip, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	samples := make([]int32, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame error: %w", err)
		}

		// Interleave subframes
		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, audio.ScaleTo24Bit(frame.Subframes[ch].Samples[i], bitDepth))
			}
		}
	}

	return &audio.Clip{
		SampleRate: int(info.SampleRate),
		Channels:   channels,
		Samples:    samples,
	}, nil
}
