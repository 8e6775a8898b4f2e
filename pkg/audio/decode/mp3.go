// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to int32 samples
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/harperreed/dualdeck/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes an MP3 stream. go-mp3 always yields 16-bit stereo.
func MP3(r io.ReadSeeker) (*audio.Clip, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	buf, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	// Convert bytes to int16 then to int32
	numSamples := len(buf) / 2
	samples := make([]int32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(buf[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}

	return &audio.Clip{
		SampleRate: decoder.SampleRate(),
		Channels:   2,
		Samples:    samples,
	}, nil
}
