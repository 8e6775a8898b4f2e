// ABOUTME: WAV audio decoder
// ABOUTME: Decodes PCM WAV files to int32 samples
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/harperreed/dualdeck/pkg/audio"
)

// WAV decodes a RIFF/WAVE stream holding integer PCM
func WAV(r io.ReadSeeker) (*audio.Clip, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode error: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	samples := make([]int32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = audio.ScaleTo24Bit(int32(s), bitDepth)
	}

	return &audio.Clip{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		Samples:    samples,
	}, nil
}
