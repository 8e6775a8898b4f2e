// ABOUTME: WAV audio encoder
// ABOUTME: Writes a clip as integer PCM WAV with go-audio/wav
package encode

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/harperreed/dualdeck/pkg/audio"
)

// WAV writes clip to w as PCM at bitDepth (16 or 24)
func WAV(w io.WriteSeeker, clip *audio.Clip, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}
	if clip == nil || clip.Channels <= 0 || clip.SampleRate <= 0 {
		return fmt.Errorf("invalid clip format")
	}

	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		if bitDepth == 16 {
			data[i] = int(audio.SampleToInt16(s))
		} else {
			data[i] = int(s)
		}
	}

	enc := wav.NewEncoder(w, clip.SampleRate, bitDepth, clip.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: clip.Channels, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav encode error: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav finalize error: %w", err)
	}
	return nil
}

// WriteFile writes clip to path as 16-bit WAV
func WriteFile(path string, clip *audio.Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WAV(f, clip, 16); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
