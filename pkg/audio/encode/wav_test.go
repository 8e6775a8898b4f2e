// ABOUTME: Unit tests for WAV encoder
// ABOUTME: Tests bit depth validation and decoding of written files
package encode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/dualdeck/pkg/audio"
	"github.com/harperreed/dualdeck/pkg/audio/decode"
)

func TestWAVRejectsBitDepth(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := WAV(f, audio.Tone(440, 10, 8000, 1), 8); err == nil {
		t.Error("expected error for 8-bit output")
	}
	if err := WAV(f, &audio.Clip{}, 16); err == nil {
		t.Error("expected error for empty format")
	}
}

func TestWriteFileDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	tone := audio.Tone(440, 500, 8000, 2)

	if err := WriteFile(path, tone); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	clip, err := decode.Open(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if clip.SampleRate != 8000 || clip.Channels != 2 {
		t.Errorf("unexpected format %dHz %dch", clip.SampleRate, clip.Channels)
	}
	if clip.Frames() != tone.Frames() {
		t.Errorf("expected %d frames, got %d", tone.Frames(), clip.Frames())
	}
	if clip.DurationMs() != 500 {
		t.Errorf("expected 500ms, got %d", clip.DurationMs())
	}
}

func TestWAV24BitKeepsResolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone24.wav")
	tone := audio.Tone(1000, 50, 8000, 1)

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WAV(f, tone, 24); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	f.Close()

	clip, err := decode.Open(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i := range tone.Samples {
		if clip.Samples[i] != tone.Samples[i] {
			t.Fatalf("sample %d: got %d, want %d", i, clip.Samples[i], tone.Samples[i])
		}
	}
}
