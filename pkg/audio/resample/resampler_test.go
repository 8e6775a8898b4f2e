// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation and channel mapping
package resample

import (
	"testing"

	"github.com/harperreed/dualdeck/pkg/audio"
)

func TestNew(t *testing.T) {
	r := New(44100, 48000, 2)

	if r.inputRate != 44100 {
		t.Errorf("expected inputRate 44100, got %d", r.inputRate)
	}
	if r.outputRate != 48000 {
		t.Errorf("expected outputRate 48000, got %d", r.outputRate)
	}
	if r.channels != 2 {
		t.Errorf("expected channels 2, got %d", r.channels)
	}
}

func TestResampleUpsampling(t *testing.T) {
	r := New(24000, 48000, 1)

	input := []int32{0, 100, 200, 300}
	output := r.Resample(input)

	if len(output) != 7 {
		t.Fatalf("expected 7 samples, got %d", len(output))
	}

	// Every second output sample is interpolated halfway
	expected := []int32{0, 50, 100, 150, 200, 250, 300}
	for i, want := range expected {
		if output[i] != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, output[i])
		}
	}
}

func TestResampleDownsampling(t *testing.T) {
	r := New(48000, 24000, 2)

	input := make([]int32, 200)
	for i := range input {
		input[i] = int32(i * 100)
	}

	output := r.Resample(input)

	if len(output) != 100 {
		t.Fatalf("expected 100 samples, got %d", len(output))
	}

	// Frame 1 of output is frame 2 of input
	if output[2] != input[4] || output[3] != input[5] {
		t.Errorf("expected frame (%d,%d), got (%d,%d)", input[4], input[5], output[2], output[3])
	}
}

func TestResampleSameRate(t *testing.T) {
	r := New(48000, 48000, 2)
	input := []int32{1, 2, 3, 4}

	output := r.Resample(input)
	if len(output) != len(input) {
		t.Fatalf("expected %d samples, got %d", len(input), len(output))
	}

	output[0] = 99
	if input[0] != 1 {
		t.Error("resample must not alias the input buffer")
	}
}

func TestStereoFromMono(t *testing.T) {
	out := Stereo([]int32{1, 2, 3}, 1)

	expected := []int32{1, 1, 2, 2, 3, 3}
	if len(out) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(out))
	}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("sample %d: expected %d, got %d", i, expected[i], out[i])
		}
	}
}

func TestStereoDropsExtraChannels(t *testing.T) {
	out := Stereo([]int32{1, 2, 3, 4, 5, 6}, 3)

	expected := []int32{1, 2, 4, 5}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("sample %d: expected %d, got %d", i, expected[i], out[i])
		}
	}
}

func TestClip(t *testing.T) {
	clip := &audio.Clip{
		Path:       "mono.wav",
		SampleRate: 24000,
		Channels:   1,
		Samples:    make([]int32, 24000),
	}

	out := Clip(clip, 48000)

	if out.SampleRate != 48000 || out.Channels != 2 {
		t.Fatalf("expected 48000Hz stereo, got %dHz %dch", out.SampleRate, out.Channels)
	}
	// Linear interpolation ends on the last input frame, so allow one frame of slack
	if diff := clip.DurationMs() - out.DurationMs(); diff < 0 || diff > 1 {
		t.Errorf("expected duration ~%d, got %d", clip.DurationMs(), out.DurationMs())
	}
	if out.Path != "mono.wav" {
		t.Errorf("expected path to be preserved, got %q", out.Path)
	}
}
