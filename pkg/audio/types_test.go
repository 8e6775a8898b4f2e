// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion, clip timing and software gain
package audio

import "testing"

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 100 << 8, 100},
		{"negative", -100 << 8, -100},
		{"24bit positive", 1000000, 3906}, // 1000000 >> 8 = 3906
		{"24bit negative", -1000000, -3907},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFrom24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]byte
		expected int32
	}{
		{"zero", [3]byte{0, 0, 0}, 0},
		{"positive", [3]byte{0x56, 0x34, 0x12}, 0x123456},
		{"negative", [3]byte{0x00, 0xFF, 0xFF}, -256},
		{"max positive", [3]byte{0xFF, 0xFF, 0x7F}, Max24Bit},
		{"max negative", [3]byte{0x00, 0x00, 0x80}, Min24Bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFrom24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRoundTrip16Bit(t *testing.T) {
	// Test that 16-bit samples survive round-trip conversion
	samples := []int16{0, 100, -100, 1000, -1000, 32767, -32768}

	for _, original := range samples {
		sample32 := SampleFromInt16(original)
		result := SampleToInt16(sample32)
		if result != original {
			t.Errorf("round-trip failed: %d -> %d -> %d", original, sample32, result)
		}
	}
}

func TestScaleTo24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		bitDepth int
		expected int32
	}{
		{"16-bit", 1000, 16, 1000 << 8},
		{"8-bit", 10, 8, 10 << 16},
		{"24-bit", 123456, 24, 123456},
		{"32-bit", 1 << 20, 32, 1 << 12},
		{"unknown depth", 42, 0, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScaleTo24Bit(tt.input, tt.bitDepth)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestClipTiming(t *testing.T) {
	clip := &Clip{
		SampleRate: 1000,
		Channels:   2,
		Samples:    make([]int32, 2*10000),
	}

	if clip.Frames() != 10000 {
		t.Errorf("expected 10000 frames, got %d", clip.Frames())
	}
	if clip.DurationMs() != 10000 {
		t.Errorf("expected 10000ms, got %d", clip.DurationMs())
	}
	if clip.FrameAt(2500) != 2500 {
		t.Errorf("expected frame 2500, got %d", clip.FrameAt(2500))
	}
	if clip.FrameAt(-5) != 0 {
		t.Errorf("expected negative timestamp to clamp to 0, got %d", clip.FrameAt(-5))
	}
	if clip.FrameAt(20000) != 10000 {
		t.Errorf("expected timestamp past end to clamp to 10000, got %d", clip.FrameAt(20000))
	}
	if clip.MsAt(4410) != 4410 {
		t.Errorf("expected 4410ms, got %d", clip.MsAt(4410))
	}
}

func TestNilClip(t *testing.T) {
	var clip *Clip
	if clip.Frames() != 0 || clip.DurationMs() != 0 || clip.FrameAt(100) != 0 {
		t.Error("nil clip should report zero length")
	}
}

func TestVolumeMultiplier(t *testing.T) {
	tests := []struct {
		volume   int
		muted    bool
		expected float64
	}{
		{100, false, 1.0},
		{50, false, 0.5},
		{0, false, 0.0},
		{80, true, 0.0}, // Muted overrides volume
		{150, false, 1.0},
		{-10, false, 0.0},
	}

	for _, tt := range tests {
		result := VolumeMultiplier(tt.volume, tt.muted)
		if result != tt.expected {
			t.Errorf("volume=%d, muted=%v: expected %f, got %f",
				tt.volume, tt.muted, tt.expected, result)
		}
	}
}

func TestApplyVolume(t *testing.T) {
	samples := []int32{1000, -1000, 500, -500}

	ApplyVolume(samples, 50, false)

	if samples[0] != 500 {
		t.Errorf("expected 500, got %d", samples[0])
	}
	if samples[1] != -500 {
		t.Errorf("expected -500, got %d", samples[1])
	}
}

func TestApplyVolumeMuted(t *testing.T) {
	samples := []int32{Max24Bit, Min24Bit}

	ApplyVolume(samples, 100, true)

	for i, s := range samples {
		if s != 0 {
			t.Errorf("sample %d: expected silence, got %d", i, s)
		}
	}
}

func TestTone(t *testing.T) {
	clip := Tone(440, 1000, 8000, 2)

	if clip.Frames() != 8000 || clip.Channels != 2 {
		t.Fatalf("unexpected shape: %d frames, %d channels", clip.Frames(), clip.Channels)
	}

	var peak int32
	for i := 0; i < len(clip.Samples); i += 2 {
		if clip.Samples[i] != clip.Samples[i+1] {
			t.Fatalf("frame %d: channels differ", i/2)
		}
		if clip.Samples[i] > peak {
			peak = clip.Samples[i]
		}
	}
	if peak < Max24Bit/2-Max24Bit/100 || peak > Max24Bit/2 {
		t.Errorf("expected half-scale peak, got %d", peak)
	}
	if last := clip.Samples[len(clip.Samples)-1]; last > Max24Bit/100 || last < -Max24Bit/100 {
		t.Errorf("expected faded tail, got %d", last)
	}
}
