// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded clips, sample conversions and software gain
package audio

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Clip is a fully decoded audio file held in memory.
// Samples are interleaved and kept in the 24-bit range regardless of source depth.
type Clip struct {
	Path       string
	SampleRate int
	Channels   int
	Samples    []int32
}

// Frames returns the number of sample frames in the clip
func (c *Clip) Frames() int {
	if c == nil || c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// DurationMs returns the clip length in milliseconds
func (c *Clip) DurationMs() int64 {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return int64(c.Frames()) * 1000 / int64(c.SampleRate)
}

// FrameAt converts a millisecond timestamp to a frame index, clamped to the clip
func (c *Clip) FrameAt(ms int64) int {
	if c == nil || c.SampleRate <= 0 || ms <= 0 {
		return 0
	}
	frame := ms * int64(c.SampleRate) / 1000
	if frame > int64(c.Frames()) {
		return c.Frames()
	}
	return int(frame)
}

// MsAt converts a frame index to a millisecond timestamp
func (c *Clip) MsAt(frame int) int64 {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return int64(frame) * 1000 / int64(c.SampleRate)
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// ScaleTo24Bit moves a sample of the given bit depth into the 24-bit range
func ScaleTo24Bit(sample int32, bitDepth int) int32 {
	switch {
	case bitDepth == 24 || bitDepth <= 0:
		return sample
	case bitDepth < 24:
		return sample << (24 - bitDepth)
	default:
		return sample >> (bitDepth - 24)
	}
}

// VolumeMultiplier calculates the gain for a 0-100 volume and mute flag
func VolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	return float64(volume) / 100.0
}

// ApplyVolume scales samples in place with clipping protection
func ApplyVolume(samples []int32, volume int, muted bool) {
	multiplier := VolumeMultiplier(volume, muted)
	if multiplier == 1.0 {
		return
	}

	for i, sample := range samples {
		scaled := int64(float64(sample) * multiplier)

		// Clamp to 24-bit range to prevent overflow
		if scaled > Max24Bit {
			scaled = Max24Bit
		} else if scaled < Min24Bit {
			scaled = Min24Bit
		}

		samples[i] = int32(scaled)
	}
}
