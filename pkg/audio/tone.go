// ABOUTME: Sine test tone generator
// ABOUTME: Builds a clip used to check which outputs each channel reaches
package audio

import "math"

// Tone returns a sine clip at half scale, duplicated to every channel.
// The last 10ms fade out to avoid a click at the end.
func Tone(frequency float64, durationMs int64, sampleRate, channels int) *Clip {
	frames := int(durationMs * int64(sampleRate) / 1000)
	fade := sampleRate / 100
	samples := make([]int32, frames*channels)

	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		level := 0.5
		if left := frames - i; left < fade {
			level *= float64(left) / float64(fade)
		}
		v := int32(math.Sin(2*math.Pi*frequency*t) * level * Max24Bit)
		for ch := 0; ch < channels; ch++ {
			samples[i*channels+ch] = v
		}
	}

	return &Clip{
		Path:       "tone",
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    samples,
	}
}
