// ABOUTME: Linear resampler and channel mapper for decoded clips
// ABOUTME: Converts whole clips to the fixed rate and layout of a shared output context
package resample

import "github.com/harperreed/dualdeck/pkg/audio"

// Resampler performs linear interpolation between two sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// OutputFrames returns how many frames Resample produces for inputFrames
func (r *Resampler) OutputFrames(inputFrames int) int {
	if inputFrames < 2 {
		return inputFrames
	}
	return int(float64(inputFrames-1)/r.ratio) + 1
}

// Resample converts a complete interleaved buffer to the output rate
func (r *Resampler) Resample(input []int32) []int32 {
	inputFrames := len(input) / r.channels
	if r.inputRate == r.outputRate || inputFrames < 2 {
		out := make([]int32, len(input))
		copy(out, input)
		return out
	}

	outputFrames := r.OutputFrames(inputFrames)
	output := make([]int32, outputFrames*r.channels)

	for outIdx := 0; outIdx < outputFrames; outIdx++ {
		pos := float64(outIdx) * r.ratio
		idx := int(pos)
		if idx >= inputFrames-1 {
			idx = inputFrames - 2
		}
		frac := pos - float64(idx)
		if frac > 1 {
			frac = 1
		}

		for ch := 0; ch < r.channels; ch++ {
			s1 := input[idx*r.channels+ch]
			s2 := input[(idx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = int32(float64(s1)*(1.0-frac) + float64(s2)*frac)
		}
	}

	return output
}

// Stereo maps mono clips to two channels and drops channels beyond two
func Stereo(samples []int32, channels int) []int32 {
	if channels == 2 {
		return samples
	}

	frames := len(samples) / channels
	out := make([]int32, frames*2)
	for i := 0; i < frames; i++ {
		left := samples[i*channels]
		right := left
		if channels > 1 {
			right = samples[i*channels+1]
		}
		out[i*2] = left
		out[i*2+1] = right
	}
	return out
}

// Clip returns a stereo copy of clip at the target sample rate
func Clip(clip *audio.Clip, targetRate int) *audio.Clip {
	stereo := Stereo(clip.Samples, clip.Channels)
	r := New(clip.SampleRate, targetRate, 2)

	return &audio.Clip{
		Path:       clip.Path,
		SampleRate: targetRate,
		Channels:   2,
		Samples:    r.Resample(stereo),
	}
}
