// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the Clip type and sample conversion functions
// Package audio provides the decoded clip type shared by decoders and outputs.
//
// Every decoder produces a Clip with interleaved int32 samples in the
// 24-bit range, so outputs can apply gain and convert to their device
// format without caring about the source codec.
//
// Example:
//
//	clip, err := decode.Open("intro.wav")
//	start := clip.FrameAt(2000)
//	sample16 := audio.SampleToInt16(clip.Samples[start*clip.Channels])
package audio
