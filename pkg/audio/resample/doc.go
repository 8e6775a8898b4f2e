// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts clips between sample rates and channel layouts
// Package resample provides sample rate conversion for decoded clips.
//
// Outputs that share a single device context at a fixed rate use Clip
// to bring every source to that rate before playback.
//
// Example:
//
//	fixed := resample.Clip(clip, 48000)
package resample
