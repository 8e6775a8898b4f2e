// ABOUTME: Audio decoder package for local files
// ABOUTME: Provides Open and per-codec decoders for MP3, FLAC and WAV
// Package decode turns audio files into in-memory clips.
//
// Supports: MP3 (go-mp3), FLAC (mewkiz/flac), WAV (go-audio/wav)
//
// All decoders output int32 samples in 24-bit range so outputs can
// seek by frame index and apply gain uniformly.
//
// Example:
//
//	clip, err := decode.Open("intro.mp3")
//	fmt.Println(clip.DurationMs())
package decode
