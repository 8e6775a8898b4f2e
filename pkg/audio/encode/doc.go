// ABOUTME: Audio encoder package for writing clips to files
// ABOUTME: Provides a PCM WAV writer for generated clips
// Package encode writes decoded clips back to disk.
//
// Supports: PCM WAV at 16 or 24 bits.
//
// Clips carry int32 samples in the 24-bit range; the writer scales them
// down to the requested depth.
//
// Example:
//
//	f, _ := os.Create("tone.wav")
//	err := encode.WAV(f, audio.Tone(440, 2000, 48000, 2), 16)
package encode
