// ABOUTME: Audio output package for playing decoded clips
// ABOUTME: Provides the Channel interface with malgo and oto backends
// Package output provides playback channels.
//
// A Channel owns one decoded copy of a file and one output stream.
// Malgo channels can be pointed at any enumerated playback device;
// Oto channels always use the system default device.
//
// Example:
//
//	ctx, err := output.NewMalgoContext(logger)
//	ch := output.NewMalgo("primary", ctx, logger)
//	err = ch.Load("intro.wav")
//	err = ch.SetOutputDevice(id)
//	err = ch.Play()
package output
