// ABOUTME: Playback channel interface definition
// ABOUTME: Common contract for one decode/output pipeline bound to one device
package output

import "errors"

var (
	// ErrNotLoaded is returned by transport calls made before a successful Load
	ErrNotLoaded = errors.New("no media loaded")

	// ErrUnknownDevice is returned when a device id is not in the current enumeration
	ErrUnknownDevice = errors.New("unknown output device")

	// ErrDeviceSelection is returned by backends that only play on the default device
	ErrDeviceSelection = errors.New("output device selection not supported")
)

// Channel is one independent decode and output pipeline.
// Times are in milliseconds. Volume is 0-100.
type Channel interface {
	// Load decodes path and binds it to the channel. On failure the
	// previously loaded media stays bound.
	Load(path string) error

	// Unload halts output and drops the loaded media
	Unload() error

	Play() error
	Pause() error

	// Stop halts output and rewinds to the start
	Stop() error

	// SetTime moves the playhead
	SetTime(ms int64) error

	// Time returns the playhead position
	Time() int64

	// Length returns the media length, or 0 when nothing is loaded
	Length() int64

	SetVolume(level int) error
	SetMute(muted bool) error

	// SetOutputDevice rebinds the channel to a hardware sink by id
	SetOutputDevice(id string) error

	// Close releases output resources
	Close() error
}
