// ABOUTME: Dual-channel playback handle
// ABOUTME: Fans every logical transport command out to the primary and secondary channels
package engine

import (
	"errors"
	"fmt"

	"github.com/harperreed/dualdeck/pkg/audio/output"
)

// ErrUnknownLength is returned by Seek while the primary channel reports no length
var ErrUnknownLength = errors.New("media length unknown")

// Role names one of the two channels
type Role int

const (
	Primary Role = iota
	Secondary
)

func (r Role) String() string {
	switch r {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Roles lists both channels in command order
var Roles = [2]Role{Primary, Secondary}

// Result carries the per-channel outcome of a fanned-out command
type Result struct {
	Primary   error
	Secondary error
}

// Err joins both channel errors, or returns nil when both succeeded
func (r Result) Err() error {
	var errs []error
	if r.Primary != nil {
		errs = append(errs, fmt.Errorf("primary: %w", r.Primary))
	}
	if r.Secondary != nil {
		errs = append(errs, fmt.Errorf("secondary: %w", r.Secondary))
	}
	return errors.Join(errs...)
}

// OK reports whether both channels succeeded
func (r Result) OK() bool {
	return r.Primary == nil && r.Secondary == nil
}

// Dual owns two channels bound to the same source
type Dual struct {
	channels [2]output.Channel
	source   string
}

// NewDual creates a handle over the primary and secondary channels
func NewDual(primary, secondary output.Channel) *Dual {
	return &Dual{channels: [2]output.Channel{primary, secondary}}
}

// Channel returns the channel for a role
func (d *Dual) Channel(role Role) output.Channel {
	return d.channels[role]
}

// Source returns the path bound to both channels, or "" before the first successful load
func (d *Dual) Source() string {
	return d.source
}

// fanOut applies fn to primary then secondary
func (d *Dual) fanOut(fn func(output.Channel) error) Result {
	return Result{
		Primary:   fn(d.channels[Primary]),
		Secondary: fn(d.channels[Secondary]),
	}
}

// Load binds an independent decode of path to each channel.
// The source is only rebound when the primary load succeeds. A secondary
// that cannot load the new source is unloaded so it never plays the old one.
func (d *Dual) Load(path string) Result {
	res := d.fanOut(func(c output.Channel) error { return c.Load(path) })
	if res.Primary != nil {
		return res
	}
	d.source = path
	if res.Secondary != nil {
		if err := d.channels[Secondary].Unload(); err != nil {
			res.Secondary = errors.Join(res.Secondary, err)
		}
	}
	return res
}

// Play starts both channels
func (d *Dual) Play() Result {
	return d.fanOut(func(c output.Channel) error { return c.Play() })
}

// Pause pauses both channels
func (d *Dual) Pause() Result {
	return d.fanOut(func(c output.Channel) error { return c.Pause() })
}

// Stop stops and rewinds both channels
func (d *Dual) Stop() Result {
	return d.fanOut(func(c output.Channel) error { return c.Stop() })
}

// Seek moves both channels to the same absolute timestamp.
// Nothing moves while the primary length is unknown.
func (d *Dual) Seek(ms int64) Result {
	if d.Length() <= 0 {
		return Result{Primary: ErrUnknownLength, Secondary: ErrUnknownLength}
	}
	if ms < 0 {
		ms = 0
	}
	return d.fanOut(func(c output.Channel) error { return c.SetTime(ms) })
}

// SetOutputDevice rebinds one channel's sink. An empty id is ignored.
func (d *Dual) SetOutputDevice(role Role, id string) error {
	if id == "" {
		return nil
	}
	return d.channels[role].SetOutputDevice(id)
}

// SetVolume sets one channel's volume
func (d *Dual) SetVolume(role Role, level int) error {
	return d.channels[role].SetVolume(level)
}

// SetMute sets one channel's mute flag
func (d *Dual) SetMute(role Role, muted bool) error {
	return d.channels[role].SetMute(muted)
}

// Position reads the primary channel. The secondary is assumed to track it.
func (d *Dual) Position() int64 {
	return d.channels[Primary].Time()
}

// Length reads the primary channel
func (d *Dual) Length() int64 {
	return d.channels[Primary].Length()
}

// Close releases both channels
func (d *Dual) Close() error {
	return d.fanOut(func(c output.Channel) error { return c.Close() }).Err()
}
