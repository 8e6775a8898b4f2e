// ABOUTME: Transport controller state machine
// ABOUTME: Drives both playback channels as one unit with clip ranges, presets and persisted settings
package transport

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/harperreed/dualdeck/internal/clip"
	"github.com/harperreed/dualdeck/internal/device"
	"github.com/harperreed/dualdeck/internal/engine"
	"github.com/harperreed/dualdeck/internal/preset"
	"github.com/harperreed/dualdeck/internal/settings"
	"github.com/rs/zerolog"
)

const (
	// SliderMax is the resolution of the seek slider
	SliderMax = 1000

	// DefaultPollInterval matches the position refresh of the desktop player
	DefaultPollInterval = 500 * time.Millisecond
)

var (
	// ErrNoSource is returned by operations that need a loaded file
	ErrNoSource = errors.New("no source loaded")

	// ErrIncompleteRange is returned when saving a preset without both marks
	ErrIncompleteRange = errors.New("clip start and end must both be marked")

	// ErrInvertedRange is returned when saving a preset whose start is after its end
	ErrInvertedRange = errors.New("clip start is after clip end")

	// ErrNotSeeking is returned by EndSeek without a matching BeginSeek
	ErrNotSeeking = errors.New("no seek gesture in progress")
)

// State is the transport state
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine is the dual-channel playback handle the controller drives
type Engine interface {
	Load(path string) engine.Result
	Play() engine.Result
	Pause() engine.Result
	Stop() engine.Result
	Seek(ms int64) engine.Result
	SetOutputDevice(role engine.Role, id string) error
	SetVolume(role engine.Role, level int) error
	SetMute(role engine.Role, muted bool) error
	Position() int64
	Length() int64
	Source() string
}

// SettingsStore loads and saves output settings
type SettingsStore interface {
	Load() (settings.Settings, error)
	Save(settings.Settings) error
}

// ChannelStatus is the user-facing configuration of one channel
type ChannelStatus struct {
	Device string
	Volume int
	Muted  bool
}

// Status is a snapshot of the controller for front ends
type Status struct {
	State      State
	Source     string
	PositionMs int64
	LengthMs   int64
	Slider     int
	Seeking    bool
	Range      clip.Range
	Channels   [2]ChannelStatus
}

// Config wires a controller to its collaborators
type Config struct {
	Engine       Engine
	Presets      preset.Store
	Settings     SettingsStore
	Logger       zerolog.Logger
	PollInterval time.Duration

	// OnUpdate receives a snapshot after every state change and poll.
	// It is called without the controller lock held.
	OnUpdate func(Status)
}

// Controller is the orchestration layer over the dual-channel engine.
// All methods are safe to call from any goroutine; they are serialized by one lock.
type Controller struct {
	mu       sync.Mutex
	engine   Engine
	presets  preset.Store
	store    SettingsStore
	logger   zerolog.Logger
	interval time.Duration
	onUpdate func(Status)

	state    State
	settings settings.Settings
	active   [2]string
	restored [2]bool
	clips    *clip.Tracker

	slider      int
	seeking     bool
	polling     bool
	pollCtl     chan bool
	pendingSeek int64
	hasPending  bool
}

// New creates a controller and restores saved settings.
// A settings read error is logged and defaults are used.
func New(cfg Config) *Controller {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	c := &Controller{
		engine:   cfg.Engine,
		presets:  cfg.Presets,
		store:    cfg.Settings,
		logger:   cfg.Logger.With().Str("component", "transport").Logger(),
		interval: interval,
		onUpdate: cfg.OnUpdate,
		settings: settings.Defaults(),
		pollCtl:  make(chan bool, 1),
	}
	c.clips = clip.NewTracker(cfg.Engine)

	if c.store != nil {
		st, err := c.store.Load()
		if err != nil {
			c.logger.Warn().Err(err).Msg("settings unreadable, using defaults")
		}
		c.settings = st
	}

	return c
}

// do runs fn under the lock, then publishes a snapshot
func (c *Controller) do(fn func() error) error {
	c.mu.Lock()
	err := fn()
	st := c.statusLocked()
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(st)
	}
	return err
}

// Status returns a snapshot of the controller
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	st := Status{
		State:   c.state,
		Source:  c.engine.Source(),
		Slider:  c.slider,
		Seeking: c.seeking,
		Range:   c.clips.Range(),
		Channels: [2]ChannelStatus{
			c.channelLocked(engine.Primary),
			c.channelLocked(engine.Secondary),
		},
	}
	if st.Source != "" {
		st.PositionMs = c.engine.Position()
		st.LengthMs = c.engine.Length()
	}
	return st
}

// Load binds path to both channels. Playback stops first. On failure the
// previous source stays loaded and the error is returned after a warning.
func (c *Controller) Load(path string) error {
	return c.do(func() error { return c.loadLocked(path) })
}

func (c *Controller) loadLocked(path string) error {
	if c.state != Stopped {
		c.stopLocked("load")
	}

	res := c.engine.Load(path)
	if res.Primary != nil {
		c.logger.Warn().Err(res.Err()).Str("path", path).Msg("source could not be loaded")
		return fmt.Errorf("load %s: %w", path, res.Err())
	}
	if res.Secondary != nil {
		c.logger.Warn().Err(res.Secondary).Str("path", path).Msg("secondary channel could not load source")
	}

	c.hasPending = false
	c.slider = 0
	c.logger.Info().Str("path", path).Int64("length_ms", c.engine.Length()).Msg("source loaded")
	return res.Err()
}

// Play starts or resumes both channels with the current device and gain settings
func (c *Controller) Play() error {
	return c.do(c.playLocked)
}

func (c *Controller) playLocked() error {
	if c.engine.Source() == "" {
		c.logger.Warn().Msg("play ignored: no source loaded")
		return ErrNoSource
	}
	if c.state == Playing {
		return nil
	}

	c.applyChannelsLocked()

	res := c.engine.Play()
	if res.Primary != nil {
		c.logger.Warn().Err(res.Err()).Msg("playback failed to start")
		return res.Err()
	}
	if res.Secondary != nil {
		c.logger.Warn().Err(res.Secondary).Msg("secondary channel failed to start")
	}

	c.state = Playing
	c.setPollingLocked(true)
	c.logger.Debug().Int64("position_ms", c.engine.Position()).Msg("playing")
	return res.Err()
}

// Pause pauses both channels and halts polling
func (c *Controller) Pause() error {
	return c.do(c.pauseLocked)
}

func (c *Controller) pauseLocked() error {
	if c.state != Playing {
		return nil
	}

	res := c.engine.Pause()
	if !res.OK() {
		c.logger.Warn().Err(res.Err()).Msg("pause failed")
	}
	c.state = Paused
	c.setPollingLocked(false)
	return res.Err()
}

// TogglePlayback pauses while playing and plays otherwise
func (c *Controller) TogglePlayback() error {
	return c.do(func() error {
		if c.state == Playing {
			return c.pauseLocked()
		}
		return c.playLocked()
	})
}

// Stop stops both channels, resets the displayed position and halts polling
func (c *Controller) Stop() error {
	return c.do(func() error { return c.stopLocked("request") })
}

func (c *Controller) stopLocked(reason string) error {
	var err error
	if c.engine.Source() != "" {
		res := c.engine.Stop()
		if !res.OK() {
			c.logger.Warn().Err(res.Err()).Msg("stop failed")
		}
		err = res.Err()
	}

	c.state = Stopped
	c.slider = 0
	c.seeking = false
	c.setPollingLocked(false)
	c.logger.Debug().Str("reason", reason).Msg("stopped")
	return err
}

// Seek moves both channels to an absolute timestamp
func (c *Controller) Seek(ms int64) error {
	return c.do(func() error { return c.seekLocked(ms) })
}

func (c *Controller) seekLocked(ms int64) error {
	if c.engine.Source() == "" {
		c.logger.Warn().Int64("target_ms", ms).Msg("seek ignored: no source loaded")
		return ErrNoSource
	}

	res := c.engine.Seek(ms)
	if err := res.Err(); err != nil {
		if errors.Is(err, engine.ErrUnknownLength) {
			c.logger.Warn().Int64("target_ms", ms).Msg("seek dropped: length unknown")
		} else {
			c.logger.Warn().Err(err).Int64("target_ms", ms).Msg("seek failed")
		}
		return err
	}

	c.updateSliderLocked()
	return nil
}

// BeginSeek starts a drag gesture. Polling is suspended until EndSeek.
func (c *Controller) BeginSeek() {
	c.do(func() error {
		c.seeking = true
		c.setPollingLocked(false)
		return nil
	})
}

// DragSeek moves the slider during a gesture without touching the engine
func (c *Controller) DragSeek(value int) {
	c.do(func() error {
		if !c.seeking {
			return nil
		}
		c.slider = clampSlider(value)
		return nil
	})
}

// EndSeek applies the dragged slider value to both channels and resumes polling.
// The seek is dropped when the length is unknown.
func (c *Controller) EndSeek() error {
	return c.do(func() error {
		if !c.seeking {
			return ErrNotSeeking
		}
		c.seeking = false
		defer c.setPollingLocked(c.state == Playing)

		length := c.engine.Length()
		if length <= 0 {
			c.logger.Warn().Int("slider", c.slider).Msg("seek dropped: length unknown")
			return engine.ErrUnknownLength
		}
		target := int64(float64(c.slider) / SliderMax * float64(length))
		return c.seekLocked(target)
	})
}

// Tick performs one position poll. It does nothing unless playing and not seeking.
func (c *Controller) Tick() {
	c.mu.Lock()
	if c.state != Playing || c.seeking {
		c.mu.Unlock()
		return
	}

	if c.hasPending && c.engine.Length() > 0 {
		target := c.pendingSeek
		c.hasPending = false
		if err := c.seekLocked(target); err == nil {
			c.logger.Debug().Int64("target_ms", target).Msg("pending seek applied")
		}
	}

	pos := c.engine.Position()
	length := c.engine.Length()
	c.updateSliderLocked()

	switch {
	case c.clips.Reached(pos):
		end, _ := c.clips.Range().End()
		c.logger.Info().Int64("position_ms", pos).Int64("end_ms", end).Msg("clip end reached")
		c.stopLocked("clip end")
	case length > 0 && pos >= length:
		c.logger.Info().Int64("length_ms", length).Msg("end of media")
		c.stopLocked("end of media")
	}

	st := c.statusLocked()
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(st)
	}
}

// updateSliderLocked maps the engine position onto the slider. It never seeks.
func (c *Controller) updateSliderLocked() {
	length := c.engine.Length()
	if length <= 0 {
		return
	}
	c.slider = clampSlider(int(math.Round(float64(c.engine.Position()) / float64(length) * SliderMax)))
}

// Run drives Tick from a single ticker until ctx is done.
// The ticker only runs while playing and no seek gesture is active.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	ticker.Stop()
	defer ticker.Stop()

	c.mu.Lock()
	if c.polling {
		ticker.Reset(c.interval)
	}
	c.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case on := <-c.pollCtl:
			if on {
				ticker.Reset(c.interval)
			} else {
				ticker.Stop()
			}
		case <-ticker.C:
			c.Tick()
		}
	}
}

// setPollingLocked records the polling state and wakes Run with the latest value
func (c *Controller) setPollingLocked(on bool) {
	c.polling = on
	select {
	case <-c.pollCtl:
	default:
	}
	c.pollCtl <- on
}

// Polling reports whether position polling is active
func (c *Controller) Polling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.polling
}

// MarkStart records the current primary position as the clip start
func (c *Controller) MarkStart() int64 {
	var ms int64
	c.do(func() error {
		ms = c.clips.MarkStart()
		c.logger.Debug().Int64("start_ms", ms).Msg("clip start marked")
		return nil
	})
	return ms
}

// MarkEnd records the current primary position as the clip end
func (c *Controller) MarkEnd() int64 {
	var ms int64
	c.do(func() error {
		ms = c.clips.MarkEnd()
		c.logger.Debug().Int64("end_ms", ms).Msg("clip end marked")
		return nil
	})
	return ms
}

// SetRange replaces both clip marks. An inverted range is rejected.
func (c *Controller) SetRange(start, end int64) error {
	return c.do(func() error {
		if start > end {
			c.logger.Warn().Int64("start_ms", start).Int64("end_ms", end).Msg("clip range rejected: start after end")
			return ErrInvertedRange
		}
		c.clips.Set(start, end)
		return nil
	})
}

// ClearRange unsets both clip marks
func (c *Controller) ClearRange() {
	c.do(func() error {
		c.clips.Clear()
		return nil
	})
}

// SavePreset stores the current source and clip range under name.
// An existing preset with the same name is replaced.
func (c *Controller) SavePreset(name string) error {
	return c.do(func() error {
		source := c.engine.Source()
		if source == "" {
			c.logger.Warn().Str("preset", name).Msg("preset save ignored: no source loaded")
			return ErrNoSource
		}

		rng := c.clips.Range()
		switch err := rng.Validate(); {
		case errors.Is(err, clip.ErrIncomplete):
			c.logger.Warn().Str("preset", name).Msg("preset save ignored: clip range incomplete")
			return ErrIncompleteRange
		case errors.Is(err, clip.ErrInverted):
			c.logger.Warn().Str("preset", name).Msg("preset save rejected: clip start after end")
			return ErrInvertedRange
		}

		start, _ := rng.Start()
		end, _ := rng.End()
		p := preset.Preset{Name: name, Path: source, StartMs: start, EndMs: end}
		if err := c.presets.Save(p); err != nil {
			c.logger.Warn().Err(err).Str("preset", name).Msg("preset save failed")
			return err
		}

		c.logger.Info().Str("preset", name).Str("path", source).
			Int64("start_ms", start).Int64("end_ms", end).Msg("preset saved")
		return nil
	})
}

// PlayPreset reloads the preset's file, restores its clip range, seeks both
// channels to the start and plays. If the engine cannot seek yet, the seek is
// retried on the next poll.
func (c *Controller) PlayPreset(name string) error {
	p, err := c.presets.Get(name)
	if err != nil {
		c.logger.Warn().Err(err).Str("preset", name).Msg("preset unavailable")
		return err
	}

	return c.do(func() error {
		if err := c.loadLocked(p.Path); err != nil && c.engine.Source() != p.Path {
			return err
		}
		c.clips.Set(p.StartMs, p.EndMs)

		if err := c.seekLocked(p.StartMs); err != nil {
			if !errors.Is(err, engine.ErrUnknownLength) {
				return err
			}
			c.pendingSeek = p.StartMs
			c.hasPending = true
		}

		c.logger.Info().Str("preset", name).Int64("start_ms", p.StartMs).Int64("end_ms", p.EndMs).Msg("playing preset")
		return c.playLocked()
	})
}

// Presets lists saved presets
func (c *Controller) Presets() ([]preset.Preset, error) {
	return c.presets.List()
}

// RestoreDevices matches saved device ids against a fresh enumeration and
// applies them. Ids that are no longer present fall back to the first device
// without overwriting the saved preference.
func (c *Controller) RestoreDevices(devices []device.Device) {
	c.do(func() error {
		for _, role := range engine.Roles {
			saved := c.savedDeviceLocked(role)
			id, matched := device.Resolve(devices, saved)
			c.active[role], c.restored[role] = id, true
			if saved != "" && !matched {
				c.logger.Warn().Str("channel", role.String()).Str("device", saved).
					Str("fallback", id).Msg("saved device not present")
			}
			if err := c.engine.SetOutputDevice(role, id); err != nil {
				c.logger.Warn().Err(err).Str("channel", role.String()).Str("device", id).Msg("device restore failed")
			}
		}
		return nil
	})
}

// SetDevice selects a channel's output device and persists the choice
func (c *Controller) SetDevice(role engine.Role, id string) error {
	return c.do(func() error {
		if role == engine.Primary {
			c.settings.PrimaryDevice = id
		} else {
			c.settings.SecondaryDevice = id
		}
		c.active[role], c.restored[role] = id, true
		err := c.engine.SetOutputDevice(role, id)
		if err != nil {
			c.logger.Warn().Err(err).Str("channel", role.String()).Str("device", id).Msg("device change failed")
		}
		return errors.Join(err, c.persistLocked())
	})
}

// SetVolume sets a channel's volume (0-100), applies it and persists it
func (c *Controller) SetVolume(role engine.Role, level int) error {
	return c.do(func() error {
		level = clampVolume(level)
		if role == engine.Primary {
			c.settings.PrimaryVolume = level
		} else {
			c.settings.SecondaryVolume = level
		}
		err := c.engine.SetVolume(role, level)
		if err != nil {
			c.logger.Warn().Err(err).Str("channel", role.String()).Int("volume", level).Msg("volume change failed")
		}
		return errors.Join(err, c.persistLocked())
	})
}

// SetMute sets a channel's mute flag, applies it and persists it
func (c *Controller) SetMute(role engine.Role, muted bool) error {
	return c.do(func() error {
		if role == engine.Primary {
			c.settings.PrimaryMuted = muted
		} else {
			c.settings.SecondaryMuted = muted
		}
		err := c.engine.SetMute(role, muted)
		if err != nil {
			c.logger.Warn().Err(err).Str("channel", role.String()).Bool("muted", muted).Msg("mute change failed")
		}
		return errors.Join(err, c.persistLocked())
	})
}

// applyChannelsLocked pushes device, volume and mute to both channels, primary first
func (c *Controller) applyChannelsLocked() {
	for _, role := range engine.Roles {
		ch := c.channelLocked(role)
		if err := c.engine.SetOutputDevice(role, ch.Device); err != nil {
			c.logger.Warn().Err(err).Str("channel", role.String()).Str("device", ch.Device).Msg("device not applied")
		}
		if err := c.engine.SetVolume(role, ch.Volume); err != nil {
			c.logger.Warn().Err(err).Str("channel", role.String()).Msg("volume not applied")
		}
		if err := c.engine.SetMute(role, ch.Muted); err != nil {
			c.logger.Warn().Err(err).Str("channel", role.String()).Msg("mute not applied")
		}
	}
}

// channelLocked reports the live configuration of one channel. A device
// chosen by RestoreDevices takes precedence over the saved id.
func (c *Controller) channelLocked(role engine.Role) ChannelStatus {
	ch := ChannelStatus{Device: c.settings.PrimaryDevice, Volume: c.settings.PrimaryVolume, Muted: c.settings.PrimaryMuted}
	if role == engine.Secondary {
		ch = ChannelStatus{Device: c.settings.SecondaryDevice, Volume: c.settings.SecondaryVolume, Muted: c.settings.SecondaryMuted}
	}
	if c.restored[role] {
		ch.Device = c.active[role]
	}
	return ch
}

func (c *Controller) savedDeviceLocked(role engine.Role) string {
	if role == engine.Primary {
		return c.settings.PrimaryDevice
	}
	return c.settings.SecondaryDevice
}

func (c *Controller) persistLocked() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(c.settings); err != nil {
		c.logger.Warn().Err(err).Msg("settings not saved")
		return err
	}
	return nil
}

func clampSlider(v int) int {
	if v < 0 {
		return 0
	}
	if v > SliderMax {
		return SliderMax
	}
	return v
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
