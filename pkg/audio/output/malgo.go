// ABOUTME: Malgo-based playback channel bound to a selectable device
// ABOUTME: Uses miniaudio via malgo so each channel can target its own sink
package output

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/harperreed/dualdeck/pkg/audio"
	"github.com/harperreed/dualdeck/pkg/audio/decode"
	"github.com/rs/zerolog"
)

// NewMalgoContext initializes the miniaudio context shared by channels and the device catalog
func NewMalgoContext(logger zerolog.Logger) (*malgo.AllocatedContext, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug().Str("component", "miniaudio").Msg(message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	return ctx, nil
}

// Malgo is a playback channel backed by one miniaudio device
type Malgo struct {
	mu        sync.Mutex
	name      string
	ctx       *malgo.AllocatedContext
	open      func(string) (*audio.Clip, error)
	logger    zerolog.Logger
	cursor    *Cursor
	device    *malgo.Device
	deviceID  *malgo.DeviceID
	deviceKey string
	volume    int
	muted     bool
	playing   bool
}

// NewMalgo creates a channel that opens devices on ctx
func NewMalgo(name string, ctx *malgo.AllocatedContext, logger zerolog.Logger) *Malgo {
	return &Malgo{
		name:   name,
		ctx:    ctx,
		open:   decode.Open,
		logger: logger.With().Str("channel", name).Str("backend", "malgo").Logger(),
		volume: 100,
	}
}

// Load decodes path and replaces the current media
func (m *Malgo) Load(path string) error {
	clip, err := m.open(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()
	m.cursor = NewCursor(clip)
	m.cursor.SetGain(m.volume, m.muted)

	m.logger.Debug().Str("path", path).Int("rate", clip.SampleRate).Int("channels", clip.Channels).
		Int64("length_ms", clip.DurationMs()).Msg("media loaded")
	return nil
}

// Play starts or resumes output
func (m *Malgo) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor == nil {
		return ErrNotLoaded
	}
	if m.cursor.Done() {
		m.cursor.SeekFrame(0)
	}
	if m.device == nil {
		if err := m.initDevice(); err != nil {
			return err
		}
	}
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	m.playing = true
	return nil
}

// Pause halts output and keeps the playhead
func (m *Malgo) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor == nil {
		return ErrNotLoaded
	}
	return m.haltLocked()
}

// Stop halts output and rewinds
func (m *Malgo) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor == nil {
		return ErrNotLoaded
	}
	err := m.haltLocked()
	m.cursor.SeekFrame(0)
	return err
}

// SetTime moves the playhead
func (m *Malgo) SetTime(ms int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor == nil {
		return ErrNotLoaded
	}
	m.cursor.Seek(ms)
	return nil
}

// Time returns the playhead position
func (m *Malgo) Time() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor == nil {
		return 0
	}
	return m.cursor.Position()
}

// Length returns the loaded media length
func (m *Malgo) Length() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor == nil {
		return 0
	}
	return m.cursor.Length()
}

// SetVolume sets the volume (0-100)
func (m *Malgo) SetVolume(level int) error {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.volume = level
	if m.cursor != nil {
		m.cursor.SetGain(m.volume, m.muted)
	}
	return nil
}

// SetMute sets mute state
func (m *Malgo) SetMute(muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.muted = muted
	if m.cursor != nil {
		m.cursor.SetGain(m.volume, m.muted)
	}
	return nil
}

// SetOutputDevice rebinds the channel to the device with the given id.
// A running device is reopened on the new sink and keeps playing.
func (m *Malgo) SetOutputDevice(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" || id == m.deviceKey {
		return nil
	}
	if m.ctx == nil {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, id)
	}

	infos, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return fmt.Errorf("failed to enumerate playback devices: %w", err)
	}

	var found *malgo.DeviceID
	for i := range infos {
		if infos[i].ID.String() == id {
			devID := infos[i].ID
			found = &devID
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, id)
	}

	m.deviceID = found
	m.deviceKey = id
	m.logger.Info().Str("device", id).Msg("output device selected")

	if m.device == nil {
		return nil
	}

	wasPlaying := m.playing
	m.closeDevice()
	if !wasPlaying {
		return nil
	}
	if err := m.initDevice(); err != nil {
		return err
	}
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	m.playing = true
	return nil
}

// Unload releases the device and drops the loaded media
func (m *Malgo) Unload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()
	m.cursor = nil
	return nil
}

// Close releases the device. The shared context is owned by the caller.
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()
	return nil
}

// initDevice opens a device matching the loaded clip format (must hold m.mu)
func (m *Malgo) initDevice() error {
	if m.ctx == nil {
		return fmt.Errorf("malgo context not initialized")
	}

	clip := m.cursor.Clip()
	cursor := m.cursor
	channels := clip.Channels

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(clip.SampleRate)
	deviceConfig.Alsa.NoMMap = 1
	if m.deviceID != nil {
		deviceConfig.Playback.DeviceID = m.deviceID.Pointer()
	}

	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		samples := make([]int32, int(frameCount)*channels)
		cursor.Read(samples)
		write16Bit(pOutputSample, samples)
	}

	device, err := malgo.InitDevice(m.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	m.device = device
	m.logger.Debug().Int("rate", clip.SampleRate).Int("channels", channels).Msg("playback device initialized")
	return nil
}

// haltLocked stops a running device without releasing it (must hold m.mu)
func (m *Malgo) haltLocked() error {
	m.playing = false
	if m.device == nil {
		return nil
	}
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}
	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device == nil {
		return
	}
	if err := m.device.Stop(); err != nil {
		m.logger.Warn().Err(err).Msg("device stop error")
	}
	m.device.Uninit()
	m.device = nil
	m.playing = false
}

// write16Bit converts int32 samples to 16-bit little-endian output
func write16Bit(output []byte, samples []int32) {
	for i, sample := range samples {
		if i*2+1 >= len(output) {
			return
		}
		sample16 := audio.SampleToInt16(sample)
		output[i*2] = byte(sample16)
		output[i*2+1] = byte(sample16 >> 8)
	}
}
