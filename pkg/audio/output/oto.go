// ABOUTME: Oto-based playback channel on the system default device
// ABOUTME: Shares one oto context per process and resamples sources to its rate
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/harperreed/dualdeck/pkg/audio"
	"github.com/harperreed/dualdeck/pkg/audio/decode"
	"github.com/harperreed/dualdeck/pkg/audio/resample"
	"github.com/rs/zerolog"
)

// OtoSampleRate is the fixed rate of the shared oto context
const OtoSampleRate = 48000

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

// sharedOtoContext creates the process-wide oto context on first use.
// oto allows only one context per process.
func sharedOtoContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   OtoSampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

// Oto is a playback channel that always plays on the default device
type Oto struct {
	mu     sync.Mutex
	name   string
	open   func(string) (*audio.Clip, error)
	logger zerolog.Logger
	cursor *Cursor
	reader *pcmReader
	player *oto.Player
	volume int
	muted  bool
}

// NewOto creates an oto channel
func NewOto(name string, logger zerolog.Logger) *Oto {
	return &Oto{
		name:   name,
		open:   decode.Open,
		logger: logger.With().Str("channel", name).Str("backend", "oto").Logger(),
		volume: 100,
	}
}

// Load decodes path, converts it to the context format and creates a fresh player
func (o *Oto) Load(path string) error {
	clip, err := o.open(path)
	if err != nil {
		return err
	}
	ctx, err := sharedOtoContext()
	if err != nil {
		return err
	}

	fixed := resample.Clip(clip, OtoSampleRate)

	o.mu.Lock()
	defer o.mu.Unlock()

	o.closePlayer()
	o.cursor = NewCursor(fixed)
	o.reader = newPCMReader(o.cursor)
	o.player = ctx.NewPlayer(o.reader)
	o.player.SetVolume(audio.VolumeMultiplier(o.volume, o.muted))

	o.logger.Debug().Str("path", path).Int("source_rate", clip.SampleRate).
		Int64("length_ms", fixed.DurationMs()).Msg("media loaded")
	return nil
}

// Play starts or resumes output
func (o *Oto) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotLoaded
	}
	if o.cursor.Done() && o.player.BufferedSize() == 0 {
		if err := o.seekLocked(0); err != nil {
			return err
		}
	}
	o.player.Play()
	return nil
}

// Pause halts output and keeps the playhead
func (o *Oto) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotLoaded
	}
	o.player.Pause()
	return nil
}

// Stop halts output and rewinds
func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotLoaded
	}
	o.player.Pause()
	return o.seekLocked(0)
}

// SetTime moves the playhead and drops buffered audio
func (o *Oto) SetTime(ms int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotLoaded
	}
	return o.seekLocked(ms)
}

// Time returns the audible position: bytes handed to oto minus what it still buffers
func (o *Oto) Time() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return 0
	}
	played := o.reader.Offset() - int64(o.player.BufferedSize())
	if played < 0 {
		played = 0
	}
	return o.cursor.Clip().MsAt(int(played / int64(o.reader.frameSize())))
}

// Length returns the loaded media length
func (o *Oto) Length() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cursor == nil {
		return 0
	}
	return o.cursor.Length()
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(level int) error {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.volume = level
	o.applyGain()
	return nil
}

// SetMute sets mute state
func (o *Oto) SetMute(muted bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.muted = muted
	o.applyGain()
	return nil
}

// SetOutputDevice only accepts the default device
func (o *Oto) SetOutputDevice(id string) error {
	if id == "" {
		return nil
	}
	return fmt.Errorf("%w: oto plays on the default device", ErrDeviceSelection)
}

// Unload releases the player and drops the loaded media
func (o *Oto) Unload() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closePlayer()
	return nil
}

// Close releases the player. The shared context lives for the process.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closePlayer()
	return nil
}

// seekLocked moves the stream through the player so its buffer is discarded (must hold o.mu)
func (o *Oto) seekLocked(ms int64) error {
	frame := o.cursor.Clip().FrameAt(ms)
	offset := int64(frame * o.reader.frameSize())
	if _, err := o.player.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek failed: %w", err)
	}
	return nil
}

func (o *Oto) applyGain() {
	if o.player != nil {
		o.player.SetVolume(audio.VolumeMultiplier(o.volume, o.muted))
	}
}

func (o *Oto) closePlayer() {
	if o.player == nil {
		return
	}
	o.player.Pause()
	if err := o.player.Close(); err != nil {
		o.logger.Warn().Err(err).Msg("player close error")
	}
	o.player = nil
	o.reader = nil
	o.cursor = nil
}
