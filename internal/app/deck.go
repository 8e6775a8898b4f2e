// ABOUTME: Soundboard application orchestration
// ABOUTME: Builds outputs, engine, stores and transport controller and runs their background loops
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/dualdeck/internal/device"
	"github.com/harperreed/dualdeck/internal/engine"
	"github.com/harperreed/dualdeck/internal/preset"
	"github.com/harperreed/dualdeck/internal/settings"
	"github.com/harperreed/dualdeck/internal/transport"
	"github.com/harperreed/dualdeck/pkg/audio/output"
	"github.com/rs/zerolog"
)

// Backend selects the output implementation
type Backend string

const (
	BackendMalgo Backend = "malgo"
	BackendOto   Backend = "oto"
)

// ParseBackend validates a backend name
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendMalgo, BackendOto:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want malgo or oto)", name)
	}
}

// Config holds deck configuration
type Config struct {
	SettingsPath string
	PresetsPath  string
	Backend      Backend
	PollInterval time.Duration

	// OnUpdate receives every controller snapshot
	OnUpdate func(transport.Status)

	// OnPresetsChanged is called after the preset file changes on disk
	OnPresetsChanged func()
}

// outputs is the hardware side of a deck
type outputs struct {
	primary   output.Channel
	secondary output.Channel
	catalog   device.Catalog
	release   func()
}

// openOutputs creates both channels and the device catalog for a backend
var openOutputs = func(backend Backend, logger zerolog.Logger) (outputs, error) {
	if backend == BackendOto {
		// oto only plays on the system default device
		return outputs{
			primary:   output.NewOto(engine.Primary.String(), logger),
			secondary: output.NewOto(engine.Secondary.String(), logger),
			catalog:   device.Static{{Name: "System default", Default: true}},
			release:   func() {},
		}, nil
	}

	ctx, err := output.NewMalgoContext(logger)
	if err != nil {
		return outputs{}, err
	}
	return outputs{
		primary:   output.NewMalgo(engine.Primary.String(), ctx, logger),
		secondary: output.NewMalgo(engine.Secondary.String(), ctx, logger),
		catalog:   device.NewMalgoCatalog(ctx),
		release: func() {
			_ = ctx.Uninit()
			ctx.Free()
		},
	}, nil
}

// Deck represents the running soundboard
type Deck struct {
	config  Config
	logger  zerolog.Logger
	out     outputs
	dual    *engine.Dual
	presets preset.Store
	ctl     *transport.Controller
	devices []device.Device
	cancel  context.CancelFunc
}

// New opens outputs and stores and restores the saved devices
func New(config Config, logger zerolog.Logger) (*Deck, error) {
	if config.Backend == "" {
		config.Backend = BackendMalgo
	}

	out, err := openOutputs(config.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s outputs: %w", config.Backend, err)
	}

	presets, err := preset.Open(config.PresetsPath)
	if err != nil {
		out.release()
		return nil, err
	}

	d := &Deck{
		config:  config,
		logger:  logger.With().Str("component", "deck").Logger(),
		out:     out,
		dual:    engine.NewDual(out.primary, out.secondary),
		presets: presets,
	}

	d.ctl = transport.New(transport.Config{
		Engine:       d.dual,
		Presets:      presets,
		Settings:     settings.NewStore(config.SettingsPath),
		Logger:       logger,
		PollInterval: config.PollInterval,
		OnUpdate:     d.publish,
	})

	d.devices, err = out.catalog.Enumerate()
	if err != nil {
		d.logger.Warn().Err(err).Msg("device enumeration failed")
	}
	d.ctl.RestoreDevices(d.devices)

	d.logger.Info().
		Str("backend", string(config.Backend)).
		Int("devices", len(d.devices)).
		Str("presets", config.PresetsPath).
		Msg("deck ready")

	return d, nil
}

func (d *Deck) publish(st transport.Status) {
	if d.config.OnUpdate != nil {
		d.config.OnUpdate(st)
	}
}

// Controller returns the transport controller
func (d *Deck) Controller() *transport.Controller {
	return d.ctl
}

// Devices returns the enumeration taken at startup
func (d *Deck) Devices() []device.Device {
	return d.devices
}

// Start runs the position poll loop and the preset watcher until ctx is done or Close is called
func (d *Deck) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)

	go d.ctl.Run(ctx)

	err := preset.Watch(ctx, d.config.PresetsPath, d.presets, d.logger, func() {
		d.logger.Debug().Msg("preset file changed")
		if d.config.OnPresetsChanged != nil {
			d.config.OnPresetsChanged()
		}
	})
	if err != nil {
		d.logger.Warn().Err(err).Msg("preset watcher unavailable")
	}
}

// Close stops playback and releases outputs and stores
func (d *Deck) Close() error {
	if d.cancel != nil {
		d.cancel()
	}

	err := errors.Join(d.ctl.Stop(), d.dual.Close(), d.presets.Close())
	d.out.release()
	d.logger.Info().Msg("deck closed")
	return err
}

// Devices enumerates playback devices without building a deck
func Devices(backend Backend, logger zerolog.Logger) ([]device.Device, error) {
	out, err := openOutputs(backend, logger)
	if err != nil {
		return nil, err
	}
	defer out.release()
	defer out.primary.Close()
	defer out.secondary.Close()
	return out.catalog.Enumerate()
}
