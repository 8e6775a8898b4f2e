// ABOUTME: Entry point for the dualdeck soundboard
// ABOUTME: Cobra commands for the TUI, headless playback, device and preset listing
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/dualdeck/internal/app"
	"github.com/harperreed/dualdeck/internal/preset"
	"github.com/harperreed/dualdeck/internal/transport"
	"github.com/harperreed/dualdeck/internal/ui"
	"github.com/harperreed/dualdeck/internal/version"
	"github.com/harperreed/dualdeck/pkg/audio"
	"github.com/harperreed/dualdeck/pkg/audio/encode"
	"github.com/harperreed/dualdeck/pkg/audio/output"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var config struct {
	settingsPath string
	presetsPath  string
	logFile      string
	backend      string
	poll         time.Duration
	debug        bool

	startMs int64
	endMs   int64

	toneHz float64
	toneMs int64
}

var rootCmd = &cobra.Command{
	Use:   version.Product,
	Short: "Play one audio file through two output devices at once",
	Long: `dualdeck plays a sound through two independently selected outputs,
for example your speakers and a virtual microphone cable, each with its own
volume and mute. Mark a clip with start and end points and save it as a
named preset to fire it again later.`,
	Version:      version.Version,
	SilenceUsage: true,
	RunE:         runTUI,
}

var playCmd = &cobra.Command{
	Use:   "play FILE",
	Short: "Play a file headless on both outputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		startSet := cmd.Flags().Changed("start")
		endSet := cmd.Flags().Changed("end")

		return runHeadless(func(ctl *transport.Controller) error {
			if err := ctl.Load(path); err != nil {
				return err
			}
			if endSet {
				if err := ctl.SetRange(config.startMs, config.endMs); err != nil {
					return err
				}
			}
			if startSet {
				if err := ctl.Seek(config.startMs); err != nil {
					return err
				}
			}
			return ctl.Play()
		})
	},
}

var presetCmd = &cobra.Command{
	Use:   "preset NAME",
	Short: "Play a saved preset headless",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHeadless(func(ctl *transport.Controller) error {
			return ctl.PlayPreset(args[0])
		})
	},
}

var toneCmd = &cobra.Command{
	Use:   "tone",
	Short: "Play a sine tone on both outputs to check routing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(os.TempDir(), fmt.Sprintf("%s-tone-%d.wav", version.Product, os.Getpid()))
		if err := encode.WriteFile(path, audio.Tone(config.toneHz, config.toneMs, output.OtoSampleRate, 2)); err != nil {
			return err
		}
		defer os.Remove(path)

		return runHeadless(func(ctl *transport.Controller) error {
			if err := ctl.Load(path); err != nil {
				return err
			}
			return ctl.Play()
		})
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List playback devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closeLog, err := setupLogging(false)
		if err != nil {
			return err
		}
		defer closeLog.Close()

		backend, err := app.ParseBackend(config.backend)
		if err != nil {
			return err
		}
		devices, err := app.Devices(backend, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(devices) == 0 {
			fmt.Fprintln(out, "No playback devices found")
			return nil
		}
		for _, d := range devices {
			marker := " "
			if d.Default {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-40s %s\n", marker, d.Name, d.ID)
		}
		return nil
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List saved presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := preset.Open(config.presetsPath)
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := store.List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintf(out, "No presets in %s\n", config.presetsPath)
			return nil
		}
		for _, p := range list {
			fmt.Fprintf(out, "%-24s %8dms %8dms  %s\n", p.Name, p.StartMs, p.EndMs, p.Path)
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&config.settingsPath, "settings", "dualdeck-settings.json",
		"Settings file (devices, volumes, mute)")
	flags.StringVar(&config.presetsPath, "presets", "dualdeck-presets.json",
		"Preset store; .db or .sqlite selects SQLite, anything else JSON")
	flags.StringVar(&config.logFile, "log-file", "dualdeck.log", "Log file path")
	flags.StringVar(&config.backend, "backend", string(app.BackendMalgo),
		"Output backend: malgo (per-device) or oto (default device only)")
	flags.DurationVar(&config.poll, "poll", transport.DefaultPollInterval, "Position poll interval")
	flags.BoolVar(&config.debug, "debug", false, "Enable debug logging")

	playCmd.Flags().Int64Var(&config.startMs, "start", 0, "Start position in milliseconds")
	playCmd.Flags().Int64Var(&config.endMs, "end", 0, "Stop position in milliseconds")

	toneCmd.Flags().Float64Var(&config.toneHz, "freq", 440, "Tone frequency in Hz")
	toneCmd.Flags().Int64Var(&config.toneMs, "duration", 2000, "Tone length in milliseconds")

	rootCmd.AddCommand(playCmd, presetCmd, toneCmd, devicesCmd, presetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging opens the log file. In TUI mode logs go only to the file;
// headless runs also log to the console.
func setupLogging(console bool) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(config.logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("error opening log file: %w", err)
	}

	var w io.Writer = f
	if console {
		w = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, f)
	}

	level := zerolog.InfoLevel
	if config.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, f, nil
}

func deckConfig() (app.Config, error) {
	backend, err := app.ParseBackend(config.backend)
	if err != nil {
		return app.Config{}, err
	}
	return app.Config{
		SettingsPath: config.settingsPath,
		PresetsPath:  config.presetsPath,
		Backend:      backend,
		PollInterval: config.poll,
	}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	cfg, err := deckConfig()
	if err != nil {
		return err
	}

	// Helper to update TUI
	var prog *tea.Program
	send := func(msg tea.Msg) {
		if prog != nil {
			prog.Send(msg)
		}
	}

	var deck *app.Deck
	cfg.OnUpdate = func(st transport.Status) { send(ui.StatusMsg(st)) }
	cfg.OnPresetsChanged = func() {
		list, err := deck.Controller().Presets()
		if err != nil {
			send(ui.ErrorMsg{Err: err})
			return
		}
		send(ui.PresetsMsg(list))
	}

	deck, err = app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deck.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing deck")
		}
	}()

	actions := ui.NewActions(64)
	prog = ui.Run(deck.Controller(), actions, deck.Devices())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	deck.Start(ctx)
	go actions.Run(ctx, prog.Send)
	go func() {
		<-ctx.Done()
		prog.Quit()
	}()

	logger.Info().Str("version", version.Version).Msg("TUI started")
	_, err = prog.Run()
	return err
}

// runHeadless builds a deck, calls start and waits until playback stops or a signal arrives
func runHeadless(start func(ctl *transport.Controller) error) error {
	logger, closeLog, err := setupLogging(true)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	cfg, err := deckConfig()
	if err != nil {
		return err
	}

	var started atomic.Bool
	stopped := make(chan struct{}, 1)
	cfg.OnUpdate = func(st transport.Status) {
		switch st.State {
		case transport.Playing:
			started.Store(true)
		case transport.Stopped:
			if started.Load() {
				select {
				case stopped <- struct{}{}:
				default:
				}
			}
		}
	}

	deck, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	deck.Start(ctx)

	if err := start(deck.Controller()); err != nil {
		deck.Close()
		return err
	}

	select {
	case <-stopped:
		logger.Info().Msg("playback finished")
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	return deck.Close()
}
