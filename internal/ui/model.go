// ABOUTME: Bubbletea model for the dual-output soundboard TUI
// ABOUTME: Maps keys to transport actions and renders controller status
package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/harperreed/dualdeck/internal/device"
	"github.com/harperreed/dualdeck/internal/engine"
	"github.com/harperreed/dualdeck/internal/preset"
	"github.com/harperreed/dualdeck/internal/transport"
	"github.com/harperreed/dualdeck/internal/version"
)

const (
	volumeStep = 5
	seekStep   = 10
)

// Controller is the transport surface the TUI drives
type Controller interface {
	Load(path string) error
	TogglePlayback() error
	Stop() error
	BeginSeek()
	DragSeek(value int)
	EndSeek() error
	MarkStart() int64
	MarkEnd() int64
	ClearRange()
	SavePreset(name string) error
	PlayPreset(name string) error
	Presets() ([]preset.Preset, error)
	SetDevice(role engine.Role, id string) error
	SetVolume(role engine.Role, level int) error
	SetMute(role engine.Role, muted bool) error
	Status() transport.Status
}

// StatusMsg carries a controller snapshot into the model
type StatusMsg transport.Status

// PresetsMsg replaces the preset list
type PresetsMsg []preset.Preset

// ErrorMsg reports a failed action
type ErrorMsg struct{ Err error }

type inputMode int

const (
	inputNone inputMode = iota
	inputPresetName
	inputFilePath
)

// Model represents the TUI state
type Model struct {
	ctl     Controller
	actions *Actions

	status  transport.Status
	devices []device.Device
	presets []preset.Preset

	// Seek gesture. seekAcked is set once a snapshot shows the controller seeking.
	dragging  bool
	dragValue int
	seekAcked bool

	// Text prompt
	mode  inputMode
	input string

	message string

	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(ctl Controller, actions *Actions, devices []device.Device) Model {
	m := Model{
		ctl:     ctl,
		actions: actions,
		devices: devices,
	}
	if ctl != nil {
		m.status = ctl.Status()
	}
	return m
}

// Init loads the preset list
func (m Model) Init() tea.Cmd {
	if m.ctl == nil {
		return nil
	}
	ctl := m.ctl
	return func() tea.Msg { return listPresets(ctl) }
}

func listPresets(ctl Controller) tea.Msg {
	list, err := ctl.Presets()
	if err != nil {
		return ErrorMsg{Err: err}
	}
	return PresetsMsg(list)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.status = transport.Status(msg)
		switch {
		case !m.dragging:
		case m.status.Seeking:
			m.seekAcked = true
		case m.seekAcked:
			// the gesture ended in the controller, for example by Stop
			m.dragging, m.seekAcked = false, false
		}
	case PresetsMsg:
		m.presets = msg
	case ErrorMsg:
		m.message = "Error: " + msg.Err.Error()
	}

	return m, nil
}

// submit queues a controller call. Failures surface as ErrorMsg.
func (m *Model) submit(fn func(ctl Controller) error) {
	ctl := m.ctl
	ok := m.actions.Submit(func() tea.Msg {
		if err := fn(ctl); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	})
	if !ok {
		m.message = "Busy, key ignored"
	}
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.submit(func(c Controller) error { return c.TogglePlayback() })
	case "s":
		m.submit(func(c Controller) error { return c.Stop() })

	case "left", "right":
		if !m.dragging {
			m.dragging, m.seekAcked = true, false
			m.dragValue = m.status.Slider
			m.submit(func(c Controller) error { c.BeginSeek(); return nil })
		}
		if key == "left" {
			m.dragValue = max(m.dragValue-seekStep, 0)
		} else {
			m.dragValue = min(m.dragValue+seekStep, transport.SliderMax)
		}
		value := m.dragValue
		m.submit(func(c Controller) error { c.DragSeek(value); return nil })
	case "enter":
		if m.dragging || m.status.Seeking {
			m.dragging, m.seekAcked = false, false
			m.submit(func(c Controller) error {
				if err := c.EndSeek(); !errors.Is(err, transport.ErrNotSeeking) {
					return err
				}
				return nil
			})
		}

	case "[":
		m.submit(func(c Controller) error { c.MarkStart(); return nil })
	case "]":
		m.submit(func(c Controller) error { c.MarkEnd(); return nil })
	case "c":
		m.submit(func(c Controller) error { c.ClearRange(); return nil })

	case "p":
		m.mode, m.input = inputPresetName, ""
	case "l":
		m.mode, m.input = inputFilePath, ""
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < len(m.presets) {
			name := m.presets[idx].Name
			m.submit(func(c Controller) error { return c.PlayPreset(name) })
		}

	case "up", "down", "pgup", "pgdown":
		role := engine.Primary
		if key == "pgup" || key == "pgdown" {
			role = engine.Secondary
		}
		level := m.status.Channels[role].Volume
		if key == "up" || key == "pgup" {
			level = min(level+volumeStep, 100)
		} else {
			level = max(level-volumeStep, 0)
		}
		m.status.Channels[role].Volume = level
		m.submit(func(c Controller) error { return c.SetVolume(role, level) })
	case "m", "M":
		role := engine.Primary
		if key == "M" {
			role = engine.Secondary
		}
		muted := !m.status.Channels[role].Muted
		m.status.Channels[role].Muted = muted
		m.submit(func(c Controller) error { return c.SetMute(role, muted) })
	case "d", "D":
		role := engine.Primary
		if key == "D" {
			role = engine.Secondary
		}
		if id, ok := m.nextDevice(m.status.Channels[role].Device); ok {
			m.status.Channels[role].Device = id
			m.submit(func(c Controller) error { return c.SetDevice(role, id) })
		}
	}

	return m, nil
}

// handleInput edits the active text prompt
func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode, m.input = inputNone, ""
	case tea.KeyBackspace:
		if n := len([]rune(m.input)); n > 0 {
			m.input = string([]rune(m.input)[:n-1])
		}
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input)
		mode := m.mode
		m.mode, m.input = inputNone, ""
		if text == "" {
			return m, nil
		}
		ctl := m.ctl
		var ok bool
		if mode == inputPresetName {
			ok = m.actions.Submit(func() tea.Msg {
				if err := ctl.SavePreset(text); err != nil {
					return ErrorMsg{Err: err}
				}
				return listPresets(ctl)
			})
		} else {
			ok = m.actions.Submit(func() tea.Msg {
				if err := ctl.Load(text); err != nil {
					return ErrorMsg{Err: err}
				}
				return nil
			})
		}
		if !ok {
			m.message = "Busy, key ignored"
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	return m, nil
}

// nextDevice returns the device after current in enumeration order
func (m Model) nextDevice(current string) (string, bool) {
	if len(m.devices) == 0 {
		return "", false
	}
	for i, d := range m.devices {
		if d.ID == current {
			return m.devices[(i+1)%len(m.devices)].ID, true
		}
	}
	return m.devices[0].ID, true
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
)

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", version.Product, version.Version)))
	b.WriteString("\n\n")

	b.WriteString(m.renderTransport())
	b.WriteString(m.renderChannels())
	b.WriteString(m.renderPresets())

	switch m.mode {
	case inputPresetName:
		b.WriteString(promptStyle.Render("Preset name: ") + m.input + "_\n\n")
	case inputFilePath:
		b.WriteString(promptStyle.Render("Load file: ") + m.input + "_\n\n")
	}

	if m.message != "" {
		b.WriteString(errorStyle.Render(m.message))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

// renderTransport renders source, position and clip marks
func (m Model) renderTransport() string {
	var b strings.Builder

	source := "(none)"
	if m.status.Source != "" {
		source = truncate(filepath.Base(m.status.Source), 48)
	}
	b.WriteString(headerStyle.Render("Source:   "))
	b.WriteString(valueStyle.Render(source))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("State:    "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s  %s / %s",
		m.status.State, formatMs(m.status.PositionMs), formatMs(m.status.LengthMs))))
	b.WriteString("\n")

	slider := m.status.Slider
	if m.dragging {
		slider = m.dragValue
	}
	b.WriteString(headerStyle.Render("Position: "))
	b.WriteString(fmt.Sprintf("[%s] %3d%%", renderBar(slider, transport.SliderMax, 40), slider/10))
	if m.dragging {
		b.WriteString(markStyle.Render(" seeking"))
	}
	b.WriteString("\n")

	start, end := "--", "--"
	if ms, ok := m.status.Range.Start(); ok {
		start = formatMs(ms)
	}
	if ms, ok := m.status.Range.End(); ok {
		end = formatMs(ms)
	}
	b.WriteString(headerStyle.Render("Clip:     "))
	b.WriteString(markStyle.Render(fmt.Sprintf("%s -> %s", start, end)))
	b.WriteString("\n\n")

	return b.String()
}

// renderChannels renders device, volume and mute for both outputs
func (m Model) renderChannels() string {
	var b strings.Builder
	for _, role := range engine.Roles {
		ch := m.status.Channels[role]
		name := "(default)"
		if d, ok := device.Find(m.devices, ch.Device); ok {
			name = d.Label()
		} else if ch.Device != "" {
			name = ch.Device
		}
		mute := ""
		if ch.Muted {
			mute = " muted"
		}
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s", role.String()+":")))
		b.WriteString(valueStyle.Render(truncate(name, 36)))
		b.WriteString(fmt.Sprintf("\n          [%s] %d%%%s\n", renderBar(ch.Volume, 100, 20), ch.Volume, mute))
	}
	b.WriteString("\n")
	return b.String()
}

// renderPresets lists the first nine presets with their hotkeys
func (m Model) renderPresets() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Presets (%d)", len(m.presets))))
	b.WriteString("\n")
	if len(m.presets) == 0 {
		b.WriteString(valueStyle.Render("  none saved"))
		b.WriteString("\n")
	}
	for i, p := range m.presets {
		if i == 9 {
			b.WriteString(valueStyle.Render(fmt.Sprintf("  ... %d more", len(m.presets)-9)))
			b.WriteString("\n")
			break
		}
		b.WriteString(fmt.Sprintf("  %d %s", i+1, truncate(p.Name, 24)))
		b.WriteString(valueStyle.Render(fmt.Sprintf("  %s %s-%s",
			truncate(filepath.Base(p.Path), 24), formatMs(p.StartMs), formatMs(p.EndMs))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return helpStyle.Render("space:Play/Pause  s:Stop  ←/→:Seek  enter:Release  [/]:Mark  c:Clear\n" +
		"l:Load  p:Save preset  1-9:Play preset  ↑/↓ PgUp/PgDn:Volume  m/M:Mute  d/D:Device  q:Quit")
}

func formatMs(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}

func renderBar(value, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := min(max((value*width)/total, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	return ansi.Truncate(s, length, "...")
}
