// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and runs controller actions off the event loop
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/dualdeck/internal/device"
)

// Action performs one controller call and returns a message for the model, or nil
type Action func() tea.Msg

// Actions queues controller calls from key handling and runs them in order.
// Controller callbacks send messages into the program, so they must never
// run on the bubbletea event loop.
type Actions struct {
	queue chan Action
}

// NewActions creates a queue holding up to size pending actions
func NewActions(size int) *Actions {
	return &Actions{queue: make(chan Action, size)}
}

// Submit enqueues fn. It reports false when the queue is full.
func (a *Actions) Submit(fn Action) bool {
	select {
	case a.queue <- fn:
		return true
	default:
		return false
	}
}

// Run executes queued actions serially until ctx is done.
// Non-nil results are passed to send.
func (a *Actions) Run(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-a.queue:
			if msg := fn(); msg != nil {
				send(msg)
			}
		}
	}
}

// Run creates the TUI program
func Run(ctl Controller, actions *Actions, devices []device.Device) *tea.Program {
	return tea.NewProgram(NewModel(ctl, actions, devices), tea.WithAltScreen())
}
