// Package tuitest drives Bubble Tea models in tests without a terminal.
package tuitest

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TestRenderer runs a model the way tea.Program does: commands execute on
// their own goroutines and their messages are fed back through Update. Only
// the test goroutine calls Update, so models need no extra locking.
type TestRenderer struct {
	model tea.Model
	msgs  chan tea.Msg

	// Output contains the last rendered view
	Output string

	// UpdateCount tracks how many times Update was called
	UpdateCount int

	// Quit is set once the model returns tea.Quit
	Quit bool
}

// NewTestRenderer starts model and runs its Init command.
func NewTestRenderer(model tea.Model) *TestRenderer {
	r := &TestRenderer{
		model: model,
		msgs:  make(chan tea.Msg, 64),
	}
	r.Output = model.View()
	r.run(model.Init())
	return r
}

// Model returns the current model.
func (r *TestRenderer) Model() tea.Model {
	return r.model
}

// View renders the current model.
func (r *TestRenderer) View() string {
	r.Output = r.model.View()
	return r.Output
}

// Send delivers msgs to the model in order.
func (r *TestRenderer) Send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		r.handle(msg)
	}
}

// WaitFor processes command results until cond holds or timeout passes.
func (r *TestRenderer) WaitFor(cond func(tea.Model) bool, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		if cond(r.model) {
			return true
		}
		select {
		case msg := <-r.msgs:
			r.handle(msg)
		case <-deadline.C:
			return cond(r.model)
		}
	}
}

// Settle processes command results until none arrives for quiet.
func (r *TestRenderer) Settle(quiet time.Duration) {
	for {
		select {
		case msg := <-r.msgs:
			r.handle(msg)
		case <-time.After(quiet):
			return
		}
	}
}

func (r *TestRenderer) handle(msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, cmd := range msg {
			r.run(cmd)
		}
		return
	case tea.QuitMsg:
		r.Quit = true
		return
	}
	if r.Quit {
		return
	}

	next, cmd := r.model.Update(msg)
	r.model = next
	r.UpdateCount++
	r.Output = next.View()
	r.run(cmd)
}

func (r *TestRenderer) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		if msg := cmd(); msg != nil {
			r.msgs <- msg
		}
	}()
}
