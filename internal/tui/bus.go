package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/otp"
)

const defaultBusSize = 16

// Notice is a delivered code, tagged with the flow that requested it.
type Notice struct {
	Text string
	Flow uint64
}

// Bus carries toasts and delivered verification codes from background work
// into the running program. It is a service.Notifier and an otp.Deliverer.
type Bus struct {
	toasts  chan model.Toast
	notices chan Notice
}

// NewBus creates a Bus buffering up to size events of each kind.
func NewBus(size int) *Bus {
	if size <= 0 {
		size = defaultBusSize
	}
	return &Bus{
		toasts:  make(chan model.Toast, size),
		notices: make(chan Notice, size),
	}
}

// Notify queues a toast. It never blocks; a full queue drops the toast.
func (b *Bus) Notify(toast model.Toast) {
	select {
	case b.toasts <- toast:
	default:
		slog.Warn("Toast queue full, dropping toast", "message", toast.Message)
	}
}

// Deliver queues the code notice for the verification modal, tagged with
// the flow found on ctx.
func (b *Bus) Deliver(ctx context.Context, destination, code string) error {
	flow, _ := otp.FlowFrom(ctx)
	select {
	case b.notices <- Notice{Text: otp.Message(destination, code), Flow: flow}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("notice queue full for %s", otp.MaskDestination(destination))
	}
}

// Toasts returns the toast stream.
func (b *Bus) Toasts() <-chan model.Toast {
	return b.toasts
}

// Notices returns the delivered-code stream.
func (b *Bus) Notices() <-chan Notice {
	return b.notices
}
