package otp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Deliverer sends a code to the user out of band. Delivery is fire-and-forget;
// the error is logged, never surfaced to the confirmation flow.
type Deliverer interface {
	Deliver(ctx context.Context, destination, code string) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, destination, code string) error

// Deliver calls f.
func (f DelivererFunc) Deliver(ctx context.Context, destination, code string) error {
	return f(ctx, destination, code)
}

// Message formats the notice shown when a code is delivered.
func Message(destination, code string) string {
	return fmt.Sprintf("SECURITY: A code has been sent to %s. Code: %s", destination, code)
}

// LogDeliverer writes codes to a logger.
type LogDeliverer struct {
	Logger *slog.Logger
}

// Deliver logs the code.
func (d LogDeliverer) Deliver(_ context.Context, destination, code string) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Verification code delivered", "destination", MaskDestination(destination), "code", code)
	return nil
}

// WriterDeliverer prints the delivery notice to a writer, such as a terminal.
type WriterDeliverer struct {
	W      io.Writer
	Format func(string) string
}

// Deliver writes the notice.
func (d WriterDeliverer) Deliver(_ context.Context, destination, code string) error {
	msg := Message(destination, code)
	if d.Format != nil {
		msg = d.Format(msg)
	}
	_, err := fmt.Fprintln(d.W, msg)
	return err
}

// MaskDestination hides most of an email's local part, e.g. "th****@gmail.com".
func MaskDestination(destination string) string {
	local, domain, ok := strings.Cut(destination, "@")
	if !ok || len(local) <= 2 {
		return destination
	}
	return local[:2] + strings.Repeat("*", len(local)-2) + "@" + domain
}

type flowKey struct{}

// WithFlow tags ctx with the confirmation flow a delivery belongs to.
func WithFlow(ctx context.Context, flow uint64) context.Context {
	return context.WithValue(ctx, flowKey{}, flow)
}

// FlowFrom returns the flow tag set by WithFlow.
func FlowFrom(ctx context.Context) (uint64, bool) {
	flow, ok := ctx.Value(flowKey{}).(uint64)
	return flow, ok
}

// Dispatch delivers code after delay unless ctx ends first. The returned
// channel receives the outcome (ctx.Err() when cancelled) and is closed.
func Dispatch(ctx context.Context, d Deliverer, delay time.Duration, destination, code string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			done <- ctx.Err()
			return
		case <-timer.C:
		}

		err := d.Deliver(ctx, destination, code)
		if err != nil {
			slog.Warn("Code delivery failed", "destination", MaskDestination(destination), "error", err)
		}
		done <- err
	}()
	return done
}
