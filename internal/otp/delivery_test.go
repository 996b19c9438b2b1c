package otp

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskDestination(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"thomasgggf513@gmail.com", "th***********@gmail.com"},
		{"ab@example.com", "ab@example.com"},
		{"not-an-email", "not-an-email"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskDestination(tt.in))
		})
	}
}

func TestWriterDeliverer(t *testing.T) {
	var buf bytes.Buffer
	d := WriterDeliverer{W: &buf}
	require.NoError(t, d.Deliver(context.Background(), "me@example.com", "482913"))
	assert.Equal(t, "SECURITY: A code has been sent to me@example.com. Code: 482913\n", buf.String())
}

func TestDispatch_DeliversAfterDelay(t *testing.T) {
	got := make(chan string, 1)
	d := DelivererFunc(func(_ context.Context, _, code string) error {
		got <- code
		return nil
	})

	done := Dispatch(context.Background(), d, 5*time.Millisecond, "me@example.com", "482913")

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("delivery did not complete")
	}
	assert.Equal(t, "482913", <-got)
}

func TestDispatch_CancelledBeforeDelivery(t *testing.T) {
	delivered := false
	d := DelivererFunc(func(context.Context, string, string) error {
		delivered = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := Dispatch(ctx, d, time.Hour, "me@example.com", "482913")
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled dispatch did not finish")
	}
	assert.False(t, delivered)
}

func TestDispatch_ReportsDeliveryError(t *testing.T) {
	boom := errors.New("smtp down")
	d := DelivererFunc(func(context.Context, string, string) error { return boom })

	err := <-Dispatch(context.Background(), d, 0, "me@example.com", "482913")
	assert.ErrorIs(t, err, boom)
}

func TestFlowTag(t *testing.T) {
	_, ok := FlowFrom(context.Background())
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(WithFlow(context.Background(), 3))
	defer cancel()
	flow, ok := FlowFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, uint64(3), flow)
}
