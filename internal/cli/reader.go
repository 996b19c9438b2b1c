package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

type readResult struct {
	err   error
	value string
}

// NonBlockingReader provides context-aware input reading that can be interrupted.
// A read abandoned by cancellation is not lost: its line is handed to the
// next call. It is meant for a single consumer.
type NonBlockingReader struct {
	reader   *bufio.Reader
	inflight chan readResult
	mu       sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadString reads a string until delimiter, respecting context cancellation.
func (r *NonBlockingReader) ReadString(ctx context.Context, delim byte) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	r.mu.Lock()
	ch := r.inflight
	if ch == nil {
		ch = make(chan readResult, 1)
		r.inflight = ch
		go func() {
			value, err := r.reader.ReadString(delim)
			ch <- readResult{value: value, err: err}
		}()
	}
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		// The read keeps going; the next call picks up its result.
		return "", ErrInputCancelled
	case res := <-ch:
		r.mu.Lock()
		r.inflight = nil
		r.mu.Unlock()
		return res.value, res.err
	}
}

// ReadLine reads a line, respecting context cancellation. A final line
// without a trailing newline is returned without error.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.ReadString(ctx, '\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
