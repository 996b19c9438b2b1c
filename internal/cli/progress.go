package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// NewByteProgress returns a progress bar for copying size bytes. A negative
// size renders an indeterminate spinner.
func NewByteProgress(w io.Writer, size int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// TrackReader wraps r so reads advance a byte progress bar on w.
func TrackReader(r io.Reader, w io.Writer, size int64, description string) (io.Reader, func()) {
	bar := NewByteProgress(w, size, description)
	reader := progressbar.NewReader(r, bar)
	return &reader, func() {
		if err := bar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}
}

// TrackWriter wraps w so writes advance a byte progress bar on out.
func TrackWriter(w io.Writer, out io.Writer, size int64, description string) (io.Writer, func()) {
	bar := NewByteProgress(out, size, description)
	return io.MultiWriter(w, bar), func() {
		if err := bar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}
}
