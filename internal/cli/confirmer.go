package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/ledger"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/otp"
	"github.com/schollz/progressbar/v3"
)

// ErrConfirmationCancelled is returned when the user cancels at the code prompt.
var ErrConfirmationCancelled = errors.New("transaction cancelled")

// Flow is the confirmation flow driven by the line-mode prompt.
type Flow interface {
	PressDigit(value string) bool
	DeleteDigit()
	Verify(ctx context.Context) (ledger.Receipt, error)
	Cancel() error
	Pending() (model.PendingAction, bool)
	Destination() string
	Delivery() <-chan error
}

// Confirmer asks for the verification code of a staged action on a terminal.
type Confirmer struct {
	writer  io.Writer
	reader  *NonBlockingReader
	spinner time.Duration
}

// NewConfirmer creates a Confirmer reading from reader and writing to writer.
func NewConfirmer(reader io.Reader, writer io.Writer) *Confirmer {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Confirmer{
		writer:  writer,
		reader:  NewNonBlockingReader(reader),
		spinner: 100 * time.Millisecond,
	}
}

// Confirm shows the staged action, waits for code delivery and reads codes
// until one verifies or the user types "cancel". Mismatches re-prompt.
// Any exit other than success cancels the flow so nothing stays staged.
func (c *Confirmer) Confirm(ctx context.Context, flow Flow) (ledger.Receipt, error) {
	action, ok := flow.Pending()
	if !ok {
		return ledger.Receipt{}, common.ErrNoPendingAction
	}

	if _, err := fmt.Fprintln(c.writer, RenderBox(LockIcon+" Verify Transaction", c.formatAction(action, flow.Destination()))); err != nil {
		return ledger.Receipt{}, c.abort(flow, fmt.Errorf("failed to write action box: %w", err))
	}

	if err := c.awaitDelivery(ctx, flow.Delivery()); err != nil {
		return ledger.Receipt{}, c.abort(flow, err)
	}

	for {
		if _, err := fmt.Fprint(c.writer, FormatPrompt(fmt.Sprintf("Enter %d-digit code (or 'cancel')", otp.Length))); err != nil {
			return ledger.Receipt{}, c.abort(flow, fmt.Errorf("failed to write prompt: %w", err))
		}

		line, err := c.reader.ReadLine(ctx)
		if err != nil {
			return ledger.Receipt{}, c.abort(flow, err)
		}

		if strings.EqualFold(line, "cancel") || strings.EqualFold(line, "c") {
			if err := flow.Cancel(); err != nil {
				return ledger.Receipt{}, err
			}
			c.println(FormatWarning("Transaction cancelled. No money was moved."))
			return ledger.Receipt{}, ErrConfirmationCancelled
		}

		digits := strings.ReplaceAll(line, " ", "")
		if strings.Trim(digits, "0123456789") != "" {
			c.println(FormatError("Enter digits only."))
			continue
		}
		if len(digits) != otp.Length {
			c.println(FormatError(fmt.Sprintf("Enter all %d digits.", otp.Length)))
			continue
		}

		enterCode(flow, digits)

		receipt, err := flow.Verify(ctx)
		switch {
		case err == nil:
			c.println(FormatSuccess(action.Kind.String() + " Successful"))
			c.println(receipt.Record.Message)
			c.println(SubtleStyle.Render("Available balance: ") + AmountStyle.Render(model.FormatUSD(receipt.Balance)))
			return receipt, nil
		case errors.Is(err, common.ErrChallengeIncomplete):
			c.println(FormatError(fmt.Sprintf("Enter all %d digits.", otp.Length)))
		case errors.Is(err, common.ErrVerificationMismatch):
			c.println(FormatError("Incorrect code. Please try again."))
		default:
			c.println(FormatError(common.UserMessage(err)))
			return ledger.Receipt{}, c.abort(flow, err)
		}
	}
}

// enterCode replaces the current entry with digits.
func enterCode(flow Flow, digits string) {
	for i := 0; i < otp.Length; i++ {
		flow.DeleteDigit()
	}
	for _, d := range digits {
		flow.PressDigit(string(d))
	}
}

func (c *Confirmer) formatAction(action model.PendingAction, destination string) string {
	return fmt.Sprintf("%s\n", BoldStyle.Render(action.Label())) +
		fmt.Sprintf("  Type:   %s\n", action.Kind.String()) +
		fmt.Sprintf("  Amount: %s\n", AmountStyle.Render(model.FormatUSD(action.Amount))) +
		fmt.Sprintf("\nA %d-digit code is being sent to %s.", otp.Length, otp.MaskDestination(destination))
}

// awaitDelivery spins until the code has been delivered. A delivery failure
// is logged and the prompt continues: the code stays valid.
func (c *Confirmer) awaitDelivery(ctx context.Context, delivery <-chan error) error {
	if delivery == nil {
		return nil
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(c.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[cyan]Sending code...[reset]"),
		progressbar.OptionClearOnFinish(),
	)
	defer func() {
		if err := bar.Finish(); err != nil {
			slog.Warn("Failed to finish spinner", "error", err)
		}
	}()

	ticker := time.NewTicker(c.spinner)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ErrInputCancelled
		case err, ok := <-delivery:
			if ok && err != nil {
				slog.Warn("Code delivery failed", "error", err)
			}
			return nil
		case <-ticker.C:
			if err := bar.Add(1); err != nil {
				slog.Debug("Failed to advance spinner", "error", err)
			}
		}
	}
}

// abort cancels the flow and returns err.
func (c *Confirmer) abort(flow Flow, err error) error {
	if cancelErr := flow.Cancel(); cancelErr != nil && !errors.Is(cancelErr, common.ErrNoPendingAction) {
		slog.Warn("Failed to cancel confirmation flow", "error", cancelErr)
	}
	return err
}

func (c *Confirmer) println(s string) {
	if _, err := fmt.Fprintln(c.writer, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}
