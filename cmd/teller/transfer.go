package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/pocket-teller/internal/cli"
	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/otp"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func transferCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send money with Zelle®",
		Long: `Stage a transfer and confirm it with a one-time verification code.

Examples:
  teller transfer --to "Jane Doe" --amount 250
  teller transfer --amount 20.50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, _ := cmd.Flags().GetString("to")
			raw, _ := cmd.Flags().GetString("amount")

			amount, err := parseAmount(raw)
			if err != nil {
				return err
			}
			return o.confirmAction(cmd, model.ActionTransfer, amount, model.TransferDescription(strings.TrimSpace(to)))
		},
	}

	cmd.Flags().String("to", "", "recipient name, email or phone")
	cmd.Flags().String("amount", "", "amount in dollars, e.g. 125.50")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func payCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Pay a bill",
		Long: `Stage a bill payment and confirm it with a one-time verification code.

The biller is matched case-insensitively against the start of its name:

  teller pay --biller "state farm"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("biller")

			bill, err := findBill(model.SeedBills(), name)
			if err != nil {
				return err
			}
			return o.confirmAction(cmd, model.ActionBillPayment, bill.Amount, model.BillPaymentDescription(bill.Name))
		},
	}

	cmd.Flags().String("biller", "", "biller name")
	_ = cmd.MarkFlagRequired("biller")

	return cmd
}

// confirmAction stages an action and walks the user through verification.
// The code is printed to the terminal as the delivery channel.
func (o *rootOptions) confirmAction(cmd *cobra.Command, kind model.ActionKind, amount decimal.Decimal, description string) error {
	svc, err := o.withSession(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	out := cmd.OutOrStdout()
	handler := cli.NewInterruptHandler(out)
	ctx := handler.HandleInterrupts(cmd.Context(), true)

	deliverer := otp.WriterDeliverer{W: out, Format: cli.FormatInfo}
	flow := svc.newOrchestrator(deliverer, service.DiscardNotifier)

	if err := flow.Stage(ctx, kind, amount, description); err != nil {
		switch {
		case errors.Is(err, common.ErrInsufficientFunds):
			return common.NewUserError("Insufficient funds.", err)
		case errors.Is(err, common.ErrInvalidAmount):
			return common.NewUserError("Enter an amount greater than $0.00.", err)
		default:
			return err
		}
	}

	receipt, err := cli.NewConfirmer(cmd.InOrStdin(), out).Confirm(ctx, flow)
	if handler.WasInterrupted() {
		return nil
	}
	if errors.Is(err, cli.ErrConfirmationCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	slog.Debug("Action committed",
		"kind", kind.String(),
		"record", receipt.Record.ID,
		"balance", receipt.Balance.StringFixed(2))
	return nil
}

// parseAmount parses a positive dollar amount with at most two decimals.
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "$")
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, common.NewUserError("Enter an amount greater than $0.00.", common.ErrInvalidAmount)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return decimal.Zero, common.NewUserError("Amounts have at most two decimal places.", common.ErrInvalidAmount)
	}
	return amount, nil
}

// findBill returns the bill whose name starts with name, ignoring case.
func findBill(bills []model.Bill, name string) (model.Bill, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want != "" {
		for _, b := range bills {
			if strings.HasPrefix(strings.ToLower(b.Name), want) {
				return b, nil
			}
		}
	}

	names := make([]string, len(bills))
	for i, b := range bills {
		names[i] = b.Name
	}
	return model.Bill{}, common.NewUserError(
		fmt.Sprintf("Unknown biller %q. Choose one of: %s.", name, strings.Join(names, ", ")),
		common.ErrNotFound)
}
