package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/pocket-teller/internal/cli"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/statements"
	"github.com/spf13/cobra"
)

func statementsCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statements",
		Short: "Spending summary and OFX statements",
		Args:  cobra.NoArgs,
		RunE:  o.runSummary,
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show spending by category and recent activity",
		Args:  cobra.NoArgs,
		RunE:  o.runSummary,
	}
	for _, c := range []*cobra.Command{cmd, summary} {
		c.Flags().StringP("category", "c", statements.AllCategories, "only list transactions in this category")
	}
	cmd.AddCommand(summary)

	cmd.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Write recent activity as an OFX statement",
		Long: `Write recent activity as an OFX bank statement that personal finance
software can import. Without a file the statement goes to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: o.runExport,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Add transactions from an OFX or QFX statement",
		Args:  cobra.ExactArgs(1),
		RunE:  o.runImport,
	})

	return cmd
}

func (o *rootOptions) runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	svc, err := o.withSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	txns, err := svc.book.Recent(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	summary := statements.Summarize(txns)

	if _, err := fmt.Fprintln(out, cli.FormatTitle("Spending this month")); err != nil {
		return err
	}
	rows := make([][]string, 0, len(summary.Categories))
	for _, c := range summary.Categories {
		rows = append(rows, []string{
			string(c.Category),
			model.FormatUSD(c.Amount),
			fmt.Sprintf("%.0f%%", summary.Share(c)*100),
		})
	}
	_, _ = fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Spent", "Share"}, rows))
	_, _ = fmt.Fprintf(out, "\n%s %s\n\n", cli.BoldStyle.Render("Total spending:"), cli.AmountStyle.Render(model.FormatUSD(summary.Total)))

	category, _ := cmd.Flags().GetString("category")
	filtered := statements.Filter(txns, category)

	_, _ = fmt.Fprintln(out, cli.FormatTitle("Recent Activity ("+category+")"))
	if len(filtered) == 0 {
		_, err = fmt.Fprintln(out, cli.SubtleStyle.Render("No transactions."))
		return err
	}

	activity := make([][]string, 0, len(filtered))
	for _, t := range filtered {
		activity = append(activity, []string{
			t.Date.Format("Jan 02"),
			t.Description,
			string(t.Category),
			signedAmount(t),
		})
	}
	_, err = fmt.Fprintln(out, cli.RenderTable([]string{"Date", "Description", "Category", "Amount"}, activity))
	return err
}

func (o *rootOptions) runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := o.withSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if len(args) == 0 {
		_, err := svc.book.Export(ctx, cmd.OutOrStdout(), svc.ledger.Balance())
		return err
	}

	path := args[0]
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w, finish := cli.TrackWriter(f, cmd.ErrOrStderr(), -1, "Exporting statement")
	count, err := svc.book.Export(ctx, w, svc.ledger.Balance())
	finish()
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", count, path)))
	return err
}

func (o *rootOptions) runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := o.withSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	path := args[0]
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	r, finish := cli.TrackReader(f, cmd.ErrOrStderr(), size, "Importing "+filepath.Base(path))
	count, err := svc.book.Import(ctx, r)
	finish()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d transactions from %s", count, filepath.Base(path))))
	return err
}

func signedAmount(t model.Transaction) string {
	if t.Amount.IsNegative() {
		return "-" + model.FormatUSD(t.Amount.Abs())
	}
	return "+" + model.FormatUSD(t.Amount)
}
