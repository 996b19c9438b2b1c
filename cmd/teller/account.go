package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/pocket-teller/internal/cli"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/statements"
	"github.com/spf13/cobra"
)

func balanceCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the available balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := o.withSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			content := cli.AmountStyle.Render(model.FormatUSD(svc.ledger.Balance())) + "\n" +
				cli.SubtleStyle.Render("Available balance")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Adv Plus Banking - "+statements.AccountID, content))
			return err
		},
	}
}

func notificationsCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notifs"},
		Short:   "List and acknowledge notifications",
		Args:    cobra.NoArgs,
		RunE:    o.runNotificationsList,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		Args:  cobra.NoArgs,
		RunE:  o.runNotificationsList,
	}
	cmd.Flags().BoolP("verbose", "v", false, "Show full messages")
	list.Flags().BoolP("verbose", "v", false, "Show full messages")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "read ID",
		Short: "Mark one notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := o.withSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			if err := svc.ledger.MarkRead(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to mark %s read: %w", args[0], err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Marked as read."))
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := o.withSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			if err := svc.ledger.MarkAllRead(ctx); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Notifications cleared"))
			return err
		},
	})

	return cmd
}

func (o *rootOptions) runNotificationsList(cmd *cobra.Command, _ []string) error {
	svc, err := o.withSession(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	history := svc.ledger.History()
	out := cmd.OutOrStdout()

	title := fmt.Sprintf("Notifications (%d unread)", svc.ledger.UnreadCount())
	if _, err := fmt.Fprintln(out, cli.FormatTitle(title)); err != nil {
		return err
	}
	if len(history) == 0 {
		_, err = fmt.Fprintln(out, cli.SubtleStyle.Render("No notifications."))
		return err
	}

	now := time.Now()
	rows := make([]string, 0, len(history))
	table := make([][]string, 0, len(history))
	for _, n := range history {
		marker := " "
		if !n.Read {
			marker = cli.UnreadStyle.Render(cli.UnreadDot)
		}
		table = append(table, []string{marker, n.ID, n.Title, n.DisplayDate(now)})
		rows = append(rows, n.Message)
	}

	if _, err := fmt.Fprintln(out, cli.RenderTable([]string{"", "ID", "Title", "When"}, table)); err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		for i, msg := range rows {
			_, _ = fmt.Fprintf(out, "\n%s\n  %s\n", cli.BoldStyle.Render(history[i].Title), msg)
		}
	}
	return nil
}
