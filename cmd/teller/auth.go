package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/pocket-teller/internal/auth"
	"github.com/Veraticus/pocket-teller/internal/cli"
	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/spf13/cobra"
)

func loginCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to Online Banking",
		Long: `Sign in with your Online ID and Passcode.

The passcode is read from standard input so it never lands in shell history:

  teller login --online-id thomas_michael`,
		Args: cobra.NoArgs,
		RunE: o.runLogin,
	}

	cmd.Flags().String("online-id", "", "Online ID (prompted when omitted)")

	return cmd
}

func (o *rootOptions) runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	reader := cli.NewNonBlockingReader(cmd.InOrStdin())

	onlineID, _ := cmd.Flags().GetString("online-id")
	if onlineID == "" {
		if _, err := fmt.Fprint(out, cli.FormatPrompt("Online ID")); err != nil {
			return err
		}
		line, err := reader.ReadLine(ctx)
		if err != nil {
			return fmt.Errorf("failed to read online ID: %w", err)
		}
		onlineID = line
	}

	if _, err := fmt.Fprint(out, cli.FormatPrompt("Passcode")); err != nil {
		return err
	}
	passcode, err := reader.ReadLine(ctx)
	if err != nil {
		return fmt.Errorf("failed to read passcode: %w", err)
	}
	_, _ = fmt.Fprintln(out)

	svc, err := o.openServices(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	_, _ = fmt.Fprintln(out, cli.SubtleStyle.Render("Signing in..."))
	if err := svc.auth.Login(ctx, onlineID, passcode); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			_, _ = fmt.Fprintln(out, cli.FormatError(common.UserMessage(err)))
		}
		return err
	}

	// Signing in posts the login insight the same way the app does.
	if _, err := svc.newScheduler(nil).Post(ctx); err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Signed in. Welcome back, %s.", firstName(svc.settings.Account.Holder))))
	return err
}

func logoutCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and reset the demo account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := o.openServices(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			if err := svc.auth.Logout(ctx); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("You have been signed out."))
			return err
		},
	}
}

func hashPasscodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-passcode",
		Short: "Hash a passcode for account.passcode_hash",
		Long: `Read a passcode from standard input and print its bcrypt hash.

Put the hash in your config file to replace the demo passcode:

  account:
    passcode_hash: "$2a$10$..."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cost, _ := cmd.Flags().GetInt("cost")

			line, err := cli.NewNonBlockingReader(cmd.InOrStdin()).ReadLine(cmd.Context())
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("failed to read passcode: %w", err)
			}
			if line == "" {
				return common.NewUserError("Enter a passcode on standard input.", common.ErrInvalidInput)
			}

			hash, err := auth.HashPasscode(line, cost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return err
		},
	}

	cmd.Flags().Int("cost", 0, "bcrypt cost (default 10)")

	return cmd
}
