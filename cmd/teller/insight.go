package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pocket-teller/internal/cli"
	"github.com/Veraticus/pocket-teller/internal/insight"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/spf13/cobra"
)

func insightCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insight",
		Short: "Generate a financial insight from recent activity",
		Long: `Ask Erica for a one-sentence tip based on your recent activity and
record it as a notification. Nothing is posted when an insight was
recorded within the last minute.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := o.withSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			record, err := svc.newScheduler(nil).Post(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if record == nil {
				_, err = fmt.Fprintln(out, cli.SubtleStyle.Render("An insight was posted moments ago. Check your notifications."))
				return err
			}
			_, err = fmt.Fprintln(out, cli.RenderBox(cli.SparkIcon+" "+record.Title, record.Message))
			return err
		},
	}
}

func chatCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to Erica, the virtual financial assistant",
		Long: `Send a message to Erica and wait for the reply. Without a message the
conversation so far is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := o.withSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			chat, err := insight.OpenChat(ctx, svc.store, svc.generator)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				for _, msg := range chat.Messages() {
					_, _ = fmt.Fprintln(out, formatChatMessage(msg))
				}
				return nil
			}

			_, _ = fmt.Fprintln(out, cli.SubtleStyle.Render("Erica is typing..."))
			reply, err := chat.Exchange(ctx, text, svc.chatTimings())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, formatChatMessage(reply))
			return err
		},
	}
}

func formatChatMessage(msg model.ChatMessage) string {
	stamp := cli.SubtleStyle.Render(msg.Timestamp.Local().Format("3:04 PM"))
	if msg.Sender == model.SenderUser {
		return fmt.Sprintf("%s %s %s", stamp, cli.BoldStyle.Render("You:"), msg.Text)
	}
	return fmt.Sprintf("%s %s %s", stamp, cli.PromptStyle.Render("Erica:"), msg.Text)
}
