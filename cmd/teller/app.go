package main

import (
	"context"

	"github.com/Veraticus/pocket-teller/internal/insight"
	"github.com/Veraticus/pocket-teller/internal/tui"
	"github.com/spf13/cobra"
)

func appCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:         "app",
		Short:       "Open the banking app (default)",
		Annotations: map[string]string{tuiAnnotation: "true"},
		RunE:        o.runApp,
	}
}

func (o *rootOptions) runApp(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, err := o.openServices(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	// The bus carries verification notices and toasts from background work
	// into the running program.
	bus := tui.NewBus(0)
	flow := svc.newOrchestrator(bus, bus)

	return tui.Run(ctx,
		tui.WithAccounts(svc.ledger),
		tui.WithFlow(flow),
		tui.WithSession(svc.auth),
		tui.WithInsights(svc.newScheduler(bus)),
		tui.WithActivity(svc.book),
		tui.WithChat(func(ctx context.Context) (tui.Conversation, error) {
			return insight.OpenChat(ctx, svc.store, svc.generator)
		}),
		tui.WithBus(bus),
		tui.WithHolderName(firstName(svc.settings.Account.Holder)),
		tui.WithChatTimings(svc.chatTimings()),
	)
}
