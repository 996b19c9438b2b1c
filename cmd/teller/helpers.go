package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/pocket-teller/internal/auth"
	"github.com/Veraticus/pocket-teller/internal/config"
	"github.com/Veraticus/pocket-teller/internal/confirm"
	"github.com/Veraticus/pocket-teller/internal/insight"
	"github.com/Veraticus/pocket-teller/internal/ledger"
	"github.com/Veraticus/pocket-teller/internal/llm"
	"github.com/Veraticus/pocket-teller/internal/otp"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/Veraticus/pocket-teller/internal/statements"
	"github.com/Veraticus/pocket-teller/internal/storage"
)

// services bundles everything a command needs to act on the account.
type services struct {
	settings  *config.Settings
	store     *storage.SQLiteStorage
	ledger    *ledger.Ledger
	auth      *auth.Authenticator
	book      *statements.Book
	advisor   *llm.Advisor
	generator *insight.Generator
	codes     otp.CodeSource
}

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// openServices wires storage, the ledger, sign-in and the insight generator.
func (o *rootOptions) openServices(ctx context.Context) (*services, error) {
	s := o.settings
	logger := slog.Default()

	store, err := initStorage(ctx, s.DatabasePath)
	if err != nil {
		return nil, err
	}

	svc := &services{
		settings: s,
		store:    store,
		book:     statements.NewBook(store, logger),
		codes:    o.codes,
	}

	svc.ledger, err = ledger.Open(ctx, store,
		ledger.WithInitialBalance(s.Account.InitialBalance),
		ledger.WithLogger(logger))
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	svc.auth, err = auth.New(store, auth.Config{
		OnlineID:     s.Account.OnlineID,
		PasscodeHash: s.Account.PasscodeHash,
		Passcode:     config.DefaultPasscode,
		Delay:        s.Login.Delay,
	}, logger)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	llmCfg, err := config.LoadLLMConfig(o.viper)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	// A nil completer always yields the canned insight.
	var completer insight.Completer
	if llmCfg.Provider != llm.ProviderNone {
		advisor, err := llm.NewAdvisor(llmCfg, logger)
		if err != nil {
			logger.Warn("Insight provider unavailable, using canned insights", "provider", llmCfg.Provider, "error", err)
		} else {
			svc.advisor = advisor
			completer = advisor
		}
	}
	svc.generator = insight.NewGenerator(completer, logger)

	return svc, nil
}

// Close releases the advisor and the database.
func (s *services) Close() error {
	var errs []error
	if s.advisor != nil {
		errs = append(errs, s.advisor.Close())
	}
	errs = append(errs, s.store.Close())
	return errors.Join(errs...)
}

// newOrchestrator builds a confirmation flow over the ledger.
func (s *services) newOrchestrator(deliverer otp.Deliverer, notifier service.Notifier) *confirm.Orchestrator {
	opts := []confirm.Option{
		confirm.WithDeliverer(deliverer),
		confirm.WithNotifier(notifier),
		confirm.WithDestination(s.settings.OTP.Destination),
		confirm.WithDeliveryDelay(s.settings.OTP.DeliveryDelay),
		confirm.WithLogger(slog.Default()),
	}
	if s.codes != nil {
		opts = append(opts, confirm.WithCodeSource(s.codes))
	}
	return confirm.New(s.ledger, opts...)
}

// newScheduler builds the post-login insight scheduler.
func (s *services) newScheduler(notifier service.Notifier) *insight.Scheduler {
	return insight.NewScheduler(s.generator, s.ledger, s.book.Recent, notifier, insight.SchedulerConfig{
		Delay:        s.settings.Insight.Delay,
		RecentWindow: s.settings.Insight.RecentWindow,
	})
}

// chatTimings returns the configured chat delivery schedule.
func (s *services) chatTimings() insight.Timings {
	return insight.Timings{
		Delivered: s.settings.Chat.DeliveredDelay,
		Reply:     s.settings.Chat.ReplyDelay,
	}
}

// withSession opens the services and fails unless a user is signed in.
func (o *rootOptions) withSession(ctx context.Context) (*services, error) {
	svc, err := o.openServices(ctx)
	if err != nil {
		return nil, err
	}
	if err := svc.auth.RequireSession(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}

// firstName returns the first word of a holder's name.
func firstName(holder string) string {
	if fields := strings.Fields(holder); len(fields) > 0 {
		return fields[0]
	}
	return holder
}
