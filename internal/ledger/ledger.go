// Package ledger owns the account balance and notification history.
//
// All mutations are serialized behind one lock and written through to
// storage in a single transaction before the in-memory state changes, so a
// failed write never leaves memory and disk disagreeing.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/Veraticus/pocket-teller/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the single-account balance and history store.
type Ledger struct {
	store          service.Storage
	logger         *slog.Logger
	now            func() time.Time
	newID          func() string
	state          model.AccountState
	initialBalance decimal.Decimal
	mu             sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithInitialBalance sets the balance seeded when nothing is persisted.
func WithInitialBalance(balance decimal.Decimal) Option {
	return func(l *Ledger) {
		l.initialBalance = balance
	}
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// Open rehydrates the ledger from storage, seeding defaults when no state exists.
func Open(ctx context.Context, store service.Storage, opts ...Option) (*Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger requires storage")
	}

	l := &Ledger{
		store:          store,
		logger:         slog.Default(),
		now:            time.Now,
		newID:          uuid.NewString,
		initialBalance: model.DefaultBalance,
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, seeded, err := readState(ctx, l.store, l.initialBalance)
	if err != nil {
		return err
	}
	if seeded {
		if err := l.persist(ctx, state, nil); err != nil {
			return fmt.Errorf("failed to seed account state: %w", err)
		}
		l.logger.Info("Seeded account state", "balance", state.Balance.StringFixed(2))
	}
	l.state = state
	return nil
}

// Reload discards in-memory state and rehydrates from storage, reseeding
// defaults if storage was cleared.
func (l *Ledger) Reload(ctx context.Context) error {
	return l.load(ctx)
}

func readState(ctx context.Context, store service.Storage, initial decimal.Decimal) (model.AccountState, bool, error) {
	state := model.AccountState{Balance: initial, Notifications: model.SeedNotifications()}
	seeded := false

	raw, err := store.Get(ctx, storage.KeyBalance)
	switch {
	case errors.Is(err, common.ErrNotFound):
		seeded = true
	case err != nil:
		return state, false, fmt.Errorf("failed to read balance: %w", err)
	default:
		balance, parseErr := decimal.NewFromString(raw)
		if parseErr != nil {
			return state, false, fmt.Errorf("%w: balance %q: %w", common.ErrDatabaseCorrupted, raw, parseErr)
		}
		state.Balance = balance
	}

	raw, err = store.Get(ctx, storage.KeyNotifications)
	switch {
	case errors.Is(err, common.ErrNotFound):
		seeded = true
	case err != nil:
		return state, false, fmt.Errorf("failed to read notifications: %w", err)
	default:
		var notifications []model.Notification
		if jsonErr := json.Unmarshal([]byte(raw), &notifications); jsonErr != nil {
			return state, false, fmt.Errorf("%w: notifications: %w", common.ErrDatabaseCorrupted, jsonErr)
		}
		state.Notifications = notifications
	}

	return state, seeded, nil
}

// persist writes the full state, plus any postings, in one storage transaction.
// Callers must hold l.mu.
func (l *Ledger) persist(ctx context.Context, state model.AccountState, postings []model.Transaction) error {
	notifications, err := json.Marshal(state.Notifications)
	if err != nil {
		return fmt.Errorf("failed to encode notifications: %w", err)
	}

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := tx.PutMany(ctx, map[string]string{
		storage.KeyBalance:       state.Balance.String(),
		storage.KeyNotifications: string(notifications),
	}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if len(postings) > 0 {
		if err := tx.SaveTransactions(ctx, postings); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit account state: %w", err)
	}
	return nil
}

// Balance returns the current balance.
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Balance
}

// History returns a copy of the notification history, newest first.
func (l *Ledger) History() []model.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone().Notifications
}

// UnreadCount returns the number of unread notifications.
func (l *Ledger) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, n := range l.state.Notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// HasRecentInsight reports whether an insight was recorded within window.
func (l *Ledger) HasRecentInsight(window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for _, n := range l.state.Notifications {
		if n.Kind == model.KindInsight && !n.CreatedAt.IsZero() && now.Sub(n.CreatedAt) < window {
			return true
		}
	}
	return false
}

// Credit adds amount to the balance and returns the new balance.
func (l *Ledger) Credit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	return l.adjust(ctx, amount, true)
}

// Debit subtracts amount from the balance and returns the new balance.
// It does not guard against overdraft; see Commit.
func (l *Ledger) Debit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	return l.adjust(ctx, amount, false)
}

func (l *Ledger) adjust(ctx context.Context, amount decimal.Decimal, credit bool) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", common.ErrInvalidAmount, amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.state.Clone()
	if credit {
		next.Balance = next.Balance.Add(amount)
	} else {
		next.Balance = next.Balance.Sub(amount)
	}

	if err := l.persist(ctx, next, nil); err != nil {
		return l.state.Balance, err
	}
	l.state = next
	return next.Balance, nil
}

// AppendRecord prepends record to the history. Missing IDs and timestamps are filled in.
func (l *Ledger) AppendRecord(ctx context.Context, record model.Notification) (model.Notification, error) {
	if !record.Kind.Valid() {
		return model.Notification{}, fmt.Errorf("unknown notification kind %q", record.Kind)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	record = l.stamp(record)
	next := l.state.Clone()
	next.Notifications = append([]model.Notification{record}, next.Notifications...)

	if err := l.persist(ctx, next, nil); err != nil {
		return model.Notification{}, err
	}
	l.state = next
	return record, nil
}

func (l *Ledger) stamp(record model.Notification) model.Notification {
	if record.ID == "" {
		record.ID = l.newID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = l.now()
	}
	if record.Date == "" {
		record.Date = "Just now"
	}
	return record
}

// Receipt describes a committed action.
type Receipt struct {
	Record  model.Notification
	Posting model.Transaction
	Balance decimal.Decimal
}

// Commit applies a verified action: it debits the amount, records a
// "Transaction Complete" notification, and journals a posting, all in one
// storage transaction. It fails with ErrInsufficientFunds if the balance no
// longer covers the amount.
func (l *Ledger) Commit(ctx context.Context, action model.PendingAction) (Receipt, error) {
	if !action.Amount.IsPositive() {
		return Receipt{}, fmt.Errorf("%w: %s", common.ErrInvalidAmount, action.Amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if action.Amount.GreaterThan(l.state.Balance) {
		return Receipt{}, fmt.Errorf("%w: %s exceeds balance %s",
			common.ErrInsufficientFunds, model.FormatUSD(action.Amount), model.FormatUSD(l.state.Balance))
	}

	record := l.stamp(model.Notification{
		Title:   "Transaction Complete",
		Message: fmt.Sprintf("Your %s of %s was sent successfully.", action.Label(), model.FormatUSD(action.Amount)),
		Kind:    model.KindTransaction,
	})
	posting := model.Transaction{
		ID:          record.ID,
		Date:        record.CreatedAt,
		Description: action.Label(),
		Category:    postingCategory(action.Kind),
		Amount:      action.Amount.Neg(),
	}

	next := l.state.Clone()
	next.Balance = next.Balance.Sub(action.Amount)
	next.Notifications = append([]model.Notification{record}, next.Notifications...)

	if err := l.persist(ctx, next, []model.Transaction{posting}); err != nil {
		return Receipt{}, err
	}
	l.state = next

	l.logger.Info("Committed action",
		"kind", action.Kind.String(),
		"amount", action.Amount.StringFixed(2),
		"balance", next.Balance.StringFixed(2))

	return Receipt{Record: record, Posting: posting, Balance: next.Balance}, nil
}

func postingCategory(kind model.ActionKind) model.TransactionCategory {
	if kind == model.ActionBillPayment {
		return model.CategoryBills
	}
	return model.CategoryTransfer
}

// MarkRead flags one notification as read. Unknown IDs return ErrNotFound.
func (l *Ledger) MarkRead(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.state.Clone()
	found := false
	for i := range next.Notifications {
		if next.Notifications[i].ID == id {
			next.Notifications[i].Read = true
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("notification %q: %w", id, common.ErrNotFound)
	}

	if err := l.persist(ctx, next, nil); err != nil {
		return err
	}
	l.state = next
	return nil
}

// MarkAllRead flags every notification as read.
func (l *Ledger) MarkAllRead(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.state.Clone()
	for i := range next.Notifications {
		next.Notifications[i].Read = true
	}

	if err := l.persist(ctx, next, nil); err != nil {
		return err
	}
	l.state = next
	return nil
}
