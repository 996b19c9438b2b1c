package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/Veraticus/pocket-teller/internal/storage"
	"github.com/Veraticus/pocket-teller/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOpen_SeedsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	l, err := Open(ctx, db.Storage)
	require.NoError(t, err)

	assert.True(t, l.Balance().Equal(amount("20000")))
	assert.Len(t, l.History(), 3)
	assert.Equal(t, 2, l.UnreadCount())
	assert.Equal(t, "20000", db.MustGet(storage.KeyBalance))
}

func TestOpen_Rehydrates(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	first, err := Open(ctx, store, WithInitialBalance(amount("500")))
	require.NoError(t, err)
	_, err = first.Debit(ctx, amount("125.25"))
	require.NoError(t, err)
	require.NoError(t, first.MarkAllRead(ctx))

	second, err := Open(ctx, store)
	require.NoError(t, err)
	assert.True(t, second.Balance().Equal(amount("374.75")), "got %s", second.Balance())
	assert.Equal(t, 0, second.UnreadCount())
}

func TestOpen_CorruptedState(t *testing.T) {
	store := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
		Values: map[string]string{storage.KeyBalance: "not-a-number"},
	}).Storage

	_, err := Open(context.Background(), store)
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
}

func TestCreditDebit(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, testutil.NewStore(t))
	require.NoError(t, err)

	balance, err := l.Credit(ctx, amount("0.10"))
	require.NoError(t, err)
	assert.Equal(t, "20000.10", balance.StringFixed(2))

	balance, err = l.Debit(ctx, amount("0.20"))
	require.NoError(t, err)
	assert.Equal(t, "19999.90", balance.StringFixed(2))

	// Debit does not guard against overdraft.
	balance, err = l.Debit(ctx, amount("30000"))
	require.NoError(t, err)
	assert.True(t, balance.IsNegative())

	_, err = l.Credit(ctx, decimal.Zero)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)
}

func TestAppendRecord(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 10, 25, 9, 0, 0, 0, time.UTC)
	l, err := Open(ctx, testutil.NewStore(t), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	rec, err := l.AppendRecord(ctx, model.Notification{Title: "Hello", Message: "World", Kind: model.KindSystem})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, fixed, rec.CreatedAt)

	history := l.History()
	require.Len(t, history, 4)
	assert.Equal(t, rec.ID, history[0].ID, "records are prepended")

	// No dedup.
	_, err = l.AppendRecord(ctx, model.Notification{Title: "Hello", Message: "World", Kind: model.KindSystem})
	require.NoError(t, err)
	assert.Len(t, l.History(), 5)

	_, err = l.AppendRecord(ctx, model.Notification{Title: "Bad", Kind: "weather"})
	assert.Error(t, err)
}

func TestHistory_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, testutil.NewStore(t))
	require.NoError(t, err)

	history := l.History()
	history[0].Title = "mutated"
	assert.NotEqual(t, "mutated", l.History()[0].Title)
}

func TestCommit(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	l, err := Open(ctx, store)
	require.NoError(t, err)

	action := model.PendingAction{
		Kind:        model.ActionTransfer,
		Amount:      amount("250.00"),
		Description: model.TransferDescription("Jane Doe"),
	}
	receipt, err := l.Commit(ctx, action)
	require.NoError(t, err)

	assert.Equal(t, "19750.00", receipt.Balance.StringFixed(2))
	assert.Equal(t, "Transaction Complete", receipt.Record.Title)
	assert.Equal(t, "Your Transfer to Jane Doe of $250.00 was sent successfully.", receipt.Record.Message)
	assert.Equal(t, model.KindTransaction, receipt.Record.Kind)
	assert.False(t, receipt.Record.Read)

	postings, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, model.CategoryTransfer, postings[0].Category)
	assert.Equal(t, "-250", postings[0].Amount.String())
}

func TestCommit_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, testutil.NewStore(t), WithInitialBalance(amount("50")))
	require.NoError(t, err)
	before := l.History()

	_, err = l.Commit(ctx, model.PendingAction{Kind: model.ActionBillPayment, Amount: amount("89.00")})
	assert.ErrorIs(t, err, common.ErrInsufficientFunds)
	assert.True(t, l.Balance().Equal(amount("50")))
	assert.Equal(t, before, l.History())
}

func TestCommit_BillPaymentCategory(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, testutil.NewStore(t))
	require.NoError(t, err)

	receipt, err := l.Commit(ctx, model.PendingAction{
		Kind:        model.ActionBillPayment,
		Amount:      amount("89"),
		Description: model.BillPaymentDescription("State Farm Insurance"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryBills, receipt.Posting.Category)
	assert.Contains(t, receipt.Record.Message, "$89.00")
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, testutil.NewStore(t))
	require.NoError(t, err)

	require.NoError(t, l.MarkRead(ctx, "n1"))
	assert.Equal(t, 1, l.UnreadCount())
	assert.Len(t, l.History(), 3, "marking read never removes records")

	assert.ErrorIs(t, l.MarkRead(ctx, "missing"), common.ErrNotFound)

	require.NoError(t, l.MarkAllRead(ctx))
	assert.Equal(t, 0, l.UnreadCount())
}

func TestHasRecentInsight(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 10, 25, 9, 0, 0, 0, time.UTC)
	l, err := Open(ctx, testutil.NewStore(t), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	assert.False(t, l.HasRecentInsight(time.Minute))

	_, err = l.AppendRecord(ctx, model.Notification{Title: "Financial Insight", Kind: model.KindInsight})
	require.NoError(t, err)
	assert.True(t, l.HasRecentInsight(time.Minute))

	now = now.Add(2 * time.Minute)
	assert.False(t, l.HasRecentInsight(time.Minute))
}

func TestReload_AfterClear(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	l, err := Open(ctx, store)
	require.NoError(t, err)

	_, err = l.Debit(ctx, amount("1000"))
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, l.Reload(ctx))

	assert.True(t, l.Balance().Equal(model.DefaultBalance))
	assert.Len(t, l.History(), 3)
}

// failingStore refuses to open transactions after setup.
type failingStore struct {
	*storage.SQLiteStorage
	fail bool
}

var errWriteFailed = errors.New("write failed")

func (f *failingStore) BeginTx(ctx context.Context) (service.Transaction, error) {
	if f.fail {
		return nil, errWriteFailed
	}
	return f.SQLiteStorage.BeginTx(ctx)
}

func TestWriteFailure_LeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{SQLiteStorage: testutil.NewStore(t)}
	l, err := Open(ctx, store)
	require.NoError(t, err)

	store.fail = true
	_, err = l.Commit(ctx, model.PendingAction{Kind: model.ActionTransfer, Amount: amount("10")})
	assert.ErrorIs(t, err, errWriteFailed)
	assert.True(t, l.Balance().Equal(model.DefaultBalance))
	assert.Len(t, l.History(), 3)

	assert.ErrorIs(t, l.MarkAllRead(ctx), errWriteFailed)
	assert.Equal(t, 2, l.UnreadCount())
}
