package ofx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedWriter() *Writer {
	w := NewWriter()
	w.now = func() time.Time { return time.Date(2024, time.October, 25, 12, 0, 0, 0, time.UTC) }
	return w
}

func TestWriterRoundTrip(t *testing.T) {
	account := Account{
		BankID:  "026009593",
		AcctID:  "1102",
		Balance: decimal.RequireFromString("19750.00"),
	}
	txns := model.SeedTransactions()

	var buf bytes.Buffer
	require.NoError(t, fixedWriter().Write(&buf, account, txns))
	assert.Contains(t, buf.String(), "<ACCTID>1102")

	parsed, err := NewParser().ParseFile(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(txns))

	byID := make(map[string]model.Transaction, len(parsed))
	for _, tx := range parsed {
		byID[tx.ID] = tx
	}

	for _, want := range txns {
		got, ok := byID[want.ID]
		require.True(t, ok, "missing transaction %s", want.ID)
		assert.Equal(t, want.Description, got.Description)
		assert.Equal(t, want.Category, got.Category)
		assert.True(t, want.Amount.Equal(got.Amount), "amount for %s: want %s got %s", want.ID, want.Amount, got.Amount)
		assert.True(t, want.Date.Equal(got.Date), "date for %s: want %s got %s", want.ID, want.Date, got.Date)
	}
}

func TestWriterEmptyStatement(t *testing.T) {
	var buf bytes.Buffer
	err := fixedWriter().Write(&buf, Account{BankID: "1", AcctID: "2", Balance: decimal.Zero}, nil)
	require.NoError(t, err)

	parsed, err := NewParser().ParseFile(context.Background(), &buf)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 32))
	assert.Equal(t, "Zelle®", truncate("Zelle® Transfer", 6))
}
