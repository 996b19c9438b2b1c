// Package statements assembles the account's recent activity and the
// spending breakdown shown on the statements screen.
package statements

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/ofx"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/shopspring/decimal"
)

// Statement account identifiers used for OFX export.
const (
	BankID    = "026009593"
	AccountID = "1102"
)

// Book reads recent activity from the seeded history and the posting journal.
type Book struct {
	store  service.Storage
	seed   []model.Transaction
	logger *slog.Logger
}

// NewBook creates a Book over store. A nil logger uses slog.Default.
func NewBook(store service.Storage, logger *slog.Logger) *Book {
	if logger == nil {
		logger = slog.Default()
	}
	return &Book{
		store:  store,
		seed:   model.SeedTransactions(),
		logger: logger,
	}
}

// Recent returns journaled postings followed by the seeded history, newest first.
func (b *Book) Recent(ctx context.Context) ([]model.Transaction, error) {
	journal, err := b.store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load postings: %w", err)
	}

	seen := make(map[string]bool, len(journal))
	all := make([]model.Transaction, 0, len(journal)+len(b.seed))
	for _, t := range journal {
		seen[t.ID] = true
		all = append(all, t)
	}
	for _, t := range b.seed {
		if !seen[t.ID] {
			all = append(all, t)
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return all, nil
}

// Import parses an OFX statement from r and journals its transactions.
// Transactions whose IDs are already journaled are left untouched.
func (b *Book) Import(ctx context.Context, r io.Reader) (int, error) {
	txns, err := ImportOFX(ctx, r)
	if err != nil {
		return 0, err
	}
	if len(txns) == 0 {
		return 0, nil
	}

	if err := b.store.SaveTransactions(ctx, txns); err != nil {
		return 0, fmt.Errorf("failed to journal imported transactions: %w", err)
	}

	b.logger.Info("Imported statement", "transactions", len(txns))
	return len(txns), nil
}

// Export writes the recent activity as an OFX statement.
func (b *Book) Export(ctx context.Context, w io.Writer, balance decimal.Decimal) (int, error) {
	txns, err := b.Recent(ctx)
	if err != nil {
		return 0, err
	}

	account := ofx.Account{BankID: BankID, AcctID: AccountID, Balance: balance}
	if err := ExportOFX(w, account, txns); err != nil {
		return 0, err
	}
	return len(txns), nil
}

// ImportOFX parses an OFX or QFX statement.
func ImportOFX(ctx context.Context, r io.Reader) ([]model.Transaction, error) {
	return ofx.NewParser().ParseFile(ctx, r)
}

// ExportOFX writes txns as an OFX bank statement for account.
func ExportOFX(w io.Writer, account ofx.Account, txns []model.Transaction) error {
	return ofx.NewWriter().Write(w, account, txns)
}
