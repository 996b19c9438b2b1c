package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/shopspring/decimal"
)

func saveTransactions(ctx context.Context, q queryer, transactions []model.Transaction) error {
	for _, txn := range transactions {
		_, err := q.ExecContext(ctx, `
			INSERT OR IGNORE INTO postings (id, date, description, category, amount)
			VALUES (?, ?, ?, ?, ?)
		`, txn.ID, txn.Date.UTC(), txn.Description, string(txn.Category), txn.Amount.String())
		if err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
	}
	return nil
}

func getTransactions(ctx context.Context, q queryer, filter service.TransactionFilter) ([]model.Transaction, error) {
	query := `SELECT id, date, description, category, amount FROM postings`
	var conditions []string
	var args []any

	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.EndDate.UTC())
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var (
			txn      model.Transaction
			date     time.Time
			category string
			amount   string
		)
		if err := rows.Scan(&txn.ID, &date, &txn.Description, &category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s has malformed amount %q: %w", txn.ID, amount, err)
		}
		txn.Date = date
		txn.Category = model.TransactionCategory(category)
		txn.Amount = parsed
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}
