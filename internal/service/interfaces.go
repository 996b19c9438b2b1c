// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/pocket-teller/internal/model"
)

// Storage defines the contract for our persistence layer: a small key-value
// store for account state plus a journal of statement transactions.
type Storage interface {
	// Key-value operations. Get returns common.ErrNotFound for absent keys.
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	PutMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error

	// Statement journal operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// TransactionFilter defines filtering options for journal queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Notifier shows transient acknowledgments to the user.
type Notifier interface {
	Notify(toast model.Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(toast model.Toast)

// Notify calls f.
func (f NotifierFunc) Notify(toast model.Toast) {
	f(toast)
}

// DiscardNotifier drops every toast.
var DiscardNotifier Notifier = NotifierFunc(func(model.Toast) {})
