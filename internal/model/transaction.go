package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCategory groups statement transactions for spending breakdowns.
type TransactionCategory string

// Statement categories.
const (
	CategoryShopping TransactionCategory = "Shopping"
	CategoryFood     TransactionCategory = "Food"
	CategoryTransfer TransactionCategory = "Transfer"
	CategoryBills    TransactionCategory = "Bills"
	CategoryIncome   TransactionCategory = "Income"
)

// Transaction is a statement line. Negative amounts are money leaving the account.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string
	Category    TransactionCategory
	Amount      decimal.Decimal
}

// IsSpending reports whether the transaction took money out of the account.
func (t Transaction) IsSpending() bool {
	return t.Amount.IsNegative()
}

// BillStatus tracks whether a bill has been paid.
type BillStatus string

// Bill statuses.
const (
	BillPending BillStatus = "Pending"
	BillPaid    BillStatus = "Paid"
)

// Bill is a payee with an amount due.
type Bill struct {
	ID      string
	Name    string
	DueDate string
	Status  BillStatus
	Amount  decimal.Decimal
}
