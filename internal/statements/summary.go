package statements

import (
	"sort"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/shopspring/decimal"
)

// AllCategories selects every transaction in Filter.
const AllCategories = "All"

// CategorySpend is the total spent in one category.
type CategorySpend struct {
	Category model.TransactionCategory
	Amount   decimal.Decimal
}

// Summary is the spending breakdown of a set of transactions.
type Summary struct {
	Total      decimal.Decimal
	Categories []CategorySpend
}

// Share returns the category's fraction of total spending in [0, 1].
func (s Summary) Share(c CategorySpend) float64 {
	if s.Total.IsZero() {
		return 0
	}
	share, _ := c.Amount.Div(s.Total).Float64()
	return share
}

// Summarize totals spending per category. Only money leaving the account
// counts; amounts are absolute and rounded to cents, largest first.
func Summarize(txns []model.Transaction) Summary {
	totals := make(map[model.TransactionCategory]decimal.Decimal)
	var order []model.TransactionCategory

	for _, t := range txns {
		if !t.IsSpending() {
			continue
		}
		if _, ok := totals[t.Category]; !ok {
			order = append(order, t.Category)
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount.Abs())
	}

	summary := Summary{Total: decimal.Zero}
	for _, c := range order {
		amount := totals[c].Round(2)
		summary.Categories = append(summary.Categories, CategorySpend{Category: c, Amount: amount})
		summary.Total = summary.Total.Add(amount)
	}

	sort.SliceStable(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Amount.GreaterThan(summary.Categories[j].Amount)
	})
	return summary
}

// Filter returns the transactions in category. An empty category or
// AllCategories returns every transaction.
func Filter(txns []model.Transaction, category string) []model.Transaction {
	if category == "" || category == AllCategories {
		out := make([]model.Transaction, len(txns))
		copy(out, txns)
		return out
	}

	var out []model.Transaction
	for _, t := range txns {
		if string(t.Category) == category {
			out = append(out, t)
		}
	}
	return out
}

// FilterOptions returns the filter chips: AllCategories followed by each
// category present in txns, in first-seen order.
func FilterOptions(txns []model.Transaction) []string {
	options := []string{AllCategories}
	seen := make(map[model.TransactionCategory]bool)
	for _, t := range txns {
		if !seen[t.Category] {
			seen[t.Category] = true
			options = append(options, string(t.Category))
		}
	}
	return options
}
