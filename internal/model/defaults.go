package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBalance is the opening balance used when no state has been persisted.
var DefaultBalance = decimal.NewFromInt(20000)

// AssistantGreeting opens every new chat history.
const AssistantGreeting = "Hello! I'm Erica, your virtual assistant. How can I help you today?"

// SeedNotifications returns the notifications shown on first launch.
func SeedNotifications() []Notification {
	return []Notification{
		{
			ID:      "n1",
			Title:   "Security Alert",
			Message: "A new sign-in was detected on a Chrome browser from San Francisco, CA.",
			Date:    "2h ago",
			Kind:    KindSecurity,
		},
		{
			ID:      "n2",
			Title:   "Transaction Alert",
			Message: "Your direct deposit of $3,250.00 was successfully credited to your Advantage Plus Checking.",
			Date:    "Yesterday",
			Kind:    KindTransaction,
			Read:    true,
		},
		{
			ID:      "n3",
			Title:   "Low Balance Warning",
			Message: "Your Savings account (...1102) is below your set threshold of $1,000.",
			Date:    "Oct 22",
			Kind:    KindSystem,
		},
	}
}

// SeedTransactions returns the recent activity shown on statements.
func SeedTransactions() []Transaction {
	day := func(d int) time.Time { return time.Date(2024, time.October, d, 0, 0, 0, 0, time.UTC) }
	return []Transaction{
		{ID: "1", Date: day(24), Description: "Apple Store Purchase", Amount: decimal.RequireFromString("-129.00"), Category: CategoryShopping},
		{ID: "2", Date: day(23), Description: "Starbucks Coffee", Amount: decimal.RequireFromString("-6.45"), Category: CategoryFood},
		{ID: "3", Date: day(22), Description: "Payroll Deposit", Amount: decimal.RequireFromString("3250.00"), Category: CategoryIncome},
		{ID: "4", Date: day(20), Description: "Verizon Wireless Bill", Amount: decimal.RequireFromString("-85.00"), Category: CategoryBills},
		{ID: "5", Date: day(18), Description: "Zelle Transfer - Mom", Amount: decimal.RequireFromString("-200.00"), Category: CategoryTransfer},
		{ID: "6", Date: day(15), Description: "Whole Foods Market", Amount: decimal.RequireFromString("-145.20"), Category: CategoryFood},
	}
}

// SeedBills returns the payees listed on the bill pay screen.
func SeedBills() []Bill {
	return []Bill{
		{ID: "b1", Name: "Pacific Gas & Electric", DueDate: "Nov 05", Amount: decimal.RequireFromString("142.50"), Status: BillPending},
		{ID: "b2", Name: "State Farm Insurance", DueDate: "Nov 12", Amount: decimal.RequireFromString("89.00"), Status: BillPending},
		{ID: "b3", Name: "Gym Membership", DueDate: "Nov 15", Amount: decimal.RequireFromString("45.00"), Status: BillPending},
	}
}
