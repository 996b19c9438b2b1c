// Package model defines the core domain models used throughout the application.
package model

import (
	"github.com/shopspring/decimal"
)

// AccountState is the persisted state of the single demo account.
type AccountState struct {
	Balance       decimal.Decimal
	Notifications []Notification
}

// Clone returns a deep copy of the state.
func (s AccountState) Clone() AccountState {
	notifications := make([]Notification, len(s.Notifications))
	copy(notifications, s.Notifications)
	return AccountState{
		Balance:       s.Balance,
		Notifications: notifications,
	}
}

// FormatUSD renders an amount as dollars with two decimal places, e.g. "$250.00".
func FormatUSD(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}
