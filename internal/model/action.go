package model

import (
	"github.com/shopspring/decimal"
)

// ActionKind identifies the monetary action awaiting verification.
type ActionKind int

// Action kinds.
const (
	ActionTransfer ActionKind = iota
	ActionBillPayment
)

// String returns the label used in receipts and toasts.
func (k ActionKind) String() string {
	switch k {
	case ActionTransfer:
		return "Transfer"
	case ActionBillPayment:
		return "Bill Payment"
	default:
		return "Unknown"
	}
}

// PendingAction is a staged monetary action that has not been committed.
type PendingAction struct {
	Description string
	Amount      decimal.Decimal
	Kind        ActionKind
}

// Label returns the description, or the kind when no description was given.
func (a PendingAction) Label() string {
	if a.Description != "" {
		return a.Description
	}
	return a.Kind.String()
}

// TransferDescription builds the description for a transfer to recipient.
func TransferDescription(recipient string) string {
	if recipient == "" {
		return "Zelle® Transfer"
	}
	return "Transfer to " + recipient
}

// BillPaymentDescription builds the description for a payment to biller.
func BillPaymentDescription(biller string) string {
	return "Payment to " + biller
}
