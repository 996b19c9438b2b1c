package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		amount decimal.Decimal
		want   string
	}{
		{decimal.RequireFromString("250"), "$250.00"},
		{decimal.RequireFromString("19750.5"), "$19750.50"},
		{decimal.RequireFromString("-6.45"), "-$6.45"},
		{decimal.Zero, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUSD(tt.amount))
		})
	}
}

func TestPendingActionLabel(t *testing.T) {
	action := PendingAction{Kind: ActionTransfer, Amount: decimal.NewFromInt(10)}
	assert.Equal(t, "Transfer", action.Label())

	action.Description = TransferDescription("Jane Doe")
	assert.Equal(t, "Transfer to Jane Doe", action.Label())

	assert.Equal(t, "Zelle® Transfer", TransferDescription(""))
	assert.Equal(t, "Payment to State Farm Insurance", BillPaymentDescription("State Farm Insurance"))
	assert.Equal(t, "Bill Payment", ActionBillPayment.String())
}

func TestMessageStatusOrder(t *testing.T) {
	assert.True(t, StatusDelivered.After(StatusSending))
	assert.True(t, StatusRead.After(StatusDelivered))
	assert.False(t, StatusDelivered.After(StatusRead))
	assert.False(t, StatusRead.After(StatusRead))
	assert.True(t, StatusSending.After(""))
}

func TestNotificationKinds(t *testing.T) {
	for _, kind := range NotificationKinds() {
		assert.True(t, kind.Valid(), "kind %q should be valid", kind)
	}
	assert.False(t, NotificationKind("promo").Valid())
}

func TestNotificationDisplayDate(t *testing.T) {
	now := time.Date(2024, time.October, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		notification Notification
		want         string
	}{
		{"seeded label", Notification{Date: "2h ago"}, "2h ago"},
		{"just now", Notification{CreatedAt: now.Add(-10 * time.Second)}, "Just now"},
		{"minutes", Notification{CreatedAt: now.Add(-5 * time.Minute)}, "5m ago"},
		{"hours", Notification{CreatedAt: now.Add(-3 * time.Hour)}, "3h ago"},
		{"yesterday", Notification{CreatedAt: now.Add(-30 * time.Hour)}, "Yesterday"},
		{"older", Notification{CreatedAt: time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)}, "Oct 01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.notification.DisplayDate(now))
		})
	}
}

func TestSeedData(t *testing.T) {
	assert.Len(t, SeedNotifications(), 3)
	assert.Len(t, SeedBills(), 3)

	var spending int
	for _, txn := range SeedTransactions() {
		if txn.IsSpending() {
			spending++
		}
	}
	assert.Equal(t, 5, spending)
	assert.True(t, DefaultBalance.Equal(decimal.NewFromInt(20000)))
}
