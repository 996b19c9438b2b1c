package model

import (
	"fmt"
	"time"
)

// NotificationKind tags a notification for presentation.
type NotificationKind string

// Notification kinds. The set is closed; presentation maps every kind.
const (
	KindSecurity    NotificationKind = "security"
	KindTransaction NotificationKind = "transaction"
	KindInsight     NotificationKind = "insight"
	KindSystem      NotificationKind = "system"
)

// NotificationKinds returns every notification kind in display order.
func NotificationKinds() []NotificationKind {
	return []NotificationKind{KindSecurity, KindTransaction, KindInsight, KindSystem}
}

// Valid reports whether k is one of the known kinds.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindSecurity, KindTransaction, KindInsight, KindSystem:
		return true
	default:
		return false
	}
}

// Notification is a history record shown in the notification tray.
// Records are immutable once created except for the Read flag.
type Notification struct {
	CreatedAt time.Time        `json:"created_at"`
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Date      string           `json:"date"` // display label for seeded records ("2h ago", "Yesterday")
	Kind      NotificationKind `json:"type"`
	Read      bool             `json:"is_read"`
}

// DisplayDate returns the label shown next to the notification.
func (n Notification) DisplayDate(now time.Time) string {
	if n.CreatedAt.IsZero() {
		return n.Date
	}

	age := now.Sub(n.CreatedAt)
	switch {
	case age < time.Minute:
		return "Just now"
	case age < time.Hour:
		return formatAge(int(age.Minutes()), "m")
	case age < 24*time.Hour:
		return formatAge(int(age.Hours()), "h")
	case age < 48*time.Hour:
		return "Yesterday"
	default:
		return n.CreatedAt.Format("Jan 02")
	}
}

func formatAge(n int, unit string) string {
	return fmt.Sprintf("%d%s ago", n, unit)
}
