package components

import (
	"fmt"
	"time"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// NotificationTray lists the notification history with a selection cursor.
type NotificationTray struct {
	theme         themes.Theme
	notifications []model.Notification
	cursor        int
	width         int
}

// NewNotificationTray creates a tray.
func NewNotificationTray(theme themes.Theme) NotificationTray {
	return NotificationTray{theme: theme, width: 60}
}

// SetNotifications replaces the list, keeping the cursor in range.
func (t *NotificationTray) SetNotifications(n []model.Notification) {
	t.notifications = n
	t.cursor = min(t.cursor, max(0, len(n)-1))
}

// Resize sets the tray width.
func (t *NotificationTray) Resize(width int) {
	t.width = max(30, width)
}

// Up moves the cursor up.
func (t *NotificationTray) Up() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// Down moves the cursor down.
func (t *NotificationTray) Down() {
	if t.cursor < len(t.notifications)-1 {
		t.cursor++
	}
}

// Selected returns the highlighted notification.
func (t NotificationTray) Selected() (model.Notification, bool) {
	if len(t.notifications) == 0 {
		return model.Notification{}, false
	}
	return t.notifications[t.cursor], true
}

// View renders the tray.
func (t NotificationTray) View(now time.Time) string {
	unread := 0
	for _, n := range t.notifications {
		if !n.Read {
			unread++
		}
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		t.theme.Title.Render("🔔 Notifications"),
		"  ",
		lipgloss.NewStyle().Foreground(t.theme.Muted).Render(fmt.Sprintf("%d unread", unread)),
	)

	rows := []string{header}
	if len(t.notifications) == 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(t.theme.Muted).Render("You're all caught up."))
	}

	inner := t.width - 6
	for i, n := range t.notifications {
		p := t.theme.NotificationKind(n.Kind)
		icon := lipgloss.NewStyle().Foreground(p.Color).Bold(true).Render(p.Icon)

		titleStyle := t.theme.Normal
		dot := " "
		if !n.Read {
			titleStyle = t.theme.Bold
			dot = lipgloss.NewStyle().Foreground(t.theme.Primary).Render("●")
		}

		line := lipgloss.JoinHorizontal(lipgloss.Top,
			dot, " ", icon, " ",
			titleStyle.Render(n.Title), "  ",
			lipgloss.NewStyle().Foreground(t.theme.Muted).Render(p.Label+" · "+n.DisplayDate(now)),
		)
		body := lipgloss.NewStyle().Foreground(t.theme.Muted).Width(inner).PaddingLeft(4).Render(n.Message)
		entry := lipgloss.JoinVertical(lipgloss.Left, line, body)
		if i == t.cursor {
			entry = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(t.theme.Primary).Render(entry)
		} else {
			entry = lipgloss.NewStyle().PaddingLeft(1).Render(entry)
		}
		rows = append(rows, entry)
	}

	rows = append(rows, "",
		lipgloss.NewStyle().Foreground(t.theme.Muted).Render("enter: mark read · a: mark all read · esc: close"))

	return t.theme.Modal.Width(t.width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
