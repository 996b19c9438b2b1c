package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/otp"
	"github.com/Veraticus/pocket-teller/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// OTPModal is the verification overlay shown while a challenge is open.
type OTPModal struct {
	Action      model.PendingAction
	Challenge   otp.Snapshot
	Destination string
	Notice      string
	Error       string
	Delivered   bool
}

// View renders the modal.
func (m OTPModal) View(theme themes.Theme) string {
	title := theme.Title.Render("🔒 Verify it's you")

	summary := lipgloss.JoinVertical(lipgloss.Left,
		theme.Bold.Render(m.Action.Label()),
		theme.Amount.Render(model.FormatUSD(m.Action.Amount)),
	)

	status := fmt.Sprintf("Sending a %d-digit code to %s...", otp.Length, otp.MaskDestination(m.Destination))
	if m.Delivered {
		status = fmt.Sprintf("Enter the code sent to %s", otp.MaskDestination(m.Destination))
	}

	sections := []string{
		title,
		summary,
		"",
		lipgloss.NewStyle().Foreground(theme.Muted).Render(status),
		"",
		m.renderSlots(theme),
	}

	if m.Notice != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Info).Render(m.Notice))
	}
	if m.Error != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(m.Error))
	}

	active := ""
	if c := m.Challenge.Cursor; c >= 0 && c < otp.Length {
		active = m.Challenge.Digits[c]
	}
	sections = append(sections,
		"",
		RenderKeypad(theme, active),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			theme.Button.Render("Enter · Verify"),
			"  ",
			theme.ButtonMuted.Render("Esc · Cancel"),
		),
	)

	return theme.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m OTPModal) renderSlots(theme themes.Theme) string {
	cells := make([]string, otp.Length)
	for i, d := range m.Challenge.Digits {
		text := d
		if text == "" {
			text = " "
		}
		style := theme.Key
		if i == m.Challenge.Cursor && !m.Challenge.Complete {
			style = theme.KeyActive
		}
		cells[i] = style.Width(3).Render(text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// SlotsText renders the entered digits as plain text, "_" for empty slots.
func SlotsText(s otp.Snapshot) string {
	var b strings.Builder
	for _, d := range s.Digits {
		if d == "" {
			b.WriteString("_")
		} else {
			b.WriteString(d)
		}
	}
	return b.String()
}
