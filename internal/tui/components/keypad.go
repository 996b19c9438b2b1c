package components

import (
	"strings"

	"github.com/Veraticus/pocket-teller/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// KeypadKeys is the keypad layout, row by row. "⌫" deletes.
var KeypadKeys = [][]string{
	{"1", "2", "3"},
	{"4", "5", "6"},
	{"7", "8", "9"},
	{".", "0", "⌫"},
}

// AmountEntry is the amount typed on the keypad. It accepts at most one
// decimal point and at most two fractional digits.
type AmountEntry struct {
	value   string
	lastKey string
}

// Press appends key when the amount rules allow it and reports whether it did.
func (a *AmountEntry) Press(key string) bool {
	if len(key) != 1 {
		return false
	}
	c := key[0]
	if c != '.' && (c < '0' || c > '9') {
		return false
	}

	_, frac, hasDot := strings.Cut(a.value, ".")
	if c == '.' && hasDot {
		return false
	}
	if hasDot && len(frac) >= 2 {
		return false
	}

	a.value += key
	a.lastKey = key
	return true
}

// Delete removes the last character.
func (a *AmountEntry) Delete() {
	if a.value == "" {
		return
	}
	a.value = a.value[:len(a.value)-1]
	a.lastKey = "⌫"
}

// Reset clears the entry.
func (a *AmountEntry) Reset() {
	a.value = ""
	a.lastKey = ""
}

// Value returns the raw text typed so far.
func (a AmountEntry) Value() string {
	return a.value
}

// Decimal parses the entry. An empty or unparsable entry is zero.
func (a AmountEntry) Decimal() decimal.Decimal {
	if a.value == "" || a.value == "." {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(a.value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// View renders the amount as "$<value>", or a "0.00" placeholder.
func (a AmountEntry) View(theme themes.Theme, focused bool) string {
	dollar := lipgloss.NewStyle().Foreground(theme.Muted).Bold(true).Render("$ ")
	if a.value == "" {
		return dollar + lipgloss.NewStyle().Foreground(theme.Muted).Render("0.00")
	}
	style := theme.Amount
	if focused {
		style = style.Underline(true)
	}
	return dollar + style.Render(a.value)
}

// RenderKeypad draws the keypad, highlighting active.
func RenderKeypad(theme themes.Theme, active string) string {
	rows := make([]string, 0, len(KeypadKeys))
	for _, row := range KeypadKeys {
		cells := make([]string, 0, len(row))
		for _, k := range row {
			style := theme.Key
			if k == active {
				style = theme.KeyActive
			}
			cells = append(cells, style.Render(k))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// LastKey returns the most recently accepted key, for keypad highlighting.
func (a AmountEntry) LastKey() string {
	return a.lastKey
}
