package components

import (
	"fmt"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/statements"
	"github.com/Veraticus/pocket-teller/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// SpendingPanel shows spending per category as proportional bars.
type SpendingPanel struct {
	theme   themes.Theme
	summary statements.Summary
	bar     progress.Model
	width   int
}

// NewSpendingPanel creates a panel for summary.
func NewSpendingPanel(theme themes.Theme, summary statements.Summary) SpendingPanel {
	bar := progress.New(progress.WithSolidFill(string(theme.Secondary)), progress.WithoutPercentage())
	bar.Width = 24
	return SpendingPanel{theme: theme, summary: summary, bar: bar, width: 60}
}

// Resize sets the panel width.
func (p *SpendingPanel) Resize(width int) {
	p.width = width
	p.bar.Width = min(max(10, width-36), 40)
}

// View renders the panel.
func (p SpendingPanel) View() string {
	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Top,
			p.theme.Label.Render("SPENDING"), "  ",
			p.theme.Amount.Render(model.FormatUSD(p.summary.Total)),
		),
	}

	if len(p.summary.Categories) == 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(p.theme.Muted).Render("No spending yet."))
	}

	for _, c := range p.summary.Categories {
		label := fmt.Sprintf("%s %-9s", themes.GetCategoryIcon(c.Category), c.Category)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			label, " ",
			p.bar.ViewAs(p.summary.Share(c)), " ",
			p.theme.Bold.Render(model.FormatUSD(c.Amount)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
