// Package themes holds the TUI palette and the presentation of notification kinds and toasts.
package themes

import (
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Label         lipgloss.Style
	Amount        lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	Card          lipgloss.Style
	Modal         lipgloss.Style
	Key           lipgloss.Style
	KeyActive     lipgloss.Style
	Button        lipgloss.Style
	ButtonMuted   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Success       lipgloss.Color
	Error         lipgloss.Color
	Info          lipgloss.Color
	Warning       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
}

func build(primary, secondary, success, errColor, info, warning, muted, border, fg lipgloss.Color) Theme {
	return Theme{
		Primary:    primary,
		Secondary:  secondary,
		Success:    success,
		Error:      errColor,
		Info:       info,
		Warning:    warning,
		Muted:      muted,
		Border:     border,
		Foreground: fg,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(muted),
		Amount: lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(border).
			Foreground(fg),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 2),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(secondary).
			Padding(1, 3),
		Key: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Width(5).
			Align(lipgloss.Center),
		KeyActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Foreground(primary).
			Bold(true).
			Width(5).
			Align(lipgloss.Center),
		Button: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 2),
		ButtonMuted: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),
		StatusSuccess: lipgloss.NewStyle().
			Background(success).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 2),
		StatusError: lipgloss.NewStyle().
			Background(errColor).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 2),
		StatusInfo: lipgloss.NewStyle().
			Background(secondary).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 2),
	}
}

// Default is the bank's light-on-dark theme.
var Default = build(
	lipgloss.Color("#E31837"), // red
	lipgloss.Color("#2F5FB3"), // blue
	lipgloss.Color("#16a34a"),
	lipgloss.Color("#dc2626"),
	lipgloss.Color("#3b82f6"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#8a8a8a"),
	lipgloss.Color("#3f3f46"),
	lipgloss.Color("#fafafa"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#89b4fa"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#89dceb"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#cdd6f4"),
)

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// KindPresentation is how a notification kind is drawn in the tray.
type KindPresentation struct {
	Icon  string
	Label string
	Color lipgloss.Color
}

// NotificationKind returns the presentation for kind. Unknown kinds fall
// back to the system presentation so the mapping is total.
func (t Theme) NotificationKind(kind model.NotificationKind) KindPresentation {
	switch kind {
	case model.KindSecurity:
		return KindPresentation{Icon: "🛡", Label: "Security", Color: t.Primary}
	case model.KindTransaction:
		return KindPresentation{Icon: "⇄", Label: "Transaction", Color: t.Success}
	case model.KindInsight:
		return KindPresentation{Icon: "✦", Label: "Insight", Color: t.Secondary}
	case model.KindSystem:
		return KindPresentation{Icon: "ℹ", Label: "System", Color: t.Warning}
	default:
		return KindPresentation{Icon: "ℹ", Label: "System", Color: t.Muted}
	}
}

// Toast returns the style and icon for a toast level.
func (t Theme) Toast(level model.ToastLevel) (lipgloss.Style, string) {
	switch level {
	case model.ToastSuccess:
		return t.StatusSuccess, "✔"
	case model.ToastError:
		return t.StatusError, "✖"
	default:
		return t.StatusInfo, "ℹ"
	}
}

// CategoryIcons maps statement categories to icons.
var CategoryIcons = map[model.TransactionCategory]string{
	model.CategoryShopping: "🛍",
	model.CategoryFood:     "🍴",
	model.CategoryTransfer: "⇄",
	model.CategoryBills:    "🧾",
	model.CategoryIncome:   "💵",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category model.TransactionCategory) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "•"
}
