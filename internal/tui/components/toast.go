package components

import (
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/tui/themes"
)

// RenderToast draws a toast as a colored pill.
func RenderToast(theme themes.Theme, toast model.Toast) string {
	style, icon := theme.Toast(toast.Level)
	return style.Render(icon + " " + toast.Message)
}
