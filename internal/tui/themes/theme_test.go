package themes

import (
	"testing"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNotificationKindIsTotal(t *testing.T) {
	for _, theme := range []Theme{Default, CatppuccinMocha} {
		labels := make(map[string]bool)
		for _, kind := range model.NotificationKinds() {
			p := theme.NotificationKind(kind)
			assert.NotEmpty(t, p.Icon, "icon for %s", kind)
			assert.NotEmpty(t, p.Label, "label for %s", kind)
			assert.NotEmpty(t, string(p.Color), "color for %s", kind)
			labels[p.Label] = true
		}
		assert.Len(t, labels, len(model.NotificationKinds()), "every kind gets its own label")
	}
}

func TestNotificationKindUnknownFallsBack(t *testing.T) {
	p := Default.NotificationKind(model.NotificationKind("promo"))
	assert.Equal(t, "System", p.Label)
	assert.Equal(t, Default.Muted, p.Color)
}

func TestToast(t *testing.T) {
	tests := []struct {
		level model.ToastLevel
		icon  string
	}{
		{model.ToastSuccess, "✔"},
		{model.ToastError, "✖"},
		{model.ToastInfo, "ℹ"},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			_, icon := Default.Toast(tt.level)
			assert.Equal(t, tt.icon, icon)
		})
	}
}

func TestGetTheme(t *testing.T) {
	assert.Equal(t, CatppuccinMocha.Primary, GetTheme("catppuccin-mocha").Primary)
	assert.Equal(t, Default.Primary, GetTheme("anything-else").Primary)
}

func TestGetCategoryIcon(t *testing.T) {
	assert.Equal(t, "🍴", GetCategoryIcon(model.CategoryFood))
	assert.Equal(t, "•", GetCategoryIcon(model.TransactionCategory("Travel")))
}
