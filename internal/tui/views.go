package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/statements"
	"github.com/Veraticus/pocket-teller/internal/tui/components"
	"github.com/Veraticus/pocket-teller/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

const brand = "🏦 Pocket Teller"

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch {
	case m.screen == ScreenLogin:
		body = m.renderLogin()
	case m.challengeOpen():
		body = m.renderOTP()
	case m.trayOpen:
		body = m.tray.View(m.config.Now())
	default:
		body = m.renderScreen()
	}

	parts := []string{m.renderHeader(), body}
	if m.toast != nil {
		parts = append(parts, "", components.RenderToast(m.theme, *m.toast))
	}
	if m.screen != ScreenLogin {
		parts = append(parts, "", m.renderNav())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) challengeOpen() bool {
	_, open := m.flow().Challenge()
	return open
}

func (m Model) renderScreen() string {
	switch m.screen {
	case ScreenHome:
		return m.renderHome()
	case ScreenTransfer:
		return m.renderTransfer()
	case ScreenBillPay:
		return m.renderBillPay()
	case ScreenChat:
		return m.renderChat()
	case ScreenStatements:
		return m.renderStatements()
	case ScreenMenu:
		return m.renderMenu()
	default:
		return ""
	}
}

func (m Model) renderHeader() string {
	left := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(brand)
	if m.screen == ScreenLogin {
		return left + "\n"
	}

	bell := "🔔"
	if n := m.config.Accounts.UnreadCount(); n > 0 {
		bell += " " + lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(fmt.Sprintf("%d", n))
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(bell), 2)
	return left + strings.Repeat(" ", gap) + bell + "\n"
}

func (m Model) renderNav() string {
	tabs := make([]string, len(navScreens))
	for i, s := range navScreens {
		label := fmt.Sprintf("%d %s", i+1, s)
		if s == m.screen {
			tabs[i] = m.theme.Selected.Padding(0, 1).Render(label)
		} else {
			tabs[i] = lipgloss.NewStyle().Foreground(m.theme.Muted).Padding(0, 1).Render(label)
		}
	}
	hint := lipgloss.NewStyle().Foreground(m.theme.Muted).
		Render("tab: next · ctrl+n: notifications · esc: home · ctrl+c: quit")
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, tabs...), hint)
}

func (m Model) renderLogin() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	sections := []string{
		m.theme.Title.Render("Sign in to Online Banking"),
		m.theme.Label.Render("Online ID"),
		m.fieldStyle(m.loginFocus == 0).Render(m.onlineID.View()),
		m.theme.Label.Render("Passcode"),
		m.fieldStyle(m.loginFocus == 1).Render(m.passcode.View()),
	}
	if m.loggingIn {
		sections = append(sections, "", m.spinner.View()+" Signing in...")
	}
	if m.loginErr != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(m.theme.Error).Bold(true).Render(m.loginErr))
	}
	sections = append(sections, "", muted.Render("enter: sign in · ↑/↓: switch field · ctrl+c: quit"))
	return m.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) fieldStyle(focused bool) lipgloss.Style {
	border := m.theme.Border
	if focused {
		border = m.theme.Secondary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(36)
}

func (m Model) greeting() string {
	hour := m.config.Now().Hour()
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func (m Model) renderHome() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	balance := m.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Label.Render("Adv Plus Banking - "+statements.AccountID),
		m.theme.Amount.Render(model.FormatUSD(m.config.Accounts.Balance())),
		muted.Render("Available balance"),
	))

	actions := lipgloss.JoinHorizontal(lipgloss.Top,
		m.quickAction("t", "Transfer | Zelle®"),
		m.quickAction("p", "Pay Bills"),
		m.quickAction("s", "Statements"),
		m.quickAction("e", "Ask Erica"),
	)

	sections := []string{
		m.theme.Title.Render(fmt.Sprintf("%s, %s", m.greeting(), m.config.HolderName)),
		balance,
		"",
		actions,
	}

	if n, ok := latestInsight(m.config.Accounts.History()); ok {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(m.theme.Warning).Render("✨ "+n.Message))
	}

	sections = append(sections, "", m.theme.Label.Render("Recent Activity"))
	if len(m.transactions) == 0 {
		sections = append(sections, muted.Render("No recent activity."))
	}
	for _, t := range m.transactions[:min(3, len(m.transactions))] {
		sections = append(sections, m.renderTransactionLine(t))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) quickAction(k, label string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1).
		MarginRight(1).
		Render(m.theme.Bold.Foreground(m.theme.Primary).Render(k) + " " + label)
}

func latestInsight(history []model.Notification) (model.Notification, bool) {
	for _, n := range history {
		if n.Kind == model.KindInsight {
			return n, true
		}
	}
	return model.Notification{}, false
}

func (m Model) renderTransactionLine(t model.Transaction) string {
	amountStyle := lipgloss.NewStyle().Foreground(m.theme.Foreground)
	if t.Amount.IsPositive() {
		amountStyle = amountStyle.Foreground(m.theme.Success)
	}
	desc := lipgloss.NewStyle().Width(30).Render(truncate(t.Description, 28))
	return fmt.Sprintf("%s %s %s %s",
		themes.GetCategoryIcon(t.Category),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Width(7).Render(t.Date.Format("Jan 02")),
		desc,
		amountStyle.Render(signedUSD(t)),
	)
}

func signedUSD(t model.Transaction) string {
	if t.Amount.IsNegative() {
		return "-" + model.FormatUSD(t.Amount.Abs())
	}
	return "+" + model.FormatUSD(t.Amount)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m Model) renderTransfer() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	sections := []string{
		m.theme.Title.Render("Transfer | Zelle®"),
		muted.Render("Available: " + model.FormatUSD(m.config.Accounts.Balance())),
		"",
		m.theme.Label.Render("To"),
		m.fieldStyle(m.transferFocus == 0).Render(m.recipient.View()),
		m.theme.Label.Render("Amount"),
		m.amount.View(m.theme, m.transferFocus == 1),
	}
	if m.transferFocus == 1 {
		sections = append(sections, "", components.RenderKeypad(m.theme, m.amount.LastKey()))
	}
	sections = append(sections, "", muted.Render("↑/↓: switch field · enter: continue · esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderBillPay() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	sections := []string{m.theme.Title.Render("Pay Bills")}
	if len(m.bills) == 0 {
		sections = append(sections, muted.Render("No payees yet."))
	}
	for i, b := range m.bills {
		status := lipgloss.NewStyle().Foreground(m.theme.Warning).Render("Due " + b.DueDate)
		if b.Status == model.BillPaid {
			status = lipgloss.NewStyle().Foreground(m.theme.Success).Render("✔ Paid")
		}
		line := fmt.Sprintf("%s  %s  %s",
			lipgloss.NewStyle().Width(28).Render(b.Name),
			lipgloss.NewStyle().Width(10).Align(lipgloss.Right).Render(model.FormatUSD(b.Amount)),
			status,
		)
		if i == m.billCursor {
			line = m.theme.Selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		sections = append(sections, line)
	}
	sections = append(sections, "", muted.Render("↑/↓: select · enter: pay · esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatements() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	panel := components.NewSpendingPanel(m.theme, statements.Summarize(m.transactions))
	panel.Resize(min(m.width-4, 60))

	options := statements.FilterOptions(m.transactions)
	chips := make([]string, len(options))
	for i, o := range options {
		if o == m.filter || (m.filter == "" && o == statements.AllCategories) {
			chips[i] = m.theme.Selected.Padding(0, 1).Render(o)
		} else {
			chips[i] = muted.Padding(0, 1).Render(o)
		}
	}

	sections := []string{
		m.theme.Title.Render("Statements & Documents"),
		panel.View(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, chips...),
	}
	filtered := statements.Filter(m.transactions, m.filter)
	if len(filtered) == 0 {
		sections = append(sections, muted.Render("No transactions."))
	}
	for _, t := range filtered {
		sections = append(sections, m.renderTransactionLine(t))
	}
	sections = append(sections, "", muted.Render("←/→: filter · esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderChat() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	width := max(min(m.width-4, 72), 20)
	bubble := lipgloss.NewStyle().Padding(0, 1).MaxWidth(width * 3 / 4)

	sections := []string{m.theme.Title.Render("Erica · Virtual Financial Assistant")}
	if m.chat == nil {
		sections = append(sections, muted.Render("Connecting..."))
	} else {
		for _, msg := range m.chat.Messages() {
			sections = append(sections, m.renderChatMessage(msg, bubble, width))
		}
	}
	if m.replying {
		sections = append(sections, muted.Italic(true).Render("Erica is typing..."))
	}
	sections = append(sections, "", m.chatInput.View(), muted.Render("enter: send · esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderChatMessage(msg model.ChatMessage, bubble lipgloss.Style, width int) string {
	if msg.Sender == model.SenderAssistant {
		return bubble.Background(m.theme.Border).Foreground(m.theme.Foreground).Render(msg.Text)
	}
	text := bubble.Background(m.theme.Secondary).Foreground(lipgloss.Color("#ffffff")).Render(msg.Text)
	status := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(chatStatusLabel(msg.Status))
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, lipgloss.JoinVertical(lipgloss.Right, text, status))
}

func chatStatusLabel(s model.MessageStatus) string {
	switch s {
	case model.StatusSending:
		return "Sending..."
	case model.StatusDelivered:
		return "Delivered"
	case model.StatusRead:
		return "Read"
	default:
		return ""
	}
}

func (m Model) renderMenu() string {
	sections := []string{m.theme.Title.Render("Menu")}
	for i, item := range menuItems {
		if i == m.menuCursor {
			sections = append(sections, m.theme.Selected.Render("▸ "+item))
		} else {
			sections = append(sections, "  "+item)
		}
	}
	sections = append(sections, "",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("↑/↓: select · enter: open · esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderOTP() string {
	action, _ := m.flow().Pending()
	snap, _ := m.flow().Challenge()
	modal := components.OTPModal{
		Action:      action,
		Challenge:   snap,
		Destination: m.flow().Destination(),
		Notice:      m.otpNotice,
		Error:       m.otpErr,
		Delivered:   m.delivered,
	}
	return lipgloss.Place(max(m.width, 1), max(m.height-6, 1), lipgloss.Center, lipgloss.Center, modal.View(m.theme))
}
