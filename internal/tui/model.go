// Package tui implements the full-screen banking app: sign-in, dashboard,
// transfers and bill pay gated by a verification code, statements and chat.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/confirm"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/statements"
	"github.com/Veraticus/pocket-teller/internal/tui/components"
	"github.com/Veraticus/pocket-teller/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Screen is a top-level screen.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenHome
	ScreenTransfer
	ScreenBillPay
	ScreenChat
	ScreenStatements
	ScreenMenu
)

// navScreens are the screens in bottom-nav order.
var navScreens = []Screen{ScreenHome, ScreenTransfer, ScreenBillPay, ScreenChat, ScreenStatements, ScreenMenu}

// String returns the nav label.
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "Sign In"
	case ScreenHome:
		return "Home"
	case ScreenTransfer:
		return "Transfer"
	case ScreenBillPay:
		return "Bill Pay"
	case ScreenChat:
		return "Erica"
	case ScreenStatements:
		return "Statements"
	case ScreenMenu:
		return "Menu"
	default:
		return "Unknown"
	}
}

// Menu entries.
var menuItems = []string{"Notifications", "Statements & Documents", "Sign Out"}

const (
	menuNotifications = iota
	menuStatements
	menuSignOut
)

// Verification modal messages.
const (
	msgCodeMismatch       = "Invalid verification code. Please try again."
	msgCodeIncomplete     = "Enter all 6 digits."
	msgCommitUnaffordable = "Insufficient funds. Cancel and try a smaller amount."
	msgDeliveryFailed     = "We couldn't send your code. Cancel and try again."
)

// Model holds the main TUI state.
type Model struct {
	ctx           context.Context
	sessionCtx    context.Context
	chatCtx       context.Context
	endSession    context.CancelFunc
	leaveChat     context.CancelFunc
	chat          Conversation
	toast         *model.Toast
	theme         themes.Theme
	config        Config
	keymap        KeyMap
	tray          components.NotificationTray
	onlineID      textinput.Model
	passcode      textinput.Model
	recipient     textinput.Model
	chatInput     textinput.Model
	spinner       spinner.Model
	amount        components.AmountEntry
	loginErr      string
	otpNotice     string
	otpErr        string
	filter        string
	bills         []model.Bill
	transactions  []model.Transaction
	payingBill    int
	billCursor    int
	menuCursor    int
	loginFocus    int
	transferFocus int
	chatSession   int
	toastSeq      int
	width         int
	height        int
	screen        Screen
	delivered     bool
	loggingIn     bool
	replying      bool
	trayOpen      bool
	quitting      bool
}

// New creates the TUI model. ctx bounds every background operation the
// program starts.
func New(ctx context.Context, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.Accounts == nil:
		return Model{}, fmt.Errorf("%w: accounts", common.ErrMissingConfig)
	case cfg.Flow == nil:
		return Model{}, fmt.Errorf("%w: confirmation flow", common.ErrMissingConfig)
	case cfg.Session == nil:
		return Model{}, fmt.Errorf("%w: session", common.ErrMissingConfig)
	}
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = DefaultToastDuration
	}

	return newModel(ctx, cfg), nil
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	onlineID := textinput.New()
	onlineID.Prompt = ""
	onlineID.Placeholder = "Online ID"
	onlineID.CharLimit = 32
	onlineID.Focus()

	passcode := textinput.New()
	passcode.Prompt = ""
	passcode.Placeholder = "Passcode"
	passcode.CharLimit = 64
	passcode.EchoMode = textinput.EchoPassword
	passcode.EchoCharacter = '•'

	recipient := textinput.New()
	recipient.Prompt = ""
	recipient.Placeholder = "Name, email, or mobile number"
	recipient.CharLimit = 64

	chatInput := textinput.New()
	chatInput.Prompt = "› "
	chatInput.Placeholder = "Ask Erica anything..."
	chatInput.CharLimit = 280

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	tray := components.NewNotificationTray(cfg.Theme)
	tray.Resize(min(cfg.Width-4, 72))

	return Model{
		ctx:        ctx,
		config:     cfg,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		tray:       tray,
		onlineID:   onlineID,
		passcode:   passcode,
		recipient:  recipient,
		chatInput:  chatInput,
		spinner:    sp,
		bills:      append([]model.Bill(nil), cfg.Bills...),
		payingBill: -1,
		width:      cfg.Width,
		height:     cfg.Height,
		screen:     ScreenLogin,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		checkSession(m.ctx, m.config.Session),
		waitForToast(m.config.Bus),
		waitForNotice(m.config.Bus),
	)
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tray.Resize(min(msg.Width-4, 72))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionCheckedMsg:
		if msg.err != nil {
			slog.Warn("Failed to read session", "error", msg.err)
			return m, nil
		}
		if msg.loggedIn && m.screen == ScreenLogin {
			return m.startSession()
		}
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case loggedOutMsg:
		return m.handleLoggedOut(msg)

	case verifiedMsg:
		return m.handleVerified(msg)

	case deliveryMsg:
		switch {
		case msg.err == nil:
			m.delivered = true
		case !errors.Is(msg.err, context.Canceled):
			m.otpErr = msgDeliveryFailed
		}
		return m, nil

	case noticeMsg:
		// A notice from a cancelled flow can still be queued; only the
		// open flow's code belongs in the modal.
		if m.flow().State() == confirm.StateChallenging && msg.notice.Flow == m.flow().FlowID() {
			m.otpNotice = msg.notice.Text
		}
		return m, waitForNotice(m.config.Bus)

	case toastMsg:
		t := msg.toast
		m.toast = &t
		m.toastSeq++
		cmds := []tea.Cmd{expireToast(m.toastSeq, m.config.ToastDuration)}
		if msg.fromBus {
			cmds = append(cmds, waitForToast(m.config.Bus))
		}
		return m, tea.Batch(cmds...)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case activityLoadedMsg:
		if msg.err != nil {
			slog.Warn("Failed to load recent activity", "error", msg.err)
			return m, nil
		}
		m.transactions = msg.transactions
		return m, nil

	case recordsChangedMsg:
		m.refreshTray()
		if msg.err != nil {
			slog.Error("Failed to update notifications", "error", msg.err)
			return m, showToast("Could not update notifications.", model.ToastError)
		}
		if msg.toast != nil {
			return m, showToast(msg.toast.Message, msg.toast.Level)
		}
		return m, nil

	case insightPostedMsg:
		if msg.record != nil {
			m.refreshTray()
		}
		return m, nil

	case chatOpenedMsg, chatSentMsg, chatDeliveredMsg, chatReplyDueMsg, chatUpdatedMsg:
		return m.handleChatMsg(msg)

	case spinner.TickMsg:
		if !m.loggingIn {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocusedInput(msg)
}

func (m Model) flow() Flow {
	return m.config.Flow
}

// scope is the context for work that belongs to the signed-in session.
func (m Model) scope() context.Context {
	if m.sessionCtx != nil {
		return m.sessionCtx
	}
	return m.ctx
}

func (m *Model) refreshTray() {
	m.tray.SetNotifications(m.config.Accounts.History())
}

// typing reports whether printable keys belong to a text field or keypad.
func (m Model) typing() bool {
	return m.screen == ScreenTransfer || m.screen == ScreenChat
}

// handleKey routes a key press to the topmost surface.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}
	if m.flow().State() == confirm.StateChallenging {
		return m.handleOTPKey(msg)
	}
	if m.screen == ScreenLogin {
		return m.handleLoginKey(msg)
	}
	if m.trayOpen {
		return m.handleTrayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Notifications):
		m.trayOpen = true
		m.refreshTray()
		return m, nil
	case key.Matches(msg, m.keymap.NextTab):
		return m.setScreen(m.adjacentScreen(1))
	case key.Matches(msg, m.keymap.PrevTab):
		return m.setScreen(m.adjacentScreen(-1))
	case key.Matches(msg, m.keymap.Back):
		return m.setScreen(ScreenHome)
	}

	if !m.typing() {
		switch {
		case key.Matches(msg, m.keymap.JumpTabs):
			return m.setScreen(navScreens[msg.String()[0]-'1'])
		case key.Matches(msg, m.keymap.Quit):
			return m.quit()
		}
	}

	switch m.screen {
	case ScreenHome:
		return m.handleHomeKey(msg)
	case ScreenTransfer:
		return m.handleTransferKey(msg)
	case ScreenBillPay:
		return m.handleBillPayKey(msg)
	case ScreenChat:
		return m.handleChatKey(msg)
	case ScreenStatements:
		return m.handleStatementsKey(msg)
	case ScreenMenu:
		return m.handleMenuKey(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.flow().State() != confirm.StateIdle {
		if err := m.flow().Cancel(); err != nil {
			slog.Warn("Failed to cancel pending action", "error", err)
		}
	}
	m.endSessionScope()
	m.quitting = true
	return m, tea.Quit
}

func (m Model) adjacentScreen(step int) Screen {
	for i, s := range navScreens {
		if s == m.screen {
			return navScreens[(i+step+len(navScreens))%len(navScreens)]
		}
	}
	return ScreenHome
}

// setScreen switches screens. Leaving the chat screen ends its visit: any
// timer or reply still in flight for it is dropped.
func (m Model) setScreen(s Screen) (tea.Model, tea.Cmd) {
	if s == m.screen {
		return m, nil
	}
	if m.screen == ScreenChat {
		m.leaveChatScope()
	}
	m.recipient.Blur()
	m.chatInput.Blur()
	m.screen = s

	switch s {
	case ScreenHome, ScreenStatements:
		return m, loadActivity(m.scope(), m.config.Activity)
	case ScreenTransfer:
		m.transferFocus = 0
		return m, m.recipient.Focus()
	case ScreenBillPay:
		m.billCursor = min(m.billCursor, max(len(m.bills)-1, 0))
	case ScreenChat:
		m.chatSession++
		m.chatCtx, m.leaveChat = context.WithCancel(m.scope())
		m.chat = nil
		m.replying = false
		return m, tea.Batch(m.chatInput.Focus(), openChat(m.chatCtx, m.config.OpenChat, m.chatSession))
	case ScreenMenu:
		m.menuCursor = 0
	}
	return m, nil
}

func (m *Model) leaveChatScope() {
	if m.leaveChat != nil {
		m.leaveChat()
		m.leaveChat = nil
	}
	m.chatSession++
	m.replying = false
}

func (m *Model) endSessionScope() {
	m.leaveChatScope()
	if m.endSession != nil {
		m.endSession()
		m.endSession = nil
	}
	m.sessionCtx = nil
}

// startSession opens the signed-in scope and lands on the home screen.
func (m Model) startSession() (tea.Model, tea.Cmd) {
	m.endSessionScope()
	m.sessionCtx, m.endSession = context.WithCancel(m.ctx)
	m.onlineID.Blur()
	m.passcode.Blur()
	m.refreshTray()
	m.screen = ScreenHome
	return m, tea.Batch(
		loadActivity(m.sessionCtx, m.config.Activity),
		waitForInsight(m.sessionCtx, m.config.Insights),
	)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Up, m.keymap.Down, m.keymap.NextTab, m.keymap.PrevTab):
		return m.focusLoginField(1 - m.loginFocus)
	case key.Matches(msg, m.keymap.Select):
		if m.loginFocus == 0 && m.passcode.Value() == "" {
			return m.focusLoginField(1)
		}
		id := strings.TrimSpace(m.onlineID.Value())
		pass := m.passcode.Value()
		if id == "" || pass == "" {
			m.loginErr = "Enter your Online ID and Passcode."
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, tea.Batch(m.spinner.Tick, login(m.ctx, m.config.Session, id, pass))
	}

	return m.updateFocusedInput(msg)
}

func (m Model) focusLoginField(i int) (tea.Model, tea.Cmd) {
	m.loginFocus = i
	if i == 0 {
		m.passcode.Blur()
		return m, m.onlineID.Focus()
	}
	m.onlineID.Blur()
	return m, m.passcode.Focus()
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.loginErr = common.UserMessage(msg.err)
		m.passcode.Reset()
		return m, nil
	}
	m.loginErr = ""
	m.passcode.Reset()
	return m.startSession()
}

func (m Model) handleLoggedOut(msg loggedOutMsg) (tea.Model, tea.Cmd) {
	m.screen = ScreenLogin
	m.trayOpen = false
	m.loginFocus = 0
	m.onlineID.Reset()
	m.passcode.Reset()
	m.passcode.Blur()
	m.refreshTray()
	if msg.err != nil {
		slog.Error("Sign out failed", "error", msg.err)
		return m, tea.Batch(m.onlineID.Focus(), showToast("Sign out failed.", model.ToastError))
	}
	return m, tea.Batch(m.onlineID.Focus(), showToast("You have been signed out.", model.ToastInfo))
}

func (m Model) signOut() (tea.Model, tea.Cmd) {
	if m.flow().State() != confirm.StateIdle {
		if err := m.flow().Cancel(); err != nil {
			slog.Warn("Failed to cancel pending action", "error", err)
		}
	}
	m.endSessionScope()
	m.transactions = nil
	m.bills = append([]model.Bill(nil), m.config.Bills...)
	m.amount.Reset()
	m.recipient.Reset()
	m.filter = ""
	return m, logout(m.ctx, m.config.Session, m.config.Accounts)
}

func (m Model) handleTrayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Back, m.keymap.Notifications):
		m.trayOpen = false
	case key.Matches(msg, m.keymap.Up):
		m.tray.Up()
	case key.Matches(msg, m.keymap.Down):
		m.tray.Down()
	case key.Matches(msg, m.keymap.Select):
		if n, ok := m.tray.Selected(); ok && !n.Read {
			return m, markRead(m.scope(), m.config.Accounts, n.ID)
		}
	case key.Matches(msg, m.keymap.MarkAllRead):
		return m, markAllRead(m.scope(), m.config.Accounts)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Transfer):
		return m.setScreen(ScreenTransfer)
	case key.Matches(msg, m.keymap.PayBills):
		return m.setScreen(ScreenBillPay)
	case key.Matches(msg, m.keymap.Statements):
		return m.setScreen(ScreenStatements)
	case key.Matches(msg, m.keymap.Assistant):
		return m.setScreen(ScreenChat)
	}
	return m, nil
}

func (m Model) handleTransferKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.transferFocus = 0
		return m, m.recipient.Focus()
	case key.Matches(msg, m.keymap.Down):
		m.transferFocus = 1
		m.recipient.Blur()
		return m, nil
	case key.Matches(msg, m.keymap.Select):
		if m.transferFocus == 0 {
			m.transferFocus = 1
			m.recipient.Blur()
			return m, nil
		}
		return m.submitTransfer()
	}

	if m.transferFocus == 1 {
		if key.Matches(msg, m.keymap.Delete) {
			m.amount.Delete()
		} else {
			m.amount.Press(msg.String())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.recipient, cmd = m.recipient.Update(msg)
	return m, cmd
}

func (m Model) submitTransfer() (tea.Model, tea.Cmd) {
	recipient := strings.TrimSpace(m.recipient.Value())
	amount := m.amount.Decimal()
	switch {
	case recipient == "":
		return m, showToast("Enter a recipient.", model.ToastError)
	case !amount.IsPositive():
		return m, showToast("Enter an amount greater than $0.00.", model.ToastError)
	case amount.GreaterThan(m.config.Accounts.Balance()):
		return m, showToast("Insufficient funds.", model.ToastError)
	}
	return m.stage(model.ActionTransfer, amount, model.TransferDescription(recipient))
}

// stage hands an action to the confirmation flow, which opens the
// verification modal.
func (m Model) stage(kind model.ActionKind, amount decimal.Decimal, description string) (tea.Model, tea.Cmd) {
	if err := m.flow().Stage(m.scope(), kind, amount, description); err != nil {
		m.payingBill = -1
		return m, showToast(stageErrorMessage(err), model.ToastError)
	}
	m.otpErr = ""
	m.otpNotice = ""
	m.delivered = false
	return m, waitForDelivery(m.flow().Delivery())
}

func stageErrorMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrInsufficientFunds):
		return "Insufficient funds."
	case errors.Is(err, common.ErrInvalidAmount):
		return "Enter an amount greater than $0.00."
	case errors.Is(err, common.ErrActionPending):
		return "Finish verifying your pending transaction first."
	default:
		slog.Error("Failed to stage action", "error", err)
		return "Could not start the transaction."
	}
}

func (m Model) handleOTPKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Back):
		if err := m.flow().Cancel(); err != nil {
			slog.Warn("Failed to cancel pending action", "error", err)
		}
		m.payingBill = -1
		m.resetChallengeView()
		return m, nil
	case key.Matches(msg, m.keymap.Select):
		return m, verify(m.scope(), m.flow())
	case key.Matches(msg, m.keymap.Delete):
		m.flow().DeleteDigit()
		m.otpErr = ""
	case key.Matches(msg, m.keymap.Left):
		if snap, ok := m.flow().Challenge(); ok {
			m.flow().Focus(snap.Cursor - 1)
		}
	case key.Matches(msg, m.keymap.Right):
		if snap, ok := m.flow().Challenge(); ok {
			m.flow().Focus(snap.Cursor + 1)
		}
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			if m.flow().PressDigit(s) {
				m.otpErr = ""
			}
		}
	}
	return m, nil
}

func (m *Model) resetChallengeView() {
	m.otpErr = ""
	m.otpNotice = ""
	m.delivered = false
}

func (m Model) handleVerified(msg verifiedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		m.resetChallengeView()
		if msg.receipt.Posting.Category == model.CategoryBills && m.payingBill >= 0 && m.payingBill < len(m.bills) {
			m.bills[m.payingBill].Status = model.BillPaid
		}
		m.payingBill = -1
		m.recipient.Reset()
		m.amount.Reset()
		m.refreshTray()
		if m.screen == ScreenHome {
			return m, loadActivity(m.scope(), m.config.Activity)
		}
		return m.setScreen(ScreenHome)
	case errors.Is(msg.err, common.ErrVerificationMismatch):
		m.otpErr = msgCodeMismatch
	case errors.Is(msg.err, common.ErrChallengeIncomplete):
		m.otpErr = msgCodeIncomplete
	case errors.Is(msg.err, common.ErrInsufficientFunds):
		m.otpErr = msgCommitUnaffordable
	case errors.Is(msg.err, common.ErrNoChallenge):
		// Cancelled while verifying.
	default:
		slog.Error("Verification failed", "error", msg.err)
		m.otpErr = "Something went wrong. Please try again."
	}
	return m, nil
}

func (m Model) handleBillPayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.billCursor > 0 {
			m.billCursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.billCursor < len(m.bills)-1 {
			m.billCursor++
		}
	case key.Matches(msg, m.keymap.Select):
		if len(m.bills) == 0 {
			return m, nil
		}
		bill := m.bills[m.billCursor]
		if bill.Status == model.BillPaid {
			return m, showToast(bill.Name+" is already paid.", model.ToastInfo)
		}
		m.payingBill = m.billCursor
		return m.stage(model.ActionBillPayment, bill.Amount, model.BillPaymentDescription(bill.Name))
	}
	return m, nil
}

func (m Model) handleStatementsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := statements.FilterOptions(m.transactions)
	current := 0
	for i, o := range options {
		if o == m.filter {
			current = i
		}
	}
	switch {
	case key.Matches(msg, m.keymap.Left):
		m.filter = options[(current-1+len(options))%len(options)]
	case key.Matches(msg, m.keymap.Right):
		m.filter = options[(current+1)%len(options)]
	}
	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keymap.Select):
		switch m.menuCursor {
		case menuNotifications:
			m.trayOpen = true
			m.refreshTray()
		case menuStatements:
			return m.setScreen(ScreenStatements)
		case menuSignOut:
			return m.signOut()
		}
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Select) {
		text := strings.TrimSpace(m.chatInput.Value())
		if text == "" {
			return m, nil
		}
		if m.chat == nil {
			return m, showToast("Erica is still connecting.", model.ToastInfo)
		}
		m.chatInput.Reset()
		return m, sendChat(m.chatCtx, m.chat, text, m.chatSession)
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// handleChatMsg applies results of chat work. Anything tagged with an
// earlier chat visit is dropped.
func (m Model) handleChatMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chatOpenedMsg:
		if msg.session != m.chatSession {
			return m, nil
		}
		if msg.err != nil {
			slog.Error("Failed to open chat", "error", msg.err)
			return m, showToast("Erica is unavailable right now.", model.ToastError)
		}
		m.chat = msg.conv

	case chatSentMsg:
		if msg.session != m.chatSession {
			return m, nil
		}
		if msg.err != nil {
			return m, m.chatFailed(msg.err)
		}
		m.replying = true
		return m, scheduleChat(msg.message, m.config.ChatTimings, msg.session)

	case chatDeliveredMsg:
		if msg.session != m.chatSession || m.chat == nil {
			return m, nil
		}
		return m, markChatDelivered(m.chatCtx, m.chat, msg.id, msg.session)

	case chatReplyDueMsg:
		if msg.session != m.chatSession || m.chat == nil {
			return m, nil
		}
		return m, replyChat(m.chatCtx, m.chat, msg.id, msg.text, msg.session)

	case chatUpdatedMsg:
		if msg.session != m.chatSession {
			return m, nil
		}
		if msg.replied {
			m.replying = false
		}
		if msg.err != nil {
			return m, m.chatFailed(msg.err)
		}
	}
	return m, nil
}

func (m Model) chatFailed(err error) tea.Cmd {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	slog.Error("Chat update failed", "error", err)
	return showToast("Message could not be sent.", model.ToastError)
}

// updateFocusedInput forwards msg to the text field that has focus.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.screen == ScreenLogin && m.loginFocus == 0:
		m.onlineID, cmd = m.onlineID.Update(msg)
	case m.screen == ScreenLogin:
		m.passcode, cmd = m.passcode.Update(msg)
	case m.screen == ScreenTransfer && m.transferFocus == 0:
		m.recipient, cmd = m.recipient.Update(msg)
	case m.screen == ScreenChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	}
	return m, cmd
}
