package tui

import (
	"context"
	"time"

	"github.com/Veraticus/pocket-teller/internal/confirm"
	"github.com/Veraticus/pocket-teller/internal/insight"
	"github.com/Veraticus/pocket-teller/internal/ledger"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/otp"
	"github.com/Veraticus/pocket-teller/internal/tui/themes"
	"github.com/shopspring/decimal"
)

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 3 * time.Second

// Accounts is the ledger as the screens see it.
type Accounts interface {
	Balance() decimal.Decimal
	History() []model.Notification
	UnreadCount() int
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Reload(ctx context.Context) error
}

// Flow is the confirmation flow behind the transfer and bill pay screens.
type Flow interface {
	Stage(ctx context.Context, kind model.ActionKind, amount decimal.Decimal, description string) error
	PressDigit(value string) bool
	DeleteDigit()
	Focus(i int)
	Verify(ctx context.Context) (ledger.Receipt, error)
	Cancel() error
	State() confirm.State
	Pending() (model.PendingAction, bool)
	Challenge() (otp.Snapshot, bool)
	Destination() string
	Delivery() <-chan error
	FlowID() uint64
}

// Session is the sign-in state.
type Session interface {
	Login(ctx context.Context, onlineID, passcode string) error
	LoggedIn(ctx context.Context) (bool, error)
	Logout(ctx context.Context) error
}

// Insights posts the login insight.
type Insights interface {
	AfterLogin(ctx context.Context) <-chan *model.Notification
}

// Activity lists recent transactions.
type Activity interface {
	Recent(ctx context.Context) ([]model.Transaction, error)
}

// Conversation is the assistant chat.
type Conversation interface {
	Messages() []model.ChatMessage
	Send(ctx context.Context, text string) (model.ChatMessage, error)
	MarkDelivered(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id string) error
	Reply(ctx context.Context, text string) (model.ChatMessage, error)
}

// ChatOpener loads the conversation. It is called on every visit to the
// chat screen so a sign-out's wipe is picked up.
type ChatOpener func(ctx context.Context) (Conversation, error)

// Config holds TUI configuration.
type Config struct {
	Theme         themes.Theme
	Accounts      Accounts
	Flow          Flow
	Session       Session
	Insights      Insights
	Activity      Activity
	OpenChat      ChatOpener
	Bus           *Bus
	Now           func() time.Time
	HolderName    string
	Bills         []model.Bill
	ChatTimings   insight.Timings
	ToastDuration time.Duration
	Width         int
	Height        int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:      themes.Default,
		Now:        time.Now,
		HolderName: "Thomas",
		Bills:      model.SeedBills(),
		ChatTimings: insight.Timings{
			Delivered: insight.DefaultDeliveredDelay,
			Reply:     insight.DefaultReplyDelay,
		},
		ToastDuration: DefaultToastDuration,
		Width:         80,
		Height:        24,
	}
}

// WithAccounts sets the ledger.
func WithAccounts(accounts Accounts) Option {
	return func(c *Config) {
		c.Accounts = accounts
	}
}

// WithFlow sets the confirmation flow.
func WithFlow(flow Flow) Option {
	return func(c *Config) {
		c.Flow = flow
	}
}

// WithSession sets the sign-in state.
func WithSession(session Session) Option {
	return func(c *Config) {
		c.Session = session
	}
}

// WithInsights sets the login insight scheduler.
func WithInsights(insights Insights) Option {
	return func(c *Config) {
		c.Insights = insights
	}
}

// WithActivity sets the source of recent transactions.
func WithActivity(activity Activity) Option {
	return func(c *Config) {
		c.Activity = activity
	}
}

// WithChat sets how the assistant conversation is opened.
func WithChat(open ChatOpener) Option {
	return func(c *Config) {
		c.OpenChat = open
	}
}

// WithBus sets the toast and notice bus.
func WithBus(bus *Bus) Option {
	return func(c *Config) {
		c.Bus = bus
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithHolderName sets the name in the home greeting.
func WithHolderName(name string) Option {
	return func(c *Config) {
		c.HolderName = name
	}
}

// WithBills sets the payees on the bill pay screen.
func WithBills(bills []model.Bill) Option {
	return func(c *Config) {
		c.Bills = bills
	}
}

// WithChatTimings sets the simulated chat delivery schedule.
func WithChatTimings(t insight.Timings) Option {
	return func(c *Config) {
		c.ChatTimings = t
	}
}

// WithToastDuration sets how long toasts stay visible.
func WithToastDuration(d time.Duration) Option {
	return func(c *Config) {
		c.ToastDuration = d
	}
}

// WithClock sets the clock used for notification ages.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}
