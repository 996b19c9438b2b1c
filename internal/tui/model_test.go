package tui

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/pocket-teller/internal/auth"
	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/confirm"
	"github.com/Veraticus/pocket-teller/internal/insight"
	"github.com/Veraticus/pocket-teller/internal/ledger"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/otp"
	"github.com/Veraticus/pocket-teller/internal/statements"
	"github.com/Veraticus/pocket-teller/internal/storage"
	"github.com/Veraticus/pocket-teller/internal/testutil"
	"github.com/Veraticus/pocket-teller/internal/tui/components"
	"github.com/Veraticus/pocket-teller/internal/tui/tuitest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testCode     = "482913"
	testOnlineID = "thomas"
	testPasscode = "password123"
	waitTimeout  = 2 * time.Second
)

type fixture struct {
	store  *storage.SQLiteStorage
	ledger *ledger.Ledger
	flow   *confirm.Orchestrator
	auth   *auth.Authenticator
	bus    *Bus
	r      *tuitest.TestRenderer
	opts   []Option
}

func newFixture(t *testing.T, extra ...Option) *fixture {
	t.Helper()
	return newFixtureWith(t, func(*fixture) []Option { return extra })
}

// newFixtureWith builds the fixture, letting extra derive options from its
// dependencies before the program starts.
func newFixtureWith(t *testing.T, extra func(*fixture) []Option) *fixture {
	t.Helper()
	ctx := context.Background()

	store := testutil.NewStore(t)

	l, err := ledger.Open(ctx, store)
	require.NoError(t, err)

	bus := NewBus(0)
	flow := confirm.New(l,
		confirm.WithCodeSource(otp.CodeSourceFunc(func() (string, error) { return testCode, nil })),
		confirm.WithDeliverer(bus),
		confirm.WithNotifier(bus),
		confirm.WithDestination("thomas.miller@gmail.com"),
		confirm.WithDeliveryDelay(time.Millisecond),
	)

	a, err := auth.New(store, auth.Config{OnlineID: testOnlineID, Passcode: testPasscode, Cost: bcrypt.MinCost}, nil)
	require.NoError(t, err)

	gen := insight.NewGenerator(nil, nil)
	opts := []Option{
		WithAccounts(l),
		WithFlow(flow),
		WithSession(a),
		WithBus(bus),
		WithActivity(statements.NewBook(store, nil)),
		WithChat(func(ctx context.Context) (Conversation, error) {
			c, err := insight.OpenChat(ctx, store, gen)
			if err != nil {
				return nil, err
			}
			return c, nil
		}),
		WithChatTimings(insight.Timings{Delivered: 5 * time.Millisecond, Reply: 10 * time.Millisecond}),
		WithClock(func() time.Time { return time.Date(2024, 10, 28, 9, 0, 0, 0, time.UTC) }),
		WithSize(100, 40),
	}
	f := &fixture{store: store, ledger: l, flow: flow, auth: a, bus: bus}
	f.opts = append(opts, extra(f)...)
	f.start(t)
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	m, err := New(context.Background(), f.opts...)
	require.NoError(t, err)
	f.r = tuitest.NewTestRenderer(m)
}

func (f *fixture) model() Model {
	return f.r.Model().(Model)
}

func (f *fixture) waitFor(t *testing.T, what string, cond func(Model) bool) {
	t.Helper()
	ok := f.r.WaitFor(func(m tea.Model) bool { return cond(m.(Model)) }, waitTimeout)
	require.True(t, ok, "timed out waiting for %s", what)
}

func (f *fixture) typeText(text string) {
	f.r.Send(tuitest.Type(text)...)
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.typeText(testOnlineID)
	f.r.Send(tuitest.KeyEnter())
	f.typeText(testPasscode)
	f.r.Send(tuitest.KeyEnter())
	f.waitFor(t, "home screen", func(m Model) bool { return m.screen == ScreenHome })
}

func (f *fixture) view() string {
	return tuitest.StripANSI(f.r.View())
}

func (f *fixture) waitForToast(t *testing.T, message string) {
	t.Helper()
	f.waitFor(t, "toast "+message, func(m Model) bool {
		return m.toast != nil && m.toast.Message == message
	})
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(context.Background())
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestLogin(t *testing.T) {
	t.Run("invalid credentials", func(t *testing.T) {
		f := newFixture(t)
		f.typeText(testOnlineID)
		f.r.Send(tuitest.KeyEnter())
		f.typeText("wrong")
		f.r.Send(tuitest.KeyEnter())

		f.waitFor(t, "login error", func(m Model) bool { return m.loginErr != "" })
		m := f.model()
		assert.Equal(t, auth.InvalidCredentialsMessage, m.loginErr)
		assert.Equal(t, ScreenLogin, m.screen)
		assert.Empty(t, m.passcode.Value())
		assert.Contains(t, f.view(), auth.InvalidCredentialsMessage)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		f.r.Send(tuitest.KeyDown(), tuitest.KeyEnter())
		assert.Equal(t, "Enter your Online ID and Passcode.", f.model().loginErr)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		loggedIn, err := f.auth.LoggedIn(context.Background())
		require.NoError(t, err)
		assert.True(t, loggedIn)
		assert.Contains(t, f.view(), "$20000.00")
		assert.Contains(t, f.view(), "Good morning, Thomas")
	})

	t.Run("restores persisted session", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		f.start(t)
		f.waitFor(t, "restored session", func(m Model) bool { return m.screen == ScreenHome })
	})
}

func TestTransferFlow(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.r.Send(tuitest.KeyPress("t"))
	require.Equal(t, ScreenTransfer, f.model().screen)

	f.typeText("Jane Doe")
	f.r.Send(tuitest.KeyEnter())
	f.typeText("250")
	assert.Equal(t, "250", f.model().amount.Value())
	f.r.Send(tuitest.KeyEnter())

	require.Equal(t, confirm.StateChallenging, f.flow.State())
	f.waitFor(t, "code delivery", func(m Model) bool { return m.delivered && m.otpNotice != "" })
	view := f.view()
	assert.Contains(t, view, "Transfer to Jane Doe")
	assert.Contains(t, view, "Code: "+testCode)
	assert.Contains(t, view, "Enter the code sent to th***********@gmail.com")

	// Wrong code keeps the modal open and the balance untouched.
	f.typeText("000000")
	f.r.Send(tuitest.KeyEnter())
	f.waitFor(t, "mismatch", func(m Model) bool { return m.otpErr == msgCodeMismatch })
	assert.Equal(t, "20000.00", f.ledger.Balance().StringFixed(2))
	snap, open := f.flow.Challenge()
	require.True(t, open)
	assert.Equal(t, 0, snap.Cursor)

	f.typeText(testCode)
	f.r.Send(tuitest.KeyEnter())
	f.waitFor(t, "commit", func(m Model) bool {
		return m.screen == ScreenHome && f.flow.State() == confirm.StateIdle
	})
	f.waitForToast(t, "Transfer Successful")

	assert.Equal(t, "19750.00", f.ledger.Balance().StringFixed(2))
	history := f.ledger.History()
	assert.Equal(t, "Transaction Complete", history[0].Title)
	assert.Contains(t, history[0].Message, "Transfer to Jane Doe")

	f.waitFor(t, "posting in recent activity", func(m Model) bool {
		return len(m.transactions) > 0 && m.transactions[0].Description == "Transfer to Jane Doe"
	})
	m := f.model()
	assert.Empty(t, m.recipient.Value())
	assert.Empty(t, m.amount.Value())
	assert.Contains(t, f.view(), "$19750.00")
}

func TestTransferValidation(t *testing.T) {
	tests := []struct {
		name      string
		recipient string
		amount    string
		wantToast string
	}{
		{name: "no recipient", amount: "10", wantToast: "Enter a recipient."},
		{name: "no amount", recipient: "Jane Doe", wantToast: "Enter an amount greater than $0.00."},
		{name: "over balance", recipient: "Jane Doe", amount: "20000.01", wantToast: "Insufficient funds."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.login(t)
			f.r.Send(tuitest.KeyPress("t"))
			f.typeText(tt.recipient)
			f.r.Send(tuitest.KeyEnter())
			f.typeText(tt.amount)
			f.r.Send(tuitest.KeyEnter())

			f.waitForToast(t, tt.wantToast)
			assert.Equal(t, confirm.StateIdle, f.flow.State())
			assert.Equal(t, ScreenTransfer, f.model().screen)
		})
	}
}

func TestTransfer_AmountKeypadRules(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.r.Send(tuitest.KeyPress("t"), tuitest.KeyDown())

	f.typeText("12.345.6")
	assert.Equal(t, "12.34", f.model().amount.Value())

	f.r.Send(tuitest.KeyBackspace())
	assert.Equal(t, "12.3", f.model().amount.Value())
}

func TestBillPay_CancelLeavesLedgerUntouched(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	historyBefore := f.ledger.History()

	f.r.Send(tuitest.KeyPress("3"))
	require.Equal(t, ScreenBillPay, f.model().screen)
	f.r.Send(tuitest.KeyDown(), tuitest.KeyEnter())

	pending, ok := f.flow.Pending()
	require.True(t, ok)
	assert.Equal(t, "Payment to State Farm Insurance", pending.Description)

	f.typeText("48")
	f.r.Send(tuitest.KeyEsc())

	assert.Equal(t, confirm.StateIdle, f.flow.State())
	assert.Equal(t, "20000.00", f.ledger.Balance().StringFixed(2))
	assert.Equal(t, historyBefore, f.ledger.History())
	m := f.model()
	assert.Equal(t, ScreenBillPay, m.screen, "cancel returns to the screen that staged the action")
	assert.Equal(t, model.BillPending, m.bills[1].Status)
	assert.Equal(t, -1, m.payingBill)
	assert.NotContains(t, f.view(), "Verify it's you")
}

func TestBillPay_MarksPaid(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.r.Send(tuitest.KeyPress("3"), tuitest.KeyDown(), tuitest.KeyDown(), tuitest.KeyEnter())
	f.waitFor(t, "code delivery", func(m Model) bool { return m.delivered })
	f.typeText(testCode)
	f.r.Send(tuitest.KeyEnter())
	f.waitForToast(t, "Bill Payment Successful")

	assert.Equal(t, "19955.00", f.ledger.Balance().StringFixed(2))
	assert.Equal(t, model.BillPaid, f.model().bills[2].Status)

	f.r.Send(tuitest.KeyPress("3"), tuitest.KeyDown(), tuitest.KeyDown(), tuitest.KeyEnter())
	f.waitForToast(t, "Gym Membership is already paid.")
	assert.Equal(t, confirm.StateIdle, f.flow.State())
}

func TestOTP_IncompleteCode(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.r.Send(tuitest.KeyPress("3"), tuitest.KeyEnter())

	f.typeText("482")
	f.r.Send(tuitest.KeyEnter())
	f.waitFor(t, "incomplete", func(m Model) bool { return m.otpErr == msgCodeIncomplete })

	f.r.Send(tuitest.KeyBackspace())
	snap, _ := f.flow.Challenge()
	assert.Equal(t, "48____", components.SlotsText(snap))
	assert.Empty(t, f.model().otpErr)

	f.r.Send(tuitest.KeyLeft())
	snap, _ = f.flow.Challenge()
	assert.Equal(t, 1, snap.Cursor)
}

func TestNotificationTray(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	require.Equal(t, 2, f.ledger.UnreadCount())

	f.r.Send(tuitest.KeyCtrlN())
	require.True(t, f.model().trayOpen)
	assert.Contains(t, f.view(), "2 unread")

	// The first record is unread; enter marks just that one.
	f.r.Send(tuitest.KeyEnter())
	f.waitFor(t, "one read", func(Model) bool { return f.ledger.UnreadCount() == 1 })

	f.r.Send(tuitest.KeyPress("a"))
	f.waitForToast(t, "Notifications cleared")
	assert.Equal(t, 0, f.ledger.UnreadCount())
	assert.Contains(t, f.view(), "0 unread")

	f.r.Send(tuitest.KeyEsc())
	assert.False(t, f.model().trayOpen)
}

func TestChat_ReplySchedule(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.r.Send(tuitest.KeyPress("4"))
	require.Equal(t, ScreenChat, f.model().screen)
	f.waitFor(t, "chat open", func(m Model) bool { return m.chat != nil })

	f.typeText("How am I doing?")
	f.r.Send(tuitest.KeyEnter())

	f.waitFor(t, "reply", func(m Model) bool {
		return len(m.chat.Messages()) == 3 && !m.replying
	})
	messages := f.model().chat.Messages()
	assert.Equal(t, model.AssistantGreeting, messages[0].Text)
	assert.Equal(t, "How am I doing?", messages[1].Text)
	assert.Equal(t, model.StatusRead, messages[1].Status)
	assert.Equal(t, model.SenderAssistant, messages[2].Sender)
	assert.Equal(t, insight.FallbackUnavailable, messages[2].Text)
	assert.Contains(t, f.view(), "Read")
}

func TestChat_LeavingDropsPendingWork(t *testing.T) {
	f := newFixture(t, WithChatTimings(insight.Timings{Delivered: 50 * time.Millisecond, Reply: 100 * time.Millisecond}))
	f.login(t)

	f.r.Send(tuitest.KeyPress("4"))
	f.waitFor(t, "chat open", func(m Model) bool { return m.chat != nil })
	f.typeText("Hello")
	f.r.Send(tuitest.KeyEnter())
	f.waitFor(t, "message sent", func(m Model) bool { return m.replying })

	f.r.Send(tuitest.KeyEsc())
	require.Equal(t, ScreenHome, f.model().screen)
	f.r.Settle(250 * time.Millisecond)

	chat, err := insight.OpenChat(context.Background(), f.store, insight.NewGenerator(nil, nil))
	require.NoError(t, err)
	messages := chat.Messages()
	require.Len(t, messages, 2, "no reply after leaving the screen")
	assert.Equal(t, model.StatusSending, messages[1].Status)
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	_, err := f.ledger.Debit(context.Background(), decimal.NewFromInt(100))
	require.NoError(t, err)

	f.r.Send(tuitest.KeyPress("6"), tuitest.KeyDown(), tuitest.KeyDown(), tuitest.KeyEnter())
	f.waitForToast(t, "You have been signed out.")

	assert.Equal(t, ScreenLogin, f.model().screen)
	loggedIn, err := f.auth.LoggedIn(context.Background())
	require.NoError(t, err)
	assert.False(t, loggedIn)
	assert.Equal(t, "20000.00", f.ledger.Balance().StringFixed(2), "sign out restores the seeded account")
}

func TestSignOut_CancelsPendingAction(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	require.NoError(t, f.flow.Stage(context.Background(), model.ActionTransfer, decimal.NewFromInt(5), "Transfer to A"))

	_, _ = f.model().signOut()
	assert.Equal(t, confirm.StateIdle, f.flow.State())
}

func TestInsightAfterLogin(t *testing.T) {
	f := newFixtureWith(t, func(f *fixture) []Option {
		scheduler := insight.NewScheduler(insight.NewGenerator(nil, nil), f.ledger,
			statements.NewBook(f.store, nil).Recent, f.bus,
			insight.SchedulerConfig{Delay: time.Millisecond})
		return []Option{WithInsights(scheduler)}
	})

	f.login(t)
	f.waitForToast(t, "New financial insight available")

	history := f.ledger.History()
	assert.Equal(t, "Financial Insight", history[0].Title)
	assert.Equal(t, model.KindInsight, history[0].Kind)
	assert.Contains(t, f.view(), insight.FallbackUnavailable)
}

func TestNavigation(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.r.Send(tuitest.KeyTab())
	assert.Equal(t, ScreenTransfer, f.model().screen)

	// Digits belong to the form on the transfer screen.
	f.r.Send(tuitest.KeyPress("5"))
	assert.Equal(t, ScreenTransfer, f.model().screen)

	f.r.Send(tuitest.KeyEsc(), tuitest.KeyPress("5"))
	require.Equal(t, ScreenStatements, f.model().screen)
	f.waitFor(t, "statements", func(m Model) bool { return len(m.transactions) > 0 })
	assert.Contains(t, f.view(), "Statements & Documents")

	f.r.Send(tuitest.KeyRight())
	assert.Equal(t, string(model.CategoryShopping), f.model().filter)
	f.r.Send(tuitest.KeyLeft())
	assert.Equal(t, statements.AllCategories, f.model().filter)

	f.r.Send(tuitest.KeyPress("q"))
	f.r.Settle(20 * time.Millisecond)
	assert.True(t, f.model().quitting)
}

func TestBus(t *testing.T) {
	bus := NewBus(1)
	bus.Notify(model.Toast{Message: "first"})
	bus.Notify(model.Toast{Message: "dropped"})
	assert.Equal(t, "first", (<-bus.Toasts()).Message)

	ctx := otp.WithFlow(context.Background(), 7)
	require.NoError(t, bus.Deliver(ctx, "a@b.com", "123456"))
	assert.Error(t, bus.Deliver(ctx, "a@b.com", "654321"), "full queue")
	assert.Equal(t, Notice{Text: otp.Message("a@b.com", "123456"), Flow: 7}, <-bus.Notices())
}

func TestOTP_IgnoresNoticeFromCancelledFlow(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.r.Send(tuitest.KeyPress("3"))
	f.r.Send(tuitest.KeyDown(), tuitest.KeyEnter())
	require.Equal(t, confirm.StateChallenging, f.flow.State())
	cancelled := f.flow.FlowID()
	f.r.Send(tuitest.KeyEsc())
	require.Equal(t, confirm.StateIdle, f.flow.State())

	f.r.Send(tuitest.KeyEnter())
	require.Equal(t, confirm.StateChallenging, f.flow.State())
	require.Greater(t, f.flow.FlowID(), cancelled)

	stale := Notice{Text: "Your code is 999999", Flow: cancelled}
	f.r.Send(noticeMsg{notice: stale})
	assert.NotEqual(t, stale.Text, f.model().otpNotice)

	f.waitFor(t, "current code", func(m Model) bool { return m.otpNotice != "" })
	f.r.Send(noticeMsg{notice: stale})
	m := f.model()
	assert.Contains(t, m.otpNotice, testCode)
	assert.NotContains(t, f.view(), "999999")
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "Bill Pay", ScreenBillPay.String())
	assert.Equal(t, "Erica", ScreenChat.String())
	assert.Equal(t, "Unknown", Screen(42).String())
}
