package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/pocket-teller/internal/insight"
	"github.com/Veraticus/pocket-teller/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// checkSession reports whether a persisted session exists.
func checkSession(ctx context.Context, session Session) tea.Cmd {
	return func() tea.Msg {
		loggedIn, err := session.LoggedIn(ctx)
		return sessionCheckedMsg{loggedIn: loggedIn, err: err}
	}
}

// login runs the credential check, including its simulated latency.
func login(ctx context.Context, session Session, onlineID, passcode string) tea.Cmd {
	return func() tea.Msg {
		return loginResultMsg{err: session.Login(ctx, onlineID, passcode)}
	}
}

// logout wipes persisted state and reloads the ledger's seeded defaults.
func logout(ctx context.Context, session Session, accounts Accounts) tea.Cmd {
	return func() tea.Msg {
		if err := session.Logout(ctx); err != nil {
			return loggedOutMsg{err: err}
		}
		if err := accounts.Reload(ctx); err != nil {
			return loggedOutMsg{err: fmt.Errorf("failed to reload account: %w", err)}
		}
		return loggedOutMsg{}
	}
}

// verify checks the entered code and commits on success.
func verify(ctx context.Context, flow Flow) tea.Cmd {
	return func() tea.Msg {
		receipt, err := flow.Verify(ctx)
		return verifiedMsg{receipt: receipt, err: err}
	}
}

// waitForDelivery waits on the outcome of the current code delivery.
func waitForDelivery(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return deliveryMsg{err: err}
	}
}

// waitForToast blocks until the next toast is published.
func waitForToast(bus *Bus) tea.Cmd {
	if bus == nil {
		return nil
	}
	return func() tea.Msg {
		return toastMsg{toast: <-bus.Toasts(), fromBus: true}
	}
}

// waitForNotice blocks until the next delivered-code notice.
func waitForNotice(bus *Bus) tea.Cmd {
	if bus == nil {
		return nil
	}
	return func() tea.Msg {
		return noticeMsg{notice: <-bus.Notices()}
	}
}

// expireToast hides toast seq after d.
func expireToast(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// showToast displays a toast raised by the UI itself.
func showToast(message string, level model.ToastLevel) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{toast: model.Toast{Message: message, Level: level}}
	}
}

// loadActivity loads recent transactions.
func loadActivity(ctx context.Context, activity Activity) tea.Cmd {
	if activity == nil {
		return nil
	}
	return func() tea.Msg {
		txns, err := activity.Recent(ctx)
		return activityLoadedMsg{transactions: txns, err: err}
	}
}

// waitForInsight waits for the login insight of the current session.
func waitForInsight(ctx context.Context, insights Insights) tea.Cmd {
	if insights == nil {
		return nil
	}
	ch := insights.AfterLogin(ctx)
	return func() tea.Msg {
		return insightPostedMsg{record: <-ch}
	}
}

// markRead flags one notification as read.
func markRead(ctx context.Context, accounts Accounts, id string) tea.Cmd {
	return func() tea.Msg {
		return recordsChangedMsg{err: accounts.MarkRead(ctx, id)}
	}
}

// markAllRead flags every notification as read.
func markAllRead(ctx context.Context, accounts Accounts) tea.Cmd {
	return func() tea.Msg {
		if err := accounts.MarkAllRead(ctx); err != nil {
			return recordsChangedMsg{err: err}
		}
		return recordsChangedMsg{toast: &model.Toast{Message: "Notifications cleared", Level: model.ToastInfo}}
	}
}

// openChat loads the conversation for a chat visit.
func openChat(ctx context.Context, open ChatOpener, session int) tea.Cmd {
	if open == nil {
		return nil
	}
	return func() tea.Msg {
		conv, err := open(ctx)
		return chatOpenedMsg{conv: conv, err: err, session: session}
	}
}

// sendChat appends the user's message.
func sendChat(ctx context.Context, conv Conversation, text string, session int) tea.Cmd {
	return func() tea.Msg {
		msg, err := conv.Send(ctx, text)
		return chatSentMsg{message: msg, err: err, session: session}
	}
}

// scheduleChat starts the delivered and reply timers for a sent message.
// Both delays are measured from the send.
func scheduleChat(sent model.ChatMessage, t insight.Timings, session int) tea.Cmd {
	return tea.Batch(
		tea.Tick(t.Delivered, func(time.Time) tea.Msg {
			return chatDeliveredMsg{id: sent.ID, session: session}
		}),
		tea.Tick(t.Reply, func(time.Time) tea.Msg {
			return chatReplyDueMsg{id: sent.ID, text: sent.Text, session: session}
		}),
	)
}

// markChatDelivered advances a message to delivered.
func markChatDelivered(ctx context.Context, conv Conversation, id string, session int) tea.Cmd {
	return func() tea.Msg {
		return chatUpdatedMsg{err: conv.MarkDelivered(ctx, id), session: session}
	}
}

// replyChat marks the message read and appends the assistant's answer.
func replyChat(ctx context.Context, conv Conversation, id, text string, session int) tea.Cmd {
	return func() tea.Msg {
		if err := conv.MarkRead(ctx, id); err != nil {
			return chatUpdatedMsg{err: err, session: session}
		}
		_, err := conv.Reply(ctx, text)
		return chatUpdatedMsg{err: err, session: session, replied: true}
	}
}
