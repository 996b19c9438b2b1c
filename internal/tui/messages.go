package tui

import (
	"github.com/Veraticus/pocket-teller/internal/ledger"
	"github.com/Veraticus/pocket-teller/internal/model"
)

// Session messages.
type sessionCheckedMsg struct {
	err      error
	loggedIn bool
}

type loginResultMsg struct {
	err error
}

type loggedOutMsg struct {
	err error
}

// Confirmation flow messages.
type verifiedMsg struct {
	err     error
	receipt ledger.Receipt
}

type deliveryMsg struct {
	err error
}

type noticeMsg struct {
	notice Notice
}

// Toast messages.
type toastMsg struct {
	toast   model.Toast
	fromBus bool
}

type toastExpiredMsg struct {
	seq int
}

// Data loading messages.
type activityLoadedMsg struct {
	err          error
	transactions []model.Transaction
}

type recordsChangedMsg struct {
	err   error
	toast *model.Toast
}

type insightPostedMsg struct {
	record *model.Notification
}

// Chat messages. Each carries the chat visit it belongs to; results from an
// earlier visit are dropped.
type chatOpenedMsg struct {
	err     error
	conv    Conversation
	session int
}

type chatSentMsg struct {
	err     error
	message model.ChatMessage
	session int
}

type chatDeliveredMsg struct {
	id      string
	session int
}

type chatReplyDueMsg struct {
	id      string
	text    string
	session int
}

type chatUpdatedMsg struct {
	err     error
	session int
	replied bool
}
