package model

import "time"

// Sender identifies who wrote a chat message.
type Sender string

// Chat senders.
const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// MessageStatus tracks delivery of a user's chat message.
type MessageStatus string

// Message statuses, in order.
const (
	StatusSending   MessageStatus = "sending"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// After reports whether s comes later in the delivery order than other.
func (s MessageStatus) After(other MessageStatus) bool {
	return s.rank() > other.rank()
}

func (s MessageStatus) rank() int {
	switch s {
	case StatusSending:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	default:
		return 0
	}
}

// ChatMessage is one entry in the assistant conversation.
type ChatMessage struct {
	Timestamp time.Time     `json:"timestamp"`
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Sender    Sender        `json:"sender"`
	Status    MessageStatus `json:"status,omitempty"`
}
