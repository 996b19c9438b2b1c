package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/Veraticus/pocket-teller/internal/storage"
	"github.com/google/uuid"
)

// Default chat timings.
const (
	DefaultDeliveredDelay = 600 * time.Millisecond
	DefaultReplyDelay     = 1500 * time.Millisecond
)

// Chat is the persisted conversation with the assistant.
type Chat struct {
	store     service.Storage
	generator *Generator
	now       func() time.Time
	messages  []model.ChatMessage
	mu        sync.Mutex
}

// OpenChat loads the conversation, seeding the greeting when none exists.
func OpenChat(ctx context.Context, store service.Storage, generator *Generator) (*Chat, error) {
	c := &Chat{store: store, generator: generator, now: time.Now}

	raw, err := store.Get(ctx, storage.KeyChatHistory)
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.messages = []model.ChatMessage{{
			ID:        uuid.NewString(),
			Text:      model.AssistantGreeting,
			Sender:    model.SenderAssistant,
			Timestamp: c.now(),
		}}
		if err := c.save(ctx, c.messages); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &c.messages); err != nil {
			return nil, fmt.Errorf("%w: chat history: %w", common.ErrDatabaseCorrupted, err)
		}
	}
	return c, nil
}

func (c *Chat) save(ctx context.Context, messages []model.ChatMessage) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode chat history: %w", err)
	}
	return c.store.Put(ctx, storage.KeyChatHistory, string(data))
}

// commit persists next and swaps it in. Callers must hold c.mu.
func (c *Chat) commit(ctx context.Context, next []model.ChatMessage) error {
	if err := c.save(ctx, next); err != nil {
		return err
	}
	c.messages = next
	return nil
}

// Messages returns a copy of the conversation, oldest first.
func (c *Chat) Messages() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Send appends a user message in the sending state.
func (c *Chat) Send(ctx context.Context, text string) (model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return model.ChatMessage{}, fmt.Errorf("%w: message is empty", common.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    model.SenderUser,
		Status:    model.StatusSending,
		Timestamp: c.now(),
	}
	next := append(append([]model.ChatMessage(nil), c.messages...), msg)
	if err := c.commit(ctx, next); err != nil {
		return model.ChatMessage{}, err
	}
	return msg, nil
}

// MarkDelivered advances a user message to delivered. Statuses never move
// backwards, so a late delivery after a read is a no-op.
func (c *Chat) MarkDelivered(ctx context.Context, id string) error {
	return c.setStatus(ctx, id, model.StatusDelivered)
}

// MarkRead advances a user message to read.
func (c *Chat) MarkRead(ctx context.Context, id string) error {
	return c.setStatus(ctx, id, model.StatusRead)
}

func (c *Chat) setStatus(ctx context.Context, id string, status model.MessageStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := append([]model.ChatMessage(nil), c.messages...)
	for i := range next {
		if next[i].ID == id {
			if !status.After(next[i].Status) {
				return nil
			}
			next[i].Status = status
			return c.commit(ctx, next)
		}
	}
	return fmt.Errorf("chat message %q: %w", id, common.ErrNotFound)
}

// Reply generates the assistant's answer to text and appends it. When ctx
// ends during generation nothing is appended and ctx.Err() is returned.
func (c *Chat) Reply(ctx context.Context, text string) (model.ChatMessage, error) {
	insight := c.generator.Generate(ctx, []string{text})
	if err := ctx.Err(); err != nil {
		return model.ChatMessage{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Text:      insight.Text,
		Sender:    model.SenderAssistant,
		Timestamp: c.now(),
	}
	next := append(append([]model.ChatMessage(nil), c.messages...), msg)
	if err := c.commit(ctx, next); err != nil {
		return model.ChatMessage{}, err
	}
	return msg, nil
}

// Timings controls the simulated delivery schedule of an exchange.
type Timings struct {
	Delivered time.Duration
	Reply     time.Duration
}

// Exchange sends text and runs the delivery schedule: delivered after
// t.Delivered, read and answered after t.Reply, both measured from the send.
// Leaving ctx stops the schedule without further writes. The TUI drives the
// same steps with its own timers.
func (c *Chat) Exchange(ctx context.Context, text string, t Timings) (model.ChatMessage, error) {
	sent, err := c.Send(ctx, text)
	if err != nil {
		return model.ChatMessage{}, err
	}

	start := time.Now()
	if err := sleep(ctx, t.Delivered); err != nil {
		return model.ChatMessage{}, err
	}
	if err := c.MarkDelivered(ctx, sent.ID); err != nil {
		return model.ChatMessage{}, err
	}

	if err := sleep(ctx, t.Reply-time.Since(start)); err != nil {
		return model.ChatMessage{}, err
	}
	if err := c.MarkRead(ctx, sent.ID); err != nil {
		return model.ChatMessage{}, err
	}
	return c.Reply(ctx, text)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
