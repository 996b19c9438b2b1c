// Package confirm stages monetary actions and commits them once the user
// proves possession of a one-time code.
package confirm

import (
	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/model"
)

// Holder is a single slot for the action awaiting verification.
type Holder struct {
	action model.PendingAction
	staged bool
}

// Stage stores action. It fails with ErrActionPending if the slot is occupied.
func (h *Holder) Stage(action model.PendingAction) error {
	if h.staged {
		return common.ErrActionPending
	}
	h.action = action
	h.staged = true
	return nil
}

// Clear empties the slot.
func (h *Holder) Clear() {
	h.action = model.PendingAction{}
	h.staged = false
}

// Peek returns the staged action, if any.
func (h *Holder) Peek() (model.PendingAction, bool) {
	return h.action, h.staged
}
