package confirm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/ledger"
	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/otp"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/shopspring/decimal"
)

// DefaultDeliveryDelay is how long the simulated code delivery takes.
const DefaultDeliveryDelay = 800 * time.Millisecond

// State is the orchestrator's position in the confirmation flow.
type State int

// Flow states. Committed and Cancelled are transient: the orchestrator
// passes through them on its way back to Idle.
const (
	StateIdle State = iota
	StateStaged
	StateChallenging
	StateCommitted
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStaged:
		return "staged"
	case StateChallenging:
		return "challenging"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Ledger is the account the orchestrator commits to.
type Ledger interface {
	Balance() decimal.Decimal
	Commit(ctx context.Context, action model.PendingAction) (ledger.Receipt, error)
}

// Orchestrator drives one action at a time from staging through verification.
type Orchestrator struct {
	ledger       Ledger
	deliverer    otp.Deliverer
	notifier     service.Notifier
	logger       *slog.Logger
	onTransition func(from, to State)
	challenge    *otp.Challenge
	cancelFlow   context.CancelFunc
	delivery     <-chan error
	holder       Holder
	destination  string
	delay        time.Duration
	state        State
	flowID       uint64
	mu           sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCodeSource sets where challenge codes come from.
func WithCodeSource(source otp.CodeSource) Option {
	return func(o *Orchestrator) {
		o.challenge = otp.NewChallenge(source)
	}
}

// WithDeliverer sets the out-of-band channel for codes.
func WithDeliverer(d otp.Deliverer) Option {
	return func(o *Orchestrator) {
		o.deliverer = d
	}
}

// WithDestination sets the address codes are delivered to.
func WithDestination(destination string) Option {
	return func(o *Orchestrator) {
		o.destination = destination
	}
}

// WithDeliveryDelay sets the simulated delivery latency.
func WithDeliveryDelay(delay time.Duration) Option {
	return func(o *Orchestrator) {
		o.delay = delay
	}
}

// WithNotifier sets where success toasts go.
func WithNotifier(n service.Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithTransitionHook registers fn to observe every state change.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(o *Orchestrator) {
		o.onTransition = fn
	}
}

// New creates an idle orchestrator for l.
func New(l Ledger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ledger:    l,
		challenge: otp.NewChallenge(nil),
		deliverer: otp.LogDeliverer{},
		notifier:  service.DiscardNotifier,
		logger:    slog.Default(),
		delay:     DefaultDeliveryDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) transition(to State) {
	from := o.state
	o.state = to
	o.logger.Debug("Confirmation state changed", "from", from.String(), "to", to.String())
	if o.onTransition != nil {
		o.onTransition(from, to)
	}
}

// Stage validates and stages an action, opens a challenge and schedules code
// delivery. Delivery is bound to ctx and to the flow: cancelling either stops it.
func (o *Orchestrator) Stage(ctx context.Context, kind model.ActionKind, amount decimal.Decimal, description string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateIdle {
		return common.ErrActionPending
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", common.ErrInvalidAmount)
	}
	if balance := o.ledger.Balance(); amount.GreaterThan(balance) {
		return fmt.Errorf("%w: %s exceeds balance %s",
			common.ErrInsufficientFunds, model.FormatUSD(amount), model.FormatUSD(balance))
	}

	action := model.PendingAction{Kind: kind, Amount: amount, Description: description}
	if err := o.holder.Stage(action); err != nil {
		return err
	}
	o.transition(StateStaged)

	code, err := o.challenge.Open()
	if err != nil {
		o.holder.Clear()
		o.transition(StateIdle)
		return fmt.Errorf("failed to open challenge: %w", err)
	}

	o.flowID++
	flowCtx, cancel := context.WithCancel(otp.WithFlow(ctx, o.flowID))
	o.cancelFlow = cancel
	o.delivery = otp.Dispatch(flowCtx, o.deliverer, o.delay, o.destination, code)
	o.transition(StateChallenging)

	o.logger.Info("Action staged",
		"kind", kind.String(),
		"amount", amount.StringFixed(2),
		"destination", otp.MaskDestination(o.destination))
	return nil
}

// PressDigit forwards a keypad digit to the open challenge.
func (o *Orchestrator) PressDigit(value string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateChallenging {
		return false
	}
	return o.challenge.PressDigit(value)
}

// DeleteDigit forwards a backspace to the open challenge.
func (o *Orchestrator) DeleteDigit() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateChallenging {
		o.challenge.DeleteDigit()
	}
}

// Focus moves the challenge cursor to slot i.
func (o *Orchestrator) Focus(i int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateChallenging {
		o.challenge.Focus(i)
	}
}

// Verify checks the entered code and, on success, commits the staged action.
// A mismatch resets the entry and keeps the flow open; so does a commit the
// balance no longer covers, leaving the user free to cancel.
func (o *Orchestrator) Verify(ctx context.Context) (ledger.Receipt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateChallenging {
		return ledger.Receipt{}, common.ErrNoChallenge
	}

	if err := o.challenge.Verify(); err != nil {
		if errors.Is(err, common.ErrVerificationMismatch) {
			o.logger.Info("Verification failed")
		}
		return ledger.Receipt{}, err
	}

	action, _ := o.holder.Peek()
	receipt, err := o.ledger.Commit(ctx, action)
	if err != nil {
		o.logger.Warn("Commit failed", "kind", action.Kind.String(), "error", err)
		return ledger.Receipt{}, err
	}

	o.holder.Clear()
	o.endFlow()
	o.transition(StateCommitted)
	o.transition(StateIdle)

	o.notifier.Notify(model.Toast{Message: action.Kind.String() + " Successful", Level: model.ToastSuccess})
	return receipt, nil
}

// Cancel discards the staged action and challenge without touching the ledger.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateIdle {
		return common.ErrNoPendingAction
	}

	o.holder.Clear()
	o.endFlow()
	o.transition(StateCancelled)
	o.transition(StateIdle)
	o.logger.Info("Action cancelled")
	return nil
}

func (o *Orchestrator) endFlow() {
	o.challenge.Close()
	if o.cancelFlow != nil {
		o.cancelFlow()
		o.cancelFlow = nil
	}
}

// State returns the current flow state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Pending returns the staged action, if any.
func (o *Orchestrator) Pending() (model.PendingAction, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.holder.Peek()
}

// Challenge returns a view of the open challenge.
func (o *Orchestrator) Challenge() (otp.Snapshot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateChallenging {
		return otp.Snapshot{}, false
	}
	return o.challenge.Snapshot(), true
}

// Destination returns the address codes are sent to.
func (o *Orchestrator) Destination() string {
	return o.destination
}

// FlowID identifies the latest staged flow. Deliveries for it carry the
// same tag (see otp.FlowFrom); zero means nothing has been staged yet.
func (o *Orchestrator) FlowID() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.flowID
}

// Delivery returns the outcome channel of the latest code delivery, or nil
// if nothing has been staged.
func (o *Orchestrator) Delivery() <-chan error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.delivery
}
