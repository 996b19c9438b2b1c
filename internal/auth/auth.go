// Package auth implements the demo sign-in gate.
//
// It compares an online ID and a bcrypt-hashed passcode from configuration and
// keeps a persisted session flag. It is not an identity provider.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/Veraticus/pocket-teller/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// DefaultDelay simulates the sign-in round trip.
const DefaultDelay = 1200 * time.Millisecond

// InvalidCredentialsMessage is shown for any failed sign-in.
const InvalidCredentialsMessage = "Invalid Online ID or Passcode."

// Config configures an Authenticator.
type Config struct {
	OnlineID string
	// PasscodeHash is a bcrypt hash. When empty, Passcode is hashed at startup.
	PasscodeHash string
	Passcode     string
	Delay        time.Duration
	// Cost is the bcrypt cost used when hashing Passcode.
	Cost int
}

// Authenticator checks credentials and tracks the session flag.
type Authenticator struct {
	store    service.Storage
	logger   *slog.Logger
	onlineID string
	hash     []byte
	delay    time.Duration
}

// New creates an Authenticator.
func New(store service.Storage, cfg Config, logger *slog.Logger) (*Authenticator, error) {
	if cfg.OnlineID == "" {
		return nil, fmt.Errorf("%w: online ID is required", common.ErrMissingConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	hash := []byte(cfg.PasscodeHash)
	if len(hash) == 0 {
		if cfg.Passcode == "" {
			return nil, fmt.Errorf("%w: passcode or passcode hash is required", common.ErrMissingConfig)
		}
		var err error
		hash, err = HashPasscode(cfg.Passcode, cfg.Cost)
		if err != nil {
			return nil, err
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("%w: passcode hash: %w", common.ErrInvalidConfig, err)
	}

	return &Authenticator{
		store:    store,
		logger:   logger,
		onlineID: cfg.OnlineID,
		hash:     hash,
		delay:    cfg.Delay,
	}, nil
}

// HashPasscode returns a bcrypt hash of passcode. A zero cost uses bcrypt.DefaultCost.
func HashPasscode(passcode string, cost int) ([]byte, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash passcode: %w", err)
	}
	return hash, nil
}

// Login waits for the simulated round trip, then checks the credentials and
// sets the session flag. Failures carry InvalidCredentialsMessage.
func (a *Authenticator) Login(ctx context.Context, onlineID, passcode string) error {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	idMatch := subtle.ConstantTimeCompare([]byte(onlineID), []byte(a.onlineID)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(passcode))
	if !idMatch || passErr != nil {
		a.logger.Info("Sign-in rejected")
		return common.NewUserError(InvalidCredentialsMessage, common.ErrInvalidCredentials)
	}

	if err := a.store.Put(ctx, storage.KeySession, "true"); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	a.logger.Info("Signed in")
	return nil
}

// LoggedIn reports whether the session flag is set.
func (a *Authenticator) LoggedIn(ctx context.Context) (bool, error) {
	v, err := a.store.Get(ctx, storage.KeySession)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// RequireSession returns ErrNotLoggedIn unless the session flag is set.
func (a *Authenticator) RequireSession(ctx context.Context) error {
	ok, err := a.LoggedIn(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewUserError("Please sign in first: teller login", common.ErrNotLoggedIn)
	}
	return nil
}

// Logout wipes all persisted state: balance, notifications, chat and the
// session flag. The next open reseeds defaults.
func (a *Authenticator) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	a.logger.Info("Signed out")
	return nil
}
