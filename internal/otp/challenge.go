// Package otp implements the one-time passcode challenge that gates
// monetary actions, and the out-of-band delivery of its code.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/Veraticus/pocket-teller/internal/common"
)

// Length is the number of digits in a code.
const Length = 6

const (
	codeMin   = 100000
	codeRange = 900000
)

// CodeSource produces fresh six-digit codes.
type CodeSource interface {
	Code() (string, error)
}

// CodeSourceFunc adapts a function to CodeSource.
type CodeSourceFunc func() (string, error)

// Code calls f.
func (f CodeSourceFunc) Code() (string, error) {
	return f()
}

// RandomSource draws codes uniformly from 100000..999999 using crypto/rand.
// Consecutive codes are independent; repeats are possible.
type RandomSource struct{}

// Code returns a uniformly random code with no leading zero.
func (RandomSource) Code() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}

// Challenge collects digits for one code. The zero value is closed; call Open.
//
// The cursor runs 0..Length. Length means every slot has been written by a
// forward press and further presses are ignored; Cursor reports it as the
// last slot.
type Challenge struct {
	source   CodeSource
	expected string
	digits   [Length]string
	cursor   int
}

// NewChallenge returns a closed challenge drawing codes from source.
// A nil source uses RandomSource.
func NewChallenge(source CodeSource) *Challenge {
	if source == nil {
		source = RandomSource{}
	}
	return &Challenge{source: source}
}

// Open generates a fresh code, clears every slot and returns the code for delivery.
func (c *Challenge) Open() (string, error) {
	code, err := c.source.Code()
	if err != nil {
		return "", err
	}
	if !validCode(code) {
		return "", fmt.Errorf("code source produced invalid code %q", code)
	}
	c.expected = code
	c.reset()
	return code, nil
}

func validCode(code string) bool {
	if len(code) != Length || code[0] == '0' {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *Challenge) reset() {
	c.digits = [Length]string{}
	c.cursor = 0
}

// IsOpen reports whether a code has been generated.
func (c *Challenge) IsOpen() bool {
	return c.expected != ""
}

// PressDigit writes value at the cursor and advances. Presses after the last
// slot is filled, and non-digit values, are ignored. It reports whether the
// challenge changed.
func (c *Challenge) PressDigit(value string) bool {
	if c.cursor > Length-1 {
		return false
	}
	if len(value) != 1 || value[0] < '0' || value[0] > '9' {
		return false
	}
	c.digits[c.cursor] = value
	c.cursor++
	return true
}

// DeleteDigit clears the slot at the cursor. If that slot is already empty
// it backs up one slot (never below 0), clears it and moves the cursor there.
func (c *Challenge) DeleteDigit() {
	if c.cursor >= Length || c.digits[c.cursor] == "" {
		target := max(0, c.cursor-1)
		c.digits[target] = ""
		c.cursor = target
		return
	}
	c.digits[c.cursor] = ""
}

// Focus moves the cursor to slot i. Out-of-range indexes are ignored.
func (c *Challenge) Focus(i int) {
	if i < 0 || i >= Length {
		return
	}
	c.cursor = i
}

// Cursor returns the highlighted slot, 0..Length-1.
func (c *Challenge) Cursor() int {
	return min(c.cursor, Length-1)
}

// Digits returns a copy of the entered slots; empty strings are unfilled.
func (c *Challenge) Digits() [Length]string {
	return c.digits
}

// IsComplete reports whether every slot is filled.
func (c *Challenge) IsComplete() bool {
	for _, d := range c.digits {
		if d == "" {
			return false
		}
	}
	return true
}

// Verify compares the entered digits with the code. An incomplete entry
// returns ErrChallengeIncomplete without touching state. A mismatch clears
// the entry and returns ErrVerificationMismatch; the code stays valid.
func (c *Challenge) Verify() error {
	if !c.IsOpen() {
		return common.ErrNoChallenge
	}
	if !c.IsComplete() {
		return common.ErrChallengeIncomplete
	}
	if strings.Join(c.digits[:], "") != c.expected {
		c.reset()
		return common.ErrVerificationMismatch
	}
	return nil
}

// Close discards the code and entry.
func (c *Challenge) Close() {
	c.expected = ""
	c.reset()
}

// Snapshot is a read-only view of a challenge for presentation.
type Snapshot struct {
	Digits   [Length]string
	Cursor   int
	Complete bool
}

// Snapshot returns the current view.
func (c *Challenge) Snapshot() Snapshot {
	return Snapshot{Digits: c.digits, Cursor: c.Cursor(), Complete: c.IsComplete()}
}
