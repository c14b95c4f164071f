package entities

import (
	"regexp"
	"strings"
	"time"
)

// DepositStatus is the settlement state of a fiat deposit intent.
type DepositStatus string

const (
	DepositStatusPending    DepositStatus = "pending"
	DepositStatusConfirming DepositStatus = "confirming"
	DepositStatusConfirmed  DepositStatus = "confirmed"
	DepositStatusFailed     DepositStatus = "failed"
)

// ValidDepositStatus reports whether s is one of the enumerated deposit statuses.
func ValidDepositStatus(s string) bool {
	switch DepositStatus(s) {
	case DepositStatusPending, DepositStatusConfirming, DepositStatusConfirmed, DepositStatusFailed:
		return true
	}
	return false
}

// NextAction advises the client what to do with a deposit.
type NextAction string

const (
	NextActionMintAvailable  NextAction = "mint_available"
	NextActionContactSupport NextAction = "contact_support"
	NextActionWaitForBank    NextAction = "wait_for_bank"
)

// Deposit represents a fiat deposit intent and its progress toward
// mint eligibility.
type Deposit struct {
	ID            string        `json:"id"`
	Address       string        `json:"address"`
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Status        DepositStatus `json:"status"`
	ReadyToMint   bool          `json:"readyToMint"`
	Confirmations int64         `json:"confirmations"`
	Notes         string        `json:"notes,omitempty"`
	FiatRefID     string        `json:"fiatRefId,omitempty"`
	ChainTxHash   string        `json:"chainTxHash,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Terminal reports whether the deposit can no longer change on its own.
func (d Deposit) Terminal() bool {
	return d.Status == DepositStatusConfirmed || d.Status == DepositStatusFailed
}

// Advance applies the lazy auto-confirmation rule: a pending or confirming
// deposit older than the confirmation window becomes confirmed and
// mint-eligible. Pure with respect to the clock; callers pass now and hold
// whatever lock guards the record. Returns true if the record changed.
func Advance(d *Deposit, now time.Time, window time.Duration) bool {
	if d.Status != DepositStatusPending && d.Status != DepositStatusConfirming {
		return false
	}
	if now.Sub(d.CreatedAt) < window {
		return false
	}

	d.Status = DepositStatusConfirmed
	d.ReadyToMint = true
	d.Confirmations++
	d.UpdatedAt = now
	return true
}

// NextActionFor derives the advisory action for a deposit.
func NextActionFor(d Deposit) NextAction {
	switch {
	case d.ReadyToMint:
		return NextActionMintAvailable
	case d.Status == DepositStatusFailed:
		return NextActionContactSupport
	default:
		return NextActionWaitForBank
	}
}

// amountPattern accepts an unsigned decimal with up to 18 fractional digits.
var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,18})?$`)

// ValidAmount reports whether s is a well-formed, strictly positive
// deposit amount.
func ValidAmount(s string) bool {
	if !amountPattern.MatchString(s) {
		return false
	}
	// Reject zero in any spelling ("0", "0.000", ...).
	return strings.ContainsAny(s, "123456789")
}
