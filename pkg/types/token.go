package types

import (
	"math"
	"time"
)

// TokenAccount holds a wallet's payment token balance in the smallest unit.
type TokenAccount struct {
	Owner     string    `json:"owner"`
	Balance   uint64    `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Kind implements Record.
func (a *TokenAccount) Kind() string { return KindTokenAccount }

// Address implements Record.
func (a *TokenAccount) Address() Address { return TokenAccountAddress(a.Owner) }

// Debit removes amount from the balance.
// Returns ErrInsufficientFunds if the balance is short.
func (a *TokenAccount) Debit(amount uint64) error {
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}

// Credit adds amount to the balance.
// Returns ErrInvalidParameters if the balance would exceed math.MaxInt64,
// the largest amount every backend can store.
func (a *TokenAccount) Credit(amount uint64) error {
	if amount > math.MaxInt64 || a.Balance > math.MaxInt64-amount {
		return ErrInvalidParameters
	}
	a.Balance += amount
	return nil
}
