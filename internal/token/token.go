// Package token implements the payment token accounts that settle license
// purchases. Balances live in the ledger as TokenAccount records, so a
// transfer commits or rolls back together with the instruction that made it.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// Accounts moves token balances between ledger accounts.
type Accounts struct {
	now func() time.Time
}

// NewAccounts returns Accounts stamping updates with clock. A nil clock uses
// time.Now.
func NewAccounts(clock func() time.Time) *Accounts {
	if clock == nil {
		clock = time.Now
	}
	return &Accounts{now: clock}
}

// Transfer debits amount from payer and credits it to payee within tx.
// A missing or short payer account fails with ErrInsufficientFunds; the
// payee account is created on first credit. A zero amount is a no-op.
func (a *Accounts) Transfer(tx types.Tx, payer, payee string, amount uint64) error {
	if payer == "" || payee == "" {
		return types.ErrInvalidParameters
	}
	if amount == 0 {
		return nil
	}

	var from types.TokenAccount
	if err := tx.Get(types.TokenAccountAddress(payer), &from); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.ErrInsufficientFunds
		}
		return fmt.Errorf("loading payer account: %w", err)
	}
	if err := from.Debit(amount); err != nil {
		return err
	}
	from.UpdatedAt = a.now().UTC()
	if err := tx.Put(&from); err != nil {
		return fmt.Errorf("debiting payer: %w", err)
	}

	return a.credit(tx, payee, amount)
}

// Mint credits amount to owner, creating the account if needed.
func (a *Accounts) Mint(tx types.Tx, owner string, amount uint64) error {
	if owner == "" || amount == 0 {
		return types.ErrInvalidParameters
	}
	return a.credit(tx, owner, amount)
}

// Balance returns owner's balance. A missing account has balance zero.
func (a *Accounts) Balance(tx types.Tx, owner string) (uint64, error) {
	var acct types.TokenAccount
	err := tx.Get(types.TokenAccountAddress(owner), &acct)
	if errors.Is(err, types.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

func (a *Accounts) credit(tx types.Tx, owner string, amount uint64) error {
	var acct types.TokenAccount
	err := tx.Get(types.TokenAccountAddress(owner), &acct)
	switch {
	case errors.Is(err, types.ErrNotFound):
		acct = types.TokenAccount{Owner: owner}
		if err := acct.Credit(amount); err != nil {
			return err
		}
		acct.UpdatedAt = a.now().UTC()
		if err := tx.Create(&acct); err != nil {
			return fmt.Errorf("opening account for %s: %w", owner, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("loading account for %s: %w", owner, err)
	}

	if err := acct.Credit(amount); err != nil {
		return err
	}
	acct.UpdatedAt = a.now().UTC()
	if err := tx.Put(&acct); err != nil {
		return fmt.Errorf("crediting %s: %w", owner, err)
	}
	return nil
}
