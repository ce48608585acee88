package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenAccountDebit(t *testing.T) {
	a := &TokenAccount{Owner: "buyer", Balance: 100}

	assert.ErrorIs(t, a.Debit(101), ErrInsufficientFunds)
	assert.Equal(t, uint64(100), a.Balance, "balance unchanged on error")

	assert.NoError(t, a.Debit(100))
	assert.Equal(t, uint64(0), a.Balance)
}

func TestTokenAccountCredit(t *testing.T) {
	a := &TokenAccount{Owner: "seller", Balance: math.MaxInt64 - 5}

	assert.NoError(t, a.Credit(5))
	assert.Equal(t, uint64(math.MaxInt64), a.Balance)

	assert.ErrorIs(t, a.Credit(1), ErrInvalidParameters)
	assert.Equal(t, uint64(math.MaxInt64), a.Balance)
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(ErrCapacityExceeded))
	assert.True(t, IsRejection(ErrNotFound))
	assert.False(t, IsRejection(ErrRetry))
	assert.False(t, IsRejection(ErrLedgerDetached))
	assert.False(t, IsRejection(nil))
}
