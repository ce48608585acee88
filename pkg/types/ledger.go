package types

import (
	"context"
	"errors"
)

// Ledger defines the interface for backend-agnostic account storage.
// Callers attach to a backend, run instructions inside View or Update, and
// detach when done.
type Ledger interface {
	// Attach connects the Ledger to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrLedgerDetached.
	Detach() error

	// View runs fn inside a read-only transaction. Create and Put on the
	// supplied Tx return ErrReadOnly.
	View(ctx context.Context, fn func(tx Tx) error) error

	// Update runs fn inside a read-write transaction. Either every write made
	// through the Tx commits, or none does. A non-nil error from fn aborts
	// the transaction. Returns ErrRetry when a concurrent writer touched a
	// record that fn read.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// Fetch returns all records of the given kind matching the filter,
	// as pointers to the concrete record struct. An empty filter returns
	// every record of the kind.
	Fetch(ctx context.Context, kind string, filter Filter) ([]any, error)
}

// Tx is the view of the account store available to a single instruction.
type Tx interface {
	// Get loads the record stored at addr into dst.
	// Returns ErrNotFound if no record of dst's kind exists at addr.
	Get(addr Address, dst Record) error

	// Create stores a new record at rec.Address().
	// Returns ErrAddressInUse if the address is already occupied.
	Create(rec Record) error

	// Put overwrites the record at rec.Address().
	// Returns ErrNotFound if the address holds no record.
	Put(rec Record) error
}

// Filter selects records in Ledger.Fetch. Keys are record field names in
// snake_case; values are strings or bools.
type Filter map[string]any

// Ledger lifecycle errors.
var (
	ErrLedgerDetached  = errors.New("ledger is detached")
	ErrAlreadyAttached = errors.New("ledger is already attached")
	ErrReadOnly        = errors.New("transaction is read-only")
)

// Store operation errors.
var (
	ErrAddressInUse  = errors.New("address already in use")
	ErrInvalidData   = errors.New("invalid record data")
	ErrInvalidFilter = errors.New("invalid filter value type")
	ErrKindNotFound  = errors.New("record kind not found")
	ErrRetry         = errors.New("transaction conflicted with a concurrent writer; resubmit")
)
