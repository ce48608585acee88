// Package program implements the content-licensing instruction handlers.
// Every mutating instruction validates all of its preconditions and applies
// its writes inside a single Ledger.Update, so a rejected instruction leaves
// no observable change.
package program

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/internal/token"
	"github.com/mesh-intelligence/drm/pkg/types"
)

// DefaultLicenseTerm is how long a purchased license stays valid.
const DefaultLicenseTerm = 365 * 24 * time.Hour

// Payments moves the purchase price from buyer to content authority. It runs
// inside the purchase transaction; an error aborts the whole instruction.
type Payments interface {
	Transfer(tx types.Tx, payer, payee string, amount uint64) error
}

// Program executes instructions against a Ledger.
type Program struct {
	ledger      types.Ledger
	payments    Payments
	accounts    *token.Accounts
	logger      *zap.Logger
	now         func() time.Time
	licenseTerm time.Duration
}

// Option configures a Program.
type Option func(*Program)

// WithLogger sets the logger for committed and rejected instructions.
func WithLogger(l *zap.Logger) Option {
	return func(p *Program) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock replaces time.Now for record timestamps and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *Program) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLicenseTerm sets the validity period of new licenses. Zero issues
// licenses that never expire.
func WithLicenseTerm(d time.Duration) Option {
	return func(p *Program) {
		if d >= 0 {
			p.licenseTerm = d
		}
	}
}

// WithPayments replaces the token-account transfer used by PurchaseLicense.
func WithPayments(pm Payments) Option {
	return func(p *Program) {
		p.payments = pm
	}
}

// New returns a Program over ledger. The ledger must already be attached.
func New(ledger types.Ledger, opts ...Option) *Program {
	p := &Program{
		ledger:      ledger,
		logger:      zap.NewNop(),
		now:         time.Now,
		licenseTerm: DefaultLicenseTerm,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.accounts = token.NewAccounts(p.now)
	if p.payments == nil {
		p.payments = p.accounts
	}
	return p
}

// update runs fn as one instruction and logs the outcome.
func (p *Program) update(ctx context.Context, instruction string, fn func(tx types.Tx) error, fields ...zap.Field) error {
	fields = append(fields, zap.String("instruction", instruction))
	if err := p.ledger.Update(ctx, fn); err != nil {
		if types.IsRejection(err) {
			p.logger.Info("instruction rejected", append(fields, zap.Error(err))...)
		} else {
			p.logger.Warn("instruction failed", append(fields, zap.Error(err))...)
		}
		return err
	}
	p.logger.Info("instruction committed", fields...)
	return nil
}

// timestamp returns the current instruction time in UTC.
func (p *Program) timestamp() time.Time {
	return p.now().UTC()
}
