// This file maps token accounts to and from rows of the token_accounts table.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func tokenAccountValues(a *types.TokenAccount) []any {
	return []any{
		string(a.Address()),
		a.Owner,
		int64(a.Balance),
		formatTime(a.UpdatedAt),
	}
}

func scanTokenAccount(row rowScanner, a *types.TokenAccount) error {
	var (
		addr, updatedAt string
		balance         int64
	)
	if err := row.Scan(&addr, &a.Owner, &balance, &updatedAt); err != nil {
		return err
	}
	t, err := parseTime(updatedAt)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	a.Balance = uint64(balance)
	a.UpdatedAt = t
	return nil
}
