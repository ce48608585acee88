// This file maps content records to and from rows of the contents table.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func contentValues(c *types.Content) []any {
	return []any{
		string(c.Address()),
		c.ContentID,
		c.Authority,
		c.ContentHash,
		int64(c.Price),
		int64(c.MaxLicenses),
		int64(c.CurrentLicenses),
		boolInt(c.IsActive),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	}
}

func scanContent(row rowScanner, c *types.Content) error {
	var (
		addr                  string
		price, maxLic, curLic int64
		isActive              int64
		createdAt, updatedAt  string
	)
	if err := row.Scan(
		&addr, &c.ContentID, &c.Authority, &c.ContentHash,
		&price, &maxLic, &curLic, &isActive, &createdAt, &updatedAt,
	); err != nil {
		return err
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	updated, err := parseTime(updatedAt)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	c.Price = uint64(price)
	c.MaxLicenses = uint32(maxLic)
	c.CurrentLicenses = uint32(curLic)
	c.IsActive = isActive != 0
	c.CreatedAt = created
	c.UpdatedAt = updated
	return nil
}
