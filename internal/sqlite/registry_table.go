// This file maps the registry record to and from its SQLite row.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func registryValues(r *types.Registry) []any {
	return []any{
		string(r.Address()),
		r.Authority,
		int64(r.TotalContent),
		int64(r.TotalLicenses),
		int64(r.TotalPackages),
		formatTime(r.CreatedAt),
	}
}

func scanRegistry(row rowScanner, r *types.Registry) error {
	var (
		addr                   string
		totalContent, totalLic int64
		totalPackages          int64
		createdAt              string
	)
	if err := row.Scan(&addr, &r.Authority, &totalContent, &totalLic, &totalPackages, &createdAt); err != nil {
		return err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	r.TotalContent = uint64(totalContent)
	r.TotalLicenses = uint64(totalLic)
	r.TotalPackages = uint64(totalPackages)
	r.CreatedAt = t
	return nil
}
