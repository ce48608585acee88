// Table layout shared by the schema, the JSONL loader, and the JSONL writer.
package sqlite

import "github.com/mesh-intelligence/drm/pkg/types"

// tableSpec describes how one record kind is laid out on disk.
type tableSpec struct {
	kind    string   // record kind (types.Kind*)
	table   string   // SQLite table name
	file    string   // JSONL file in DataDir
	columns []string // columns in SELECT/INSERT order
}

// tableSpecs lists every table in load order. Tables referenced by foreign
// keys load before the tables that reference them.
var tableSpecs = []tableSpec{
	{
		kind:    types.KindRegistry,
		table:   "registry",
		file:    "registry.jsonl",
		columns: []string{"address", "authority", "total_content", "total_licenses", "total_packages", "created_at"},
	},
	{
		kind:    types.KindContent,
		table:   "contents",
		file:    "contents.jsonl",
		columns: []string{"address", "content_id", "authority", "content_hash", "price", "max_licenses", "current_licenses", "is_active", "created_at", "updated_at"},
	},
	{
		kind:    types.KindLicense,
		table:   "licenses",
		file:    "licenses.jsonl",
		columns: []string{"address", "license_id", "authority", "owner", "content", "is_active", "purchased_at", "expires_at", "revoked_at"},
	},
	{
		kind:    types.KindPackage,
		table:   "packages",
		file:    "packages.jsonl",
		columns: []string{"address", "package_name", "authority", "drm_type", "nft_mint_addresses", "token_mint_address", "min_token_amount", "is_active", "created_at", "updated_at"},
	},
	{
		kind:    types.KindTokenAccount,
		table:   "token_accounts",
		file:    "token_accounts.jsonl",
		columns: []string{"address", "owner", "balance", "updated_at"},
	},
}

// specForKind returns the tableSpec for kind.
func specForKind(kind string) (tableSpec, bool) {
	for _, s := range tableSpecs {
		if s.kind == kind {
			return s, true
		}
	}
	return tableSpec{}, false
}
