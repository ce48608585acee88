// Package sqlite implements the SQLite backend for the content-licensing ledger.
package sqlite

// Schema DDL for all record tables. Every table is keyed by the derived
// address; natural identifiers carry a UNIQUE constraint as well.
const (
	createRegistry = `CREATE TABLE registry (
    address TEXT PRIMARY KEY,
    authority TEXT NOT NULL,
    total_content INTEGER NOT NULL,
    total_licenses INTEGER NOT NULL,
    total_packages INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createContents = `CREATE TABLE contents (
    address TEXT PRIMARY KEY,
    content_id TEXT NOT NULL UNIQUE,
    authority TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    price INTEGER NOT NULL,
    max_licenses INTEGER NOT NULL,
    current_licenses INTEGER NOT NULL,
    is_active INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createLicenses = `CREATE TABLE licenses (
    address TEXT PRIMARY KEY,
    license_id TEXT NOT NULL UNIQUE,
    authority TEXT NOT NULL,
    owner TEXT NOT NULL,
    content TEXT NOT NULL,
    is_active INTEGER NOT NULL,
    purchased_at TEXT NOT NULL,
    expires_at TEXT,
    revoked_at TEXT,
    FOREIGN KEY (content) REFERENCES contents(address)
);`

	createPackages = `CREATE TABLE packages (
    address TEXT PRIMARY KEY,
    package_name TEXT NOT NULL UNIQUE,
    authority TEXT NOT NULL,
    drm_type TEXT NOT NULL,
    nft_mint_addresses TEXT NOT NULL,
    token_mint_address TEXT,
    min_token_amount INTEGER,
    is_active INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTokenAccounts = `CREATE TABLE token_accounts (
    address TEXT PRIMARY KEY,
    owner TEXT NOT NULL UNIQUE,
    balance INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Index DDL for common listing queries.
const (
	idxContentsAuthority = `CREATE INDEX idx_contents_authority ON contents(authority);`
	idxLicensesOwner     = `CREATE INDEX idx_licenses_owner ON licenses(owner);`
	idxLicensesContent   = `CREATE INDEX idx_licenses_content ON licenses(content);`
	idxPackagesAuthority = `CREATE INDEX idx_packages_authority ON packages(authority);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createRegistry,
	createContents,
	createLicenses,
	createPackages,
	createTokenAccounts,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxContentsAuthority,
	idxLicensesOwner,
	idxLicensesContent,
	idxPackagesAuthority,
}
