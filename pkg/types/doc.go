// Package types defines the Ledger and Tx interfaces, the record types stored
// at deterministic addresses (registry, content, license, package, token
// account), and the standard errors for the content-licensing ledger.
package types
