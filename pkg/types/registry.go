package types

import "time"

// Registry is the singleton record holding global counters.
// Counters only ever increase.
type Registry struct {
	Authority     string    `json:"authority"`
	TotalContent  uint64    `json:"total_content"`
	TotalLicenses uint64    `json:"total_licenses"`
	TotalPackages uint64    `json:"total_packages"`
	CreatedAt     time.Time `json:"created_at"`
}

// Kind implements Record.
func (r *Registry) Kind() string { return KindRegistry }

// Address implements Record. The registry lives at a fixed address.
func (r *Registry) Address() Address { return RegistryAddress() }
