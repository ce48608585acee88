package types

import "time"

// Content is a piece of protected content whose access is sold as licenses.
// ContentID and ContentHash are immutable after creation.
type Content struct {
	Authority       string    `json:"authority"`
	ContentID       string    `json:"content_id"`
	ContentHash     string    `json:"content_hash"`
	Price           uint64    `json:"price"`
	MaxLicenses     uint32    `json:"max_licenses"`
	CurrentLicenses uint32    `json:"current_licenses"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Kind implements Record.
func (c *Content) Kind() string { return KindContent }

// Address implements Record.
func (c *Content) Address() Address { return ContentAddress(c.ContentID) }

// Reserve takes one license slot.
// Returns ErrContentInactive if the content is deactivated and
// ErrCapacityExceeded if every slot is taken. The record is unchanged on error.
func (c *Content) Reserve() error {
	if !c.IsActive {
		return ErrContentInactive
	}
	if c.CurrentLicenses >= c.MaxLicenses {
		return ErrCapacityExceeded
	}
	c.CurrentLicenses++
	return nil
}

// Release frees one license slot. CurrentLicenses never drops below zero.
func (c *Content) Release() {
	if c.CurrentLicenses > 0 {
		c.CurrentLicenses--
	}
}

// SetMaxLicenses changes the capacity ceiling.
// Returns ErrInvalidCapacity if n is below the active license count.
func (c *Content) SetMaxLicenses(n uint32) error {
	if n < c.CurrentLicenses {
		return ErrInvalidCapacity
	}
	c.MaxLicenses = n
	return nil
}
