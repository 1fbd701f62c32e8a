package models

import "time"

// Customer is the persisted customer record
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     *string
	CreatedAt time.Time
}

// CustomerFilter holds filtering options for listing customers
type CustomerFilter struct {
	NameContains string
	CreatedAfter *time.Time
	Page         int
	PageSize     int
}

// HasPhone reports whether a non-empty phone number is set
func (c *Customer) HasPhone() bool {
	return c.Phone != nil && *c.Phone != ""
}
