// Package identity groups customer records that refer to the same person.
//
// Records are linked when they share a normalized email, phone number or
// address. Links are transitive: if A shares an email with B and B shares a
// phone with C, all three resolve to one identity even though A and C have
// nothing in common directly.
package identity

import "cmp"

// Record is one customer row. Empty contact fields are treated as missing.
type Record[ID cmp.Ordered] struct {
	ID      ID
	Email   string
	Phone   string
	Address string
}

// Field returns the raw value of the given key kind.
func (r Record[ID]) Field(kind KeyKind) string {
	switch kind {
	case KindEmail:
		return r.Email
	case KindPhone:
		return r.Phone
	case KindAddress:
		return r.Address
	}
	return ""
}
