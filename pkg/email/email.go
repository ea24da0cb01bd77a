// Package email holds small helpers for recipient email addresses.
package email

import "net/mail"

// Valid reports whether addr parses as a bare RFC 5322 address. Recipients
// are keyed by email, so malformed addresses are rejected at the boundary.
func Valid(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
