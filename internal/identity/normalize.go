package identity

import (
	"strings"
	"unicode"
)

// KeyKind names a contact attribute that can link two records.
type KeyKind string

const (
	KindEmail   KeyKind = "email"
	KindPhone   KeyKind = "phone"
	KindAddress KeyKind = "address"
)

// Kinds lists the key kinds in the order they are evaluated per record.
var Kinds = []KeyKind{KindEmail, KindPhone, KindAddress}

// NormalizeEmail lowercases and trims the provided email. Blank values are absent.
func NormalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", false
	}
	return email, true
}

// NormalizePhone keeps only the decimal digits of raw, in any script.
func NormalizePhone(raw string) (string, bool) {
	var sb strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "", false
	}
	return sb.String(), true
}

// NormalizeAddress trims and lowercases an address. Punctuation and
// abbreviations are left alone, so "Main St" and "Main Street" stay distinct.
func NormalizeAddress(raw string) (string, bool) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if addr == "" {
		return "", false
	}
	return addr, true
}

// Normalize dispatches on kind. Unknown kinds are always absent.
func Normalize(kind KeyKind, raw string) (string, bool) {
	switch kind {
	case KindEmail:
		return NormalizeEmail(raw)
	case KindPhone:
		return NormalizePhone(raw)
	case KindAddress:
		return NormalizeAddress(raw)
	default:
		return "", false
	}
}
