// Package classhash handles Starknet class hash parsing and normalization.
package classhash

import (
	"fmt"
	"regexp"
	"strings"
)

// A class hash is a 0x-prefixed hex string of at most 64 digits (66 chars total).
var hashRegex = regexp.MustCompile(`^0x[a-fA-F0-9]+$`)

const maxLen = 66

// InvalidError reports a malformed class hash, carrying the rejected input.
type InvalidError struct {
	Input string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid class hash %q: must be 0x followed by up to 64 hex digits", e.Input)
}

// Hash is a validated Starknet class hash.
type Hash struct {
	raw string
}

// Parse validates the input and returns a Hash.
func Parse(s string) (Hash, error) {
	if len(s) > maxLen || !hashRegex.MatchString(s) {
		return Hash{}, &InvalidError{Input: s}
	}
	return Hash{raw: s}, nil
}

// String returns the hash as it was supplied.
func (h Hash) String() string {
	return h.raw
}

// Normalized returns the hash with the hex part lowercased and
// left-padded with zeros to the full 64 digits.
func (h Hash) Normalized() string {
	hex := strings.ToLower(strings.TrimPrefix(h.raw, "0x"))
	if pad := 64 - len(hex); pad > 0 {
		hex = strings.Repeat("0", pad) + hex
	}
	return "0x" + hex
}
