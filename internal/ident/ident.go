// Package ident derives content-addressed identifiers.
package ident

import (
	"crypto/sha256"
	"encoding/hex"
)

// Separator follows every part; the unit separator control byte does not occur in normal text.
const Separator byte = 0x1f

// Length is the number of hex characters kept from the digest
const Length = 16

// StableID hashes the ordered parts and returns the first Length hex characters.
// Part order is significant.
func StableID(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{Separator})
	}
	return hex.EncodeToString(h.Sum(nil))[:Length]
}
