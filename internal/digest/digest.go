// Package digest derives deterministic content identifiers.
//
// An identifier is the lowercase hex SHA-256 of a value's canonical string
// form. Identical content always yields the identical identifier, so ids
// double as primary keys without a central allocator.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Size is the length of an identifier in hex characters.
const Size = sha256.Size * 2

// Of returns the identifier of v.
// Strings and byte slices are hashed as-is; anything else is stringified
// with fmt.Sprint first.
func Of(v any) string {
	var b []byte
	switch x := v.(type) {
	case string:
		b = []byte(x)
	case []byte:
		b = x
	case fmt.Stringer:
		b = []byte(x.String())
	default:
		b = []byte(fmt.Sprint(x))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Join returns the identifier of the concatenation of parts.
func Join(parts ...string) string {
	return Of(strings.Join(parts, ""))
}

// fieldSeparator delimits parts in Fields so that ("ab", "c") and
// ("a", "bc") hash differently.
const fieldSeparator = "\x1f"

// Fields returns the identifier of parts joined by a unit separator.
func Fields(parts ...string) string {
	return Of(strings.Join(parts, fieldSeparator))
}

// Valid reports whether s has the shape of an identifier.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil && strings.ToLower(s) == s
}
