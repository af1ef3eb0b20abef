// Package slug generates the opaque public tokens printed on pet identity
// cards. A slug is the hex form of a random UUID: 32 characters, no
// separators, assigned once at pet creation and never regenerated.
package slug

import (
	"strings"

	"github.com/google/uuid"
)

// Length of a QR slug in characters.
const Length = 32

// New returns a fresh 32-character token. Uniqueness is enforced by the
// store; callers retry on collision.
func New() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Valid reports whether s has the shape of a QR slug.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
