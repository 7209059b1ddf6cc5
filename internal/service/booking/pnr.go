package booking

import (
	"strings"

	"github.com/google/uuid"
)

const pnrTokenLength = 8

// PNRGenerator returns a new booking reference on every call.
type PNRGenerator func() string

// NewPNRGenerator builds references as prefix plus the first eight characters
// of a random UUID, upper-cased. Uniqueness is enforced by the store, not here.
func NewPNRGenerator(prefix string) PNRGenerator {
	return func() string {
		token := strings.ReplaceAll(uuid.NewString(), "-", "")
		return prefix + strings.ToUpper(token[:pnrTokenLength])
	}
}
