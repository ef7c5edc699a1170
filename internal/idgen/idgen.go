// Package idgen generates the delivery IDs stamped on dispatched events so a
// receiving workflow can be correlated with the run that sent it.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DeliveryPrefix is prepended to every delivery ID.
const DeliveryPrefix = "rly-"

// alphabet is lowercase only so IDs survive case-insensitive log search.
const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated (excluding the prefix).
const Length = 12

// Func produces a new ID. Dispatchers take one so tests can make IDs predictable.
type Func func() (string, error)

// DeliveryID returns a new delivery ID.
func DeliveryID() (string, error) {
	return WithPrefix(DeliveryPrefix)
}

// WithPrefix returns a new ID with the given prefix.
func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Sequence returns a Func yielding prefix+"1", prefix+"2", and so on.
func Sequence(prefix string) Func {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s%d", prefix, n), nil
	}
}
