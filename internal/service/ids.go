package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SpotIDPrefix marks every server-generated spot id.
const SpotIDPrefix = "s_"

// IDGenerator produces unique spot ids.
type IDGenerator interface {
	NewID() (string, error)
}

// Clock supplies creation timestamps.
type Clock interface {
	Now() time.Time
}

// UUIDGenerator creates ids of the form s_<uuidv7>. UUIDv7 carries a
// millisecond timestamp followed by random bits, so ids sort by creation
// time and do not collide when several spots are created in the same
// millisecond.
type UUIDGenerator struct{}

// NewID returns a new prefixed UUIDv7 string.
func (UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid7: %w", err)
	}
	return SpotIDPrefix + id.String(), nil
}

// SystemClock implements Clock using time.Now in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
