package fleet

import (
	"time"

	"github.com/google/uuid"
)

// Clock is the store's only source of the current time.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator mints ids for new entities.
type IDGenerator interface {
	New() string
}

// UUIDGenerator mints random (version 4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }
