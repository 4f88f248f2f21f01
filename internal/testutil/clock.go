package testutil

import (
	"strconv"
	"sync"
	"time"
)

// Monday is the instant FixedClock starts at: Monday 2024-01-15 10:30 UTC.
// Plates ending in 1 or 2 are under rodízio that day.
var Monday = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

// StubClock is a manually advanced fleet.Clock. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock starting at Monday.
func FixedClock() *StubClock {
	return NewStubClock(Monday)
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// StubIDGenerator hands out "id-1", "id-2", and so on.
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "id-" + strconv.Itoa(g.next)
}
