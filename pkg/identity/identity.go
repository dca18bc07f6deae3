package identity

import (
	"fmt"
	"sync"
	"time"

	"go-typefight/pkg/gameerrors"

	"github.com/google/uuid"
)

// Clock provides the current wall-clock time
type Clock interface {
	Now() time.Time
}

// IDGenerator issues unique identifiers
type IDGenerator interface {
	NewID() string
}

// Identifiable is an entity that carries an identity field
type Identifiable interface {
	GetID() string
	SetID(id string)
}

// SystemClock reads the real wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// UUIDGenerator issues random v4 UUIDs
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// Assign gives the entity a fresh identity. Entities that already carry one are rejected.
func Assign(entity Identifiable, ids IDGenerator) error {
	if existing := entity.GetID(); existing != "" {
		return gameerrors.WithMetadata(
			gameerrors.CodeDuplicateIdentity,
			"the given payload already has an id",
			map[string]string{"id": existing},
		)
	}
	entity.SetID(ids.NewID())
	return nil
}

// ManualClock is a Clock that only moves when told to
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a ManualClock set to the given time
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to an absolute time
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// SequentialIDs issues predictable ids: u-u-i-d-1, u-u-i-d-2, ...
type SequentialIDs struct {
	mu      sync.Mutex
	counter int
}

func (s *SequentialIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return fmt.Sprintf("u-u-i-d-%d", s.counter)
}

// Issued returns how many ids have been handed out
func (s *SequentialIDs) Issued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}
