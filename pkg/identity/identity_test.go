package identity

import (
	"errors"
	"testing"
	"time"

	"go-typefight/pkg/gameerrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entity struct {
	ID string
}

func (e *entity) GetID() string   { return e.ID }
func (e *entity) SetID(id string) { e.ID = id }

func TestAssign(t *testing.T) {
	ids := &SequentialIDs{}

	e := &entity{}
	require.NoError(t, Assign(e, ids))
	assert.Equal(t, "u-u-i-d-1", e.ID)

	err := Assign(e, ids)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gameerrors.ErrDuplicateIdentity))
	assert.Equal(t, "u-u-i-d-1", e.ID)
	assert.Equal(t, 1, ids.Issued())
}

func TestUUIDGenerator(t *testing.T) {
	gen := UUIDGenerator{}
	first := gen.NewID()
	second := gen.NewID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestManualClock(t *testing.T) {
	start := time.UnixMilli(0)
	clock := NewManualClock(start)
	assert.Equal(t, start, clock.Now())

	clock.Advance(5 * time.Second)
	assert.Equal(t, start.Add(5*time.Second), clock.Now())

	clock.Set(time.UnixMilli(42))
	assert.Equal(t, time.UnixMilli(42), clock.Now())
}
