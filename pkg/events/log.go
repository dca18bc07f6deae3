package events

import (
	"slices"
	"sync"

	"go-typefight/pkg/identity"
)

// Log is the append-only event store. It is the single source of truth of a game:
// every other value is derived from it.
type Log struct {
	clock identity.Clock
	ids   identity.IDGenerator

	emitted []Emitted
	// index of the most recent PLAY, -1 when there is none
	lastPlay int
	version  uint64

	subscribers []func([]Emitted)
	subMutex    sync.Mutex
}

// NewLog creates an empty log stamping events with the given clock and ids
func NewLog(clock identity.Clock, ids identity.IDGenerator) *Log {
	return &Log{
		clock:    clock,
		ids:      ids,
		lastPlay: -1,
	}
}

// Emit stamps the events with one shared timestamp and fresh ids, in order,
// appends them and returns them.
func (l *Log) Emit(events ...Event) []Emitted {
	timestamp := l.clock.Now()
	batch := make([]Emitted, 0, len(events))
	for _, event := range events {
		batch = append(batch, Emitted{
			Event:     event,
			ID:        l.ids.NewID(),
			Timestamp: timestamp,
		})
	}
	if len(batch) == 0 {
		return batch
	}

	offset := len(l.emitted)
	l.emitted = append(l.emitted, batch...)
	for i, event := range batch {
		if event.Type == TypePlay {
			l.lastPlay = offset + i
		}
	}
	l.version++

	l.subMutex.Lock()
	subscribers := slices.Clone(l.subscribers)
	l.subMutex.Unlock()
	for _, notify := range subscribers {
		notify(batch)
	}
	return batch
}

// Events returns a copy of the full history
func (l *Log) Events() []Emitted {
	return slices.Clone(l.emitted)
}

// Len returns the number of events ever emitted
func (l *Log) Len() int {
	return len(l.emitted)
}

// Reset replaces the full history. Used to bootstrap sessions and in tests.
func (l *Log) Reset(emitted []Emitted) {
	l.emitted = slices.Clone(emitted)
	l.lastPlay = -1
	for i, event := range l.emitted {
		if event.Type == TypePlay {
			l.lastPlay = i
		}
	}
	l.version++
}

// ActiveSession returns the events from the most recent PLAY onward, or nothing
// if no PLAY was ever emitted. The returned slice must not be modified.
func (l *Log) ActiveSession() []Emitted {
	if l.lastPlay < 0 {
		return nil
	}
	return slices.Clip(l.emitted[l.lastPlay:])
}

// Version changes every time the log changes
func (l *Log) Version() uint64 {
	return l.version
}

// Subscribe registers a callback invoked with every appended batch
func (l *Log) Subscribe(notify func([]Emitted)) {
	l.subMutex.Lock()
	defer l.subMutex.Unlock()
	l.subscribers = append(l.subscribers, notify)
}
