package engine

import "time"

// frameKey identifies the inputs every derived value depends on. Two reads with
// the same key observe the same frame.
type frameKey struct {
	events uint64
	keys   uint64
	now    int64
}

// memo caches derived values for a single frame. Moving to a new frame drops
// everything at once, so nothing computed from stale inputs survives.
type memo struct {
	key    frameKey
	values map[string]any
}

func newFrameKey(events uint64, keys uint64, now time.Time) frameKey {
	return frameKey{events: events, keys: keys, now: now.UnixNano()}
}

func cached[T any](m *memo, key frameKey, name string, compute func() T) T {
	if m.values == nil || m.key != key {
		m.key = key
		m.values = make(map[string]any)
	}
	if value, ok := m.values[name]; ok {
		return value.(T)
	}
	value := compute()
	m.values[name] = value
	return value
}

// result pairs a cached value with the error computing it produced
type result[T any] struct {
	value T
	err   error
}

func cachedErr[T any](m *memo, key frameKey, name string, compute func() (T, error)) (T, error) {
	r := cached(m, key, name, func() result[T] {
		value, err := compute()
		return result[T]{value: value, err: err}
	})
	return r.value, r.err
}
