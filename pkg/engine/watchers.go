package engine

import (
	"log/slog"
	"sort"
	"sync"

	"go-typefight/pkg/constants"
	"go-typefight/pkg/events"
)

// Trigger identifies what moved the inputs of the derived values
type Trigger string

const (
	// TriggerEmit fires after events were appended to the log
	TriggerEmit Trigger = "emit"
	// TriggerKeystroke fires after a keystroke was recorded
	TriggerKeystroke Trigger = "keystroke"
	// TriggerTick fires after the clock moved "now" forward
	TriggerTick Trigger = "tick"
)

// Watcher reacts to a trigger once the derived values reflect it. Watchers may
// emit events; those emits become the input of the next dispatch round.
type Watcher struct {
	Name     string
	Priority int
	Run      func() error
}

// DispatchResult summarizes one dispatch
type DispatchResult struct {
	Rounds  int
	Emitted int
	// Truncated is set when watchers were still emitting after the last round
	Truncated bool
	Errors    []error
}

// WatcherManager runs the watchers subscribed to each trigger
type WatcherManager struct {
	log       *events.Log
	logger    *slog.Logger
	maxRounds int

	// Map of Trigger -> watchers, highest priority first
	subscribed map[Trigger][]Watcher
	mutex      sync.RWMutex
}

// NewWatcherManager creates a WatcherManager that bounds cascades to maxRounds
// rounds (constants.MaxDispatchRounds when zero).
func NewWatcherManager(log *events.Log, logger *slog.Logger, maxRounds int) *WatcherManager {
	if maxRounds <= 0 {
		maxRounds = constants.MaxDispatchRounds
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &WatcherManager{
		log:        log,
		logger:     logger.With("component", "watchers"),
		maxRounds:  maxRounds,
		subscribed: make(map[Trigger][]Watcher),
	}
}

// Subscribe adds a watcher for each of the given triggers
func (m *WatcherManager) Subscribe(watcher Watcher, triggers ...Trigger) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, trigger := range triggers {
		watchers := append(m.subscribed[trigger], watcher)
		sort.SliceStable(watchers, func(i, j int) bool {
			return watchers[i].Priority > watchers[j].Priority
		})
		m.subscribed[trigger] = watchers
	}
}

// Unsubscribe removes the named watcher from every trigger
func (m *WatcherManager) Unsubscribe(name string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for trigger, watchers := range m.subscribed {
		kept := watchers[:0]
		for _, watcher := range watchers {
			if watcher.Name != name {
				kept = append(kept, watcher)
			}
		}
		if len(kept) == 0 {
			delete(m.subscribed, trigger)
			continue
		}
		m.subscribed[trigger] = kept
	}
}

// Dispatch runs the watchers of the trigger. If they emit, the emit watchers run
// in a further round, up to the round limit.
func (m *WatcherManager) Dispatch(trigger Trigger) DispatchResult {
	result := DispatchResult{}
	current := trigger

	for result.Rounds < m.maxRounds {
		m.mutex.RLock()
		watchers := m.subscribed[current]
		m.mutex.RUnlock()

		result.Rounds++
		before := m.log.Len()
		for _, watcher := range watchers {
			if err := watcher.Run(); err != nil {
				m.logger.Warn("Watcher failed", "watcher", watcher.Name, "trigger", current, "error", err)
				result.Errors = append(result.Errors, err)
			}
		}

		emitted := m.log.Len() - before
		if emitted <= 0 {
			return result
		}
		result.Emitted += emitted
		current = TriggerEmit
	}

	result.Truncated = true
	m.logger.Warn("Dispatch stopped before settling", "trigger", trigger, "rounds", result.Rounds)
	return result
}
