package keyboard

import (
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go-typefight/pkg/identity"
)

// Keystroke is a single captured key press
type Keystroke struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
}

// IsCharacter reports whether the key produces a single character,
// as opposed to named keys like "Escape" or "Shift".
func (k Keystroke) IsCharacter() bool {
	return utf8.RuneCountInString(k.Key) == 1
}

// Filter selects keystrokes. It receives the keystroke, its index and the full sequence.
type Filter func(keystroke Keystroke, index int, all []Keystroke) bool

// Log is the ordered, append-only keystroke log
type Log struct {
	clock      identity.Clock
	keystrokes []Keystroke
	version    uint64

	subscribers []func(Keystroke)
	subMutex    sync.Mutex
}

// NewLog creates an empty keystroke log stamping keys with the given clock
func NewLog(clock identity.Clock) *Log {
	return &Log{clock: clock}
}

// Stroke records a key press. Auto-repeat presses (the key held down) are
// ignored. Returns whether the key was recorded.
func (l *Log) Stroke(key string, repeat bool) bool {
	if repeat || key == "" {
		return false
	}
	keystroke := Keystroke{Key: key, Timestamp: l.clock.Now()}
	l.keystrokes = append(l.keystrokes, keystroke)
	l.version++

	l.subMutex.Lock()
	subscribers := slices.Clone(l.subscribers)
	l.subMutex.Unlock()
	for _, notify := range subscribers {
		notify(keystroke)
	}
	return true
}

// Keystrokes returns the full sequence. It must not be modified.
func (l *Log) Keystrokes() []Keystroke {
	return slices.Clip(l.keystrokes)
}

// Last returns the most recent keystroke
func (l *Log) Last() (Keystroke, bool) {
	if len(l.keystrokes) == 0 {
		return Keystroke{}, false
	}
	return l.keystrokes[len(l.keystrokes)-1], true
}

// Reset replaces the full sequence. Used in tests.
func (l *Log) Reset(keystrokes []Keystroke) {
	l.keystrokes = slices.Clone(keystrokes)
	l.version++
}

// Version changes every time the log changes
func (l *Log) Version() uint64 {
	return l.version
}

// Subscribe registers a callback invoked with every recorded keystroke
func (l *Log) Subscribe(notify func(Keystroke)) {
	l.subMutex.Lock()
	defer l.subMutex.Unlock()
	l.subscribers = append(l.subscribers, notify)
}

// Matching returns the keystrokes, among those selected by filter (all of them
// when nil), that currently progress toward word. See MatchSuffix.
func (l *Log) Matching(word string, filter Filter) []Keystroke {
	if filter == nil {
		return MatchSuffix(l.keystrokes, word)
	}
	selected := make([]Keystroke, 0, len(l.keystrokes))
	for i, keystroke := range l.keystrokes {
		if filter(keystroke, i, l.keystrokes) {
			selected = append(selected, keystroke)
		}
	}
	return MatchSuffix(selected, word)
}

// MatchSuffix finds the longest prefix of word that the typed text ends with
// and returns the keystrokes that typed it. Only character keys are considered.
// An empty result means the trailing input does not start the word at all.
func MatchSuffix(keystrokes []Keystroke, word string) []Keystroke {
	typed := make([]Keystroke, 0, len(keystrokes))
	var text strings.Builder
	for _, keystroke := range keystrokes {
		if keystroke.IsCharacter() {
			typed = append(typed, keystroke)
			text.WriteString(keystroke.Key)
		}
	}

	suffix := text.String()
	target := []rune(word)
	for k := len(target); k > 0; k-- {
		if k > len(typed) {
			continue
		}
		if strings.HasSuffix(suffix, string(target[:k])) {
			return slices.Clone(typed[len(typed)-k:])
		}
	}
	return []Keystroke{}
}
