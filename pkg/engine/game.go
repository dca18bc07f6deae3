package engine

import (
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"go-typefight/pkg/events"
	"go-typefight/pkg/gameerrors"
	"go-typefight/pkg/identity"
	"go-typefight/pkg/keyboard"
)

// State is the lifecycle state of the active session
type State string

const (
	StateNotStarted State = "not_started"
	StatePlaying    State = "playing"
	StatePaused     State = "paused"
	StateOver       State = "over"
)

// Game is the session state machine. Nothing here is stored: paused, over and
// the elapsed game time are all read back from the active session.
type Game struct {
	config Config
	log    *events.Log
	keys   *keyboard.Log
	clock  identity.Clock
	logger *slog.Logger

	// now is pinned by every trigger: emits, keystrokes and clock syncs
	now  time.Time
	memo memo
}

// NewGame creates a Game over the given logs. It follows both logs to keep its
// notion of "now" current.
func NewGame(config Config, log *events.Log, keys *keyboard.Log, clock identity.Clock, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Game{
		config: config,
		log:    log,
		keys:   keys,
		clock:  clock,
		logger: logger.With("component", "game"),
		now:    clock.Now(),
	}
	log.Subscribe(func(batch []events.Emitted) {
		g.pin(batch[len(batch)-1].Timestamp)
	})
	keys.Subscribe(func(keystroke keyboard.Keystroke) {
		g.pin(keystroke.Timestamp)
	})
	return g
}

// SyncClock moves "now" to the current wall-clock time
func (g *Game) SyncClock() {
	g.pin(g.clock.Now())
}

func (g *Game) pin(t time.Time) {
	if t.After(g.now) {
		g.now = t
	}
}

// Now returns the instant the current frame is evaluated at
func (g *Game) Now() time.Time {
	return g.now
}

func (g *Game) frame() frameKey {
	return newFrameKey(g.log.Version(), g.keys.Version(), g.now)
}

// Session returns the active session
func (g *Game) Session() []events.Emitted {
	return g.log.ActiveSession()
}

// Damage is the total word length of the enemies that reached the player this session
func (g *Game) Damage() int {
	return cached(&g.memo, g.frame(), "damage", func() int {
		damage := 0
		for _, event := range g.Session() {
			if event.IsSourceHit() {
				damage += utf8.RuneCountInString(event.Hit.Source.Word)
			}
		}
		return damage
	})
}

// Over reports whether the enemies dealt enough damage to end the session
func (g *Game) Over() bool {
	return len(g.Session()) > 0 && g.Damage() >= g.config.MaxHealth
}

// DeathEvent returns the enemy hit that ended the session
func (g *Game) DeathEvent() (events.Emitted, bool) {
	if !g.Over() {
		return events.Emitted{}, false
	}
	session := g.Session()
	for i := len(session) - 1; i >= 0; i-- {
		if session[i].IsSourceHit() {
			return session[i], true
		}
	}
	return events.Emitted{}, false
}

// Paused reports whether the session is paused now
func (g *Game) Paused() bool {
	return g.IsPausedAt(g.now)
}

// State classifies the active session
func (g *Game) State() State {
	switch {
	case len(g.Session()) == 0:
		return StateNotStarted
	case g.Over():
		return StateOver
	case g.Paused():
		return StatePaused
	}
	return StatePlaying
}

// timeEvents returns the PLAY, PAUSE and RESUME events of the session, in order
func (g *Game) timeEvents() []events.Emitted {
	return cached(&g.memo, g.frame(), "timeEvents", func() []events.Emitted {
		var result []events.Emitted
		for _, event := range g.Session() {
			if event.Type.IsTime() {
				result = append(result, event)
			}
		}
		return result
	})
}

// IsPausedAt reports whether the session was paused at the given instant:
// the last time event at or before it is a PAUSE.
func (g *Game) IsPausedAt(t time.Time) bool {
	timeEvents := g.timeEvents()
	after := sort.Search(len(timeEvents), func(i int) bool {
		return timeEvents[i].Timestamp.After(t)
	})
	if after == 0 {
		return false
	}
	return timeEvents[after-1].Type == events.TypePause
}

// Play starts a new session, discarding the previous one. It always succeeds.
func (g *Game) Play() events.Emitted {
	event := g.log.Emit(events.Play())[0]
	g.logger.Debug("Session started", "event", event.ID)
	return event
}

// Pause pauses the session
func (g *Game) Pause() (events.Emitted, error) {
	if err := g.checkInProgress(); err != nil {
		return events.Emitted{}, err
	}
	if g.Paused() {
		return events.Emitted{}, gameerrors.ErrAlreadyPaused
	}
	event := g.log.Emit(events.Pause())[0]
	g.logger.Debug("Session paused", "event", event.ID)
	return event, nil
}

// Resume resumes a paused session
func (g *Game) Resume() (events.Emitted, error) {
	if err := g.checkInProgress(); err != nil {
		return events.Emitted{}, err
	}
	if !g.Paused() {
		return events.Emitted{}, gameerrors.ErrAlreadyResumed
	}
	event := g.log.Emit(events.Resume())[0]
	g.logger.Debug("Session resumed", "event", event.ID)
	return event, nil
}

func (g *Game) checkInProgress() error {
	if len(g.Session()) == 0 {
		return gameerrors.ErrNotInProgress
	}
	if g.Over() {
		return gameerrors.ErrGameOver
	}
	return nil
}

// ElapsedTimeSince returns the game time between target and limit, leaving out
// every pause in between. Without a limit it measures up to now, or up to the
// death event once the session is over.
func (g *Game) ElapsedTimeSince(target events.Emitted, limit *events.Emitted) (time.Duration, error) {
	session := g.Session()
	targetIndex := indexOf(session, target.ID)
	if targetIndex < 0 {
		return 0, gameerrors.ErrTargetEventNotInSession
	}
	if limit == nil {
		if death, over := g.DeathEvent(); over {
			limit = &death
		}
	}

	limitIndex := len(session)
	limitTime := g.now
	if limit != nil {
		limitIndex = indexOf(session, limit.ID)
		if limitIndex < 0 {
			return 0, gameerrors.ErrLimitEventNotInSession
		}
		limitTime = limit.Timestamp
	}

	elapsed := limitTime.Sub(target.Timestamp)
	var lastPause *events.Emitted
	for i := targetIndex; i < limitIndex; i++ {
		event := session[i]
		switch {
		case event.Type == events.TypePause:
			lastPause = &session[i]
		case event.Type == events.TypeResume && lastPause != nil:
			elapsed -= event.Timestamp.Sub(lastPause.Timestamp)
			lastPause = nil
		}
	}
	if lastPause != nil {
		elapsed -= limitTime.Sub(lastPause.Timestamp)
	}
	return elapsed, nil
}

// ElapsedTime returns the game time of the active session, frozen at the death
// event once the session is over.
func (g *Game) ElapsedTime() time.Duration {
	return cached(&g.memo, g.frame(), "elapsed", func() time.Duration {
		session := g.Session()
		if len(session) == 0 {
			return 0
		}
		elapsed, err := g.ElapsedTimeSince(session[0], nil)
		if err != nil {
			g.logger.Warn("Failed to compute elapsed time", "error", err)
			return 0
		}
		return elapsed
	})
}

// KeystrokesToPlay returns the progress toward the play word. Only keystrokes
// typed before the session started, or after it ended, count.
func (g *Game) KeystrokesToPlay() []keyboard.Keystroke {
	return cached(&g.memo, g.frame(), "keystrokesToPlay", func() []keyboard.Keystroke {
		session := g.Session()
		death, over := g.DeathEvent()
		return g.keys.Matching(g.config.PlayWord, func(k keyboard.Keystroke, _ int, _ []keyboard.Keystroke) bool {
			if over {
				return !k.Timestamp.Before(death.Timestamp)
			}
			return len(session) == 0 || !k.Timestamp.After(session[0].Timestamp)
		})
	})
}

// watchKeystrokes turns raw input into lifecycle transitions: typing the play
// word starts a session when none is running, the pause key toggles pause.
func (g *Game) watchKeystrokes() error {
	if len(g.Session()) == 0 || g.Over() {
		if len(g.KeystrokesToPlay()) == utf8.RuneCountInString(g.config.PlayWord) {
			g.Play()
		}
		return nil
	}

	last, ok := g.keys.Last()
	if !ok || last.Key != g.config.PauseKey {
		return nil
	}
	if !g.Paused() {
		_, err := g.Pause()
		return err
	}
	_, err := g.Resume()
	return err
}

func indexOf(session []events.Emitted, id string) int {
	for i := range session {
		if session[i].ID == id {
			return i
		}
	}
	return -1
}
