package events

import (
	"time"

	"go-typefight/pkg/geo"
)

// Type identifies the kind of a game event
type Type string

// Time events. They carry no payload and drive the session lifecycle.
const (
	TypePlay   Type = "PLAY"
	TypePause  Type = "PAUSE"
	TypeResume Type = "RESUME"
)

// Entity events
const (
	TypeSpawn Type = "SPAWN"
	TypeHit   Type = "HIT"
)

// IsTime reports whether the type is one of PLAY, PAUSE or RESUME
func (t Type) IsTime() bool {
	return t == TypePlay || t == TypePause || t == TypeResume
}

// Enemy is a word-labeled enemy. It never changes once spawned.
type Enemy struct {
	ID    string  `json:"id"`
	Word  string  `json:"word"`
	Speed float64 `json:"speed"`
}

func (e *Enemy) GetID() string   { return e.ID }
func (e *Enemy) SetID(id string) { e.ID = id }

// SpawnPayload is carried by SPAWN events
type SpawnPayload struct {
	Entity   Enemy        `json:"entity"`
	Position geo.Position `json:"position"`
}

// HitPayload is carried by HIT events. Exactly one of Source or Target is set:
// Source means the enemy reached the player, Target means the player killed it.
type HitPayload struct {
	Source *Enemy `json:"source,omitempty"`
	Target *Enemy `json:"target,omitempty"`
}

// Enemy returns whichever enemy the hit references
func (h *HitPayload) Enemy() *Enemy {
	if h.Source != nil {
		return h.Source
	}
	return h.Target
}

// Event is a raw game event, before it is emitted
type Event struct {
	Type  Type          `json:"type"`
	Spawn *SpawnPayload `json:"spawn,omitempty"`
	Hit   *HitPayload   `json:"hit,omitempty"`
}

// Emitted is an event once appended to the log
type Emitted struct {
	Event
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func Play() Event   { return Event{Type: TypePlay} }
func Pause() Event  { return Event{Type: TypePause} }
func Resume() Event { return Event{Type: TypeResume} }

// Spawn creates a SPAWN event for an enemy at a position
func Spawn(enemy Enemy, position geo.Position) Event {
	return Event{
		Type:  TypeSpawn,
		Spawn: &SpawnPayload{Entity: enemy, Position: position},
	}
}

// HitBySource creates a HIT event for an enemy that reached the player
func HitBySource(enemy Enemy) Event {
	return Event{
		Type: TypeHit,
		Hit:  &HitPayload{Source: &enemy},
	}
}

// HitOnTarget creates a HIT event for an enemy the player typed down
func HitOnTarget(enemy Enemy) Event {
	return Event{
		Type: TypeHit,
		Hit:  &HitPayload{Target: &enemy},
	}
}

// IsSourceHit reports whether this is a HIT dealt by an enemy to the player
func (e Event) IsSourceHit() bool {
	return e.Type == TypeHit && e.Hit != nil && e.Hit.Source != nil
}

// IsTargetHit reports whether this is a HIT dealt by the player to an enemy
func (e Event) IsTargetHit() bool {
	return e.Type == TypeHit && e.Hit != nil && e.Hit.Target != nil
}

// References reports whether the event is a SPAWN or HIT naming the enemy
func (e Event) References(enemyID string) bool {
	switch e.Type {
	case TypeSpawn:
		return e.Spawn != nil && e.Spawn.Entity.ID == enemyID
	case TypeHit:
		return e.Hit != nil && e.Hit.Enemy() != nil && e.Hit.Enemy().ID == enemyID
	}
	return false
}
