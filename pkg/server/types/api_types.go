package types

import (
	"encoding/json"

	"go-typefight/pkg/engine"
	"go-typefight/pkg/events"
)

// Message represents a WebSocket message
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Message types
const (
	MessageJoinRoom         = "JoinRoom"
	MessageJoinRoomResponse = "JoinRoomResponse"
	MessageKey              = "Key"
	MessageCommand          = "Command"
	MessageExitRoom         = "ExitRoom"
	MessageExitRoomResponse = "ExitRoomResponse"
	MessageGameState        = "GameState"
	MessageSpectators       = "Spectators"
	MessageError            = "ErrorMessage"
)

// Commands accepted in a Command message
const (
	CommandPlay   = "play"
	CommandPause  = "pause"
	CommandResume = "resume"
)

// JoinRoomRequest joins a room by id or by code
type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	Spectator  bool   `json:"spectator"`
}

type JoinRoomResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	RoomID     string `json:"roomId,omitempty"`
	RoomName   string `json:"roomName,omitempty"`
	RoomCode   string `json:"roomCode,omitempty"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
}

type KeyRequest struct {
	Key    string `json:"key"`    // Key name, a single character or a named key such as "Escape"
	Repeat bool   `json:"repeat"` // True for auto-repeat while the key is held
}

type CommandRequest struct {
	Name string `json:"name"`
}

// ExitRoomRequest is sent when a player wants to leave a room
type ExitRoomRequest struct {
}

type ExitRoomResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Reason is set when the server closed the room: "expired" or "deleted"
	Reason string `json:"reason,omitempty"`
}

// GameState is broadcast to every connection of a room after each tick
type GameState struct {
	RoomID   string          `json:"roomId"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

type SpectatorUpdate struct {
	Spectators []string `json:"spectators"`
}

// ErrorMessage is sent when an error occurs. Code carries the domain error
// code when there is one.
type ErrorMessage struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTP API

type CreateRoomRequest struct {
	RoomName       string  `json:"roomName"`
	TickIntervalMs int     `json:"tickIntervalMs,omitempty"`
	TickMultiplier float64 `json:"tickMultiplier,omitempty"`
}

type CreateRoomResponse struct {
	Success        bool    `json:"success"`
	Error          string  `json:"error,omitempty"`
	RoomID         string  `json:"roomId,omitempty"`
	RoomName       string  `json:"roomName,omitempty"`
	RoomCode       string  `json:"roomCode,omitempty"`
	TickIntervalMs int64   `json:"tickIntervalMs,omitempty"`
	TickMultiplier float64 `json:"tickMultiplier,omitempty"`
}

type RoomStateResponse struct {
	Success    bool             `json:"success"`
	Error      string           `json:"error,omitempty"`
	RoomID     string           `json:"roomId,omitempty"`
	RoomName   string           `json:"roomName,omitempty"`
	Players    int              `json:"players"`
	Spectators []string         `json:"spectators"`
	Snapshot   *engine.Snapshot `json:"snapshot,omitempty"`
}

type RoomEventsResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	RoomID  string           `json:"roomId,omitempty"`
	Events  []events.Emitted `json:"events"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
}
