package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// RoomManager tracks the live rooms. A room that sees no activity for the TTL
// is evicted, which stops its tick loop.
type RoomManager struct {
	rooms  *ttlcache.Cache[string, *GameRoom]
	logger *slog.Logger
}

func NewRoomManager(ttl time.Duration, logger *slog.Logger) *RoomManager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rooms := ttlcache.New[string, *GameRoom](
		ttlcache.WithTTL[string, *GameRoom](ttl),
		ttlcache.WithDisableTouchOnHit[string, *GameRoom](),
	)
	m := &RoomManager{
		rooms:  rooms,
		logger: logger.With("component", "rooms"),
	}
	rooms.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *GameRoom]) {
		item.Value().StopTickLoop()
		m.logger.Info("Removed game room", "room", item.Key(), "reason", evictionReason(reason))
	})
	go rooms.Start()
	return m
}

// OnEviction registers fn to run for every room leaving the registry, after its
// tick loop stopped. fn must not call back into the RoomManager.
func (s *RoomManager) OnEviction(fn func(room *GameRoom, reason string)) {
	s.rooms.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *GameRoom]) {
		fn(item.Value(), evictionReason(reason))
	})
}

// Stop stops the expiry loop and evicts every room
func (s *RoomManager) Stop() {
	s.rooms.Stop()
	s.rooms.DeleteAll()
}

func (s *RoomManager) AddGameRoom(room *GameRoom) {
	s.rooms.Set(room.ID, room, ttlcache.DefaultTTL)
}

func (s *RoomManager) RemoveGameRoom(roomID string) {
	s.rooms.Delete(roomID)
}

func (s *RoomManager) GetGameRoom(roomID string) (*GameRoom, bool) {
	item := s.rooms.Get(roomID)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Touch records activity in the room, pushing back its expiry
func (s *RoomManager) Touch(roomID string) {
	s.rooms.Touch(roomID)
}

func (s *RoomManager) GetNumberOfConnectedPlayers(roomID string) (int, bool) {
	room, exists := s.GetGameRoom(roomID)
	if !exists {
		return 0, false
	}
	return room.GetNumberOfConnectedPlayers(), true
}

func (s *RoomManager) GetGameRoomByCode(roomCode string) (*GameRoom, bool) {
	roomCode = strings.ToUpper(roomCode)

	var found *GameRoom
	s.rooms.Range(func(item *ttlcache.Item[string, *GameRoom]) bool {
		if item.Value().RoomCode == roomCode {
			found = item.Value()
			return false
		}
		return true
	})
	return found, found != nil
}

func (s *RoomManager) GetGameRoomIDs() []string {
	return s.rooms.Keys()
}

func (s *RoomManager) Len() int {
	return s.rooms.Len()
}

func evictionReason(reason ttlcache.EvictionReason) string {
	switch reason {
	case ttlcache.EvictionReasonExpired:
		return "expired"
	case ttlcache.EvictionReasonCapacityReached:
		return "capacity"
	case ttlcache.EvictionReasonDeleted:
		return "deleted"
	}
	return "unknown"
}
