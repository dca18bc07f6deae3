package server

import (
	"encoding/json"

	"go-typefight/pkg/gameerrors"
	"go-typefight/pkg/server/types"
	"go-typefight/pkg/util"
)

// CodeRateLimited is reported when a connection sends keystrokes too fast
const CodeRateLimited = "RATE_LIMITED"

// handleJoinRoom handles a player or spectator joining a room
func (s *Server) handleJoinRoom(conn *Connection, req types.JoinRoomRequest) {
	// Leave the current room first
	if conn.RoomID != "" {
		if oldRoom, exists := s.roomManager.GetGameRoom(conn.RoomID); exists {
			s.logger.Debug("handleJoinRoom: leaving previous room", "connection", conn.ID, "room", oldRoom.ID)
			oldRoom.RemovePlayer(conn.PlayerID)
			s.removeConnectionForRoom(conn, oldRoom)
		}
		conn.RoomID = ""
		conn.PlayerID = ""
	}

	room, exists := s.roomManager.GetGameRoom(req.RoomID)
	if !exists && req.RoomCode != "" {
		room, exists = s.roomManager.GetGameRoomByCode(req.RoomCode)
	}
	if !exists {
		s.logger.Debug("handleJoinRoom: room does not exist", "room", req.RoomID, "code", req.RoomCode)
		s.sendJoinRoomResponse(conn, types.JoinRoomResponse{Success: false, Error: "Room not found"})
		return
	}

	player, err := AddPlayerToRoom(room, req.PlayerName, req.Spectator)
	if err != nil {
		s.sendJoinRoomResponse(conn, types.JoinRoomResponse{Success: false, Error: err.Error()})
		return
	}

	conn.RoomID = room.ID
	conn.PlayerID = player.ID
	s.addConnectionForRoom(conn, room)

	s.sendJoinRoomResponse(conn, types.JoinRoomResponse{
		Success:    true,
		RoomID:     room.ID,
		RoomName:   room.Name,
		RoomCode:   room.RoomCode,
		PlayerID:   player.ID,
		PlayerName: player.Name,
	})
	s.logger.Info("Player joined game room", "player", player.ID, "room", room.ID, "spectator", player.IsSpectator)

	s.broadcastGameState(room)
	s.broadcastSpectators(room)
}

func (s *Server) sendJoinRoomResponse(conn *Connection, response types.JoinRoomResponse) {
	err := s.write(conn, types.Message{
		Type:    types.MessageJoinRoomResponse,
		Payload: util.Must(json.Marshal(response)),
	})
	if err != nil {
		s.logger.Warn("handleJoinRoom: error sending response", "connection", conn.ID, "error", err)
	}
}

// handleKey forwards a keystroke to the room's engine
func (s *Server) handleKey(conn *Connection, req types.KeyRequest) {
	room, player, exists := s.findRoomAndPlayer(conn, conn.RoomID, conn.PlayerID)
	if !exists {
		return
	}
	if player.IsSpectator {
		s.sendErrorMessage(conn, "Spectators cannot type", "")
		return
	}
	if !conn.limiter.Allow() {
		s.sendErrorMessage(conn, "Too many keystrokes", CodeRateLimited)
		return
	}

	s.roomManager.Touch(room.ID)
	if room.Type(req.Key, req.Repeat) {
		s.broadcastGameState(room)
	}
}

// handleCommand runs play, pause or resume on the room's engine
func (s *Server) handleCommand(conn *Connection, req types.CommandRequest) {
	room, player, exists := s.findRoomAndPlayer(conn, conn.RoomID, conn.PlayerID)
	if !exists {
		return
	}
	if player.IsSpectator {
		s.sendErrorMessage(conn, "Spectators cannot control the game", "")
		return
	}

	s.roomManager.Touch(room.ID)
	if err := room.Command(req.Name); err != nil {
		s.sendErrorMessage(conn, err.Error(), string(gameerrors.CodeOf(err)))
		return
	}
	s.broadcastGameState(room)
}

// handleExitRoom handles a player leaving a room
func (s *Server) handleExitRoom(conn *Connection) {
	room, player, exists := s.findRoomAndPlayer(conn, conn.RoomID, conn.PlayerID)
	if !exists {
		return
	}

	room.RemovePlayer(player.ID)
	s.removeConnectionForRoom(conn, room)
	conn.RoomID = ""
	conn.PlayerID = ""

	err := s.write(conn, types.Message{
		Type:    types.MessageExitRoomResponse,
		Payload: util.Must(json.Marshal(types.ExitRoomResponse{Success: true})),
	})
	if err != nil {
		s.logger.Warn("handleExitRoom: error sending response", "connection", conn.ID, "error", err)
	}

	s.logger.Info("Player exited game room", "player", player.ID, "room", room.ID)
	s.broadcastSpectators(room)
}

func (s *Server) addConnectionForRoom(conn *Connection, room *GameRoom) {
	s.serverLock.Lock()
	if _, exists := s.connectionsByRoom[room.ID]; !exists {
		s.connectionsByRoom[room.ID] = make(map[string]*Connection)
	}
	s.connectionsByRoom[room.ID][conn.ID] = conn
	s.serverLock.Unlock()

	s.roomManager.Touch(room.ID)
}

func (s *Server) removeConnectionForRoom(conn *Connection, room *GameRoom) {
	s.serverLock.Lock()
	if _, exists := s.connectionsByRoom[room.ID]; exists {
		delete(s.connectionsByRoom[room.ID], conn.ID)
		if len(s.connectionsByRoom[room.ID]) == 0 {
			delete(s.connectionsByRoom, room.ID)
		}
	}
	s.serverLock.Unlock()

	s.roomManager.Touch(room.ID)
}

func (s *Server) sendErrorMessage(conn *Connection, message string, code string) {
	err := s.write(conn, types.Message{
		Type:    types.MessageError,
		Payload: util.Must(json.Marshal(types.ErrorMessage{Message: message, Code: code})),
	})
	if err != nil {
		s.logger.Debug("Error sending error message", "connection", conn.ID, "error", err)
	}
}

func (s *Server) findRoomAndPlayer(conn *Connection, roomID string, playerID string) (*GameRoom, *ConnectedPlayer, bool) {
	room, exists := s.roomManager.GetGameRoom(roomID)
	if !exists {
		s.sendErrorMessage(conn, "Room not found", "")
		return nil, nil, false
	}
	player, exists := room.GetPlayer(playerID)
	if !exists {
		s.sendErrorMessage(conn, "Player not found", "")
		return nil, nil, false
	}
	return room, player, true
}
