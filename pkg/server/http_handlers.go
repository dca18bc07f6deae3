package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go-typefight/pkg/gameerrors"
	"go-typefight/pkg/server/types"

	"github.com/gorilla/mux"
)

func setCORSHeaders(w http.ResponseWriter, methods string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// HandleHealth reports that the server is up
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w, "GET")
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status: "ok",
		Rooms:  s.roomManager.Len(),
	})
}

// HandleCreateRoom handles HTTP requests to create a new room
func (s *Server) HandleCreateRoom(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w, "POST, OPTIONS")

	// Handle preflight requests
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req types.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, types.CreateRoomResponse{
			Success: false,
			Error:   "Invalid request format",
		})
		return
	}

	if req.RoomName == "" {
		writeJSON(w, http.StatusBadRequest, types.CreateRoomResponse{
			Success: false,
			Error:   "RoomName is required",
		})
		return
	}

	var tickConfig *TickConfig
	if req.TickIntervalMs != 0 || req.TickMultiplier != 0 {
		if req.TickIntervalMs < 0 || req.TickMultiplier < 0 {
			writeJSON(w, http.StatusBadRequest, types.CreateRoomResponse{
				Success: false,
				Error:   "tickIntervalMs and tickMultiplier must not be negative",
			})
			return
		}
		tickConfig = &TickConfig{
			TickInterval:   time.Duration(req.TickIntervalMs) * time.Millisecond,
			TickMultiplier: req.TickMultiplier,
		}
		if _, _, err := calculateTickInterval(tickConfig); err != nil {
			writeJSON(w, http.StatusBadRequest, types.CreateRoomResponse{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
	}

	room, err := s.CreateRoom(req.RoomName, tickConfig)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, types.CreateRoomResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, types.CreateRoomResponse{
		Success:        true,
		RoomID:         room.ID,
		RoomName:       room.Name,
		RoomCode:       room.RoomCode,
		TickIntervalMs: room.TickInterval.Milliseconds(),
		TickMultiplier: room.TickMultiplier,
	})
}

// HandleGetRoomState returns the players and the current frame of a room
func (s *Server) HandleGetRoomState(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	roomID := mux.Vars(r)["roomId"]
	room, exists := s.roomManager.GetGameRoom(roomID)
	if !exists {
		writeJSON(w, http.StatusNotFound, types.RoomStateResponse{
			Success: false,
			Error:   "Room not found",
		})
		return
	}

	snapshot := room.Snapshot()
	writeJSON(w, http.StatusOK, types.RoomStateResponse{
		Success:    true,
		RoomID:     room.ID,
		RoomName:   room.Name,
		Players:    room.GetNumberOfConnectedPlayers(),
		Spectators: room.GetSpectators(),
		Snapshot:   &snapshot,
	})
}

// HandleGetRoomEvents returns the full event log of a room
func (s *Server) HandleGetRoomEvents(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	roomID := mux.Vars(r)["roomId"]
	room, exists := s.roomManager.GetGameRoom(roomID)
	if !exists {
		writeJSON(w, http.StatusNotFound, types.RoomEventsResponse{
			Success: false,
			Error:   "Room not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, types.RoomEventsResponse{
		Success: true,
		RoomID:  room.ID,
		Events:  room.Events(),
	})
}

// HandleRoomCommand runs play, pause or resume on a room
func (s *Server) HandleRoomCommand(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w, "POST, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	roomID := mux.Vars(r)["roomId"]
	room, exists := s.roomManager.GetGameRoom(roomID)
	if !exists {
		writeJSON(w, http.StatusNotFound, RoomCommandHTTPResponse{
			Success: false,
			Error:   "Room not found",
		})
		return
	}

	var req RoomCommandHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, RoomCommandHTTPResponse{
			Success: false,
			Error:   "Invalid request format",
		})
		return
	}

	s.roomManager.Touch(room.ID)
	if err := room.Command(req.Name); err != nil {
		writeJSON(w, statusForError(err), RoomCommandHTTPResponse{
			Success: false,
			Error:   err.Error(),
			Code:    string(gameerrors.CodeOf(err)),
		})
		return
	}

	s.broadcastGameState(room)
	writeJSON(w, http.StatusOK, RoomCommandHTTPResponse{
		Success: true,
		State:   &types.GameState{RoomID: room.ID, Snapshot: room.Snapshot()},
	})
}
