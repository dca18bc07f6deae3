package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"go-typefight/pkg/config"
	"go-typefight/pkg/engine"
	"go-typefight/pkg/server/types"
	"go-typefight/pkg/util"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for demo
	},
}

// Connection represents a WebSocket connection
type Connection struct {
	ID         string
	connection *websocket.Conn
	RoomID     string
	PlayerID   string
	WriteMutex sync.Mutex
	// limits inbound keystrokes
	limiter *rate.Limiter
}

// Server handles WebSocket connections and the HTTP API
type Server struct {
	config config.Config
	logger *slog.Logger

	// Map of roomID -> connectionID -> connection
	connectionsByRoom map[string]map[string]*Connection

	// Mutex for server-wide operations
	serverLock sync.Mutex

	// Track game rooms
	roomManager *RoomManager
}

// NewServer creates a new game server
func NewServer(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		config:            cfg,
		logger:            logger.With("component", "server"),
		connectionsByRoom: make(map[string]map[string]*Connection),
		roomManager:       NewRoomManager(cfg.Server.RoomTTL, logger),
	}
	s.roomManager.OnEviction(s.handleRoomEvicted)
	return s
}

// Router returns the HTTP routes of the server
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.HandleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.HandleWebSocket)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", s.HandleCreateRoom).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/rooms/{roomId}/state", s.HandleGetRoomState).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms/{roomId}/events", s.HandleGetRoomEvents).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms/{roomId}/command", s.HandleRoomCommand).Methods(http.MethodPost, http.MethodOptions)
	return router
}

// Close stops every room
func (s *Server) Close() {
	s.roomManager.Stop()
}

// CreateRoom creates a room with the server's game tuning and starts its tick loop
func (s *Server) CreateRoom(name string, tickConfig *TickConfig) (*GameRoom, error) {
	if tickConfig == nil {
		tickConfig = &TickConfig{TickInterval: s.config.Server.TickInterval}
	}
	room, err := NewRoom(name, engine.Options{
		Config: s.config.Engine(),
		Logger: s.logger,
	}, tickConfig)
	if err != nil {
		return nil, err
	}

	s.roomManager.AddGameRoom(room)
	room.StartTickLoop(s.onTick)
	s.logger.Info("Created game room", "room", room.ID, "code", room.RoomCode, "tickInterval", room.TickInterval)
	return room, nil
}

// onTick runs on the room's tick goroutine. It must not go through the room
// manager, whose eviction waits for this goroutine to stop.
func (s *Server) onTick(room *GameRoom) {
	result := room.Tick()
	if result.Truncated {
		s.logger.Warn("Tick did not settle", "room", room.ID, "rounds", result.Rounds)
	}
	s.broadcastGameState(room)
}

// HandleWebSocket handles incoming WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP connection to WebSocket
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Error upgrading connection", "error", err)
		return
	}

	conn := &Connection{
		ID:         uuid.New().String(),
		connection: ws,
		limiter:    rate.NewLimiter(rate.Limit(s.config.Server.KeyRate), s.config.Server.KeyBurst),
	}

	go s.handleConnection(conn)
}

// handleConnection processes messages from a WebSocket connection
func (s *Server) handleConnection(conn *Connection) {
	defer func() {
		// Handle unexpected disconnection
		s.handleDisconnect(conn)
		conn.connection.Close()
	}()

	for {
		var msg types.Message
		err := conn.connection.ReadJSON(&msg)
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if conn.RoomID != "" {
					s.logger.Debug("Connection closed normally", "connection", conn.ID, "room", conn.RoomID)
				}
			} else {
				s.logger.Warn("Error reading message", "connection", conn.ID, "error", err)
			}
			break
		}

		switch msg.Type {
		case types.MessageJoinRoom:
			var req types.JoinRoomRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				s.logger.Warn("Error unmarshalling JoinRoom payload", "error", err)
				continue
			}
			s.handleJoinRoom(conn, req)

		case types.MessageKey:
			var req types.KeyRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				s.logger.Warn("Error unmarshalling Key payload", "error", err)
				continue
			}
			s.handleKey(conn, req)

		case types.MessageCommand:
			var req types.CommandRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				s.logger.Warn("Error unmarshalling Command payload", "error", err)
				continue
			}
			s.handleCommand(conn, req)

		case types.MessageExitRoom:
			s.handleExitRoom(conn)

		default:
			s.logger.Warn("Unknown message type", "type", msg.Type)
			s.sendErrorMessage(conn, "Unknown message type", "")
		}
	}
}

// handleDisconnect handles unexpected disconnections
func (s *Server) handleDisconnect(conn *Connection) {
	if conn.RoomID == "" {
		return
	}

	s.logger.Debug("Handling disconnect", "connection", conn.ID, "room", conn.RoomID)
	room, exists := s.roomManager.GetGameRoom(conn.RoomID)
	if !exists {
		return
	}
	room.RemovePlayer(conn.PlayerID)
	s.removeConnectionForRoom(conn, room)
	s.broadcastSpectators(room)
}

// handleRoomEvicted tells the connections of an expired or closed room that
// they left it
func (s *Server) handleRoomEvicted(room *GameRoom, reason string) {
	s.serverLock.Lock()
	connections := s.connectionsByRoom[room.ID]
	delete(s.connectionsByRoom, room.ID)
	s.serverLock.Unlock()

	message := types.Message{
		Type:    types.MessageExitRoomResponse,
		Payload: util.Must(json.Marshal(types.ExitRoomResponse{Success: true, Reason: reason})),
	}
	for _, conn := range connections {
		if err := s.write(conn, message); err != nil {
			s.logger.Debug("Error sending eviction notice", "connection", conn.ID, "room", room.ID, "error", err)
		}
	}
}

// connectionsFor returns a copy of the connections of a room
func (s *Server) connectionsFor(roomID string) []*Connection {
	s.serverLock.Lock()
	defer s.serverLock.Unlock()

	connections := make([]*Connection, 0, len(s.connectionsByRoom[roomID]))
	for _, conn := range s.connectionsByRoom[roomID] {
		connections = append(connections, conn)
	}
	return connections
}

func (s *Server) broadcast(roomID string, messageType string, payload any) {
	message := types.Message{
		Type:    messageType,
		Payload: util.Must(json.Marshal(payload)),
	}
	for _, conn := range s.connectionsFor(roomID) {
		if err := s.write(conn, message); err != nil {
			s.logger.Debug("Error sending message", "type", messageType, "connection", conn.ID, "error", err)
		}
	}
}

func (s *Server) broadcastGameState(room *GameRoom) {
	s.broadcast(room.ID, types.MessageGameState, types.GameState{
		RoomID:   room.ID,
		Snapshot: room.Snapshot(),
	})
}

func (s *Server) broadcastSpectators(room *GameRoom) {
	s.broadcast(room.ID, types.MessageSpectators, types.SpectatorUpdate{
		Spectators: room.GetSpectators(),
	})
}

// write sends a message to one connection. Writes are serialized per connection.
func (s *Server) write(conn *Connection, message types.Message) error {
	conn.WriteMutex.Lock()
	defer conn.WriteMutex.Unlock()
	return conn.connection.WriteJSON(message)
}
