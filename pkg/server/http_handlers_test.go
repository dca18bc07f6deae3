package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-typefight/pkg/config"
	"go-typefight/pkg/engine"
	"go-typefight/pkg/events"
	"go-typefight/pkg/gameerrors"
	"go-typefight/pkg/server/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	server := NewServer(cfg, nil)
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, server *Server, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func createTestRoom(t *testing.T, server *Server) types.CreateRoomResponse {
	t.Helper()
	w := doRequest(t, server, http.MethodPost, "/api/rooms", types.CreateRoomRequest{RoomName: "arena"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.CreateRoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, config.Default())
	createTestRoom(t, server)

	w := doRequest(t, server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Rooms)
}

func TestHandleCreateRoom_Validation(t *testing.T) {
	server := newTestServer(t, config.Default())

	tests := []struct {
		name             string
		request          types.CreateRoomRequest
		wantStatusCode   int
		wantSuccess      bool
		wantIntervalMs   int64
		wantErrorPresent bool
	}{
		{
			name:           "Valid request with server defaults",
			request:        types.CreateRoomRequest{RoomName: "arena"},
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantIntervalMs: 20,
		},
		{
			name:           "Custom tick interval",
			request:        types.CreateRoomRequest{RoomName: "arena", TickIntervalMs: 50},
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantIntervalMs: 50,
		},
		{
			name:           "Tick multiplier",
			request:        types.CreateRoomRequest{RoomName: "arena", TickMultiplier: 10.0},
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantIntervalMs: 2,
		},
		{
			name:             "Missing room name",
			request:          types.CreateRoomRequest{},
			wantStatusCode:   http.StatusBadRequest,
			wantErrorPresent: true,
		},
		{
			name:             "Tick interval too slow",
			request:          types.CreateRoomRequest{RoomName: "arena", TickIntervalMs: 2000},
			wantStatusCode:   http.StatusBadRequest,
			wantErrorPresent: true,
		},
		{
			name:             "Tick multiplier too fast",
			request:          types.CreateRoomRequest{RoomName: "arena", TickMultiplier: 100.0},
			wantStatusCode:   http.StatusBadRequest,
			wantErrorPresent: true,
		},
		{
			name:             "Negative tick interval",
			request:          types.CreateRoomRequest{RoomName: "arena", TickIntervalMs: -5},
			wantStatusCode:   http.StatusBadRequest,
			wantErrorPresent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, server, http.MethodPost, "/api/rooms", tt.request)
			assert.Equal(t, tt.wantStatusCode, w.Code)

			var resp types.CreateRoomResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantSuccess, resp.Success)
			assert.Equal(t, tt.wantErrorPresent, resp.Error != "")
			if tt.wantSuccess {
				assert.NotEmpty(t, resp.RoomID)
				assert.Len(t, resp.RoomCode, 4)
				assert.Equal(t, tt.wantIntervalMs, resp.TickIntervalMs)
			}
		})
	}
}

func TestHandleCreateRoom_InvalidJSON(t *testing.T) {
	server := newTestServer(t, config.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateRoom_Preflight(t *testing.T) {
	server := newTestServer(t, config.Default())

	w := doRequest(t, server, http.MethodOptions, "/api/rooms", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 0, server.roomManager.Len())
}

func TestHandleGetRoomState(t *testing.T) {
	server := newTestServer(t, config.Default())
	room := createTestRoom(t, server)

	w := doRequest(t, server, http.MethodGet, "/api/rooms/missing/state", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, server, http.MethodGet, "/api/rooms/"+room.RoomID+"/state", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.RoomStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "arena", resp.RoomName)
	require.NotNil(t, resp.Snapshot)
	assert.Equal(t, engine.StateNotStarted, resp.Snapshot.State)
	assert.Equal(t, 0, resp.Snapshot.Health)
	assert.Equal(t, "war", resp.Snapshot.PlayWord)
}

func TestHandleRoomCommand(t *testing.T) {
	server := newTestServer(t, config.Default())
	room := createTestRoom(t, server)
	path := "/api/rooms/" + room.RoomID + "/command"

	tests := []struct {
		name           string
		command        string
		wantStatusCode int
		wantCode       gameerrors.Code
		wantState      engine.State
	}{
		{name: "Pause before play", command: "pause", wantStatusCode: http.StatusConflict, wantCode: gameerrors.CodeNotInProgress},
		{name: "Play", command: "play", wantStatusCode: http.StatusOK, wantState: engine.StatePlaying},
		{name: "Resume while playing", command: "resume", wantStatusCode: http.StatusConflict, wantCode: gameerrors.CodeAlreadyResumed},
		{name: "Pause", command: "pause", wantStatusCode: http.StatusOK, wantState: engine.StatePaused},
		{name: "Pause twice", command: "pause", wantStatusCode: http.StatusConflict, wantCode: gameerrors.CodeAlreadyPaused},
		{name: "Resume", command: "resume", wantStatusCode: http.StatusOK, wantState: engine.StatePlaying},
		{name: "Unknown command", command: "dance", wantStatusCode: http.StatusBadRequest},
	}

	// Steps build on each other, so they run in order
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, server, http.MethodPost, path, RoomCommandHTTPRequest{Name: tt.command})
			assert.Equal(t, tt.wantStatusCode, w.Code)

			var resp RoomCommandHTTPResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.wantCode), resp.Code)
			if tt.wantStatusCode == http.StatusOK {
				require.NotNil(t, resp.State)
				assert.Equal(t, tt.wantState, resp.State.Snapshot.State)
				assert.Equal(t, room.RoomID, resp.State.RoomID)
			} else {
				assert.False(t, resp.Success)
				assert.NotEmpty(t, resp.Error)
			}
		})
	}

	w := doRequest(t, server, http.MethodPost, "/api/rooms/missing/command", RoomCommandHTTPRequest{Name: "play"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetRoomEvents(t *testing.T) {
	server := newTestServer(t, config.Default())
	room := createTestRoom(t, server)

	w := doRequest(t, server, http.MethodGet, "/api/rooms/"+room.RoomID+"/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp types.RoomEventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Events)

	doRequest(t, server, http.MethodPost, "/api/rooms/"+room.RoomID+"/command", RoomCommandHTTPRequest{Name: "play"})

	w = doRequest(t, server, http.MethodGet, "/api/rooms/"+room.RoomID+"/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = types.RoomEventsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// the tick loop may already have spawned enemies after the PLAY
	require.NotEmpty(t, resp.Events)
	assert.Equal(t, events.TypePlay, resp.Events[0].Type)

	w = doRequest(t, server, http.MethodGet, "/api/rooms/missing/events", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "state guard", err: gameerrors.ErrAlreadyPaused, want: http.StatusConflict},
		{name: "wrapped state guard", err: fmt.Errorf("pause room: %w", gameerrors.ErrGameOver), want: http.StatusConflict},
		{name: "unknown command", err: fmt.Errorf("command: %w", ErrUnknownCommand), want: http.StatusBadRequest},
		{name: "other domain error", err: gameerrors.ErrEnemyNotInSession, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
