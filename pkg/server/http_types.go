package server

import (
	"net/http"

	"go-typefight/pkg/gameerrors"
	"go-typefight/pkg/server/types"

	"github.com/pkg/errors"
)

type RoomCommandHTTPRequest struct {
	Name string `json:"name"`
}

type RoomCommandHTTPResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Code    string           `json:"code,omitempty"`
	State   *types.GameState `json:"state,omitempty"`
}

// statusForError maps a command failure to an HTTP status
func statusForError(err error) int {
	switch gameerrors.CodeOf(err) {
	case gameerrors.CodeNotInProgress, gameerrors.CodeGameOver,
		gameerrors.CodeAlreadyPaused, gameerrors.CodeAlreadyResumed:
		return http.StatusConflict
	case "":
		if errors.Is(err, ErrUnknownCommand) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
