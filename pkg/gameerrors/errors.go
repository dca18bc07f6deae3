// Package gameerrors defines the domain errors returned by the simulation core.
//
// Every error carries a machine-readable Code. errors.Is matches by code, so
// callers compare against the exported sentinels:
//
//	if errors.Is(err, gameerrors.ErrAlreadyPaused) { ... }
//
// The two "event not in session" variants also match ErrEventNotInSession.
package gameerrors

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	CodeNotInProgress           Code = "NOT_IN_PROGRESS"
	CodeGameOver                Code = "GAME_OVER"
	CodeAlreadyPaused           Code = "ALREADY_PAUSED"
	CodeAlreadyResumed          Code = "ALREADY_RESUMED"
	CodeEventNotInSession       Code = "EVENT_NOT_IN_SESSION"
	CodeTargetEventNotInSession Code = "TARGET_EVENT_NOT_IN_SESSION"
	CodeLimitEventNotInSession  Code = "LIMIT_EVENT_NOT_IN_SESSION"
	CodeEnemyNotInSession       Code = "ENEMY_NOT_IN_SESSION"
	CodeDuplicateIdentity       Code = "DUPLICATE_IDENTITY"
)

// Parent returns the broader code this code belongs to, or the code itself.
func (c Code) Parent() Code {
	switch c {
	case CodeTargetEventNotInSession, CodeLimitEventNotInSession:
		return CodeEventNotInSession
	}
	return c
}

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target matches this error by code. A variant code also
// matches its parent.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code || e.Code.Parent() == t.Code
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error carrying additional context.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// CodeOf extracts the code of the first domain error in err's chain, or "" for
// anything else.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

var (
	ErrNotInProgress           = New(CodeNotInProgress, "the game is not in progress")
	ErrGameOver                = New(CodeGameOver, "the game is over")
	ErrAlreadyPaused           = New(CodeAlreadyPaused, "the game is already paused")
	ErrAlreadyResumed          = New(CodeAlreadyResumed, "the game is already resumed")
	ErrEventNotInSession       = New(CodeEventNotInSession, "the event hasn't been emitted since the last 'PLAY'")
	ErrTargetEventNotInSession = New(CodeTargetEventNotInSession, "the passed target event hasn't been emitted since the last 'PLAY'")
	ErrLimitEventNotInSession  = New(CodeLimitEventNotInSession, "the passed limit event hasn't been emitted since the last 'PLAY'")
	ErrEnemyNotInSession       = New(CodeEnemyNotInSession, "the passed enemy hasn't been spawned since the last 'PLAY'")
	ErrDuplicateIdentity       = New(CodeDuplicateIdentity, "the given payload already has an id")
)
