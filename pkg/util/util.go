package util

import (
	"encoding/json"

	"github.com/google/uuid"
)

const roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRoomCode generates a random four character code players type to join a room
func GenerateRoomCode() string {
	code := make([]byte, 4)
	for i := range code {
		code[i] = roomCodeCharset[uint32(uuid.New().ID()&0xFF)%uint32(len(roomCodeCharset))]
	}
	return string(code)
}

// Must returns the marshalled message, panicking on error. Only use it with
// values that always marshal.
func Must(data []byte, err error) json.RawMessage {
	if err != nil {
		panic(err)
	}
	return data
}
