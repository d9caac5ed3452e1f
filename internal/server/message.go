package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/outbidhq/outbid/internal/auction"
)

// Message represents the base WebSocket message structure.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type CreateGameData struct {
	PlayerName string `json:"playerName"`
	Mode       string `json:"mode,omitempty"`
}

type JoinGameData struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
}

// ActionData carries the game/player pair for start, bid, advance,
// reset and state requests. PlayerID is optional when the connection is
// already bound to a player; supplying it rebinds the connection, which
// lets a client resume after a reconnect.
type ActionData struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId,omitempty"`
	Amount   int    `json:"amount,omitempty"` // place_bid only
}

// Server → Client Messages

type GameCreatedData struct {
	GameID   string           `json:"gameId"`
	PlayerID string           `json:"playerId"`
	State    auction.Snapshot `json:"state"`
}

type GameJoinedData struct {
	GameID   string           `json:"gameId"`
	PlayerID string           `json:"playerId"`
	State    auction.Snapshot `json:"state"`
}

type GameStateData struct {
	GameID string           `json:"gameId"`
	State  auction.Snapshot `json:"state"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorCode maps engine error kinds to wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, auction.ErrNotFound):
		return "not_found"
	case errors.Is(err, auction.ErrForbidden):
		return "forbidden"
	case errors.Is(err, auction.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, auction.ErrInvalidInput):
		return "invalid_input"
	}
	return "internal"
}
