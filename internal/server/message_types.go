package server

// MessageType represents a WebSocket message type with type safety.
type MessageType string

// WebSocket message type constants used by the client-server protocol.
const (
	// Client to server messages
	MessageTypeCreateGame   MessageType = "create_game"
	MessageTypeJoinGame     MessageType = "join_game"
	MessageTypeStartGame    MessageType = "start_game"
	MessageTypePlaceBid     MessageType = "place_bid"
	MessageTypeAdvanceRound MessageType = "advance_round"
	MessageTypeResetGame    MessageType = "reset_game"
	MessageTypeGetState     MessageType = "get_state"

	// Server to client messages
	MessageTypeGameCreated MessageType = "game_created"
	MessageTypeGameJoined  MessageType = "game_joined"
	MessageTypeGameState   MessageType = "game_state"
	MessageTypeError       MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}
