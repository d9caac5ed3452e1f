package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/outbidhq/outbid/internal/gameid"
)

// Connection represents a WebSocket connection to a client. After a
// create or join it stays bound to that game and player so later
// requests can omit the identity.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	gameID    string
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper.
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetIdentity binds this connection to a game and player.
func (c *Connection) SetIdentity(gameID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
	c.playerID = playerID
}

// GetPlayer returns the bound player ID.
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// GetGame returns the bound game ID.
func (c *Connection) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	switch msg.Type {
	case MessageTypeCreateGame:
		var data CreateGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse create game data")
			return
		}
		c.handleCreateGame(data)

	case MessageTypeJoinGame:
		var data JoinGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join game data")
			return
		}
		c.handleJoinGame(data)

	case MessageTypeStartGame:
		c.handleAction(msg, func(gameID, playerID string, _ int) error {
			return c.server.registry.StartGame(gameID, playerID)
		})

	case MessageTypePlaceBid:
		c.handleAction(msg, func(gameID, playerID string, amount int) error {
			return c.server.registry.PlaceBid(gameID, playerID, amount)
		})

	case MessageTypeAdvanceRound:
		c.handleAction(msg, func(gameID, playerID string, _ int) error {
			return c.server.registry.AdvanceRound(gameID, playerID)
		})

	case MessageTypeResetGame:
		c.handleAction(msg, func(gameID, playerID string, _ int) error {
			return c.server.registry.ResetGame(gameID, playerID)
		})

	case MessageTypeGetState:
		c.handleGetState(msg)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client.
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleCreateGame(data CreateGameData) {
	gameID, playerID, err := c.server.registry.CreateGame(data.PlayerName, data.Mode)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	c.SetIdentity(gameID, playerID)

	snap, err := c.server.registry.GetState(gameID, playerID)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	response, _ := NewMessage(MessageTypeGameCreated, GameCreatedData{
		GameID:   gameID,
		PlayerID: playerID,
		State:    snap,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinGame(data JoinGameData) {
	playerID, err := c.server.registry.JoinGame(data.GameID, data.PlayerName)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	snap, err := c.server.registry.GetState(data.GameID, playerID)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.SetIdentity(snap.GameID, playerID)

	response, _ := NewMessage(MessageTypeGameJoined, GameJoinedData{
		GameID:   snap.GameID,
		PlayerID: playerID,
		State:    snap,
	})
	_ = c.SendMessage(response)

	// Everyone in the lobby sees the new player.
	c.server.BroadcastGameState(snap.GameID)
}

// resolveIdentity picks the game/player for a request: explicit values
// in the payload win, otherwise the connection's binding applies. The
// game ID is normalized so broadcast matching works on typed-in codes.
func (c *Connection) resolveIdentity(data ActionData) (string, string, bool) {
	gameID, playerID := gameid.Normalize(data.GameID), data.PlayerID
	if gameID == "" {
		gameID = c.GetGame()
	}
	if playerID == "" {
		playerID = c.GetPlayer()
	}
	if gameID == "" || playerID == "" {
		c.sendError("not_in_game", "Create or join a game first")
		return "", "", false
	}
	if data.PlayerID != "" {
		c.SetIdentity(gameID, playerID)
	}
	return gameID, playerID, true
}

func (c *Connection) handleAction(msg *Message, action func(gameID, playerID string, amount int) error) {
	var data ActionData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError("invalid_message", "Failed to parse request data")
		return
	}

	gameID, playerID, ok := c.resolveIdentity(data)
	if !ok {
		return
	}

	if err := action(gameID, playerID, data.Amount); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	c.server.BroadcastGameState(gameID)
}

func (c *Connection) handleGetState(msg *Message) {
	var data ActionData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError("invalid_message", "Failed to parse request data")
		return
	}

	gameID, playerID, ok := c.resolveIdentity(data)
	if !ok {
		return
	}

	snap, err := c.server.registry.GetState(gameID, playerID)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	response, _ := NewMessage(MessageTypeGameState, GameStateData{GameID: gameID, State: snap})
	_ = c.SendMessage(response)
}
