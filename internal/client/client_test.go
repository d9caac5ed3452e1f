package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outbidhq/outbid/internal/auction"
	"github.com/outbidhq/outbid/internal/server"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// startTestServer runs a real WebSocket server on a free port and
// returns its ws URL.
func startTestServer(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	reg := server.NewRegistry(testLogger(), server.GameConfig{
		StartingMoney:  100,
		RoundsToWin:    3,
		ResultsDisplay: 10 * time.Second,
		Retention:      2 * time.Hour,
		SweepInterval:  time.Minute,
		DefaultMode:    "all-pay",
	}, nil)
	srv := server.NewServer(addr, reg, testLogger())

	go func() { _ = srv.Start() }()
	t.Cleanup(func() { _ = srv.Stop() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.WaitForHealthy(ctx, "http://"+addr))

	return "ws://" + addr + "/ws"
}

func TestClientConnectAndCreateGame(t *testing.T) {
	t.Parallel()
	url := startTestServer(t)

	c := NewClient(url, testLogger())
	require.NoError(t, c.Connect())
	t.Cleanup(func() { _ = c.Disconnect() })

	assert.True(t, c.IsConnected())

	require.NoError(t, c.CreateGame("Alice", "standard"))
	msg, err := c.WaitForMessage(server.MessageTypeGameCreated, 5*time.Second)
	require.NoError(t, err)

	var created server.GameCreatedData
	require.NoError(t, json.Unmarshal(msg.Data, &created))
	assert.NotEmpty(t, created.GameID)
	assert.NotEmpty(t, created.PlayerID)
	assert.Equal(t, auction.StatusWaiting, created.State.Status)

	c.SetIdentity(created.GameID, created.PlayerID)
	assert.Equal(t, created.GameID, c.GameID())
	assert.Equal(t, created.PlayerID, c.PlayerID())

	// Actions carry the bound identity, so the server answers without a
	// fresh join.
	require.NoError(t, c.RequestState())
	msg, err = c.WaitForMessage(server.MessageTypeGameState, 5*time.Second)
	require.NoError(t, err)

	var state server.GameStateData
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.Equal(t, created.GameID, state.GameID)
	assert.Equal(t, created.PlayerID, state.State.YourID)

	require.NoError(t, c.Disconnect())
	assert.False(t, c.IsConnected())
}

func TestClientWaitForMessageTimeout(t *testing.T) {
	t.Parallel()
	url := startTestServer(t)

	c := NewClient(url, testLogger())
	require.NoError(t, c.Connect())
	t.Cleanup(func() { _ = c.Disconnect() })

	// Nothing was requested, so no game_state ever arrives.
	_, err := c.WaitForMessage(server.MessageTypeGameState, 100*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestClientConnectBadURL(t *testing.T) {
	t.Parallel()

	c := NewClient("ws://127.0.0.1:1/ws", testLogger())
	err := c.Connect()
	require.Error(t, err)
	assert.False(t, c.IsConnected())
}
