package server

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

// testLogger creates a logger that discards output for tests.
func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// testGameConfig returns registry settings suitable for unit tests.
func testGameConfig() GameConfig {
	return GameConfig{
		StartingMoney:  100,
		RoundsToWin:    3,
		ResultsDisplay: 10 * time.Second,
		Retention:      2 * time.Hour,
		SweepInterval:  time.Minute,
		DefaultMode:    "all-pay",
	}
}

// findFreePort asks the kernel for an unused TCP port.
func findFreePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// twoPlayerGame creates a started two-player game through the registry
// and returns the join code with both player IDs.
func twoPlayerGame(t *testing.T, reg *Registry) (gameID, hostID, guestID string) {
	t.Helper()

	gameID, hostID, err := reg.CreateGame("Alice", "standard")
	require.NoError(t, err)
	guestID, err = reg.JoinGame(gameID, "Bob")
	require.NoError(t, err)
	require.NoError(t, reg.StartGame(gameID, hostID))
	return gameID, hostID, guestID
}
