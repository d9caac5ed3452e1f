package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/outbidhq/outbid/internal/auction"
	"github.com/outbidhq/outbid/internal/gameid"
)

// Registry owns every live game, keyed by join code. All mutating
// operations on a game run under its entry lock, so the bid that closes
// a round's ledger settles that round exactly once.
type Registry struct {
	logger *log.Logger
	clock  quartz.Clock
	cfg    GameConfig
	codes  *gameid.Generator

	mu    sync.RWMutex
	games map[string]*gameEntry
}

type gameEntry struct {
	mu         sync.Mutex
	game       *auction.Game
	lastActive time.Time
}

// NewRegistry constructs an empty registry. A nil clock selects the
// real clock.
func NewRegistry(logger *log.Logger, cfg GameConfig, clock quartz.Clock) *Registry {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Registry{
		logger: logger.WithPrefix("registry"),
		clock:  clock,
		cfg:    cfg,
		codes:  gameid.NewGenerator(nil),
		games:  make(map[string]*gameEntry),
	}
}

// CreateGame registers a new game and returns its join code and the
// host's player ID. An empty mode selects the configured default.
func (r *Registry) CreateGame(hostName, mode string) (string, string, error) {
	if mode == "" {
		mode = r.cfg.DefaultMode
	}
	m, err := auction.ParseMode(mode)
	if err != nil {
		return "", "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.codes.Generate()
	for _, taken := r.games[code]; taken; _, taken = r.games[code] {
		code = r.codes.Generate()
	}

	g, err := auction.NewGame(code, hostName, m,
		auction.WithStartingMoney(r.cfg.StartingMoney),
		auction.WithRoundsToWin(r.cfg.RoundsToWin))
	if err != nil {
		return "", "", err
	}

	r.games[code] = &gameEntry{game: g, lastActive: r.clock.Now()}
	r.logger.Info("Game created", "game", code, "mode", m, "host", hostName)
	return code, g.Players[0].ID, nil
}

// entry looks up a game by join code, normalizing user input.
func (r *Registry) entry(gameID string) (*gameEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.games[gameid.Normalize(gameID)]
	if !ok {
		return nil, fmt.Errorf("%w: game %s", auction.ErrNotFound, gameID)
	}
	return e, nil
}

// withGame runs fn with the game's entry lock held and refreshes the
// activity timestamp.
func (r *Registry) withGame(gameID string, fn func(*auction.Game) error) error {
	e, err := r.entry(gameID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastActive = r.clock.Now()
	return fn(e.game)
}

// JoinGame adds a player to a waiting game and returns their player ID.
func (r *Registry) JoinGame(gameID, playerName string) (string, error) {
	var playerID string
	err := r.withGame(gameID, func(g *auction.Game) error {
		p, err := g.Join(playerName)
		if err != nil {
			return err
		}
		playerID = p.ID
		r.logger.Info("Player joined", "game", g.ID, "player", playerName)
		return nil
	})
	return playerID, err
}

// StartGame moves a game into its first betting round.
func (r *Registry) StartGame(gameID, playerID string) error {
	return r.withGame(gameID, func(g *auction.Game) error {
		if err := g.Start(playerID); err != nil {
			return err
		}
		r.logger.Info("Game started", "game", g.ID, "players", len(g.Players), "rounds", g.TotalRounds)
		return nil
	})
}

// PlaceBid records a bid. The bid that closes the ledger settles the
// round synchronously and arms the results-display timer.
func (r *Registry) PlaceBid(gameID, playerID string, amount int) error {
	return r.withGame(gameID, func(g *auction.Game) error {
		if err := g.PlaceBid(playerID, amount); err != nil {
			return err
		}
		if g.Status == auction.StatusBetting {
			return nil
		}

		// This bid settled the round.
		res := g.LastResult
		r.logger.Info("Round settled",
			"game", g.ID,
			"round", res.Round,
			"highest", res.HighestBid,
			"winners", len(res.Winners),
			"status", g.Status)
		r.scheduleHideResults(g.ID, res.Round)
		return nil
	})
}

// scheduleHideResults arms the display timer for a settled round. The
// callback is idempotent; firing after the game advanced or reset is a
// no-op.
func (r *Registry) scheduleHideResults(gameID string, round int) {
	if r.cfg.ResultsDisplay <= 0 {
		return
	}
	r.clock.AfterFunc(r.cfg.ResultsDisplay, func() {
		e, err := r.entry(gameID)
		if err != nil {
			return
		}
		e.mu.Lock()
		e.game.HideResults(round)
		e.mu.Unlock()
	})
}

// AdvanceRound starts the next betting round.
func (r *Registry) AdvanceRound(gameID, playerID string) error {
	return r.withGame(gameID, func(g *auction.Game) error {
		return g.Advance(playerID)
	})
}

// ResetGame returns a game to the waiting state.
func (r *Registry) ResetGame(gameID, playerID string) error {
	return r.withGame(gameID, func(g *auction.Game) error {
		if err := g.Reset(playerID); err != nil {
			return err
		}
		r.logger.Info("Game reset", "game", g.ID)
		return nil
	})
}

// GetState returns a consistent snapshot personalized for the caller.
// Reads do not refresh the activity timestamp, so an abandoned but
// still-polling game ages out normally.
func (r *Registry) GetState(gameID, playerID string) (auction.Snapshot, error) {
	e, err := r.entry(gameID)
	if err != nil {
		return auction.Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.SnapshotFor(playerID)
}

// GameCount returns the number of live games.
func (r *Registry) GameCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Run drives the inactive-game sweep until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep evicts games idle past the retention window.
func (r *Registry) sweep() {
	cutoff := r.clock.Now().Add(-r.cfg.Retention)

	r.mu.Lock()
	defer r.mu.Unlock()
	for code, e := range r.games {
		if e.lastActive.Before(cutoff) {
			delete(r.games, code)
			r.logger.Info("Evicted inactive game", "game", code, "lastActive", e.lastActive)
		}
	}
}
