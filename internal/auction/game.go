package auction

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle phase of a game.
type Status string

const (
	StatusWaiting       Status = "waiting"
	StatusBetting       Status = "betting"
	StatusRoundComplete Status = "round_complete"
	StatusGameComplete  Status = "game_complete"
)

const (
	defaultStartingMoney = 100
	defaultRoundsToWin   = 3
)

// Option configures a Game during creation.
type Option func(*Game)

// WithStartingMoney overrides the balance every player starts (and
// resets) with.
func WithStartingMoney(money int) Option {
	return func(g *Game) { g.startingMoney = money }
}

// WithRoundsToWin overrides the All-Pay early-termination threshold.
func WithRoundsToWin(n int) Option {
	return func(g *Game) { g.RoundsToWin = n }
}

// Game holds the full state of one auction game. Methods are not safe
// for concurrent use; the registry serializes all operations per game.
type Game struct {
	ID            string
	CreatedAt     time.Time
	Mode          Mode
	Players       []*Player // join order, host first
	CurrentRound  int       // 0 before start
	TotalRounds   int       // fixed at start, 0 before
	RoundsToWin   int
	Status        Status
	LastResult    *RoundResult
	OverallWinner *Player

	ledger        *BidLedger
	startingMoney int
}

// NewGame creates a game in the waiting state with the host as its
// first player.
func NewGame(id, hostName string, mode Mode, opts ...Option) (*Game, error) {
	g := &Game{
		ID:            id,
		CreatedAt:     time.Now(),
		Mode:          mode,
		Status:        StatusWaiting,
		RoundsToWin:   defaultRoundsToWin,
		ledger:        NewBidLedger(),
		startingMoney: defaultStartingMoney,
	}
	for _, opt := range opts {
		opt(g)
	}

	host, err := g.newPlayer(hostName)
	if err != nil {
		return nil, err
	}
	host.IsHost = true
	g.Players = append(g.Players, host)
	return g, nil
}

func (g *Game) newPlayer(name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name must not be blank", ErrInvalidInput)
	}
	return &Player{
		ID:    uuid.NewString(),
		Name:  name,
		Money: g.startingMoney,
	}, nil
}

// Player returns a member of this game by ID.
func (g *Game) Player(id string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (g *Game) member(id string) (*Player, error) {
	p, ok := g.Player(id)
	if !ok {
		return nil, fmt.Errorf("%w: player %s is not in game %s", ErrNotFound, id, g.ID)
	}
	return p, nil
}

// Join adds a player before the game starts. Names must be unique
// within the game.
func (g *Game) Join(name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if g.Status != StatusWaiting {
		return nil, fmt.Errorf("%w: game %s has already started", ErrInvalidState, g.ID)
	}
	for _, p := range g.Players {
		if strings.EqualFold(p.Name, name) {
			return nil, fmt.Errorf("%w: name %q is already taken", ErrInvalidInput, name)
		}
	}
	p, err := g.newPlayer(name)
	if err != nil {
		return nil, err
	}
	g.Players = append(g.Players, p)
	return p, nil
}

// totalRoundsFor returns the round schedule for a player count. More
// players get more rounds so the All-Pay win threshold stays reachable
// and everyone gets a fair number of bidding opportunities.
func totalRoundsFor(playerCount int) int {
	switch {
	case playerCount <= 2:
		return 5
	case playerCount == 3:
		return 7
	default:
		return 9
	}
}

// Start moves the game into its first betting round. Only the host may
// start, and at least two players must have joined. The round schedule
// is fixed here from the player count and never recomputed.
func (g *Game) Start(callerID string) error {
	caller, err := g.member(callerID)
	if err != nil {
		return err
	}
	if !caller.IsHost {
		return fmt.Errorf("%w: only the host can start the game", ErrForbidden)
	}
	if g.Status != StatusWaiting {
		return fmt.Errorf("%w: game is %s, not waiting", ErrInvalidState, g.Status)
	}
	if len(g.Players) < 2 {
		return fmt.Errorf("%w: need at least 2 players to start", ErrInvalidState)
	}

	g.TotalRounds = totalRoundsFor(len(g.Players))
	g.CurrentRound = 1
	g.ledger.Clear()
	g.Status = StatusBetting
	return nil
}

// PlaceBid records the caller's sealed bid for the current round. The
// bid that closes the ledger settles the round synchronously.
func (g *Game) PlaceBid(callerID string, amount int) error {
	caller, err := g.member(callerID)
	if err != nil {
		return err
	}
	if g.Status != StatusBetting {
		return fmt.Errorf("%w: bids are only accepted while betting, game is %s", ErrInvalidState, g.Status)
	}
	if amount < 0 || amount > caller.Money {
		return fmt.Errorf("%w: bid must be between 0 and %d, got %d", ErrInvalidInput, caller.Money, amount)
	}
	if err := g.ledger.Record(callerID, amount); err != nil {
		return err
	}

	if g.ledger.Closed(g.Players) {
		g.completeRound()
	}
	return nil
}

// HasBid reports whether the player has bid in the current round.
func (g *Game) HasBid(playerID string) bool {
	return g.ledger.HasBid(playerID)
}

// completeRound settles the closed ledger and evaluates termination.
func (g *Game) completeRound() {
	g.LastResult = settle(g.Mode, g.Players, g.ledger.Bids(), g.CurrentRound)
	if g.shouldEnd() {
		g.finish()
		return
	}
	g.Status = StatusRoundComplete
}

// shouldEnd is the termination predicate, checked after every
// settlement and again before every advance. Standard and Vickrey
// always run the full schedule; All-Pay also stops as soon as a player
// reaches the win threshold.
func (g *Game) shouldEnd() bool {
	if g.Mode == AllPay {
		for _, p := range g.Players {
			if p.RoundsWon >= float64(g.RoundsToWin) {
				return true
			}
		}
	}
	return g.CurrentRound >= g.TotalRounds
}

func (g *Game) finish() {
	g.Status = StatusGameComplete
	g.OverallWinner = g.resolveOverallWinner()
}

// resolveOverallWinner picks the champion, exactly once per game. An
// All-Pay player at the win threshold wins outright regardless of
// money; otherwise the most round wins takes it, with money as the
// tie-break and join order deciding exact ties.
func (g *Game) resolveOverallWinner() *Player {
	if g.Mode == AllPay {
		for _, p := range g.Players {
			if p.RoundsWon >= float64(g.RoundsToWin) {
				return p
			}
		}
	}

	var winner *Player
	for _, p := range g.Players {
		switch {
		case winner == nil:
			winner = p
		case p.RoundsWon > winner.RoundsWon:
			winner = p
		case p.RoundsWon == winner.RoundsWon && p.Money > winner.Money:
			winner = p
		}
	}
	return winner
}

// Advance starts the next betting round. Host only, and only from
// roundComplete. The termination predicate is re-checked first; if it
// already holds the game finishes instead of advancing.
func (g *Game) Advance(callerID string) error {
	caller, err := g.member(callerID)
	if err != nil {
		return err
	}
	if !caller.IsHost {
		return fmt.Errorf("%w: only the host can advance the round", ErrForbidden)
	}
	if g.Status != StatusRoundComplete {
		return fmt.Errorf("%w: game is %s, not between rounds", ErrInvalidState, g.Status)
	}

	if g.shouldEnd() {
		g.finish()
		return nil
	}

	g.CurrentRound++
	g.ledger.Clear()
	if g.LastResult != nil {
		g.LastResult.ShowResults = false
	}
	g.Status = StatusBetting
	return nil
}

// Reset returns the game to the waiting state, restoring every player's
// money and win count while preserving identities and join order. Host
// only.
func (g *Game) Reset(callerID string) error {
	caller, err := g.member(callerID)
	if err != nil {
		return err
	}
	if !caller.IsHost {
		return fmt.Errorf("%w: only the host can reset the game", ErrForbidden)
	}

	for _, p := range g.Players {
		p.Money = g.startingMoney
		p.RoundsWon = 0
	}
	g.CurrentRound = 0
	g.TotalRounds = 0
	g.LastResult = nil
	g.OverallWinner = nil
	g.ledger.Clear()
	g.Status = StatusWaiting
	return nil
}

// HideResults clears the round-result display flag for the given round.
// Idempotent; a stale call for an earlier round is a no-op.
func (g *Game) HideResults(round int) {
	if g.LastResult != nil && g.LastResult.Round == round {
		g.LastResult.ShowResults = false
	}
}
