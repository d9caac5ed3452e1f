package auction

// PlayerSnapshot is the public view of a player.
type PlayerSnapshot struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Money     int     `json:"money"`
	RoundsWon float64 `json:"roundsWon"`
	IsHost    bool    `json:"isHost"`
	HasBid    bool    `json:"hasBid"`
}

// RoundSnapshot describes the last settled round.
type RoundSnapshot struct {
	Round         int            `json:"round"`
	Bids          map[string]int `json:"bids"`
	Payments      map[string]int `json:"payments"`
	Winners       []string       `json:"winners,omitempty"`
	HighestBid    int            `json:"highestBid"`
	SecondHighest *int           `json:"secondHighest,omitempty"`
	ThirdHighest  *int           `json:"thirdHighest,omitempty"`
}

// Snapshot is a consistent view of the game personalized for the
// requesting player.
type Snapshot struct {
	GameID        string           `json:"gameId"`
	Mode          string           `json:"mode"`
	Status        Status           `json:"status"`
	CurrentRound  int              `json:"currentRound"`
	TotalRounds   int              `json:"totalRounds"`
	RoundsToWin   int              `json:"roundsToWin"`
	Players       []PlayerSnapshot `json:"players"`
	YourID        string           `json:"yourId"`
	YourBid       *int             `json:"yourBid,omitempty"`
	HasBid        bool             `json:"hasBid"`
	ShowResults   bool             `json:"showResults"`
	LastRound     *RoundSnapshot   `json:"lastRound,omitempty"`
	OverallWinner *PlayerSnapshot  `json:"overallWinner,omitempty"`
}

// SnapshotFor builds the snapshot for one member of the game.
func (g *Game) SnapshotFor(callerID string) (Snapshot, error) {
	caller, err := g.member(callerID)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		GameID:       g.ID,
		Mode:         g.Mode.String(),
		Status:       g.Status,
		CurrentRound: g.CurrentRound,
		TotalRounds:  g.TotalRounds,
		RoundsToWin:  g.RoundsToWin,
		Players:      make([]PlayerSnapshot, 0, len(g.Players)),
		YourID:       caller.ID,
		HasBid:       g.ledger.HasBid(caller.ID),
	}
	for _, p := range g.Players {
		snap.Players = append(snap.Players, playerSnapshot(p, g.ledger.HasBid(p.ID)))
	}
	if bid, ok := g.ledger.Bid(caller.ID); ok {
		snap.YourBid = &bid
	}
	if g.LastResult != nil {
		snap.ShowResults = g.LastResult.ShowResults
		snap.LastRound = &RoundSnapshot{
			Round:         g.LastResult.Round,
			Bids:          g.LastResult.Bids,
			Payments:      g.LastResult.Payments,
			Winners:       g.LastResult.Winners,
			HighestBid:    g.LastResult.HighestBid,
			SecondHighest: g.LastResult.SecondHighest,
			ThirdHighest:  g.LastResult.ThirdHighest,
		}
	}
	if g.OverallWinner != nil {
		w := playerSnapshot(g.OverallWinner, false)
		snap.OverallWinner = &w
	}
	return snap, nil
}

func playerSnapshot(p *Player, hasBid bool) PlayerSnapshot {
	return PlayerSnapshot{
		ID:        p.ID,
		Name:      p.Name,
		Money:     p.Money,
		RoundsWon: p.RoundsWon,
		IsHost:    p.IsHost,
		HasBid:    hasBid,
	}
}
