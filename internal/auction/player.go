package auction

// Player represents a participant in a game. Money and RoundsWon are
// mutated only by round settlement and by Reset; IsHost is set at game
// creation and never transferred.
type Player struct {
	ID        string
	Name      string
	Money     int
	RoundsWon float64
	IsHost    bool
}
