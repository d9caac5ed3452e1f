package auction

import "fmt"

// BidLedger records each player's sealed bid for the current round. A
// bid, once recorded, is immutable until the ledger is cleared for the
// next betting phase.
type BidLedger struct {
	bids map[string]int
}

// NewBidLedger creates an empty ledger.
func NewBidLedger() *BidLedger {
	return &BidLedger{bids: make(map[string]int)}
}

// Record stores a player's bid. It fails if the player already bid this
// round or the amount is negative.
func (l *BidLedger) Record(playerID string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: bid must be non-negative, got %d", ErrInvalidInput, amount)
	}
	if _, ok := l.bids[playerID]; ok {
		return fmt.Errorf("%w: player has already bid this round", ErrInvalidInput)
	}
	l.bids[playerID] = amount
	return nil
}

// Bid returns the player's recorded bid, if any.
func (l *BidLedger) Bid(playerID string) (int, bool) {
	amount, ok := l.bids[playerID]
	return amount, ok
}

// HasBid reports whether the player has a recorded bid this round.
func (l *BidLedger) HasBid(playerID string) bool {
	_, ok := l.bids[playerID]
	return ok
}

// Closed reports whether every listed player has a recorded bid.
func (l *BidLedger) Closed(players []*Player) bool {
	for _, p := range players {
		if _, ok := l.bids[p.ID]; !ok {
			return false
		}
	}
	return true
}

// Bids returns a copy of the recorded bids.
func (l *BidLedger) Bids() map[string]int {
	bids := make(map[string]int, len(l.bids))
	for id, amount := range l.bids {
		bids[id] = amount
	}
	return bids
}

// Len returns the number of recorded bids.
func (l *BidLedger) Len() int {
	return len(l.bids)
}

// Clear discards all recorded bids for a new betting round.
func (l *BidLedger) Clear() {
	l.bids = make(map[string]int)
}
