// Package auction implements the core logic for a multi-round sealed-bid
// auction game.
//
// The main type is Game, which manages a group of players through the
// waiting → betting → roundComplete → gameComplete lifecycle. Each round
// every player records a sealed bid in a BidLedger; the bid that closes
// the ledger settles the round synchronously under the game's auction
// Mode and the termination predicate decides whether the game ends.
//
// # Basic Usage
//
// Create a game, add players and run rounds:
//
//	g, _ := auction.NewGame("k3v9p2", "Alice", auction.Vickrey)
//	bob, _ := g.Join("Bob")
//	_ = g.Start(g.Players[0].ID)
//	_ = g.PlaceBid(g.Players[0].ID, 40)
//	_ = g.PlaceBid(bob.ID, 25) // closes the ledger, settles the round
//
// # Settlement
//
// Settlement is split into a mode-independent ranking step (highest bid,
// tied top bidders, second- and third-highest tiers) and a per-Mode
// payment/credit rule. All three modes share the ranking; only the
// payment computation differs.
//
// # Concurrency
//
// Game methods are not safe for concurrent use. Callers must serialize
// all operations on a game; the server registry does this with a
// per-game lock so each round settles exactly once.
package auction
