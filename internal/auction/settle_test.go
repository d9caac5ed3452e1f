package auction

import (
	"testing"
)

func testPlayers(names ...string) []*Player {
	players := make([]*Player, 0, len(names))
	for _, name := range names {
		players = append(players, &Player{ID: name, Name: name, Money: 100})
	}
	return players
}

func TestRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		bids        map[string]int
		wantHighest int
		wantTop     []string
		wantSecond  *int
		wantThird   *int
	}{
		{
			name:        "distinct bids",
			bids:        map[string]int{"a": 50, "b": 30, "c": 10},
			wantHighest: 50,
			wantTop:     []string{"a"},
			wantSecond:  intPtr(30),
		},
		{
			name:        "two way tie with third tier",
			bids:        map[string]int{"a": 40, "b": 40, "c": 20},
			wantHighest: 40,
			wantTop:     []string{"a", "b"},
			wantSecond:  intPtr(20),
			wantThird:   intPtr(20),
		},
		{
			name:        "two way tie no lower tier",
			bids:        map[string]int{"a": 40, "b": 40},
			wantHighest: 40,
			wantTop:     []string{"a", "b"},
		},
		{
			name:        "all tied at zero",
			bids:        map[string]int{"a": 0, "b": 0, "c": 0},
			wantHighest: 0,
			wantTop:     []string{"a", "b", "c"},
		},
		{
			name:        "tie below the top has no third tier effect",
			bids:        map[string]int{"a": 50, "b": 30, "c": 30},
			wantHighest: 50,
			wantTop:     []string{"a"},
			wantSecond:  intPtr(30),
		},
		{
			name: "empty ledger",
			bids: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			players := testPlayers("a", "b", "c")
			r := rank(players, tt.bids)

			if r.HighestBid != tt.wantHighest {
				t.Errorf("highest = %d, want %d", r.HighestBid, tt.wantHighest)
			}
			if len(r.HighestBidders) != len(tt.wantTop) {
				t.Fatalf("top bidders = %v, want %v", r.HighestBidders, tt.wantTop)
			}
			for i, id := range tt.wantTop {
				if r.HighestBidders[i] != id {
					t.Errorf("top bidders = %v, want %v", r.HighestBidders, tt.wantTop)
					break
				}
			}
			checkTier(t, "second", r.SecondHighest, r.HasSecond, tt.wantSecond)
			checkTier(t, "third", r.ThirdHighest, r.HasThird, tt.wantThird)
		})
	}
}

func checkTier(t *testing.T, name string, got int, has bool, want *int) {
	t.Helper()
	if want == nil {
		if has {
			t.Errorf("%s tier = %d, want absent", name, got)
		}
		return
	}
	if !has || got != *want {
		t.Errorf("%s tier = %d (has=%v), want %d", name, got, has, *want)
	}
}

func intPtr(v int) *int { return &v }

func TestWinCredit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		winners int
		want    float64
	}{
		{0, 0}, {1, 1.0}, {2, 0.5}, {3, 0.4}, {4, 0.3}, {5, 0.2}, {8, 0.2},
	}
	for _, tt := range tests {
		if got := winCredit(tt.winners); got != tt.want {
			t.Errorf("winCredit(%d) = %v, want %v", tt.winners, got, tt.want)
		}
	}
}

func TestSettleAllPayEveryonePaysOwnBid(t *testing.T) {
	t.Parallel()

	players := testPlayers("a", "b", "c")
	bids := map[string]int{"a": 50, "b": 30, "c": 10}

	res := settle(AllPay, players, bids, 1)

	for _, p := range players {
		if want := 100 - bids[p.ID]; p.Money != want {
			t.Errorf("%s money = %d, want %d", p.ID, p.Money, want)
		}
		if res.Payments[p.ID] != bids[p.ID] {
			t.Errorf("%s payment = %d, want own bid %d", p.ID, res.Payments[p.ID], bids[p.ID])
		}
	}
	if players[0].RoundsWon != 1.0 {
		t.Errorf("winner credit = %v, want 1.0", players[0].RoundsWon)
	}
	if players[1].RoundsWon != 0 || players[2].RoundsWon != 0 {
		t.Error("losers must receive no credit")
	}
}

func TestSettleStandardLosersUntouched(t *testing.T) {
	t.Parallel()

	players := testPlayers("a", "b", "c")
	bids := map[string]int{"a": 50, "b": 30, "c": 10}

	res := settle(Standard, players, bids, 1)

	if players[0].Money != 50 {
		t.Errorf("winner money = %d, want 50", players[0].Money)
	}
	if players[1].Money != 100 || players[2].Money != 100 {
		t.Error("losers' money must be unchanged in standard mode")
	}
	if len(res.Winners) != 1 || res.Winners[0] != "a" {
		t.Errorf("winners = %v, want [a]", res.Winners)
	}
}

func TestSettleStandardTieBothPayOwnBid(t *testing.T) {
	t.Parallel()

	players := testPlayers("a", "b", "c")
	bids := map[string]int{"a": 40, "b": 40, "c": 20}

	settle(Standard, players, bids, 1)

	if players[0].Money != 60 || players[1].Money != 60 {
		t.Errorf("tied winners must each pay their full bid, got %d and %d",
			players[0].Money, players[1].Money)
	}
	if players[2].Money != 100 {
		t.Errorf("loser money = %d, want 100", players[2].Money)
	}
	if players[0].RoundsWon != 0.5 || players[1].RoundsWon != 0.5 {
		t.Errorf("two-way tie credit = %v and %v, want 0.5 each",
			players[0].RoundsWon, players[1].RoundsWon)
	}
}

func TestSettleVickreySingleWinnerPaysSecond(t *testing.T) {
	t.Parallel()

	players := testPlayers("a", "b", "c")
	bids := map[string]int{"a": 50, "b": 30, "c": 10}

	res := settle(Vickrey, players, bids, 1)

	if players[0].Money != 70 {
		t.Errorf("winner pays second-highest 30, money = %d, want 70", players[0].Money)
	}
	if res.Payments["a"] != 30 {
		t.Errorf("winner payment = %d, want 30", res.Payments["a"])
	}
	if players[1].Money != 100 || players[2].Money != 100 {
		t.Error("non-winners must pay nothing in vickrey mode")
	}
}

func TestSettleVickreyTiePaysThird(t *testing.T) {
	t.Parallel()

	players := testPlayers("a", "b", "c")
	bids := map[string]int{"a": 40, "b": 40, "c": 20}

	res := settle(Vickrey, players, bids, 1)

	if players[0].Money != 80 || players[1].Money != 80 {
		t.Errorf("tied winners must each pay the third-highest 20, got %d and %d",
			players[0].Money, players[1].Money)
	}
	if res.ThirdHighest == nil || *res.ThirdHighest != 20 {
		t.Errorf("third-highest = %v, want 20", res.ThirdHighest)
	}
}

func TestSettleVickreyTieNoLowerTierPaysZero(t *testing.T) {
	t.Parallel()

	players := testPlayers("a", "b")
	bids := map[string]int{"a": 40, "b": 40}

	res := settle(Vickrey, players, bids, 1)

	if players[0].Money != 100 || players[1].Money != 100 {
		t.Errorf("with no lower tier both winners pay 0, got %d and %d",
			players[0].Money, players[1].Money)
	}
	if res.Payments["a"] != 0 || res.Payments["b"] != 0 {
		t.Errorf("payments = %v, want 0 each", res.Payments)
	}
	if players[0].RoundsWon != 0.5 || players[1].RoundsWon != 0.5 {
		t.Error("tie credit must still be 0.5 each")
	}
}

func TestSettleVickreySoloBidderPaysZero(t *testing.T) {
	t.Parallel()

	players := testPlayers("a")
	bids := map[string]int{"a": 40}

	settle(Vickrey, players, bids, 1)

	if players[0].Money != 100 {
		t.Errorf("solo bidder has no second-highest to pay, money = %d, want 100", players[0].Money)
	}
}

func TestSettleCreditSumsPerTieSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tied      int
		wantTotal float64
	}{
		{1, 1.0}, {2, 1.0}, {3, 1.2}, {4, 1.2}, {5, 1.0},
	}

	for _, tt := range tests {
		names := []string{"a", "b", "c", "d", "e"}[:tt.tied]
		players := testPlayers(names...)
		bids := make(map[string]int, tt.tied)
		for _, p := range players {
			bids[p.ID] = 10
		}

		settle(Standard, players, bids, 1)

		total := 0.0
		for _, p := range players {
			total += p.RoundsWon
		}
		if diff := total - tt.wantTotal; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%d-way tie total credit = %v, want %v", tt.tied, total, tt.wantTotal)
		}
	}
}

func TestSettleEmptyLedger(t *testing.T) {
	t.Parallel()

	players := testPlayers("a", "b")
	res := settle(Standard, players, map[string]int{}, 1)

	if len(res.Winners) != 0 {
		t.Errorf("winners = %v, want none", res.Winners)
	}
	if len(res.Payments) != 0 {
		t.Errorf("payments = %v, want none", res.Payments)
	}
	if !res.ShowResults {
		t.Error("an empty round still completes and shows results")
	}
	if players[0].Money != 100 || players[1].Money != 100 {
		t.Error("money must be untouched by an empty round")
	}
}
