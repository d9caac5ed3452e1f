package auction

// Ranking is the mode-independent view of a closed bid ledger: the top
// bid, everyone tied at it, and the next distinct tiers that the payment
// rules price against.
type Ranking struct {
	Bids           map[string]int
	HighestBid     int
	HighestBidders []string // join order

	// SecondHighest is the highest amount strictly below the top bid.
	// Absent when every bid equals the top bid.
	SecondHighest int
	HasSecond     bool

	// ThirdHighest is only computed when the top bid is tied: the
	// highest bid among players outside the tied set.
	ThirdHighest int
	HasThird     bool
}

// rank computes the Ranking for a set of bids. Players are scanned in
// join order so tied top bidders come out deterministically ordered.
func rank(players []*Player, bids map[string]int) Ranking {
	r := Ranking{Bids: bids}
	if len(bids) == 0 {
		return r
	}

	for _, p := range players {
		bid, ok := bids[p.ID]
		if !ok {
			continue
		}
		if len(r.HighestBidders) == 0 || bid > r.HighestBid {
			r.HighestBid = bid
			r.HighestBidders = r.HighestBidders[:0]
		}
		if bid == r.HighestBid {
			r.HighestBidders = append(r.HighestBidders, p.ID)
		}
	}

	for _, bid := range bids {
		if bid >= r.HighestBid {
			continue
		}
		if !r.HasSecond || bid > r.SecondHighest {
			r.SecondHighest = bid
			r.HasSecond = true
		}
	}

	if len(r.HighestBidders) > 1 {
		top := make(map[string]bool, len(r.HighestBidders))
		for _, id := range r.HighestBidders {
			top[id] = true
		}
		for id, bid := range bids {
			if top[id] {
				continue
			}
			if !r.HasThird || bid > r.ThirdHighest {
				r.ThirdHighest = bid
				r.HasThird = true
			}
		}
	}

	return r
}

// winCredit returns the fractional round credit each tied winner
// receives. The table intentionally does not sum to 1 for three or more
// winners; that asymmetry comes from the game rules themselves.
func winCredit(winners int) float64 {
	switch winners {
	case 0:
		return 0
	case 1:
		return 1.0
	case 2:
		return 0.5
	case 3:
		return 0.4
	case 4:
		return 0.3
	default:
		return 0.2
	}
}

// topBidderCredit awards the fractional credit to every tied top bidder.
// All three modes credit winners the same way.
func topBidderCredit(r Ranking) map[string]float64 {
	credit := make(map[string]float64, len(r.HighestBidders))
	c := winCredit(len(r.HighestBidders))
	for _, id := range r.HighestBidders {
		credit[id] = c
	}
	return credit
}

// allPayRules: every bidder pays their own bid, win or lose.
type allPayRules struct{}

func (allPayRules) computePayments(r Ranking) map[string]int {
	payments := make(map[string]int, len(r.Bids))
	for id, bid := range r.Bids {
		payments[id] = bid
	}
	return payments
}

func (allPayRules) computeCredit(r Ranking) map[string]float64 {
	return topBidderCredit(r)
}

// standardRules: only the top bidders pay, each their own full bid.
type standardRules struct{}

func (standardRules) computePayments(r Ranking) map[string]int {
	payments := make(map[string]int, len(r.HighestBidders))
	for _, id := range r.HighestBidders {
		payments[id] = r.Bids[id]
	}
	return payments
}

func (standardRules) computeCredit(r Ranking) map[string]float64 {
	return topBidderCredit(r)
}

// vickreyRules: a single winner pays the second-highest bid; tied
// winners pay the third-highest bid, falling back to the second-highest
// and then to zero when no lower tier exists.
type vickreyRules struct{}

func (vickreyRules) computePayments(r Ranking) map[string]int {
	price := 0
	switch {
	case len(r.HighestBidders) == 1 && r.HasSecond:
		price = r.SecondHighest
	case len(r.HighestBidders) > 1 && r.HasThird:
		price = r.ThirdHighest
	case len(r.HighestBidders) > 1 && r.HasSecond:
		price = r.SecondHighest
	}

	payments := make(map[string]int, len(r.HighestBidders))
	for _, id := range r.HighestBidders {
		payments[id] = price
	}
	return payments
}

func (vickreyRules) computeCredit(r Ranking) map[string]float64 {
	return topBidderCredit(r)
}

// RoundResult is the settled outcome of a single round, kept for display
// until the next round starts or the display timer clears the flag.
type RoundResult struct {
	Round         int
	Bids          map[string]int
	Payments      map[string]int
	Winners       []string
	HighestBid    int
	SecondHighest *int
	ThirdHighest  *int
	ShowResults   bool
}

// settle ranks a closed ledger under the given mode, applies payments
// and win credit to the players, and returns the recorded result. A
// round with zero bids settles with no winners and no payments.
func settle(mode Mode, players []*Player, bids map[string]int, round int) *RoundResult {
	r := rank(players, bids)

	res := &RoundResult{
		Round:       round,
		Bids:        bids,
		Payments:    map[string]int{},
		HighestBid:  r.HighestBid,
		ShowResults: true,
	}
	if r.HasSecond {
		v := r.SecondHighest
		res.SecondHighest = &v
	}
	if r.HasThird {
		v := r.ThirdHighest
		res.ThirdHighest = &v
	}
	if len(bids) == 0 {
		return res
	}

	rules := mode.rules()
	res.Payments = rules.computePayments(r)
	res.Winners = append([]string(nil), r.HighestBidders...)

	credit := rules.computeCredit(r)
	for _, p := range players {
		if payment, ok := res.Payments[p.ID]; ok {
			p.Money -= payment
		}
		if c, ok := credit[p.ID]; ok {
			p.RoundsWon += c
		}
	}
	return res
}
