package auction

import "fmt"

// Mode selects the auction mechanism used to settle each round.
type Mode int

const (
	AllPay Mode = iota
	Standard
	Vickrey
)

func (m Mode) String() string {
	return [...]string{"all-pay", "standard", "vickrey"}[m]
}

// ParseMode maps a wire name to a Mode. An empty name selects AllPay.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "all-pay":
		return AllPay, nil
	case "standard":
		return Standard, nil
	case "vickrey":
		return Vickrey, nil
	}
	return AllPay, fmt.Errorf("%w: unknown auction mode %q", ErrInvalidInput, name)
}

// modeRules computes per-player payments and win credit for a ranked
// round. One implementation exists per Mode; all of them operate on the
// same shared Ranking.
type modeRules interface {
	computePayments(r Ranking) map[string]int
	computeCredit(r Ranking) map[string]float64
}

func (m Mode) rules() modeRules {
	switch m {
	case Standard:
		return standardRules{}
	case Vickrey:
		return vickreyRules{}
	default:
		return allPayRules{}
	}
}
