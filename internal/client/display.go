package client

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/outbidhq/outbid/internal/auction"
)

// DisplayStyles contains styling for game display
type DisplayStyles struct {
	Header    lipgloss.Style
	SubHeader lipgloss.Style
	Winner    lipgloss.Style
	Money     lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	You       lipgloss.Style
}

// NewDisplayStyles creates a new set of display styles
func NewDisplayStyles() *DisplayStyles {
	return &DisplayStyles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true),
		SubHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Winner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Money: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		You: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")).
			Bold(true),
	}
}

// Display renders game snapshots to the terminal.
type Display struct {
	styles *DisplayStyles
}

// NewDisplay creates a new snapshot renderer.
func NewDisplay() *Display {
	return &Display{styles: NewDisplayStyles()}
}

// ShowError renders a server error.
func (d *Display) ShowError(code, message string) {
	fmt.Printf("%s %s\n", d.styles.Error.Render("error["+code+"]"), message)
}

// ShowSnapshot renders the full game state.
func (d *Display) ShowSnapshot(s auction.Snapshot) {
	fmt.Println()
	fmt.Println(d.styles.Header.Render(fmt.Sprintf("OUTBID | game %s | %s", s.GameID, s.Mode)))

	switch s.Status {
	case auction.StatusWaiting:
		fmt.Println(d.styles.Muted.Render("Waiting for players. Share the join code: " + s.GameID))
	case auction.StatusBetting:
		fmt.Println(d.styles.SubHeader.Render(fmt.Sprintf("Round %d of %d", s.CurrentRound, s.TotalRounds)))
	case auction.StatusRoundComplete:
		fmt.Println(d.styles.SubHeader.Render(fmt.Sprintf("Round %d of %d complete", s.CurrentRound, s.TotalRounds)))
	case auction.StatusGameComplete:
		fmt.Println(d.styles.Winner.Render("Game over"))
	}

	d.showPlayers(s)

	if s.LastRound != nil && (s.ShowResults || s.Status == auction.StatusGameComplete) {
		d.showRoundResult(s, *s.LastRound)
	}

	if s.OverallWinner != nil {
		fmt.Println(d.styles.Winner.Render(fmt.Sprintf("%s wins the game", s.OverallWinner.Name)))
	}

	if s.Status == auction.StatusBetting && !s.HasBid {
		fmt.Println(d.styles.Muted.Render("Place your bid with: bid <amount>"))
	}
}

func (d *Display) showPlayers(s auction.Snapshot) {
	for _, p := range s.Players {
		name := p.Name
		if p.ID == s.YourID {
			name = d.styles.You.Render(name + " (you)")
		}
		var marks []string
		if p.IsHost {
			marks = append(marks, "host")
		}
		if s.Status == auction.StatusBetting {
			if p.HasBid {
				marks = append(marks, "bid placed")
			} else {
				marks = append(marks, "thinking")
			}
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = d.styles.Muted.Render(" [" + strings.Join(marks, ", ") + "]")
		}
		fmt.Printf("  %s  %s  wins: %s%s\n",
			name,
			d.styles.Money.Render(fmt.Sprintf("$%d", p.Money)),
			formatWins(p.RoundsWon),
			suffix)
	}
}

func (d *Display) showRoundResult(s auction.Snapshot, r auction.RoundSnapshot) {
	fmt.Println(d.styles.SubHeader.Render(fmt.Sprintf("*** ROUND %d RESULTS ***", r.Round)))

	names := make(map[string]string, len(s.Players))
	for _, p := range s.Players {
		names[p.ID] = p.Name
	}

	ids := make([]string, 0, len(r.Bids))
	for id := range r.Bids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return r.Bids[ids[i]] > r.Bids[ids[j]] })

	winners := make(map[string]bool, len(r.Winners))
	for _, id := range r.Winners {
		winners[id] = true
	}

	for _, id := range ids {
		name := names[id]
		if name == "" {
			name = id
		}
		line := fmt.Sprintf("  %s bid %s, paid %s", name,
			d.styles.Money.Render(fmt.Sprintf("$%d", r.Bids[id])),
			d.styles.Money.Render(fmt.Sprintf("$%d", r.Payments[id])))
		if winners[id] {
			line += " " + d.styles.Winner.Render("winner")
		}
		fmt.Println(line)
	}

	if r.SecondHighest != nil {
		fmt.Println(d.styles.Muted.Render(fmt.Sprintf("  second-highest bid: $%d", *r.SecondHighest)))
	}
}

// formatWins renders a win tally without trailing noise for whole
// numbers. Split wins show the fraction.
func formatWins(wins float64) string {
	if wins == float64(int(wins)) {
		return fmt.Sprintf("%d", int(wins))
	}
	return fmt.Sprintf("%.1f", wins)
}
