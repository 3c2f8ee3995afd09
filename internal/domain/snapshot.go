package domain

// PlayerSnapshot is a read-only copy of one seat's state.
type PlayerSnapshot struct {
	UserID    string `json:"user_id"`
	Seat      int    `json:"seat"`
	Team      int    `json:"team"`
	Hand      []Card `json:"hand,omitempty"`
	TricksWon int    `json:"tricks_won"`
	Ready     bool   `json:"ready"`
}

// MatchSnapshot is a deep copy of the observable match state. It shares no
// slices with the live match, so presentation layers can hold it without
// racing the engine.
type MatchSnapshot struct {
	Phase        Phase              `json:"phase"`
	Players      []PlayerSnapshot   `json:"players"`
	Trump        Suit               `json:"trump"`
	TrumpChooser int                `json:"trump_chooser"`
	Dealer       int                `json:"dealer"`
	Turn         int                `json:"turn"`
	Trick        *Trick             `json:"trick,omitempty"`
	Scores       [TeamCount]int     `json:"scores"`
	Round        int                `json:"round"`
	WinningTeam  int                `json:"winning_team"`
}

// Snapshot captures the current match state as an independent copy.
func (m *Match) Snapshot() MatchSnapshot {
	players := make([]PlayerSnapshot, len(m.Players))
	for i, p := range m.Players {
		hand := make([]Card, len(p.Hand))
		copy(hand, p.Hand)
		players[i] = PlayerSnapshot{
			UserID:    p.UserID,
			Seat:      i,
			Team:      p.Team,
			Hand:      hand,
			TricksWon: p.TricksWon,
			Ready:     p.Ready,
		}
	}
	return MatchSnapshot{
		Phase:        m.Phase,
		Players:      players,
		Trump:        m.Trump,
		TrumpChooser: m.TrumpChooser,
		Dealer:       m.Dealer,
		Turn:         m.Turn,
		Trick:        m.Trick.clone(),
		Scores:       m.Scores,
		Round:        m.Round,
		WinningTeam:  m.WinningTeam,
	}
}

// HandBySuit groups a hand by suit in canonical suit order, each group sorted
// by descending rank. Presentation layers use it to render hands the way the
// game is usually shown.
func HandBySuit(hand []Card) map[Suit][]Card {
	out := make(map[Suit][]Card, len(Suits))
	for _, s := range Suits {
		var group []Card
		for _, c := range hand {
			if c.Suit == s {
				group = append(group, c)
			}
		}
		for i := 1; i < len(group); i++ {
			for j := i; j > 0 && group[j].Rank > group[j-1].Rank; j-- {
				group[j], group[j-1] = group[j-1], group[j]
			}
		}
		if len(group) > 0 {
			out[s] = group
		}
	}
	return out
}
