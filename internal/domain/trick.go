package domain

// PlayedCard records a card together with the seat that played it.
type PlayedCard struct {
	Seat int  `json:"seat"`
	Card Card `json:"card"`
}

// Trick is one exchange of up to four cards, one per seat. The first card
// played fixes the lead suit that the other seats must follow when able.
type Trick struct {
	Cards    []PlayedCard `json:"cards"`
	LeadSeat int          `json:"lead_seat"`
	LeadSuit Suit         `json:"lead_suit"`
}

// NewTrick creates an empty trick led by the given seat.
func NewTrick(leader int) *Trick {
	return &Trick{
		Cards:    make([]PlayedCard, 0, SeatCount),
		LeadSeat: leader,
		LeadSuit: SuitNone,
	}
}

// AddCard appends a played card. The first card sets the lead suit.
func (t *Trick) AddCard(seat int, c Card) {
	if len(t.Cards) == 0 {
		t.LeadSuit = c.Suit
	}
	t.Cards = append(t.Cards, PlayedCard{Seat: seat, Card: c})
}

// IsComplete reports whether all four seats have played.
func (t *Trick) IsComplete() bool {
	return len(t.Cards) == SeatCount
}

// Winner returns the seat holding the strongest card: any trump beats any
// non-trump, higher rank wins within a suit, and a card that is neither trump
// nor lead suit cannot win. The result is unique because no two cards share
// (suit, rank). Calling Winner on an empty trick returns -1.
func (t *Trick) Winner(trump Suit) int {
	if len(t.Cards) == 0 {
		return -1
	}
	best := t.Cards[0]
	for _, pc := range t.Cards[1:] {
		if pc.Card.Beats(best.Card, trump) {
			best = pc
		}
	}
	return best.Seat
}

// clone returns a deep copy so snapshots never alias live trick state.
func (t *Trick) clone() *Trick {
	if t == nil {
		return nil
	}
	out := &Trick{
		Cards:    make([]PlayedCard, len(t.Cards)),
		LeadSeat: t.LeadSeat,
		LeadSuit: t.LeadSuit,
	}
	copy(out.Cards, t.Cards)
	return out
}
