package domain

// Suit identifies one of the four card suits.
type Suit int

// SuitNone marks the absence of a suit, e.g. a trump that has not been chosen yet.
const SuitNone Suit = -1

const (
	SuitHearts Suit = iota
	SuitDiamonds
	SuitClubs
	SuitSpades
)

// Suits lists the four playable suits in canonical order.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Valid reports whether s is one of the four playable suits.
func (s Suit) Valid() bool {
	return s >= SuitHearts && s <= SuitSpades
}

func (s Suit) String() string {
	switch s {
	case SuitHearts:
		return "♥"
	case SuitDiamonds:
		return "♦"
	case SuitClubs:
		return "♣"
	case SuitSpades:
		return "♠"
	default:
		return "?"
	}
}

// Rank is the face value of a card. Numeric value doubles as strength: 2 is
// weakest, ace (14) is strongest.
type Rank int

const (
	RankTwo Rank = iota + 2
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

func (r Rank) String() string {
	switch r {
	case RankTen:
		return "10"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	default:
		if r >= RankTwo && r <= RankNine {
			return string(rune('0' + int(r)))
		}
		return "?"
	}
}

// Card is a single playing card. Cards are compared by (suit, rank); no two
// cards in a deck share both.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Beats reports whether c wins over other when played into a trick with the
// given trump suit. Within a suit higher rank wins, trump beats any non-trump,
// and two different non-trump suits never beat each other (the earlier card
// stands).
func (c Card) Beats(other Card, trump Suit) bool {
	if c.Suit == other.Suit {
		return c.Rank > other.Rank
	}
	if c.Suit == trump {
		return true
	}
	return false
}
