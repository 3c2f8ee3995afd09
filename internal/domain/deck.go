package domain

import (
	"fmt"
	"math/rand"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// HandSize is the number of cards dealt to each of the four seats.
const HandSize = DeckSize / SeatCount

// NewDeck returns the 52 canonical cards in suit-major order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := RankTwo; r <= RankAce; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeck returns a uniformly shuffled copy of the given deck using the
// provided source of randomness.
func ShuffleDeck(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal splits a full deck into four 13-card hands, one per seat in seat
// order. The policy is contiguous blocks: seat 0 receives deck[0:13], seat 1
// deck[13:26], and so on. Dealing from anything but a 52-card deck is a
// programmer error and panics.
func Deal(deck []Card) [SeatCount][]Card {
	if len(deck) != DeckSize {
		panic(fmt.Sprintf("domain: deal requires a %d-card deck, got %d", DeckSize, len(deck)))
	}
	var hands [SeatCount][]Card
	for seat := 0; seat < SeatCount; seat++ {
		hand := make([]Card, HandSize)
		copy(hand, deck[seat*HandSize:(seat+1)*HandSize])
		hands[seat] = hand
	}
	return hands
}
