package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	seen := make(map[Card]bool, DeckSize)
	for _, c := range deck {
		assert.True(t, c.Suit.Valid(), "unexpected suit: %v", c.Suit)
		assert.GreaterOrEqual(t, c.Rank, RankTwo)
		assert.LessOrEqual(t, c.Rank, RankAce)
		assert.False(t, seen[c], "duplicate card: %v", c)
		seen[c] = true
	}
}

func TestShuffleDeckIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	deck := NewDeck()
	shuffled := ShuffleDeck(rng, deck)

	require.Len(t, shuffled, DeckSize)
	assert.ElementsMatch(t, deck, shuffled, "shuffle must be a permutation of the canonical deck")
}

func TestShuffleDeckLeavesInputIntact(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	deck := NewDeck()
	before := make([]Card, len(deck))
	copy(before, deck)

	ShuffleDeck(rng, deck)
	assert.Equal(t, before, deck)
}

func TestDealPartitionsDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	deck := ShuffleDeck(rng, NewDeck())
	hands := Deal(deck)

	seen := make(map[Card]int, DeckSize)
	for seat, hand := range hands {
		require.Len(t, hand, HandSize, "seat %d hand size", seat)
		for _, c := range hand {
			seen[c]++
		}
	}
	require.Len(t, seen, DeckSize, "union of hands must cover the full deck")
	for c, n := range seen {
		assert.Equal(t, 1, n, "card %v dealt %d times", c, n)
	}
}

func TestDealContiguousBlocks(t *testing.T) {
	deck := NewDeck()
	hands := Deal(deck)
	for seat := 0; seat < SeatCount; seat++ {
		assert.Equal(t, deck[seat*HandSize:(seat+1)*HandSize], hands[seat])
	}
}

func TestDealPanicsOnShortDeck(t *testing.T) {
	assert.Panics(t, func() { Deal(NewDeck()[:51]) })
	assert.Panics(t, func() { Deal(nil) })
}
