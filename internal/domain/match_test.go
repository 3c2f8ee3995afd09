package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seatedMatch(t *testing.T, ids ...string) *Match {
	t.Helper()
	m := NewMatch(0)
	for i, id := range ids {
		seat, err := m.AddPlayer(id)
		require.NoError(t, err)
		require.Equal(t, i, seat)
	}
	return m
}

// fullMatch returns a started match with an unshuffled deck, so seat 0 holds
// all hearts, seat 1 all diamonds, seat 2 all clubs and seat 3 all spades.
func fullMatch(t *testing.T) *Match {
	t.Helper()
	m := seatedMatch(t, "a", "b", "c", "d")
	require.NoError(t, m.Start(NewDeck()))
	return m
}

func TestAddPlayerAssignsTeamsBySeatParity(t *testing.T) {
	m := seatedMatch(t, "a", "b", "c", "d")
	for seat, p := range m.Players {
		assert.Equal(t, seat%2, p.Team)
	}

	_, err := m.AddPlayer("e")
	assert.ErrorIs(t, err, ErrMatchFull)

	_, err = NewMatch(0).AddPlayer("")
	assert.NoError(t, err)
}

func TestAddPlayerRejectsDuplicate(t *testing.T) {
	m := seatedMatch(t, "a", "b")
	_, err := m.AddPlayer("a")
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.Len(t, m.Players, 2)
}

func TestRemovePlayerShiftsSeatsAndTeams(t *testing.T) {
	m := seatedMatch(t, "a", "b", "c")
	require.NoError(t, m.RemovePlayer("a"))

	seat, err := m.SeatOf("b")
	require.NoError(t, err)
	assert.Equal(t, 0, seat)
	assert.Equal(t, 0, m.Players[0].Team)
	assert.Equal(t, 1, m.Players[1].Team)

	assert.ErrorIs(t, m.RemovePlayer("zz"), ErrUnknownPlayer)
}

func TestRemovePlayerOnlyWhileWaiting(t *testing.T) {
	m := fullMatch(t)
	assert.ErrorIs(t, m.RemovePlayer("a"), ErrWrongPhase)
	assert.Len(t, m.Players, 4)
}

func TestSetReady(t *testing.T) {
	m := seatedMatch(t, "a", "b")
	require.NoError(t, m.SetReady("a", true))
	assert.Equal(t, 1, m.ReadyCount())

	require.NoError(t, m.SetReady("a", false))
	assert.Equal(t, 0, m.ReadyCount())

	assert.ErrorIs(t, m.SetReady("zz", true), ErrUnknownPlayer)
}

func TestStartRequiresFourPlayers(t *testing.T) {
	m := seatedMatch(t, "a", "b", "c")
	assert.ErrorIs(t, m.Start(NewDeck()), ErrNotEnoughPlayers)
	assert.Equal(t, PhaseWaiting, m.Phase)
}

func TestStartDealsAndOpensTrumpChoice(t *testing.T) {
	m := fullMatch(t)

	assert.Equal(t, PhaseChoosingTrump, m.Phase)
	assert.Equal(t, 1, m.Round)
	assert.Equal(t, 0, m.Dealer)
	assert.Equal(t, 1, m.TrumpChooser, "chooser is the seat after the dealer")
	assert.Equal(t, m.TrumpChooser, m.Turn)
	assert.Equal(t, SuitNone, m.Trump)
	for _, p := range m.Players {
		assert.Len(t, p.Hand, HandSize)
	}

	assert.ErrorIs(t, m.Start(NewDeck()), ErrWrongPhase)
}

func TestChooseTrump(t *testing.T) {
	m := fullMatch(t)

	assert.ErrorIs(t, m.ChooseTrump(0, SuitHearts), ErrNotAuthorized)
	assert.ErrorIs(t, m.ChooseTrump(1, SuitNone), ErrInvalidSuit)
	assert.Equal(t, PhaseChoosingTrump, m.Phase)

	require.NoError(t, m.ChooseTrump(1, SuitDiamonds))
	assert.Equal(t, PhasePlaying, m.Phase)
	assert.Equal(t, SuitDiamonds, m.Trump)
	assert.Equal(t, 1, m.Turn, "the chooser leads the first trick")
	require.NotNil(t, m.Trick)

	assert.ErrorIs(t, m.ChooseTrump(1, SuitClubs), ErrWrongPhase)
}

func TestPlayCardTurnAndPossession(t *testing.T) {
	m := fullMatch(t)
	require.NoError(t, m.ChooseTrump(1, SuitDiamonds))

	_, err := m.PlayCard(0, Card{Suit: SuitHearts, Rank: RankAce})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = m.PlayCard(1, Card{Suit: SuitSpades, Rank: RankAce})
	assert.ErrorIs(t, err, ErrCardNotHeld)

	assert.Len(t, m.Players[1].Hand, HandSize)
	assert.Empty(t, m.Trick.Cards)
}

func TestPlayCardRejectsBeforeTrump(t *testing.T) {
	m := fullMatch(t)
	_, err := m.PlayCard(1, m.Players[1].Hand[0])
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestPlayCardMustFollowSuit(t *testing.T) {
	// Swap one card between the diamond and club blocks so seat 2 holds a
	// single diamond it is forced to follow with.
	deck := NewDeck()
	di, ci := -1, -1
	for i, c := range deck {
		if c == (Card{Suit: SuitDiamonds, Rank: RankTwo}) {
			di = i
		}
		if c == (Card{Suit: SuitClubs, Rank: RankTwo}) {
			ci = i
		}
	}
	require.GreaterOrEqual(t, di, 0)
	require.GreaterOrEqual(t, ci, 0)
	deck[di], deck[ci] = deck[ci], deck[di]

	m := seatedMatch(t, "a", "b", "c", "d")
	require.NoError(t, m.Start(deck))
	require.NoError(t, m.ChooseTrump(1, SuitSpades))

	_, err := m.PlayCard(1, Card{Suit: SuitDiamonds, Rank: RankAce})
	require.NoError(t, err)

	before := m.Snapshot()
	_, err = m.PlayCard(2, Card{Suit: SuitClubs, Rank: RankThree})
	assert.ErrorIs(t, err, ErrMustFollowSuit)
	assert.Equal(t, before, m.Snapshot(), "a rejected play must not change anything")

	// The one diamond seat 2 holds is legal.
	_, err = m.PlayCard(2, Card{Suit: SuitDiamonds, Rank: RankTwo})
	assert.NoError(t, err)
}

func TestPlayCardOffSuitAllowedWhenVoid(t *testing.T) {
	m := fullMatch(t)
	require.NoError(t, m.ChooseTrump(1, SuitDiamonds))

	_, err := m.PlayCard(1, Card{Suit: SuitDiamonds, Rank: RankAce})
	require.NoError(t, err)

	// Seat 2 holds only clubs, so any club is legal against a diamond lead.
	_, err = m.PlayCard(2, Card{Suit: SuitClubs, Rank: RankTwo})
	assert.NoError(t, err)
	assert.Equal(t, 3, m.Turn)
}

func TestFullRoundTrumpHolderSweeps(t *testing.T) {
	m := fullMatch(t)
	require.NoError(t, m.ChooseTrump(1, SuitDiamonds))

	var last PlayResult
	for trick := 0; trick < HandSize; trick++ {
		for i := 0; i < SeatCount; i++ {
			seat := m.Turn
			res, err := m.PlayCard(seat, m.Players[seat].Hand[0])
			require.NoError(t, err)
			last = res
		}
		require.NotNil(t, last.TrickWinner)
		assert.Equal(t, 1, *last.TrickWinner, "the only trump holder wins every trick")
	}

	assert.True(t, last.GameEnded)
	assert.Equal(t, 1, last.WinningTeam)
	assert.Equal(t, [TeamCount]int{0, 7}, last.RoundPoints)
	assert.Equal(t, PhaseGameEnd, m.Phase)
	assert.Equal(t, 1, m.WinningTeam)
	assert.Equal(t, [TeamCount]int{0, 7}, m.Scores)
	assert.Equal(t, 13, m.Players[1].TricksWon)
	assert.Len(t, m.Completed, HandSize)
}

func TestRoundEndWhenNoTeamReachesTarget(t *testing.T) {
	m := seatedMatch(t, "a", "b", "c", "d")
	m.WinningScore = 20
	require.NoError(t, m.Start(NewDeck()))
	require.NoError(t, m.ChooseTrump(1, SuitDiamonds))

	var last PlayResult
	for m.Phase == PhasePlaying {
		seat := m.Turn
		res, err := m.PlayCard(seat, m.Players[seat].Hand[0])
		require.NoError(t, err)
		last = res
	}

	assert.True(t, last.RoundEnded)
	assert.False(t, last.GameEnded)
	assert.Equal(t, PhaseRoundEnd, m.Phase)
	assert.Equal(t, [TeamCount]int{0, 7}, m.Scores)
	assert.Equal(t, -1, m.Turn)
	assert.Nil(t, m.Trick)
}

func TestNextRoundRotatesDealer(t *testing.T) {
	m := seatedMatch(t, "a", "b", "c", "d")
	m.WinningScore = 20
	require.NoError(t, m.Start(NewDeck()))
	require.NoError(t, m.ChooseTrump(1, SuitDiamonds))
	for m.Phase == PhasePlaying {
		seat := m.Turn
		_, err := m.PlayCard(seat, m.Players[seat].Hand[0])
		require.NoError(t, err)
	}

	require.NoError(t, m.NextRound(NewDeck()))
	assert.Equal(t, PhaseChoosingTrump, m.Phase)
	assert.Equal(t, 2, m.Round)
	assert.Equal(t, 1, m.Dealer)
	assert.Equal(t, 2, m.TrumpChooser)
	assert.Equal(t, SuitNone, m.Trump)
	for _, p := range m.Players {
		assert.Len(t, p.Hand, HandSize)
		assert.Equal(t, 0, p.TricksWon)
	}
	assert.Equal(t, [TeamCount]int{0, 7}, m.Scores, "cumulative scores survive the re-deal")

	assert.ErrorIs(t, m.NextRound(NewDeck()), ErrWrongPhase)
}

func TestCancelIsTerminalAndIdempotent(t *testing.T) {
	m := fullMatch(t)
	m.Cancel()
	m.Cancel()

	assert.Equal(t, PhaseCancelled, m.Phase)
	assert.Equal(t, -1, m.Turn)
	assert.Nil(t, m.Trick)
	for _, p := range m.Players {
		assert.Nil(t, p.Hand)
	}

	_, err := m.AddPlayer("e")
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.ErrorIs(t, m.Start(NewDeck()), ErrWrongPhase)
	assert.True(t, errors.Is(m.ChooseTrump(0, SuitHearts), ErrWrongPhase))
}

func TestSnapshotIsDetached(t *testing.T) {
	m := fullMatch(t)
	require.NoError(t, m.ChooseTrump(1, SuitClubs))

	snap := m.Snapshot()
	require.Len(t, snap.Players, SeatCount)

	snap.Players[0].Hand[0] = Card{Suit: SuitSpades, Rank: RankAce}
	snap.Scores[0] = 99
	assert.Equal(t, SuitHearts, m.Players[0].Hand[0].Suit, "snapshot hands must be copies")
	assert.Equal(t, 0, m.Scores[0])

	_, err := m.PlayCard(1, m.Players[1].Hand[0])
	require.NoError(t, err)
	assert.Empty(t, snap.Trick.Cards, "snapshot trick must not track the live trick")
}
