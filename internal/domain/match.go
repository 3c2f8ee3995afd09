package domain

import "errors"

// SeatCount is the fixed number of seats in a Hokm match.
const SeatCount = 4

// TeamCount is the number of partnerships. Seats 0 and 2 form team 0, seats 1
// and 3 form team 1.
const TeamCount = 2

// BaselineTricks is the number of tricks a team must exceed to score points
// in a round.
const BaselineTricks = 6

// DefaultWinningScore is the cumulative team score that ends the match.
const DefaultWinningScore = 7

// Phase represents the lifecycle stage of a Hokm match.
type Phase string

const (
	// PhaseWaiting is the pre-game state where players can join.
	PhaseWaiting Phase = "waiting"
	// PhaseChoosingTrump means hands are dealt and the chooser must pick a trump suit.
	PhaseChoosingTrump Phase = "choosing_trump"
	// PhasePlaying is the active state where tricks are played.
	PhasePlaying Phase = "playing"
	// PhaseRoundEnd means a round finished without deciding the match.
	PhaseRoundEnd Phase = "round_end"
	// PhaseGameEnd means a team reached the winning score.
	PhaseGameEnd Phase = "game_end"
	// PhaseCancelled is the terminal state after an explicit cancel.
	PhaseCancelled Phase = "cancelled"
)

var (
	ErrMatchFull        = errors.New("match already has four players")
	ErrAlreadyJoined    = errors.New("player already joined this match")
	ErrUnknownPlayer    = errors.New("player not found in match")
	ErrNotEnoughPlayers = errors.New("match needs exactly four players to start")
	ErrWrongPhase       = errors.New("operation not allowed in current phase")
	ErrNotAuthorized    = errors.New("seat is not the designated trump chooser")
	ErrInvalidSuit      = errors.New("suit is not one of the four playable suits")
	ErrNotYourTurn      = errors.New("seat does not hold the turn")
	ErrCardNotHeld      = errors.New("card is not in the seat's hand")
	ErrMustFollowSuit   = errors.New("seat holds the lead suit and must follow it")
)

// Player holds the state for one seat in a match.
type Player struct {
	UserID    string
	Hand      []Card
	Team      int
	TricksWon int
	Ready     bool
}

// HasSuit reports whether the player holds at least one card of the suit.
func (p *Player) HasSuit(s Suit) bool {
	for _, c := range p.Hand {
		if c.Suit == s {
			return true
		}
	}
	return false
}

// HasCard reports whether the player holds the exact card.
func (p *Player) HasCard(c Card) bool {
	for _, held := range p.Hand {
		if held == c {
			return true
		}
	}
	return false
}

func (p *Player) removeCard(c Card) {
	for i, held := range p.Hand {
		if held == c {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// Match is the authoritative state of one Hokm match. Seat order is join
// order; teams alternate by seat so partners sit opposite each other. All
// operations are synchronous transitions that either fully apply or leave the
// match untouched.
type Match struct {
	Phase        Phase
	Players      []*Player // seat index = join order, at most SeatCount
	Trump        Suit
	TrumpChooser int
	Dealer       int
	Turn         int
	Trick        *Trick
	Completed    []Trick // tricks resolved this round
	Scores       [TeamCount]int
	Round        int
	WinningTeam  int
	WinningScore int
}

// NewMatch creates an empty match in the waiting phase. A non-positive
// winningScore falls back to DefaultWinningScore.
func NewMatch(winningScore int) *Match {
	if winningScore <= 0 {
		winningScore = DefaultWinningScore
	}
	return &Match{
		Phase:        PhaseWaiting,
		Trump:        SuitNone,
		TrumpChooser: -1,
		Turn:         -1,
		WinningTeam:  -1,
		WinningScore: winningScore,
	}
}

// AddPlayer seats a new player in join order and assigns the team by seat
// parity. Returns the seat index.
func (m *Match) AddPlayer(userID string) (int, error) {
	if m.Phase != PhaseWaiting {
		return -1, ErrWrongPhase
	}
	if len(m.Players) >= SeatCount {
		return -1, ErrMatchFull
	}
	if _, err := m.SeatOf(userID); err == nil {
		return -1, ErrAlreadyJoined
	}
	seat := len(m.Players)
	m.Players = append(m.Players, &Player{
		UserID: userID,
		Team:   seat % TeamCount,
	})
	return seat, nil
}

// RemovePlayer frees a seat before the match starts. Later seats shift down
// and team assignments are recomputed from the new join order.
func (m *Match) RemovePlayer(userID string) error {
	if m.Phase != PhaseWaiting {
		return ErrWrongPhase
	}
	seat, err := m.SeatOf(userID)
	if err != nil {
		return err
	}
	m.Players = append(m.Players[:seat], m.Players[seat+1:]...)
	for i, p := range m.Players {
		p.Team = i % TeamCount
	}
	return nil
}

// SeatOf returns the seat index currently occupied by the user.
func (m *Match) SeatOf(userID string) (int, error) {
	for i, p := range m.Players {
		if p.UserID == userID {
			return i, nil
		}
	}
	return -1, ErrUnknownPlayer
}

// SetReady toggles a player's ready flag.
func (m *Match) SetReady(userID string, ready bool) error {
	seat, err := m.SeatOf(userID)
	if err != nil {
		return err
	}
	m.Players[seat].Ready = ready
	return nil
}

// ReadyCount returns how many seated players have flagged ready.
func (m *Match) ReadyCount() int {
	n := 0
	for _, p := range m.Players {
		if p.Ready {
			n++
		}
	}
	return n
}

// Start begins the first round with the given shuffled 52-card deck. The
// trump chooser is the seat after the dealer and also leads the first trick
// once trump is chosen.
func (m *Match) Start(deck []Card) error {
	if m.Phase != PhaseWaiting {
		return ErrWrongPhase
	}
	if len(m.Players) != SeatCount {
		return ErrNotEnoughPlayers
	}
	m.Round = 1
	m.beginRound(deck)
	return nil
}

// NextRound re-deals for a fresh round after a round ends: the dealer rotates
// by one seat, trick counters reset and a new trump will be chosen.
func (m *Match) NextRound(deck []Card) error {
	if m.Phase != PhaseRoundEnd {
		return ErrWrongPhase
	}
	m.Dealer = (m.Dealer + 1) % SeatCount
	m.Round++
	m.beginRound(deck)
	return nil
}

func (m *Match) beginRound(deck []Card) {
	hands := Deal(deck)
	for seat, p := range m.Players {
		p.Hand = hands[seat]
		p.TricksWon = 0
	}
	m.Trump = SuitNone
	m.TrumpChooser = (m.Dealer + 1) % SeatCount
	m.Turn = m.TrumpChooser
	m.Trick = nil
	m.Completed = nil
	m.Phase = PhaseChoosingTrump
}

// ChooseTrump sets the trump suit for the round. Only the designated chooser
// may call it, and the chooser leads the first trick.
func (m *Match) ChooseTrump(seat int, suit Suit) error {
	if m.Phase != PhaseChoosingTrump {
		return ErrWrongPhase
	}
	if seat != m.TrumpChooser {
		return ErrNotAuthorized
	}
	if !suit.Valid() {
		return ErrInvalidSuit
	}
	m.Trump = suit
	m.Trick = NewTrick(m.TrumpChooser)
	m.Turn = m.TrumpChooser
	m.Phase = PhasePlaying
	return nil
}

// PlayResult describes what a successful PlayCard completed.
type PlayResult struct {
	// TrickWinner is set when the play completed a trick.
	TrickWinner *int
	// RoundPoints holds each team's points earned this round; only meaningful
	// when RoundEnded or GameEnded is set.
	RoundPoints [TeamCount]int
	RoundEnded  bool
	GameEnded   bool
	// WinningTeam is the match winner when GameEnded is set, else -1.
	WinningTeam int
}

// PlayCard applies one card play for the seat holding the turn. Preconditions
// are checked in order (phase, turn, possession, follow-suit) and a rejected
// play leaves the match completely unchanged.
func (m *Match) PlayCard(seat int, card Card) (PlayResult, error) {
	res := PlayResult{WinningTeam: -1}
	if m.Phase != PhasePlaying {
		return res, ErrWrongPhase
	}
	if seat != m.Turn {
		return res, ErrNotYourTurn
	}
	p := m.Players[seat]
	if !p.HasCard(card) {
		return res, ErrCardNotHeld
	}
	if len(m.Trick.Cards) > 0 && card.Suit != m.Trick.LeadSuit && p.HasSuit(m.Trick.LeadSuit) {
		return res, ErrMustFollowSuit
	}

	p.removeCard(card)
	m.Trick.AddCard(seat, card)
	m.Turn = (seat + 1) % SeatCount

	if !m.Trick.IsComplete() {
		return res, nil
	}

	winner := m.Trick.Winner(m.Trump)
	m.Players[winner].TricksWon++
	m.Completed = append(m.Completed, *m.Trick)
	res.TrickWinner = &winner

	if !m.handsEmpty() {
		m.Trick = NewTrick(winner)
		m.Turn = winner
		return res, nil
	}

	// Round complete: only tricks beyond the six-trick baseline score.
	var teamTricks [TeamCount]int
	for _, pl := range m.Players {
		teamTricks[pl.Team] += pl.TricksWon
	}
	for team, tricks := range teamTricks {
		points := tricks - BaselineTricks
		if points < 0 {
			points = 0
		}
		res.RoundPoints[team] = points
		m.Scores[team] += points
	}

	m.Trick = nil
	m.Turn = -1
	for team, score := range m.Scores {
		if score >= m.WinningScore {
			m.Phase = PhaseGameEnd
			m.WinningTeam = team
			res.GameEnded = true
			res.WinningTeam = team
			return res, nil
		}
	}
	m.Phase = PhaseRoundEnd
	res.RoundEnded = true
	return res, nil
}

func (m *Match) handsEmpty() bool {
	for _, p := range m.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// Cancel moves the match to the terminal cancelled phase and clears all
// mutable round state. It is idempotent.
func (m *Match) Cancel() {
	m.Phase = PhaseCancelled
	for _, p := range m.Players {
		p.Hand = nil
		p.TricksWon = 0
		p.Ready = false
	}
	m.Trump = SuitNone
	m.Trick = nil
	m.Completed = nil
	m.Turn = -1
	m.TrumpChooser = -1
}
