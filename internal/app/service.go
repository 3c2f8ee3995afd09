package app

import (
	"math/rand"
	"time"

	"hokm/internal/domain"
)

// Service contains Hokm use-cases operating on domain match state. It owns
// the only source of randomness in the system, so rounds are reproducible
// under an injected rng.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// AddPlayer seats a player and announces the join.
func (s *Service) AddPlayer(m *domain.Match, userID string) ([]Event, error) {
	seat, err := m.AddPlayer(userID)
	if err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			UserID: userID,
			Seat:   seat,
			Team:   m.Players[seat].Team,
		},
	}}, nil
}

// RemovePlayer frees a seat before start and announces the leave.
func (s *Service) RemovePlayer(m *domain.Match, userID string) ([]Event, error) {
	if err := m.RemovePlayer(userID); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventPlayerLeft,
		Payload: PlayerLeftPayload{UserID: userID},
	}}, nil
}

// SetReady toggles a player's ready flag and announces the change.
func (s *Service) SetReady(m *domain.Match, userID string, ready bool) ([]Event, error) {
	if err := m.SetReady(userID, ready); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventPlayerReady,
		Payload: PlayerReadyPayload{UserID: userID, Ready: ready},
	}}, nil
}

// StartMatch shuffles, deals and moves the match into trump selection. Each
// seat receives its hand privately; the round opener is broadcast.
func (s *Service) StartMatch(m *domain.Match) ([]Event, error) {
	deck := domain.ShuffleDeck(s.rng, domain.NewDeck())
	if err := m.Start(deck); err != nil {
		return nil, err
	}
	return s.roundEvents(m), nil
}

// NextRound re-deals after a finished round, rotating the dealer.
func (s *Service) NextRound(m *domain.Match) ([]Event, error) {
	deck := domain.ShuffleDeck(s.rng, domain.NewDeck())
	if err := m.NextRound(deck); err != nil {
		return nil, err
	}
	return s.roundEvents(m), nil
}

func (s *Service) roundEvents(m *domain.Match) []Event {
	events := make([]Event, 0, domain.SeatCount+1)
	for seat, p := range m.Players {
		hand := make([]domain.Card, len(p.Hand))
		copy(hand, p.Hand)
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID: p.UserID,
				Seat:   seat,
				Hand:   hand,
			},
			Recipients: []string{p.UserID},
		})
	}
	events = append(events, Event{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			Round:        m.Round,
			Dealer:       m.Dealer,
			TrumpChooser: m.TrumpChooser,
		},
	})
	return events
}

// ChooseTrump applies the chooser's trump pick and opens play.
func (s *Service) ChooseTrump(m *domain.Match, seat int, suit domain.Suit) ([]Event, error) {
	if err := m.ChooseTrump(seat, suit); err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventTrumpChosen,
		Payload: TrumpChosenPayload{
			Seat:       seat,
			Trump:      suit,
			LeaderSeat: m.Turn,
		},
	}}, nil
}

// PlayCard applies one card play and emits the play plus any trick, round or
// game completion that follows from it.
func (s *Service) PlayCard(m *domain.Match, seat int, card domain.Card) ([]Event, error) {
	res, err := m.PlayCard(seat, card)
	if err != nil {
		return nil, err
	}

	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			Seat:     seat,
			Card:     card,
			NextTurn: m.Turn,
		},
	}}

	if res.TrickWinner != nil {
		winner := *res.TrickWinner
		events = append(events, Event{
			Kind: EventTrickWon,
			Payload: TrickWonPayload{
				WinnerSeat: winner,
				WinnerTeam: m.Players[winner].Team,
				TricksWon:  m.Players[winner].TricksWon,
			},
		})
	}
	if res.RoundEnded {
		events = append(events, Event{
			Kind: EventRoundEnded,
			Payload: RoundEndedPayload{
				Round:       m.Round,
				RoundPoints: res.RoundPoints,
				Scores:      m.Scores,
			},
		})
	}
	if res.GameEnded {
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				WinningTeam: res.WinningTeam,
				Scores:      m.Scores,
			},
		})
	}
	return events, nil
}

// Cancel clears the match and announces it; repeated calls stay harmless.
func (s *Service) Cancel(m *domain.Match) []Event {
	m.Cancel()
	return []Event{{Kind: EventCancelled}}
}
