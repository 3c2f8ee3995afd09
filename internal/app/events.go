package app

import "hokm/internal/domain"

// EventKind identifies emitted match events for dispatch by a port.
type EventKind string

const (
	EventPlayerJoined EventKind = "player_joined"
	EventPlayerLeft   EventKind = "player_left"
	EventPlayerReady  EventKind = "player_ready"
	EventHandDealt    EventKind = "hand_dealt"
	EventRoundStarted EventKind = "round_started"
	EventTrumpChosen  EventKind = "trump_chosen"
	EventCardPlayed   EventKind = "card_played"
	EventTrickWon     EventKind = "trick_won"
	EventRoundEnded   EventKind = "round_ended"
	EventGameEnded    EventKind = "game_ended"
	EventCancelled    EventKind = "cancelled"
)

// Event is an app-level event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Team   int    `json:"team"`
}

type PlayerLeftPayload struct {
	UserID string `json:"user_id"`
}

type PlayerReadyPayload struct {
	UserID string `json:"user_id"`
	Ready  bool   `json:"ready"`
}

// HandDealtPayload is sent privately to a single seat.
type HandDealtPayload struct {
	UserID string        `json:"user_id"`
	Seat   int           `json:"seat"`
	Hand   []domain.Card `json:"hand"`
}

type RoundStartedPayload struct {
	Round        int `json:"round"`
	Dealer       int `json:"dealer"`
	TrumpChooser int `json:"trump_chooser"`
}

type TrumpChosenPayload struct {
	Seat       int         `json:"seat"`
	Trump      domain.Suit `json:"trump"`
	LeaderSeat int         `json:"leader_seat"`
}

type CardPlayedPayload struct {
	Seat     int         `json:"seat"`
	Card     domain.Card `json:"card"`
	NextTurn int         `json:"next_turn"`
}

type TrickWonPayload struct {
	WinnerSeat int `json:"winner_seat"`
	WinnerTeam int `json:"winner_team"`
	TricksWon  int `json:"tricks_won"`
}

type RoundEndedPayload struct {
	Round       int                   `json:"round"`
	RoundPoints [domain.TeamCount]int `json:"round_points"`
	Scores      [domain.TeamCount]int `json:"scores"`
}

type GameEndedPayload struct {
	WinningTeam int                   `json:"winning_team"`
	Scores      [domain.TeamCount]int `json:"scores"`
}
