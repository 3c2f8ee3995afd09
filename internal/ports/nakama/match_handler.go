package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"

	"github.com/heroiclabs/nakama-common/runtime"

	"hokm/internal/app"
	"hokm/internal/config"
	"hokm/internal/domain"
)

// Label is the match label advertised for quick-match queries.
type Label struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// ChooseTrumpRequest is the client payload for OpChooseTrump.
type ChooseTrumpRequest struct {
	Suit domain.Suit `json:"suit"`
}

// PlayCardRequest is the client payload for OpPlayCard.
type PlayCardRequest struct {
	Card domain.Card `json:"card"`
}

// SetReadyRequest is the client payload for OpSetReady.
type SetReadyRequest struct {
	Ready bool `json:"ready"`
}

// GameErrorPayload is sent privately to the actor whose action was rejected.
type GameErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MatchState holds the authoritative runtime state for one Hokm match
// instance hosted by Nakama. The engine state lives in Match; everything else
// is connection bookkeeping.
type MatchState struct {
	Match       *domain.Match
	App         *app.Service
	Presences   map[string]runtime.Presence
	OwnerUserID string
	Tick        int64
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit boots a new match in the waiting phase.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig(GameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	winningScore := config.WinningScore()
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["hokm_winning_score"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			winningScore = i
		}
	}

	state := &MatchState{
		Match:     domain.NewMatch(winningScore),
		App:       app.NewService(nil),
		Presences: make(map[string]runtime.Presence),
	}

	tickRate := 1
	return state, tickRate, buildLabel(state.Match)
}

func buildLabel(m *domain.Match) string {
	open := m.Phase == domain.PhaseWaiting && len(m.Players) < domain.SeatCount
	b, _ := json.Marshal(Label{Open: open, Game: "hokm", Phase: string(m.Phase)})
	return string(b)
}

// MatchJoinAttempt validates whether a presence is allowed to join.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {

	s, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow rejoin in any phase; disallow new joins once the match started.
	if _, err := s.Match.SeatOf(presence.GetUserId()); err == nil {
		return state, true, ""
	}
	if s.Match.Phase != domain.PhaseWaiting {
		return state, false, "match_in_progress"
	}
	if len(s.Match.Players) >= domain.SeatCount {
		return state, false, "match_full"
	}
	return state, true, ""
}

// MatchJoin seats joining presences and assigns the owner.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {

	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		s.Presences[uid] = p

		// Rejoin only refreshes the presence.
		if _, err := s.Match.SeatOf(uid); err == nil {
			continue
		}

		events, err := s.App.AddPlayer(s.Match, uid)
		if err != nil {
			logger.Warn("MatchJoin: Could not seat %s: %v", uid, err)
			continue
		}
		if s.OwnerUserID == "" {
			s.OwnerUserID = uid
		}
		mh.broadcastEvents(s, dispatcher, logger, events)
	}

	if err := dispatcher.MatchLabelUpdate(buildLabel(s.Match)); err != nil {
		logger.Error("MatchJoin: Label update failed: %v", err)
	}
	return s
}

// MatchLeave frees seats of leaving presences. A leave during an active round
// cancels the match, since Hokm cannot continue three-handed.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {

	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(s.Presences, uid)

		if _, err := s.Match.SeatOf(uid); err != nil {
			continue
		}

		if s.Match.Phase == domain.PhaseWaiting {
			events, err := s.App.RemovePlayer(s.Match, uid)
			if err != nil {
				logger.Warn("MatchLeave: Could not remove %s: %v", uid, err)
				continue
			}
			mh.broadcastEvents(s, dispatcher, logger, events)
		} else if s.Match.Phase != domain.PhaseCancelled && s.Match.Phase != domain.PhaseGameEnd {
			logger.Info("MatchLeave: %s left mid-game, cancelling match.", uid)
			mh.broadcastEvents(s, dispatcher, logger, s.App.Cancel(s.Match))
		}

		if s.OwnerUserID == uid {
			s.OwnerUserID = ""
			if len(s.Match.Players) > 0 {
				s.OwnerUserID = s.Match.Players[0].UserID
			}
		}
	}

	if len(s.Presences) == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}

	if err := dispatcher.MatchLabelUpdate(buildLabel(s.Match)); err != nil {
		logger.Error("MatchLeave: Label update failed: %v", err)
	}
	return s
}

// MatchLoop processes in-match messages for game flow.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {

	s, ok := state.(*MatchState)
	if !ok {
		return state
	}
	s.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(s, dispatcher, logger, msg)
		case OpChooseTrump:
			mh.handleChooseTrump(s, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(s, dispatcher, logger, msg)
		case OpNextRound:
			mh.handleNextRound(s, dispatcher, logger, msg)
		case OpSetReady:
			mh.handleSetReady(s, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return s
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

/* ---- message handlers ---- */

func (mh *matchHandler) handleStartGame(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	if uid != s.OwnerUserID {
		logger.Warn("StartGame: %s tried to start but is not owner", uid)
		mh.sendError(s, dispatcher, logger, uid, 403, "only the match owner can start")
		return
	}
	if len(s.Match.Players) < app.PlayersToStartMatch {
		mh.sendError(s, dispatcher, logger, uid, 400, domain.ErrNotEnoughPlayers.Error())
		return
	}

	if cfg := config.GetGameConfig(); cfg != nil && cfg.RandomFirstDealer {
		s.Match.Dealer = rand.Intn(domain.SeatCount)
	}

	events, err := s.App.StartMatch(s.Match)
	if err != nil {
		logger.Warn("StartGame: Failed to start: %v", err)
		mh.sendError(s, dispatcher, logger, uid, 400, err.Error())
		return
	}

	mh.broadcastEvents(s, dispatcher, logger, events)
	if err := dispatcher.MatchLabelUpdate(buildLabel(s.Match)); err != nil {
		logger.Error("StartGame: Label update failed: %v", err)
	}
	logger.Info("StartGame: Round %d dealt, seat %d chooses trump.", s.Match.Round, s.Match.TrumpChooser)
}

func (mh *matchHandler) handleChooseTrump(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	seat, err := s.Match.SeatOf(uid)
	if err != nil {
		mh.sendError(s, dispatcher, logger, uid, 404, err.Error())
		return
	}

	var req ChooseTrumpRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("ChooseTrump: Invalid payload from %s: %v", uid, err)
		mh.sendError(s, dispatcher, logger, uid, 400, "invalid payload")
		return
	}

	events, err := s.App.ChooseTrump(s.Match, seat, req.Suit)
	if err != nil {
		logger.Warn("ChooseTrump: Seat %d rejected: %v", seat, err)
		mh.sendError(s, dispatcher, logger, uid, 400, err.Error())
		return
	}
	mh.broadcastEvents(s, dispatcher, logger, events)
}

func (mh *matchHandler) handlePlayCard(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	seat, err := s.Match.SeatOf(uid)
	if err != nil {
		mh.sendError(s, dispatcher, logger, uid, 404, err.Error())
		return
	}

	var req PlayCardRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("PlayCard: Invalid payload from %s: %v", uid, err)
		mh.sendError(s, dispatcher, logger, uid, 400, "invalid payload")
		return
	}

	events, err := s.App.PlayCard(s.Match, seat, req.Card)
	if err != nil {
		logger.Warn("PlayCard: Seat %d rejected playing %v: %v", seat, req.Card, err)
		mh.sendError(s, dispatcher, logger, uid, 400, err.Error())
		return
	}
	mh.broadcastEvents(s, dispatcher, logger, events)

	if s.Match.Phase == domain.PhaseGameEnd {
		if err := dispatcher.MatchLabelUpdate(buildLabel(s.Match)); err != nil {
			logger.Error("PlayCard: Label update failed: %v", err)
		}
	}
}

func (mh *matchHandler) handleNextRound(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()
	if uid != s.OwnerUserID {
		mh.sendError(s, dispatcher, logger, uid, 403, "only the match owner can continue")
		return
	}

	events, err := s.App.NextRound(s.Match)
	if err != nil {
		logger.Warn("NextRound: Rejected: %v", err)
		mh.sendError(s, dispatcher, logger, uid, 400, err.Error())
		return
	}
	mh.broadcastEvents(s, dispatcher, logger, events)
}

func (mh *matchHandler) handleSetReady(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()

	var req SetReadyRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(s, dispatcher, logger, uid, 400, "invalid payload")
		return
	}

	events, err := s.App.SetReady(s.Match, uid, req.Ready)
	if err != nil {
		mh.sendError(s, dispatcher, logger, uid, 404, err.Error())
		return
	}
	mh.broadcastEvents(s, dispatcher, logger, events)
}

/* ---- event dispatch ---- */

func opCodeFor(kind app.EventKind) (int64, error) {
	switch kind {
	case app.EventPlayerJoined:
		return OpPlayerJoined, nil
	case app.EventPlayerLeft:
		return OpPlayerLeft, nil
	case app.EventPlayerReady:
		return OpPlayerReady, nil
	case app.EventHandDealt:
		return OpHandDealt, nil
	case app.EventRoundStarted:
		return OpRoundStarted, nil
	case app.EventTrumpChosen:
		return OpTrumpChosen, nil
	case app.EventCardPlayed:
		return OpCardPlayed, nil
	case app.EventTrickWon:
		return OpTrickWon, nil
	case app.EventRoundEnded:
		return OpRoundEnded, nil
	case app.EventGameEnded:
		return OpGameEnded, nil
	case app.EventCancelled:
		return OpCancelled, nil
	default:
		return 0, errors.New("unknown event kind")
	}
}

func (mh *matchHandler) broadcastEvents(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, err := opCodeFor(ev.Kind)
		if err != nil {
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}

		data, err := json.Marshal(ev.Payload)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}

		// Targeted events go only to connected recipients; if none of the
		// intended recipients are connected, nothing is sent.
		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := s.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}

		if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
			logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
		}
	}
}

// sendError sends a GameErrorPayload to a specific user.
func (mh *matchHandler) sendError(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	data, err := json.Marshal(GameErrorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorPayload: %v", err)
		return
	}

	presence, ok := s.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}
