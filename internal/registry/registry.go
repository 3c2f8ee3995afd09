// Package registry holds live matches for a hosting application. It replaces
// ambient global match tables with an injectable store: handlers receive a
// *Registry and route every action through the owning match's lock.
package registry

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hokm/internal/domain"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrAlreadyInMatch = errors.New("user is already linked to a match")
)

// codeLength is the number of uuid characters kept for a shareable match code.
const codeLength = 6

// Handle pairs a match with its own lock. Every action on the match must go
// through Do so that transitions are applied one at a time; actions on
// different matches never contend.
type Handle struct {
	ID string

	mu    sync.Mutex
	match *domain.Match
}

// Do runs fn with exclusive access to the match.
func (h *Handle) Do(fn func(m *domain.Match) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.match)
}

// Snapshot returns a consistent deep copy of the match state.
func (h *Handle) Snapshot() domain.MatchSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.match.Snapshot()
}

// Registry is a concurrency-safe store of matches keyed by short codes, plus
// a user-to-match index so a user can be in at most one match at a time.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*Handle
	byUser  map[string]string // userID -> match ID
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		matches: make(map[string]*Handle),
		byUser:  make(map[string]string),
	}
}

// Create registers a fresh match and returns its handle. The id is a short
// uppercase code derived from a random uuid, usable as an invite code.
func (r *Registry) Create(winningScore int) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	for {
		id = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength])
		if _, taken := r.matches[id]; !taken {
			break
		}
	}
	h := &Handle{ID: id, match: domain.NewMatch(winningScore)}
	r.matches[id] = h
	return h
}

// Get returns the handle for a match id.
func (r *Registry) Get(id string) (*Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.matches[strings.ToUpper(id)]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return h, nil
}

// Remove drops a match and unlinks every user pointing at it.
func (r *Registry) Remove(id string) {
	id = strings.ToUpper(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, id)
	for user, matchID := range r.byUser {
		if matchID == id {
			delete(r.byUser, user)
		}
	}
}

// LinkUser records that a user participates in the given match. A user can be
// linked to at most one match.
func (r *Registry) LinkUser(userID, matchID string) error {
	matchID = strings.ToUpper(matchID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[matchID]; !ok {
		return ErrMatchNotFound
	}
	if existing, ok := r.byUser[userID]; ok && existing != matchID {
		return ErrAlreadyInMatch
	}
	r.byUser[userID] = matchID
	return nil
}

// UnlinkUser forgets a user's match association.
func (r *Registry) UnlinkUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
}

// ForUser returns the handle of the match the user is linked to.
func (r *Registry) ForUser(userID string) (*Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUser[userID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	h, ok := r.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return h, nil
}

// Len reports how many matches are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}
