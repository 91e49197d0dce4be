// Package session keeps per-conversation state: the confirmed location and
// the forecast last fetched for it. The store is the only owner of that
// state; callers read copies and write through Update.
package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-guardian/internal/domain"
)

// State is one conversation's record. Nil fields mean "not yet known" — a
// session starts with neither a confirmed location nor a forecast.
type State struct {
	SessionID         string                 `json:"session_id"`
	ConfirmedLocation *string                `json:"confirmed_location,omitempty"`
	LastForecast      *domain.ForecastRecord `json:"last_forecast,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// Patch names the fields Update merges into a session. Nil fields are left
// untouched.
type Patch struct {
	ConfirmedLocation *string
	LastForecast      *domain.ForecastRecord
}

// Store is a keyed session cache. All access is serialized internally, so
// concurrent turns on the same session id cannot lose updates. Sessions live
// for the lifetime of the process; there is no eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
	clock    clockwork.Clock
}

// NewStore creates an empty Store. A nil clock uses real time.
func NewStore(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		sessions: make(map[string]*State),
		clock:    clock,
	}
}

// GetOrCreate returns the state for a session id, creating it with nil fields
// on first access. The returned value is a copy; mutating it does not affect
// the store.
func (s *Store) GetOrCreate(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.getOrCreateLocked(sessionID))
}

// Update merges the patch into the session's state, creating the session if
// needed. Unset patch fields leave the existing values alone.
func (s *Store) Update(sessionID string, patch Patch) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.getOrCreateLocked(sessionID)
	if patch.ConfirmedLocation != nil {
		loc := *patch.ConfirmedLocation
		state.ConfirmedLocation = &loc
	}
	if patch.LastForecast != nil {
		forecast := patch.LastForecast.Clone()
		state.LastForecast = &forecast
	}
	state.UpdatedAt = s.clock.Now()
	return copyState(state)
}

// Len reports the number of sessions currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) getOrCreateLocked(sessionID string) *State {
	if state, ok := s.sessions[sessionID]; ok {
		return state
	}
	now := s.clock.Now()
	state := &State{
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sessionID] = state
	return state
}

// copyState clones a State so callers cannot alias store-owned memory,
// including the forecast's backing arrays.
func copyState(state *State) State {
	out := *state
	if state.ConfirmedLocation != nil {
		loc := *state.ConfirmedLocation
		out.ConfirmedLocation = &loc
	}
	if state.LastForecast != nil {
		forecast := state.LastForecast.Clone()
		out.LastForecast = &forecast
	}
	return out
}
