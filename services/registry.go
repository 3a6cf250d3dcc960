package services

import (
	"sync"

	"game-night-bot/models"
)

// SessionRegistry enforces the one-live-session-per-channel invariant.
// All session creation and removal goes through it; the map is never
// reachable from outside the service.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]models.ChannelSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]models.ChannelSession),
	}
}

// Create registers a session for its channel. The check and the insert
// happen under one lock, so two racing creates on the same channel cannot
// both succeed.
func (r *SessionRegistry) Create(s models.ChannelSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.Channel()]; exists {
		return ErrAlreadyActive
	}
	r.sessions[s.Channel()] = s
	return nil
}

func (r *SessionRegistry) Get(channelID string) (models.ChannelSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[channelID]
	return s, ok
}

func (r *SessionRegistry) Remove(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, channelID)
}

// Len reports how many sessions are live, for the status surface.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
