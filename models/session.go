package models

import (
	"sync"
	"time"
)

type SessionKind string

const (
	KindQuiz  SessionKind = "quiz"
	KindPoker SessionKind = "poker"
)

// ChannelSession is what the registry holds: any game session bound to
// exactly one channel.
type ChannelSession interface {
	Channel() string
	SessionKind() SessionKind
	Owner() string
}

// Session is the part shared by every game kind. Mu serializes all engine
// operations on the channel; lock order is always session before registry.
type Session struct {
	Mu        sync.Mutex
	ChannelID string
	Kind      SessionKind
	OwnerID   string
	CreatedAt time.Time
}

func (s *Session) Channel() string          { return s.ChannelID }
func (s *Session) SessionKind() SessionKind { return s.Kind }
func (s *Session) Owner() string            { return s.OwnerID }
