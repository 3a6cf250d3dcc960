package models

import "time"

type PokerState string

const (
	PokerRecruiting      PokerState = "recruiting"
	PokerAwaitingPayment PokerState = "awaiting_payment"
	PokerConfirmed       PokerState = "confirmed"
	PokerCancelled       PokerState = "cancelled"
)

type PokerSession struct {
	Session
	State PokerState
	// Players in seat order; append-only while recruiting.
	Players []string
}

func NewPokerSession(channelID, ownerID string, now time.Time) *PokerSession {
	return &PokerSession{
		Session: Session{
			ChannelID: channelID,
			Kind:      KindPoker,
			OwnerID:   ownerID,
			CreatedAt: now,
		},
		State: PokerRecruiting,
	}
}

// HasPlayer reports whether userID already holds a seat. Caller must hold Mu.
func (p *PokerSession) HasPlayer(userID string) bool {
	for _, id := range p.Players {
		if id == userID {
			return true
		}
	}
	return false
}

// Terminal reports whether the session can no longer change state.
func (p *PokerSession) Terminal() bool {
	return p.State == PokerConfirmed || p.State == PokerCancelled
}
