package models

import (
	"sort"
	"time"
)

type QuizState string

const (
	QuizLobby     QuizState = "lobby"
	QuizActive    QuizState = "active"
	QuizCompleted QuizState = "completed"
)

// Puzzle is one fusion riddle: two species ids drawn independently.
// The same id twice is a legal draw.
type Puzzle struct {
	First  int
	Second int
}

type RankEntry struct {
	UserID string
	Score  int
}

type QuizSession struct {
	Session
	State        QuizState
	Participants map[string]struct{}
	Scores       map[string]int
	Current      *Puzzle

	// reachSeq orders tie-breaks: the participant who reached their score
	// first wins the tie. seq increments on every accepted answer.
	seq      int
	reachSeq map[string]int
}

func NewQuizSession(channelID, ownerID string, now time.Time) *QuizSession {
	return &QuizSession{
		Session: Session{
			ChannelID: channelID,
			Kind:      KindQuiz,
			OwnerID:   ownerID,
			CreatedAt: now,
		},
		State:        QuizLobby,
		Participants: make(map[string]struct{}),
		Scores:       make(map[string]int),
		reachSeq:     make(map[string]int),
	}
}

// AddScore increments a participant's score and records when the new score
// was reached. Caller must hold Mu.
func (q *QuizSession) AddScore(userID string) int {
	q.Scores[userID]++
	q.seq++
	q.reachSeq[userID] = q.seq
	return q.Scores[userID]
}

// Ranking returns the current scores in descending order, ties broken by
// who reached their score first. Caller must hold Mu.
func (q *QuizSession) Ranking() []RankEntry {
	entries := make([]RankEntry, 0, len(q.Scores))
	for userID, score := range q.Scores {
		entries = append(entries, RankEntry{UserID: userID, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return q.reachSeq[entries[i].UserID] < q.reachSeq[entries[j].UserID]
	})
	return entries
}
