package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"game-night-bot/chat"
	"game-night-bot/models"
	"game-night-bot/utils"

	"github.com/jonboulle/clockwork"
)

const (
	// First-generation species ids; both halves of a puzzle are drawn
	// uniformly from [1, speciesCount]. A doubled id is a legal draw.
	speciesCount = 151

	// A participant whose score reaches this wins and ends the quiz.
	quizWinScore = 10

	fusionImageURL = "https://images.alexonsager.net/pokemon/fused/%d/%d.%d.png"
)

// QuizService runs the fusion quiz state machine: lobby → active →
// completed. All operations on one channel serialize on the session mutex.
type QuizService struct {
	registry *SessionRegistry
	chat     chat.Client
	species  chat.SpeciesTable
	guildID  string
	clock    clockwork.Clock
	winScore int
	roll     func(n int) int
}

func NewQuizService(registry *SessionRegistry, chatClient chat.Client, species chat.SpeciesTable, guildID string, clock clockwork.Clock) *QuizService {
	return &QuizService{
		registry: registry,
		chat:     chatClient,
		species:  species,
		guildID:  guildID,
		clock:    clock,
		winScore: quizWinScore,
		roll:     rand.Intn,
	}
}

// Start opens a quiz lobby in the channel. Fails with ErrAlreadyActive when
// any session already occupies it.
func (s *QuizService) Start(ctx context.Context, channelID, ownerID string) error {
	q := models.NewQuizSession(channelID, ownerID, s.clock.Now())
	if err := s.registry.Create(q); err != nil {
		return err
	}
	if err := s.chat.Send(ctx, channelID, "ポケモンフュージョンクイズを開始します！\n参加するには以下のボタンを押してください👇"); err != nil {
		log.Printf("⚠️ [QUIZ] Failed to announce quiz start in %s: %v", channelID, err)
	}
	log.Printf("✅ [QUIZ] Lobby opened in channel %s by %s", channelID, ownerID)
	return nil
}

// Join adds a user to the lobby roster. Joining twice is a no-op; joining
// after begin signals closed without mutating the roster.
func (s *QuizService) Join(ctx context.Context, channelID, userID string) error {
	q, err := s.quiz(channelID)
	if err != nil {
		return ErrSessionClosed
	}
	q.Mu.Lock()
	defer q.Mu.Unlock()
	if q.State != models.QuizLobby {
		return ErrSessionClosed
	}
	q.Participants[userID] = struct{}{}
	return nil
}

// Begin closes recruiting and reveals the first puzzle. Owner only; the
// roster must not be empty.
func (s *QuizService) Begin(ctx context.Context, channelID, actorID string) error {
	q, err := s.quiz(channelID)
	if err != nil {
		return err
	}
	q.Mu.Lock()
	defer q.Mu.Unlock()
	if actorID != q.OwnerID {
		return ErrPermissionDenied
	}
	if q.State != models.QuizLobby {
		return ErrSessionClosed
	}
	if len(q.Participants) == 0 {
		return ErrEmptyRoster
	}
	q.State = models.QuizActive
	if err := s.chat.Send(ctx, channelID, "参加受付を終了しました！クイズを開始します！"); err != nil {
		log.Printf("⚠️ [QUIZ] Failed to announce begin in %s: %v", channelID, err)
	}
	s.sendPuzzle(ctx, q)
	return nil
}

// SubmitAnswer scores a chat message against the current puzzle. Everything
// that disqualifies the message — no session, wrong state, non-participant,
// puzzle already solved by a racing submission, wrong answer — is a silent
// miss, never an error.
func (s *QuizService) SubmitAnswer(ctx context.Context, ev models.MessageEvent) {
	if ev.Bot {
		return
	}
	q, err := s.quiz(ev.ChannelID)
	if err != nil {
		return
	}
	q.Mu.Lock()
	defer q.Mu.Unlock()
	if q.State != models.QuizActive || q.Current == nil {
		return
	}
	if _, joined := q.Participants[ev.UserID]; !joined {
		return
	}

	first, ok1 := s.species.Name(q.Current.First)
	second, ok2 := s.species.Name(q.Current.Second)
	if !ok1 || !ok2 {
		return
	}

	answer := utils.Normalize(ev.Content)
	if !strings.Contains(answer, utils.Normalize(first)) || !strings.Contains(answer, utils.Normalize(second)) {
		return
	}

	score := q.AddScore(ev.UserID)
	if err := s.chat.Send(ctx, ev.ChannelID, fmt.Sprintf("🎉 %s 正解！現在のスコア: %d", ev.UserName, score)); err != nil {
		log.Printf("⚠️ [QUIZ] Failed to announce correct answer in %s: %v", ev.ChannelID, err)
	}

	if score >= s.winScore {
		q.State = models.QuizCompleted
		s.announceRanking(ctx, q, "🏆 クイズ終了！ランキング発表 🏆")
		s.registry.Remove(ev.ChannelID)
		log.Printf("✅ [QUIZ] Channel %s completed: %s reached %d", ev.ChannelID, ev.UserID, score)
		return
	}

	q.Current = nil
	s.sendPuzzle(ctx, q)
}

// Skip discards the current puzzle and draws a new one. Owner only, active
// state only.
func (s *QuizService) Skip(ctx context.Context, channelID, actorID string) error {
	q, err := s.quiz(channelID)
	if err != nil {
		return err
	}
	q.Mu.Lock()
	defer q.Mu.Unlock()
	if q.State != models.QuizActive {
		return ErrSessionClosed
	}
	if actorID != q.OwnerID {
		return ErrPermissionDenied
	}
	q.Current = nil
	if err := s.chat.Send(ctx, channelID, "現在の問題をスキップしました。次の問題を出題します。"); err != nil {
		log.Printf("⚠️ [QUIZ] Failed to announce skip in %s: %v", channelID, err)
	}
	s.sendPuzzle(ctx, q)
	return nil
}

// Stop ends the quiz early, publishing the partial ranking. Owner only,
// valid in any non-terminal state.
func (s *QuizService) Stop(ctx context.Context, channelID, actorID string) error {
	q, err := s.quiz(channelID)
	if err != nil {
		return err
	}
	q.Mu.Lock()
	defer q.Mu.Unlock()
	if actorID != q.OwnerID {
		return ErrPermissionDenied
	}
	if q.State == models.QuizCompleted {
		return ErrSessionClosed
	}
	if err := s.chat.Send(ctx, channelID, "クイズを中断しました。現在のランキングを表示します。"); err != nil {
		log.Printf("⚠️ [QUIZ] Failed to announce stop in %s: %v", channelID, err)
	}
	q.State = models.QuizCompleted
	s.announceRanking(ctx, q, "🏆 クイズ終了！ランキング発表 🏆")
	s.registry.Remove(channelID)
	log.Printf("⏹️ [QUIZ] Channel %s stopped by owner %s", channelID, actorID)
	return nil
}

// Ranking returns the live standings without mutating anything.
func (s *QuizService) Ranking(channelID string) ([]models.RankEntry, error) {
	q, err := s.quiz(channelID)
	if err != nil {
		return nil, err
	}
	q.Mu.Lock()
	defer q.Mu.Unlock()
	if q.State != models.QuizActive {
		return nil, ErrNotFound
	}
	return q.Ranking(), nil
}

func (s *QuizService) quiz(channelID string) (*models.QuizSession, error) {
	sess, ok := s.registry.Get(channelID)
	if !ok {
		return nil, ErrNotFound
	}
	q, ok := sess.(*models.QuizSession)
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

// sendPuzzle draws the next pair and reveals it. Caller must hold q.Mu.
func (s *QuizService) sendPuzzle(ctx context.Context, q *models.QuizSession) {
	first := s.roll(speciesCount) + 1
	second := s.roll(speciesCount) + 1
	q.Current = &models.Puzzle{First: first, Second: second}

	embed := chat.Embed{
		Title:    "このポケモンは誰と誰のフュージョン？",
		ImageURL: fmt.Sprintf(fusionImageURL, first, first, second),
		Footer:   "例: フシギダネ ヒトカゲ のように日本語で回答してください",
	}
	if err := s.chat.SendEmbed(ctx, q.ChannelID, embed); err != nil {
		log.Printf("⚠️ [QUIZ] Failed to send puzzle to %s: %v", q.ChannelID, err)
	}
}

// announceRanking publishes the final standings. Caller must hold q.Mu.
func (s *QuizService) announceRanking(ctx context.Context, q *models.QuizSession, title string) {
	entries := q.Ranking()
	embed := chat.Embed{Title: title}
	for i, entry := range entries {
		name, err := s.chat.FetchMemberName(ctx, s.guildID, entry.UserID)
		if err != nil {
			name = entry.UserID
		}
		embed.Fields = append(embed.Fields, chat.EmbedField{
			Name:  fmt.Sprintf("%d位：%s", i+1, name),
			Value: fmt.Sprintf("%dポイント", entry.Score),
		})
	}
	if err := s.chat.SendEmbed(ctx, q.ChannelID, embed); err != nil {
		log.Printf("⚠️ [QUIZ] Failed to announce ranking in %s: %v", q.ChannelID, err)
	}
}
