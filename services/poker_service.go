package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"game-night-bot/chat"
	"game-night-bot/models"

	"github.com/jonboulle/clockwork"
)

// defaultVerifyDelay is how long after begin the payment check fires. The
// oracle is then consulted over the same window, so a payment made at any
// point during the wait is observed.
const defaultVerifyDelay = 3 * time.Minute

// PokerService runs the card-game lobby: recruiting → awaiting payment →
// confirmed or cancelled. The payment check is a deferred scheduler job,
// never a sleep on the dispatch path.
type PokerService struct {
	registry *SessionRegistry
	chat     chat.Client
	oracle   chat.PaymentOracle
	sched    *Scheduler
	clock    clockwork.Clock
	guildID  string
	fee      int
	unit     string
	alias    string
	delay    time.Duration
}

func NewPokerService(registry *SessionRegistry, chatClient chat.Client, oracle chat.PaymentOracle, sched *Scheduler, clock clockwork.Clock, guildID string, fee int, unit, payeeAlias string, delay time.Duration) *PokerService {
	if delay <= 0 {
		delay = defaultVerifyDelay
	}
	return &PokerService{
		registry: registry,
		chat:     chatClient,
		oracle:   oracle,
		sched:    sched,
		clock:    clock,
		guildID:  guildID,
		fee:      fee,
		unit:     unit,
		alias:    payeeAlias,
		delay:    delay,
	}
}

// Start opens a recruiting lobby in the channel.
func (s *PokerService) Start(ctx context.Context, channelID, ownerID string) error {
	p := models.NewPokerSession(channelID, ownerID, s.clock.Now())
	if err := s.registry.Create(p); err != nil {
		return err
	}
	if err := s.chat.Send(ctx, channelID, "🃏 ポーカーの参加者を募集します！\n参加するには以下のボタンを押してください👇"); err != nil {
		log.Printf("⚠️ [POKER] Failed to announce lobby in %s: %v", channelID, err)
	}
	log.Printf("✅ [POKER] Lobby opened in channel %s by %s", channelID, ownerID)
	return nil
}

// Join takes a seat. Recruiting only; a duplicate user is rejected, seat
// order is join order.
func (s *PokerService) Join(ctx context.Context, channelID, userID string) error {
	p, err := s.poker(channelID)
	if err != nil {
		return ErrSessionClosed
	}
	p.Mu.Lock()
	defer p.Mu.Unlock()
	if p.State != models.PokerRecruiting {
		return ErrSessionClosed
	}
	if p.HasPlayer(userID) {
		return ErrAlreadyJoined
	}
	p.Players = append(p.Players, userID)
	return nil
}

// Begin closes recruiting, announces the fee and schedules the one-shot
// payment verification.
func (s *PokerService) Begin(ctx context.Context, channelID, actorID string) error {
	p, err := s.poker(channelID)
	if err != nil {
		return err
	}
	p.Mu.Lock()
	defer p.Mu.Unlock()
	if actorID != p.OwnerID {
		return ErrPermissionDenied
	}
	if p.State != models.PokerRecruiting {
		return ErrSessionClosed
	}
	if len(p.Players) < 2 {
		return ErrInsufficientPlayers
	}

	p.State = models.PokerAwaitingPayment
	if err := s.sched.After(s.delay, "poker-verify-"+channelID, func() {
		s.verify(context.Background(), p)
	}); err != nil {
		p.State = models.PokerRecruiting
		return fmt.Errorf("%w: %v", ErrExternalOperation, err)
	}

	notice := fmt.Sprintf("💰 参加費は %d%s です。%s 宛てに送金してください。%d分後に支払いを確認します。",
		s.fee, s.unit, s.alias, int(s.delay.Minutes()))
	if err := s.chat.Send(ctx, channelID, notice); err != nil {
		log.Printf("⚠️ [POKER] Failed to announce fee in %s: %v", channelID, err)
	}
	log.Printf("⏳ [POKER] Channel %s awaiting payment, verify in %s", channelID, s.delay)
	return nil
}

// Verify fires once at window expiry. Players without a confirmed payment
// are dropped; fewer than 2 survivors cancels the game. An unreachable
// oracle aborts the whole check and leaves the session awaiting payment.
func (s *PokerService) Verify(ctx context.Context, channelID string) {
	p, err := s.poker(channelID)
	if err != nil {
		log.Printf("⏹️ [VERIFY] Channel %s has no poker session anymore, skipping", channelID)
		return
	}
	s.verify(ctx, p)
}

// verify runs the payment check for one specific lobby. The scheduled job
// carries the session instance, not just the channel id, so a job left over
// from a stopped lobby never fires into a successor occupying the channel.
func (s *PokerService) verify(ctx context.Context, p *models.PokerSession) {
	channelID := p.ChannelID
	if cur, err := s.poker(channelID); err != nil || cur != p {
		log.Printf("⏹️ [VERIFY] Channel %s lobby was closed or replaced, skipping", channelID)
		return
	}
	p.Mu.Lock()
	defer p.Mu.Unlock()
	if p.State != models.PokerAwaitingPayment {
		log.Printf("⏹️ [VERIFY] Channel %s is %s, skipping", channelID, p.State)
		return
	}

	windowEnd := s.clock.Now()
	windowStart := windowEnd.Add(-s.delay)

	var confirmed, dropped []string
	for _, userID := range p.Players {
		name, err := s.chat.FetchMemberName(ctx, s.guildID, userID)
		if err != nil {
			name = userID
		}
		ok, err := s.oracle.Confirmed(ctx, userID, name, s.fee, windowStart, windowEnd)
		if err != nil {
			log.Printf("❌ [VERIFY] Oracle unreachable for channel %s: %v", channelID, err)
			if sendErr := s.chat.Send(ctx, channelID, "⚠️ 決済ログの確認に失敗しました。支払い状況は未確認のままです。"); sendErr != nil {
				log.Printf("⚠️ [VERIFY] Failed to notify oracle failure in %s: %v", channelID, sendErr)
			}
			return
		}
		if ok {
			confirmed = append(confirmed, userID)
		} else {
			dropped = append(dropped, name)
		}
	}

	for _, name := range dropped {
		if err := s.chat.Send(ctx, channelID, fmt.Sprintf("💸 %s さんの支払いが確認できなかったため、参加を取り消しました。", name)); err != nil {
			log.Printf("⚠️ [VERIFY] Failed to send removal notice in %s: %v", channelID, err)
		}
	}

	if len(confirmed) < 2 {
		p.State = models.PokerCancelled
		p.Players = confirmed
		if err := s.chat.Send(ctx, channelID, "支払いが確認できた参加者が2人未満のため、ポーカーを中止します。"); err != nil {
			log.Printf("⚠️ [VERIFY] Failed to announce cancellation in %s: %v", channelID, err)
		}
		s.registry.Remove(channelID)
		log.Printf("⏹️ [VERIFY] Channel %s cancelled (%d confirmed)", channelID, len(confirmed))
		return
	}

	p.State = models.PokerConfirmed
	p.Players = confirmed
	if err := s.chat.Send(ctx, channelID, fmt.Sprintf("✅ 支払いを確認しました！ポーカーを開始します！（参加者 %d名）", len(confirmed))); err != nil {
		log.Printf("⚠️ [VERIFY] Failed to announce confirmation in %s: %v", channelID, err)
	}
	// The lobby's work ends here; the game itself runs off-platform, so the
	// channel is released for the next session.
	s.registry.Remove(channelID)
	log.Printf("✅ [VERIFY] Channel %s confirmed with %d players", channelID, len(confirmed))
}

// Stop cancels the lobby before confirmation. Owner only.
func (s *PokerService) Stop(ctx context.Context, channelID, actorID string) error {
	p, err := s.poker(channelID)
	if err != nil {
		return err
	}
	p.Mu.Lock()
	defer p.Mu.Unlock()
	if actorID != p.OwnerID {
		return ErrPermissionDenied
	}
	if p.Terminal() {
		return ErrSessionClosed
	}
	p.State = models.PokerCancelled
	if err := s.chat.Send(ctx, channelID, "ポーカーの募集を中止しました。"); err != nil {
		log.Printf("⚠️ [POKER] Failed to announce stop in %s: %v", channelID, err)
	}
	s.registry.Remove(channelID)
	log.Printf("⏹️ [POKER] Channel %s stopped by owner %s", channelID, actorID)
	return nil
}

func (s *PokerService) poker(channelID string) (*models.PokerSession, error) {
	sess, ok := s.registry.Get(channelID)
	if !ok {
		return nil, ErrNotFound
	}
	p, ok := sess.(*models.PokerSession)
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
