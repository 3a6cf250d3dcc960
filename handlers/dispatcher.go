package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"game-night-bot/chat"
	"game-night-bot/models"
	"game-night-bot/services"
	"game-night-bot/workers"
)

// Stable component ids. The platform adapter re-registers these bindings at
// every startup so buttons on messages sent before a restart keep working.
const (
	ComponentQuizJoin  = "quiz_join"
	ComponentPokerJoin = "poker_join"
)

// ComponentBinding ties a component id to its handler.
type ComponentBinding struct {
	ComponentID string
	Handle      func(ctx context.Context, ev models.ComponentEvent) error
}

// Dispatcher routes inbound platform events to the engine owning the
// channel. It holds no state of its own; everything lives in the services.
type Dispatcher struct {
	chat   chat.Client
	quiz   *services.QuizService
	poker  *services.PokerService
	leases *services.LeaseService
	purge  *workers.PurgeWorker
}

func NewDispatcher(chatClient chat.Client, quiz *services.QuizService, poker *services.PokerService, leases *services.LeaseService, purge *workers.PurgeWorker) *Dispatcher {
	return &Dispatcher{
		chat:   chatClient,
		quiz:   quiz,
		poker:  poker,
		leases: leases,
		purge:  purge,
	}
}

// OnMessage feeds every non-command message to the quiz engine; anything
// that is not a live quiz answer is a silent miss inside the engine.
func (d *Dispatcher) OnMessage(ctx context.Context, ev models.MessageEvent) {
	d.quiz.SubmitAnswer(ctx, ev)
}

// ComponentBindings lists every button the bot renders.
func (d *Dispatcher) ComponentBindings() []ComponentBinding {
	return []ComponentBinding{
		{
			ComponentID: ComponentQuizJoin,
			Handle: func(ctx context.Context, ev models.ComponentEvent) error {
				if err := d.quiz.Join(ctx, ev.ChannelID, ev.UserID); err != nil {
					return d.reply(ctx, ev.ChannelID, "参加は締め切られました。")
				}
				return d.reply(ctx, ev.ChannelID, fmt.Sprintf("%s が参加しました！", ev.UserName))
			},
		},
		{
			ComponentID: ComponentPokerJoin,
			Handle: func(ctx context.Context, ev models.ComponentEvent) error {
				err := d.poker.Join(ctx, ev.ChannelID, ev.UserID)
				switch {
				case errors.Is(err, services.ErrAlreadyJoined):
					return d.reply(ctx, ev.ChannelID, "すでに参加しています。")
				case err != nil:
					return d.reply(ctx, ev.ChannelID, "募集は締め切られました。")
				}
				return d.reply(ctx, ev.ChannelID, fmt.Sprintf("%s が参加しました！", ev.UserName))
			},
		},
	}
}

func (d *Dispatcher) reply(ctx context.Context, channelID, content string) error {
	if err := d.chat.Send(ctx, channelID, content); err != nil {
		log.Printf("⚠️ [DISPATCH] Failed to reply in %s: %v", channelID, err)
		return err
	}
	return nil
}
