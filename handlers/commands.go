package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"game-night-bot/models"
	"game-night-bot/services"
	"game-night-bot/utils"
)

// CommandBinding ties a slash-command name to its adapter. Each adapter
// calls exactly one core operation and renders its result or error; the
// platform adapter registers the list 1:1 as its command surface.
type CommandBinding struct {
	Name        string
	Description string
	Handle      func(ctx context.Context, ev models.CommandEvent) error
}

// CommandBindings lists the whole command surface.
func (d *Dispatcher) CommandBindings() []CommandBinding {
	return []CommandBinding{
		{
			Name:        "quiz_start",
			Description: "フュージョンクイズの参加受付を開始します（オーナー専用）",
			Handle:      d.quizStart,
		},
		{
			Name:        "quiz_begin",
			Description: "参加受付を終了し、クイズを開始します（主催者専用）",
			Handle:      d.quizBegin,
		},
		{
			Name:        "quiz_skip",
			Description: "現在の問題をスキップして、次の問題を出題します（主催者専用）",
			Handle:      d.quizSkip,
		},
		{
			Name:        "quiz_stop",
			Description: "クイズを強制終了して、途中までのランキングを表示します（主催者専用）",
			Handle:      d.quizStop,
		},
		{
			Name:        "quiz_ranking",
			Description: "現在のクイズのスコアランキングを表示します",
			Handle:      d.quizRanking,
		},
		{
			Name:        "poker_start",
			Description: "ポーカーの参加者募集を開始します",
			Handle:      d.pokerStart,
		},
		{
			Name:        "poker_begin",
			Description: "募集を締め切り、参加費の支払い確認に進みます（主催者専用）",
			Handle:      d.pokerBegin,
		},
		{
			Name:        "poker_stop",
			Description: "ポーカーの募集を中止します（主催者専用）",
			Handle:      d.pokerStop,
		},
		{
			Name:        "vc_create",
			Description: "期間限定のボイスチャンネルを作成します",
			Handle:      d.vcCreate,
		},
		{
			Name:        "vc_update",
			Description: "ボイスチャンネルの利用期間を変更・登録します",
			Handle:      d.vcUpdate,
		},
		{
			Name:        "vc_add",
			Description: "ボイスチャンネルにメンバーを追加します（作成者専用）",
			Handle:      d.vcAdd,
		},
		{
			Name:        "purge",
			Description: "指定期間のメッセージを削除します（管理者専用）",
			Handle:      d.purgeRange,
		},
	}
}

func (d *Dispatcher) quizStart(ctx context.Context, ev models.CommandEvent) error {
	if err := d.quiz.Start(ctx, ev.ChannelID, ev.UserID); err != nil {
		return d.reply(ctx, ev.ChannelID, "このチャンネルではすでにクイズが開催されています。")
	}
	return nil
}

func (d *Dispatcher) quizBegin(ctx context.Context, ev models.CommandEvent) error {
	err := d.quiz.Begin(ctx, ev.ChannelID, ev.UserID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return d.reply(ctx, ev.ChannelID, "このチャンネルではクイズが開始されていません。")
	case errors.Is(err, services.ErrPermissionDenied):
		return d.reply(ctx, ev.ChannelID, "このコマンドは主催者のみが使用できます。")
	case errors.Is(err, services.ErrEmptyRoster):
		return d.reply(ctx, ev.ChannelID, "参加者がいません。開始できません。")
	case err != nil:
		return d.reply(ctx, ev.ChannelID, "クイズはすでに開始されています。")
	}
	return nil
}

func (d *Dispatcher) quizSkip(ctx context.Context, ev models.CommandEvent) error {
	err := d.quiz.Skip(ctx, ev.ChannelID, ev.UserID)
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		return d.reply(ctx, ev.ChannelID, "このコマンドは主催者のみ使用できます。")
	case err != nil:
		return d.reply(ctx, ev.ChannelID, "クイズは現在行われていません。")
	}
	return nil
}

func (d *Dispatcher) quizStop(ctx context.Context, ev models.CommandEvent) error {
	err := d.quiz.Stop(ctx, ev.ChannelID, ev.UserID)
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		return d.reply(ctx, ev.ChannelID, "このコマンドは主催者のみ使用できます。")
	case err != nil:
		return d.reply(ctx, ev.ChannelID, "このチャンネルではクイズが実行されていません。")
	}
	return nil
}

func (d *Dispatcher) quizRanking(ctx context.Context, ev models.CommandEvent) error {
	entries, err := d.quiz.Ranking(ev.ChannelID)
	if err != nil {
		return d.reply(ctx, ev.ChannelID, "現在クイズは実行されていません。")
	}
	if len(entries) == 0 {
		return d.reply(ctx, ev.ChannelID, "まだ得点がありません。")
	}
	var b strings.Builder
	b.WriteString("📊 現在のランキング\n")
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d位：<@%s> %dポイント\n", i+1, entry.UserID, entry.Score)
	}
	return d.reply(ctx, ev.ChannelID, b.String())
}

func (d *Dispatcher) pokerStart(ctx context.Context, ev models.CommandEvent) error {
	if err := d.poker.Start(ctx, ev.ChannelID, ev.UserID); err != nil {
		return d.reply(ctx, ev.ChannelID, "このチャンネルではすでにゲームが開催されています。")
	}
	return nil
}

func (d *Dispatcher) pokerBegin(ctx context.Context, ev models.CommandEvent) error {
	err := d.poker.Begin(ctx, ev.ChannelID, ev.UserID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return d.reply(ctx, ev.ChannelID, "このチャンネルではポーカーが募集されていません。")
	case errors.Is(err, services.ErrPermissionDenied):
		return d.reply(ctx, ev.ChannelID, "このコマンドは主催者のみが使用できます。")
	case errors.Is(err, services.ErrInsufficientPlayers):
		return d.reply(ctx, ev.ChannelID, "参加者が2人未満のため開始できません。")
	case err != nil:
		return d.reply(ctx, ev.ChannelID, "募集はすでに締め切られています。")
	}
	return nil
}

func (d *Dispatcher) pokerStop(ctx context.Context, ev models.CommandEvent) error {
	err := d.poker.Stop(ctx, ev.ChannelID, ev.UserID)
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		return d.reply(ctx, ev.ChannelID, "このコマンドは主催者のみ使用できます。")
	case err != nil:
		return d.reply(ctx, ev.ChannelID, "このチャンネルではポーカーが募集されていません。")
	}
	return nil
}

func (d *Dispatcher) vcCreate(ctx context.Context, ev models.CommandEvent) error {
	period := ev.Options["period"]
	member := ev.Options["member"]
	lease, err := d.leases.CreateLease(ctx, ev.UserID, ev.UserName, member, period)
	switch {
	case errors.Is(err, services.ErrInvalidPeriod):
		return d.reply(ctx, ev.ChannelID, "期間の形式が正しくありません。例: 2025-08-08-21:00～2025-08-08-22:30")
	case err != nil:
		return d.reply(ctx, ev.ChannelID, "ボイスチャンネルの作成に失敗しました。")
	}
	return d.reply(ctx, ev.ChannelID, fmt.Sprintf("🎙️ ボイスチャンネルを作成しました！（%s まで利用できます）",
		lease.End.In(utils.JST).Format("2006-01-02 15:04")))
}

func (d *Dispatcher) vcUpdate(ctx context.Context, ev models.CommandEvent) error {
	leaseID := ev.Options["channel"]
	period := ev.Options["period"]
	lease, err := d.leases.UpdateLease(ctx, ev.UserID, leaseID, period)
	if err != nil {
		return d.reply(ctx, ev.ChannelID, "期間の形式が正しくありません。例: 2025-08-08-21:00～2025-08-08-22:30")
	}
	return d.reply(ctx, ev.ChannelID, fmt.Sprintf("🎙️ 利用期間を %s までに更新しました。",
		lease.End.In(utils.JST).Format("2006-01-02 15:04")))
}

func (d *Dispatcher) vcAdd(ctx context.Context, ev models.CommandEvent) error {
	leaseID := ev.Options["channel"]
	member := ev.Options["member"]
	err := d.leases.AddMember(ctx, ev.UserID, leaseID, member)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return d.reply(ctx, ev.ChannelID, "そのボイスチャンネルは登録されていません。")
	case errors.Is(err, services.ErrPermissionDenied):
		return d.reply(ctx, ev.ChannelID, "メンバーを追加できるのはチャンネルの作成者のみです。")
	case err != nil:
		return d.reply(ctx, ev.ChannelID, "メンバーの追加に失敗しました。")
	}
	return d.reply(ctx, ev.ChannelID, fmt.Sprintf("🔑 <@%s> を追加しました！", member))
}

func (d *Dispatcher) purgeRange(ctx context.Context, ev models.CommandEvent) error {
	from, to, err := utils.ParsePeriod(ev.Options["period"])
	if err != nil {
		return d.reply(ctx, ev.ChannelID, "期間の形式が正しくありません。例: 2025-08-08-21:00～2025-08-08-22:30")
	}

	// The traversal is rate-limited and can take a while; run it off the
	// dispatch path and report the count when it finishes.
	go func() {
		deleted, err := d.purge.DeleteRange(context.Background(), ev.ChannelID, from, to)
		if err != nil {
			log.Printf("❌ [PURGE] Channel %s: %v", ev.ChannelID, err)
			_ = d.reply(context.Background(), ev.ChannelID, "メッセージの削除に失敗しました。")
			return
		}
		_ = d.reply(context.Background(), ev.ChannelID, fmt.Sprintf("🧹 %d件のメッセージを削除しました。", deleted))
	}()
	return d.reply(ctx, ev.ChannelID, "🧹 メッセージの削除を開始しました…")
}
