package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"game-night-bot/chat"
	"game-night-bot/utils"
)

// HistoryOracle infers payments by scanning a designated log channel for the
// ledger bot's transfer messages. A message counts when it contains the
// exact "<amount><unit>" string, the configured payee alias, and either the
// payer's display name or a mention of the payer's id. This is text
// inference, not settlement: the coupling to the ledger bot's message
// format is the whole contract, and a real ledger API can replace this
// implementation without touching the poker lobby.
type HistoryOracle struct {
	chat         chat.Client
	logChannelID string
	payeeAlias   string
	unit         string
}

func NewHistoryOracle(chatClient chat.Client, logChannelID, payeeAlias, unit string) *HistoryOracle {
	return &HistoryOracle{
		chat:         chatClient,
		logChannelID: logChannelID,
		payeeAlias:   payeeAlias,
		unit:         unit,
	}
}

// Confirmed reports whether a matching transfer appears in the log channel
// within the window.
func (o *HistoryOracle) Confirmed(ctx context.Context, payerID, payerName string, amount int, windowStart, windowEnd time.Time) (bool, error) {
	messages, err := o.chat.History(ctx, o.logChannelID, windowStart, windowEnd, 0)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	wantAmount := utils.Normalize(fmt.Sprintf("%d%s", amount, o.unit))
	wantAlias := utils.Normalize(o.payeeAlias)
	wantName := utils.Normalize(payerName)
	mention := "<@" + payerID + ">"

	for _, m := range messages {
		content := utils.Normalize(m.Content)
		if !containsAmount(content, wantAmount) || !strings.Contains(content, wantAlias) {
			continue
		}
		if (wantName != "" && strings.Contains(content, wantName)) || strings.Contains(m.Content, mention) {
			return true, nil
		}
	}
	return false, nil
}

// containsAmount reports whether s contains amount with no digit directly in
// front of it. A plain substring check would let a 1500-point transfer
// satisfy a 500-point fee. Normalize folds full-width digits to ASCII, so a
// single byte check suffices.
func containsAmount(s, amount string) bool {
	for i := 0; ; i++ {
		j := strings.Index(s[i:], amount)
		if j < 0 {
			return false
		}
		i += j
		if i == 0 || s[i-1] < '0' || s[i-1] > '9' {
			return true
		}
	}
}
