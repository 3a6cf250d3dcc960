package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"game-night-bot/chat"
)

func TestHistoryOracleConfirmed(t *testing.T) {
	base := time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC)
	from, to := base.Add(-3*time.Minute), base

	fc := newFakeChat()
	fc.history["ledger"] = []chat.Message{
		{ID: "m1", AuthorID: "ledger-bot", Content: "たろう さんが 500ポイント を ハウス へ送金しました", Timestamp: base.Add(-time.Minute)},
		{ID: "m2", AuthorID: "ledger-bot", Content: "<@u2> が 500ポイント を ハウス へ送金しました", Timestamp: base.Add(-time.Minute)},
		{ID: "m3", AuthorID: "ledger-bot", Content: "じろう さんが 300ポイント を ハウス へ送金しました", Timestamp: base.Add(-time.Minute)},
		{ID: "m4", AuthorID: "ledger-bot", Content: "さぶろう さんが 500ポイント を 別の人 へ送金しました", Timestamp: base.Add(-time.Minute)},
		{ID: "m5", AuthorID: "ledger-bot", Content: "しろう さんが 500ポイント を ハウス へ送金しました", Timestamp: base.Add(-10 * time.Minute)},
		{ID: "m6", AuthorID: "ledger-bot", Content: "しちろう さんが 1500ポイント を ハウス へ送金しました", Timestamp: base.Add(-time.Minute)},
		{ID: "m7", AuthorID: "ledger-bot", Content: "はちろう さんが １５００ポイント を ハウス へ送金しました", Timestamp: base.Add(-time.Minute)},
	}
	oracle := NewHistoryOracle(fc, "ledger", "ハウス", "ポイント")

	tests := []struct {
		name      string
		payerID   string
		payerName string
		amount    int
		want      bool
	}{
		{"match by display name", "u1", "たろう", 500, true},
		{"match by mention", "u2", "unrelated-name", 500, true},
		{"wrong amount", "u3", "じろう", 500, false},
		{"larger amount containing the fee", "u7", "しちろう", 500, false},
		{"larger amount in full-width digits", "u8", "はちろう", 500, false},
		{"wrong payee alias", "u4", "さぶろう", 500, false},
		{"outside window", "u5", "しろう", 500, false},
		{"no message at all", "u6", "ごろう", 500, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oracle.Confirmed(context.Background(), tt.payerID, tt.payerName, tt.amount, from, to)
			if err != nil {
				t.Fatalf("Confirmed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirmed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistoryOracleUnavailable(t *testing.T) {
	fc := newFakeChat()
	fc.historyErr = errBoom
	oracle := NewHistoryOracle(fc, "ledger", "ハウス", "ポイント")

	_, err := oracle.Confirmed(context.Background(), "u1", "たろう", 500, time.Now().Add(-time.Minute), time.Now())
	if !errors.Is(err, ErrOracleUnavailable) {
		t.Errorf("err = %v, want ErrOracleUnavailable", err)
	}
}
