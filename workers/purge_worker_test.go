package workers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"game-night-bot/chat"

	"github.com/jonboulle/clockwork"
)

type fakeChat struct {
	mu         sync.Mutex
	messages   []chat.Message
	historyErr error
	failIDs    map[string]bool
	failBulk   bool
	singles    []string
	bulks      [][]string
}

func (f *fakeChat) Send(context.Context, string, string) error { return nil }

func (f *fakeChat) SendEmbed(context.Context, string, chat.Embed) error { return nil }

func (f *fakeChat) DeleteVoiceChannel(context.Context, string) error { return nil }

func (f *fakeChat) SetChannelPermission(context.Context, string, string, bool) error {
	return nil
}

func (f *fakeChat) CreateVoiceChannel(context.Context, string, string, []string) (string, error) {
	return "", nil
}

func (f *fakeChat) FetchMemberName(_ context.Context, _, userID string) (string, error) {
	return userID, nil
}

func (f *fakeChat) History(_ context.Context, _ string, after, before time.Time, _ int) ([]chat.Message, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var out []chat.Message
	for _, m := range f.messages {
		if m.Timestamp.After(after) && !m.Timestamp.After(before) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChat) DeleteMessage(_ context.Context, _ string, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[messageID] {
		return fmt.Errorf("cannot delete %s", messageID)
	}
	f.singles = append(f.singles, messageID)
	return nil
}

func (f *fakeChat) DeleteMessages(_ context.Context, _ string, messageIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBulk {
		return fmt.Errorf("bulk delete refused")
	}
	f.bulks = append(f.bulks, messageIDs)
	return nil
}

func newPurgeFixture(oldCount, recentCount int) (*PurgeWorker, *fakeChat, time.Time) {
	now := time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC)
	fc := &fakeChat{failIDs: make(map[string]bool)}
	for i := 0; i < oldCount; i++ {
		fc.messages = append(fc.messages, chat.Message{
			ID:        fmt.Sprintf("old-%d", i),
			Timestamp: now.Add(-20*24*time.Hour + time.Duration(i)*time.Minute),
		})
	}
	for i := 0; i < recentCount; i++ {
		fc.messages = append(fc.messages, chat.Message{
			ID:        fmt.Sprintf("recent-%d", i),
			Timestamp: now.Add(-time.Hour + time.Duration(i)*time.Second),
		})
	}
	w := NewPurgeWorker(fc, clockwork.NewFakeClockAt(now))
	w.delay = 0 // no pacing in tests
	return w, fc, now
}

func TestDeleteRangeSplitsAtHorizon(t *testing.T) {
	w, fc, now := newPurgeFixture(3, 150)

	deleted, err := w.DeleteRange(context.Background(), "c1", now.Add(-30*24*time.Hour), now)
	if err != nil {
		t.Fatalf("DeleteRange: %v", err)
	}
	if deleted != 153 {
		t.Errorf("deleted = %d, want 153", deleted)
	}
	if len(fc.singles) != 3 {
		t.Errorf("single deletes = %d, want 3 (old messages only)", len(fc.singles))
	}
	// Old messages go first, oldest-first.
	if fc.singles[0] != "old-0" || fc.singles[2] != "old-2" {
		t.Errorf("singles = %v, want oldest-first", fc.singles)
	}
	if len(fc.bulks) != 2 || len(fc.bulks[0]) != 100 || len(fc.bulks[1]) != 50 {
		t.Errorf("bulk batches = %v, want [100 50]", batchSizes(fc.bulks))
	}
}

func TestDeleteRangeSingleLeftoverAvoidsBulk(t *testing.T) {
	w, fc, now := newPurgeFixture(0, 101)

	deleted, err := w.DeleteRange(context.Background(), "c1", now.Add(-30*24*time.Hour), now)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 101 {
		t.Errorf("deleted = %d, want 101", deleted)
	}
	if len(fc.bulks) != 1 || len(fc.bulks[0]) != 100 {
		t.Errorf("bulk batches = %v, want one batch of 100", batchSizes(fc.bulks))
	}
	if len(fc.singles) != 1 {
		t.Errorf("single deletes = %d, want 1 for the leftover", len(fc.singles))
	}
}

func TestDeleteRangeCountsFailuresAsSkipped(t *testing.T) {
	w, fc, now := newPurgeFixture(3, 0)
	fc.failIDs["old-1"] = true

	deleted, err := w.DeleteRange(context.Background(), "c1", now.Add(-30*24*time.Hour), now)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2 (failure does not abort the rest)", deleted)
	}
	if len(fc.singles) != 2 {
		t.Errorf("singles = %v, want the two that succeeded", fc.singles)
	}
}

func TestDeleteRangeBulkFailure(t *testing.T) {
	w, fc, now := newPurgeFixture(1, 50)
	fc.failBulk = true

	deleted, err := w.DeleteRange(context.Background(), "c1", now.Add(-30*24*time.Hour), now)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want only the old single", deleted)
	}
}

func TestDeleteRangeHistoryError(t *testing.T) {
	w, fc, now := newPurgeFixture(0, 0)
	fc.historyErr = fmt.Errorf("gateway timeout")

	if _, err := w.DeleteRange(context.Background(), "c1", now.Add(-time.Hour), now); err == nil {
		t.Error("history failure should surface to the caller")
	}
}

func TestDeleteRangeEmptyWindow(t *testing.T) {
	w, _, now := newPurgeFixture(0, 0)
	deleted, err := w.DeleteRange(context.Background(), "c1", now.Add(-time.Hour), now)
	if err != nil || deleted != 0 {
		t.Errorf("empty window = (%d, %v), want (0, nil)", deleted, err)
	}
}

func batchSizes(batches [][]string) []int {
	sizes := make([]int, len(batches))
	for i, b := range batches {
		sizes[i] = len(b)
	}
	return sizes
}
