// workers/purge_worker.go
package workers

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"game-night-bot/chat"

	"github.com/jonboulle/clockwork"
)

// bulkDeleteHorizon is the platform's cutoff: messages older than this only
// support deletion one at a time, newer ones can be batch-deleted.
const bulkDeleteHorizon = 14 * 24 * time.Hour

// bulkDeleteMax is the largest batch the platform accepts in one call.
const bulkDeleteMax = 100

// defaultCallDelay paces consecutive delete calls to stay under the
// platform rate limit.
const defaultCallDelay = 600 * time.Millisecond

// PurgeWorker deletes a channel's messages over a time window, oldest
// first. Per-item failures are counted as not-deleted and never abort the
// remaining traversal; the caller only learns the total deleted.
type PurgeWorker struct {
	chat  chat.Client
	clock clockwork.Clock
	delay time.Duration
}

func NewPurgeWorker(chatClient chat.Client, clock clockwork.Clock) *PurgeWorker {
	return &PurgeWorker{
		chat:  chatClient,
		clock: clock,
		delay: defaultCallDelay,
	}
}

// DeleteRange removes the channel's messages posted within (from, to] and
// returns how many were actually deleted.
func (w *PurgeWorker) DeleteRange(ctx context.Context, channelID string, from, to time.Time) (int, error) {
	messages, err := w.chat.History(ctx, channelID, from, to, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch history of %s: %w", channelID, err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	boundary := w.clock.Now().Add(-bulkDeleteHorizon)
	var old, recent []chat.Message
	for _, m := range messages {
		if m.Timestamp.Before(boundary) {
			old = append(old, m)
		} else {
			recent = append(recent, m)
		}
	}
	log.Printf("[PURGE] 🔁 Channel %s: %d old + %d recent message(s) to delete", channelID, len(old), len(recent))

	deleted := 0
	for _, m := range old {
		if err := w.chat.DeleteMessage(ctx, channelID, m.ID); err != nil {
			log.Printf("[PURGE] ⚠️ Failed to delete message %s: %v", m.ID, err)
		} else {
			deleted++
		}
		w.pace()
	}

	for start := 0; start < len(recent); start += bulkDeleteMax {
		end := start + bulkDeleteMax
		if end > len(recent) {
			end = len(recent)
		}
		batch := recent[start:end]

		// The platform rejects a bulk call with a single message.
		if len(batch) == 1 {
			if err := w.chat.DeleteMessage(ctx, channelID, batch[0].ID); err != nil {
				log.Printf("[PURGE] ⚠️ Failed to delete message %s: %v", batch[0].ID, err)
			} else {
				deleted++
			}
			w.pace()
			continue
		}

		ids := make([]string, len(batch))
		for i, m := range batch {
			ids[i] = m.ID
		}
		if err := w.chat.DeleteMessages(ctx, channelID, ids); err != nil {
			log.Printf("[PURGE] ⚠️ Failed to bulk delete %d message(s): %v", len(ids), err)
		} else {
			deleted += len(ids)
		}
		w.pace()
	}

	log.Printf("[PURGE] ✅ Channel %s: deleted %d of %d message(s)", channelID, deleted, len(messages))
	return deleted, nil
}

func (w *PurgeWorker) pace() {
	if w.delay > 0 {
		w.clock.Sleep(w.delay)
	}
}
