package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"game-night-bot/chat"
)

// fakeChat records every outbound call so tests can assert on side effects.
type fakeChat struct {
	mu         sync.Mutex
	sent       []string // "channel|content"
	embeds     []chat.Embed
	history    map[string][]chat.Message
	historyErr error
	createErr  error
	deleteErr  error
	permErr    error
	created    []string
	deleted    []string
	grants     []string // "channel|user"
	nextID     int
}

func newFakeChat() *fakeChat {
	return &fakeChat{history: make(map[string][]chat.Message)}
}

func (f *fakeChat) Send(_ context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, channelID+"|"+content)
	return nil
}

func (f *fakeChat) SendEmbed(_ context.Context, channelID string, embed chat.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeds = append(f.embeds, embed)
	return nil
}

func (f *fakeChat) DeleteMessage(_ context.Context, channelID, messageID string) error {
	return nil
}

func (f *fakeChat) DeleteMessages(_ context.Context, channelID string, messageIDs []string) error {
	return nil
}

func (f *fakeChat) History(_ context.Context, channelID string, after, before time.Time, _ int) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var out []chat.Message
	for _, m := range f.history[channelID] {
		if m.Timestamp.After(after) && !m.Timestamp.After(before) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChat) CreateVoiceChannel(_ context.Context, guildID, name string, memberIDs []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("vc-%d", f.nextID)
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeChat) DeleteVoiceChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakeChat) SetChannelPermission(_ context.Context, channelID, userID string, allow bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.permErr != nil {
		return f.permErr
	}
	f.grants = append(f.grants, channelID+"|"+userID)
	return nil
}

func (f *fakeChat) FetchMemberName(_ context.Context, guildID, userID string) (string, error) {
	return userID, nil
}

func (f *fakeChat) lastSent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeChat) lastEmbed() (chat.Embed, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.embeds) == 0 {
		return chat.Embed{}, false
	}
	return f.embeds[len(f.embeds)-1], true
}

// fakeOracle confirms payments according to a fixed per-payer table.
type fakeOracle struct {
	mu        sync.Mutex
	confirmed map[string]bool
	err       error
	calls     int
}

func (o *fakeOracle) Confirmed(_ context.Context, payerID, payerName string, amount int, from, to time.Time) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if o.err != nil {
		return false, o.err
	}
	return o.confirmed[payerID], nil
}

var errBoom = errors.New("boom")

// rollSeq returns a deterministic replacement for the puzzle draw.
func rollSeq(values ...int) func(int) int {
	i := 0
	return func(int) int {
		v := values[i%len(values)]
		i++
		return v
	}
}
