package chat

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// LogClient is a stand-in Client used until a real platform adapter is wired
// in. It logs every outbound call and fabricates ids for created resources,
// which lets the whole process run (and the keep-alive shim report healthy)
// without platform credentials.
type LogClient struct{}

func NewLogClient() *LogClient {
	return &LogClient{}
}

func (c *LogClient) Send(_ context.Context, channelID, content string) error {
	log.Printf("[CHAT] ➡️  send channel=%s: %s", channelID, content)
	return nil
}

func (c *LogClient) SendEmbed(_ context.Context, channelID string, embed Embed) error {
	log.Printf("[CHAT] ➡️  embed channel=%s title=%q image=%s", channelID, embed.Title, embed.ImageURL)
	return nil
}

func (c *LogClient) DeleteMessage(_ context.Context, channelID, messageID string) error {
	log.Printf("[CHAT] 🗑️ delete channel=%s message=%s", channelID, messageID)
	return nil
}

func (c *LogClient) DeleteMessages(_ context.Context, channelID string, messageIDs []string) error {
	log.Printf("[CHAT] 🗑️ bulk delete channel=%s count=%d", channelID, len(messageIDs))
	return nil
}

func (c *LogClient) History(_ context.Context, channelID string, after, before time.Time, limit int) ([]Message, error) {
	log.Printf("[CHAT] 📜 history channel=%s after=%s before=%s limit=%d",
		channelID, after.Format(time.RFC3339), before.Format(time.RFC3339), limit)
	return nil, nil
}

func (c *LogClient) CreateVoiceChannel(_ context.Context, guildID, name string, memberIDs []string) (string, error) {
	id := uuid.NewString()
	log.Printf("[CHAT] 🎙️ create voice channel guild=%s name=%q members=%d id=%s", guildID, name, len(memberIDs), id)
	return id, nil
}

func (c *LogClient) DeleteVoiceChannel(_ context.Context, channelID string) error {
	log.Printf("[CHAT] 🗑️ delete voice channel %s", channelID)
	return nil
}

func (c *LogClient) SetChannelPermission(_ context.Context, channelID, userID string, allow bool) error {
	log.Printf("[CHAT] 🔑 permission channel=%s user=%s allow=%v", channelID, userID, allow)
	return nil
}

func (c *LogClient) FetchMemberName(_ context.Context, guildID, userID string) (string, error) {
	log.Printf("[CHAT] 👤 fetch member guild=%s user=%s", guildID, userID)
	return userID, nil
}
