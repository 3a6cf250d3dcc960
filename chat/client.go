// chat/client.go — boundary contract for the chat platform.
package chat

import (
	"context"
	"time"
)

// Message is one entry of a channel's history as the platform reports it.
type Message struct {
	ID         string
	ChannelID  string
	AuthorID   string
	AuthorName string
	Content    string
	Bot        bool
	Timestamp  time.Time
}

// Embed is the subset of a rich message the engines actually produce.
type Embed struct {
	Title    string
	ImageURL string
	Footer   string
	Fields   []EmbedField
}

type EmbedField struct {
	Name  string
	Value string
}

// Client is the chat-platform surface the core depends on. Every call is an
// opaque, possibly-failing side effect owned by the platform; the engines
// never assume success beyond the returned error.
type Client interface {
	Send(ctx context.Context, channelID, content string) error
	SendEmbed(ctx context.Context, channelID string, embed Embed) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// DeleteMessages removes several messages in one platform call. The
	// platform only allows this for sufficiently recent messages.
	DeleteMessages(ctx context.Context, channelID string, messageIDs []string) error
	// History returns the messages of a channel posted within (after, before],
	// oldest first. limit <= 0 means no explicit limit.
	History(ctx context.Context, channelID string, after, before time.Time, limit int) ([]Message, error)
	CreateVoiceChannel(ctx context.Context, guildID, name string, memberIDs []string) (channelID string, err error)
	DeleteVoiceChannel(ctx context.Context, channelID string) error
	SetChannelPermission(ctx context.Context, channelID, userID string, allow bool) error
	FetchMemberName(ctx context.Context, guildID, userID string) (string, error)
}

// PaymentOracle answers whether an off-band payment by a given payer was
// observed inside a time window. Implementations are read-only.
type PaymentOracle interface {
	Confirmed(ctx context.Context, payerID, payerName string, amount int, windowStart, windowEnd time.Time) (bool, error)
}
