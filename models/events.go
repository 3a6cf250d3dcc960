package models

// Inbound events as the platform adapter hands them to the dispatcher.
// Every event is tagged with the channel it happened in and who acted.

type MessageEvent struct {
	ChannelID string
	UserID    string
	UserName  string
	Content   string
	Bot       bool
}

type ComponentEvent struct {
	ComponentID string
	ChannelID   string
	UserID      string
	UserName    string
}

type CommandEvent struct {
	ChannelID string
	UserID    string
	UserName  string
	// Options holds the named command arguments as the platform parsed them.
	Options map[string]string
}
