package chat

import "context"

// Command is an inbound slash-command invocation delivered by the chat
// platform. Identity fields are trusted as handed over; authentication is the
// platform's concern.
type Command struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
}

// Interaction is an inbound component callback: the user clicked one of the
// offered candidate buttons, or dismissed the prompt.
type Interaction struct {
	SessionID     string `json:"session_id"`
	SelectedIndex int    `json:"selected_index"`
	UserID        string `json:"user_id"`
	Cancel        bool   `json:"cancel,omitempty"`
}

// Client is the outbound chat platform surface the core depends on. The
// concrete transport (Discord, Slack, a test fake) lives outside this module
// boundary; implementations issue network I/O and may fail when the recipient
// has direct messages disabled or the call times out.
type Client interface {
	SendDirectMessage(ctx context.Context, userID, text string) error
	Respond(ctx context.Context, channelID, text string) error
}
