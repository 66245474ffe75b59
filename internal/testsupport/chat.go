package testsupport

import (
	"context"
	"sync"
)

// SentMessage captures one outbound chat call.
type SentMessage struct {
	Target string
	Text   string
}

// ChatRecorder is a chat.Client fake that records outbound traffic and can be
// scripted to fail direct messages.
type ChatRecorder struct {
	mu      sync.Mutex
	dmErr   error
	directs []SentMessage
	replies []SentMessage
}

// NewChatRecorder builds an empty recorder.
func NewChatRecorder() *ChatRecorder {
	return &ChatRecorder{}
}

// FailDirectMessages makes every subsequent SendDirectMessage return err.
func (c *ChatRecorder) FailDirectMessages(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dmErr = err
}

func (c *ChatRecorder) SendDirectMessage(_ context.Context, userID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dmErr != nil {
		return c.dmErr
	}
	c.directs = append(c.directs, SentMessage{Target: userID, Text: text})
	return nil
}

func (c *ChatRecorder) Respond(_ context.Context, channelID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, SentMessage{Target: channelID, Text: text})
	return nil
}

// DirectMessages returns a copy of the delivered direct messages.
func (c *ChatRecorder) DirectMessages() []SentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SentMessage(nil), c.directs...)
}

// Replies returns a copy of the channel responses.
func (c *ChatRecorder) Replies() []SentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SentMessage(nil), c.replies...)
}
