package bus

import "time"

// Event kinds carried by InboundMessage. Regular chat messages use EventMessage;
// membership changes surfaced by a channel (someone joining a chat) use
// EventMemberJoin.
const (
	EventMessage    = "message"
	EventMemberJoin = "member_join"
)

type InboundMessage struct {
	Channel    string
	Event      string
	SenderID   string
	SenderName string
	ChatID     string
	Content    string
	Timestamp  time.Time
	Metadata   map[string]any
}

// SessionKey identifies the chat session for this sender. Profiles and LLM
// sessions are keyed per user, not per chat.
func (m *InboundMessage) SessionKey() string {
	return m.Channel + ":" + m.SenderID
}

type OutboundMessage struct {
	Channel  string
	ChatID   string
	Content  string
	ReplyTo  string
	Metadata map[string]any
}
