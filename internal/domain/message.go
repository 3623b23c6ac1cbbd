package domain

import "time"

// MessageOrigin records where a chat message was first persisted.
type MessageOrigin string

const (
	MessageOriginLocal  MessageOrigin = "local"
	MessageOriginRemote MessageOrigin = "remote"
)

// ChatMessage is a message on a communication channel.
type ChatMessage struct {
	Seq        int64 // local storage order, assigned on insert
	ID         string
	SenderID   string
	ChannelID  string
	Content    string
	SentAt     time.Time
	Origin     MessageOrigin
	PushedAt   *time.Time // nil until a peer acknowledged a local message
	ReceivedAt time.Time  // when this installation stored it
}

// NeedsPush returns true if the message was written here and no peer has it yet.
func (m *ChatMessage) NeedsPush() bool {
	return m.Origin == MessageOriginLocal && m.PushedAt == nil
}
