// Package peersync exchanges the user directory and chat messages with a
// peer installation over HTTP. It is independent of the assignment ledger.
package peersync

import (
	"time"

	"github.com/mtlprog/reliefsync/internal/domain"
)

// Message is the wire shape of a chat message.
type Message struct {
	MessageID string    `json:"messageId" validate:"required,uuid"`
	SenderID  string    `json:"senderId" validate:"required"`
	Content   string    `json:"content" validate:"required"`
	ChannelID string    `json:"channelId"`
	SentAtUTC time.Time `json:"sentAtUtc" validate:"required"`
}

// User is the wire shape of a directory entry. Role is optional; entries
// from peers that do not send it are stored with an unknown role until a
// peer supplies one.
type User struct {
	UserID      string     `json:"userId" validate:"required,uuid"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Location    string     `json:"location"`
	Skills      string     `json:"skills"`
	Status      string     `json:"status"`
	LastSeenUTC *time.Time `json:"lastSeenUtc,omitempty"`
	Role        string     `json:"role,omitempty" validate:"omitempty,oneof=SURVIVOR VOLUNTEER AUTHORITY"`
}

// Directory is the response of the directory endpoint.
type Directory struct {
	Users []User `json:"users"`
}

// MessagePage is one page of the messages endpoint. Cursor is the storage
// sequence of the last message and is passed back as since to get the next
// page; More is set when the page was full.
type MessagePage struct {
	Messages []Message `json:"messages"`
	Cursor   int64     `json:"cursor"`
	More     bool      `json:"more"`
}

// NewMessage converts a stored message to its wire shape.
func NewMessage(m *domain.ChatMessage) Message {
	return Message{
		MessageID: m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		ChannelID: m.ChannelID,
		SentAtUTC: m.SentAt.UTC(),
	}
}

// ChatMessage converts a message received from a peer.
func (m Message) ChatMessage() *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:        m.MessageID,
		SenderID:  m.SenderID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		SentAt:    m.SentAtUTC.UTC(),
		Origin:    domain.MessageOriginRemote,
	}
}

// NewUser converts a directory entry to its wire shape.
func NewUser(u *domain.User) User {
	out := User{
		UserID:   u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Location: u.Location,
		Skills:   u.Skills,
		Status:   u.Status,
	}
	if u.Role != domain.UserRoleUnknown {
		out.Role = string(u.Role)
	}
	if u.LastSeenAt != nil {
		t := u.LastSeenAt.UTC()
		out.LastSeenUTC = &t
	}
	return out
}

// DomainUser converts a directory entry received from a peer.
func (u User) DomainUser() *domain.User {
	return &domain.User{
		ID:         u.UserID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Location:   u.Location,
		Skills:     u.Skills,
		Status:     u.Status,
		Role:       domain.UserRole(u.Role),
		LastSeenAt: u.LastSeenUTC,
	}
}
