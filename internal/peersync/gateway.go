package peersync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mtlprog/reliefsync/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultQueueSize is the number of messages waiting for an immediate push.
	DefaultQueueSize = 64

	// PageSize is the number of messages served per page.
	PageSize = 500

	// maxPages bounds one pull so a misbehaving peer cannot loop it forever.
	maxPages = 100

	// SettleWindow is how long a stored message is held back from peers so
	// that concurrent inserts have committed before a cursor moves past them.
	SettleWindow = 2 * time.Second
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Peer is the remote installation a gateway synchronizes with.
type Peer interface {
	FetchDirectory(ctx context.Context) ([]User, error)
	FetchMessages(ctx context.Context, after int64) (*MessagePage, error)
	PushMessage(ctx context.Context, m Message) error
}

// DirectoryStore is the local user directory.
type DirectoryStore interface {
	Upsert(ctx context.Context, u *domain.User) (bool, error)
	ListUpdatedSince(ctx context.Context, since time.Time) ([]*domain.User, error)
}

// MessageStore is the local chat message log.
type MessageStore interface {
	Insert(ctx context.Context, m *domain.ChatMessage) (bool, error)
	ListSince(ctx context.Context, after int64, settle time.Duration, limit uint64) ([]*domain.ChatMessage, error)
	ListPendingPush(ctx context.Context, limit uint64) ([]*domain.ChatMessage, error)
	MarkPushed(ctx context.Context, id string, at time.Time) error
}

// SendParams holds the input for posting a chat message.
type SendParams struct {
	SenderID  string `validate:"required"`
	ChannelID string `validate:"max=200"`
	Content   string `validate:"max=10000"`
}

// PullReport summarizes one pull from the peer.
type PullReport struct {
	UsersInserted    int
	UsersUpdated     int
	UsersSkipped     int
	MessagesInserted int
	MessagesSkipped  int
}

// Gateway keeps the local directory and message log in step with a peer.
// Local writes never wait for the peer: a failed push only leaves the
// message pending for the next PushPending. The gateway raises no change
// notifications.
type Gateway struct {
	peer     Peer
	users    DirectoryStore
	messages MessageStore
	queue    chan *domain.ChatMessage
	now      func() time.Time

	mu     sync.Mutex
	cursor int64
}

// NewGateway creates a gateway. A nil peer makes the gateway local-only.
func NewGateway(peer Peer, users DirectoryStore, messages MessageStore, queueSize int) *Gateway {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Gateway{
		peer:     peer,
		users:    users,
		messages: messages,
		queue:    make(chan *domain.ChatMessage, queueSize),
		now:      time.Now,
	}
}

// HasPeer reports whether a peer is configured.
func (g *Gateway) HasPeer() bool {
	return g.peer != nil
}

// Send stores a new local message and queues it for an immediate push.
// The message is durable once Send returns, whatever happens to the push.
func (g *Gateway) Send(ctx context.Context, params SendParams) (*domain.ChatMessage, error) {
	if strings.TrimSpace(params.Content) == "" {
		return nil, domain.ErrEmptyContent
	}
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	msg := &domain.ChatMessage{
		ID:        uuid.NewString(),
		SenderID:  params.SenderID,
		ChannelID: params.ChannelID,
		Content:   params.Content,
		SentAt:    g.now().UTC(),
		Origin:    domain.MessageOriginLocal,
	}
	if _, err := g.messages.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	slog.Info("message stored", "message_id", msg.ID, "channel_id", msg.ChannelID)

	if g.peer != nil {
		select {
		case g.queue <- msg:
		default:
			slog.Warn("push queue full, message left for retry", "message_id", msg.ID)
		}
	}

	return msg, nil
}

// Accept stores a message pushed to this installation by a peer.
// Returns false if the message was already known.
func (g *Gateway) Accept(ctx context.Context, m Message) (bool, error) {
	if err := validate.Struct(m); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	inserted, err := g.messages.Insert(ctx, m.ChatMessage())
	if err != nil {
		return false, fmt.Errorf("store message: %w", err)
	}
	if inserted {
		slog.Info("message received from peer", "message_id", m.MessageID, "channel_id", m.ChannelID)
	}
	return inserted, nil
}

// Directory returns the local directory in its wire shape.
func (g *Gateway) Directory(ctx context.Context) (*Directory, error) {
	users, err := g.users.ListUpdatedSince(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	dir := &Directory{Users: make([]User, 0, len(users))}
	for _, u := range users {
		dir.Users = append(dir.Users, NewUser(u))
	}
	return dir, nil
}

// MessagesSince returns one page of settled messages stored after the cursor.
func (g *Gateway) MessagesSince(ctx context.Context, after int64) (*MessagePage, error) {
	stored, err := g.messages.ListSince(ctx, after, SettleWindow, PageSize)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	page := &MessagePage{
		Messages: make([]Message, 0, len(stored)),
		Cursor:   after,
		More:     len(stored) == PageSize,
	}
	for _, m := range stored {
		page.Messages = append(page.Messages, NewMessage(m))
		page.Cursor = m.Seq
	}
	return page, nil
}

// Pull merges the peer's directory and any messages it stored since the last pull.
// Entries that fail to store are logged and skipped.
func (g *Gateway) Pull(ctx context.Context) (*PullReport, error) {
	if g.peer == nil {
		return nil, fmt.Errorf("%w: no peer configured", domain.ErrPeerUnavailable)
	}

	report := &PullReport{}

	users, err := g.peer.FetchDirectory(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch directory: %w", err)
	}
	for _, u := range users {
		if err := validate.Struct(u); err != nil {
			report.UsersSkipped++
			slog.Warn("skipping invalid directory entry", "user_id", u.UserID, "error", err)
			continue
		}
		if !domain.ValidRosterName(u.Name) {
			report.UsersSkipped++
			slog.Warn("skipping directory entry with unusable name", "user_id", u.UserID, "name", u.Name)
			continue
		}
		inserted, err := g.users.Upsert(ctx, u.DomainUser())
		if err != nil {
			report.UsersSkipped++
			slog.Error("failed to merge directory entry", "user_id", u.UserID, "error", err)
			continue
		}
		if inserted {
			report.UsersInserted++
		} else {
			report.UsersUpdated++
		}
	}

	g.mu.Lock()
	cursor := g.cursor
	g.mu.Unlock()

	for range maxPages {
		page, err := g.peer.FetchMessages(ctx, cursor)
		if err != nil {
			return report, fmt.Errorf("fetch messages: %w", err)
		}

		for _, m := range page.Messages {
			inserted, err := g.Accept(ctx, m)
			if err != nil {
				report.MessagesSkipped++
				slog.Warn("skipping message from peer", "message_id", m.MessageID, "error", err)
				continue
			}
			if inserted {
				report.MessagesInserted++
			}
		}

		if page.Cursor > cursor {
			cursor = page.Cursor
			g.mu.Lock()
			g.cursor = cursor
			g.mu.Unlock()
		}
		if !page.More || len(page.Messages) == 0 {
			break
		}
	}

	slog.Info("pulled from peer",
		"users_inserted", report.UsersInserted,
		"users_updated", report.UsersUpdated,
		"users_skipped", report.UsersSkipped,
		"messages_inserted", report.MessagesInserted,
		"messages_skipped", report.MessagesSkipped,
	)

	return report, nil
}

// push hands one message to the peer and records the acknowledgement.
func (g *Gateway) push(ctx context.Context, msg *domain.ChatMessage) error {
	if err := g.peer.PushMessage(ctx, NewMessage(msg)); err != nil {
		return err
	}
	if err := g.messages.MarkPushed(ctx, msg.ID, g.now().UTC()); err != nil {
		return fmt.Errorf("mark pushed: %w", err)
	}
	return nil
}

// PushPending retries every local message the peer has not acknowledged.
// It stops at the first sign the peer is down and returns how many were pushed.
func (g *Gateway) PushPending(ctx context.Context) (int, error) {
	if g.peer == nil {
		return 0, fmt.Errorf("%w: no peer configured", domain.ErrPeerUnavailable)
	}

	pending, err := g.messages.ListPendingPush(ctx, PageSize)
	if err != nil {
		return 0, fmt.Errorf("list pending messages: %w", err)
	}

	pushed := 0
	for _, msg := range pending {
		if err := g.push(ctx, msg); err != nil {
			if errors.Is(err, domain.ErrPeerUnavailable) {
				return pushed, err
			}
			slog.Warn("peer refused message", "message_id", msg.ID, "error", err)
			continue
		}
		pushed++
	}

	if pushed > 0 {
		slog.Info("pushed pending messages", "count", pushed)
	}
	return pushed, nil
}

// drain pushes queued messages as they arrive until ctx is done.
func (g *Gateway) drain(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-g.queue:
			if err := g.push(ctx, msg); err != nil {
				slog.Warn("push failed, message left for retry", "message_id", msg.ID, "error", err)
			}
		}
	}
}

// sweep runs one pull and one retry of pending pushes, logging failures.
func (g *Gateway) sweep(ctx context.Context) {
	if _, err := g.Pull(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("pull from peer failed", "error", err)
	}
	if _, err := g.PushPending(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("push to peer failed", "error", err)
	}
}

// Run pushes queued messages as they are sent and syncs with the peer at
// every interval until ctx is done. Peer failures are logged, never returned.
func (g *Gateway) Run(ctx context.Context, interval time.Duration) error {
	if g.peer == nil {
		slog.Info("no sync peer configured, peer sync disabled")
		<-ctx.Done()
		return nil
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return g.drain(ctx)
	})

	group.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			g.sweep(ctx)
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	return group.Wait()
}
