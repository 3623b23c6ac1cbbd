package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/reliefsync/internal/domain"
)

var messageColumns = []string{"seq", "id", "sender_id", "channel_id", "content", "sent_at", "origin", "pushed_at", "created_at"}

// MessageRepository handles database operations for chat messages.
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func scanMessages(rows pgx.Rows) ([]*domain.ChatMessage, error) {
	defer rows.Close()

	var out []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.Seq, &m.ID, &m.SenderID, &m.ChannelID, &m.Content, &m.SentAt, &m.Origin, &m.PushedAt, &m.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Insert stores a message keyed by its ID and fills in Seq and ReceivedAt. A message
// already present is left untouched and false is returned, so replays from
// peers are harmless.
func (r *MessageRepository) Insert(ctx context.Context, m *domain.ChatMessage) (bool, error) {
	query, args, err := psql.
		Insert("chat_messages").
		Columns("id", "sender_id", "channel_id", "content", "sent_at", "origin", "pushed_at").
		Values(m.ID, m.SenderID, m.ChannelID, m.Content, m.SentAt, m.Origin, m.PushedAt).
		Suffix("ON CONFLICT (id) DO NOTHING RETURNING seq, created_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build Insert query for message: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&m.Seq, &m.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert message %s: %w", m.ID, err)
	}
	return true, nil
}

// ListSince returns messages with a sequence number above after, in storage
// order, at most limit rows. The cursor is local storage order, not the
// sender's clock, so a late-arriving old message is still handed to peers.
//
// Sequence numbers are taken before commit, so a row can become visible after
// a higher one was already read. A positive settle hides every row from the
// first one stored within the last settle onwards, so a reader that advances
// its cursor past a row never skips a lower row still committing.
func (r *MessageRepository) ListSince(ctx context.Context, after int64, settle time.Duration, limit uint64) ([]*domain.ChatMessage, error) {
	qb := psql.
		Select(messageColumns...).
		From("chat_messages").
		OrderBy("seq ASC").
		Limit(limit)
	if after > 0 {
		qb = qb.Where(sq.Gt{"seq": after})
	}
	if settle > 0 {
		qb = qb.Where(sq.Expr(
			"seq < COALESCE((SELECT MIN(seq) FROM chat_messages WHERE created_at > NOW() - make_interval(secs => ?)), ?)",
			settle.Seconds(), int64(math.MaxInt64),
		))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListSince query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	return scanMessages(rows)
}

// ListPendingPush returns local messages no peer has acknowledged yet.
func (r *MessageRepository) ListPendingPush(ctx context.Context, limit uint64) ([]*domain.ChatMessage, error) {
	query, args, err := psql.
		Select(messageColumns...).
		From("chat_messages").
		Where(sq.Eq{"origin": domain.MessageOriginLocal, "pushed_at": nil}).
		OrderBy("sent_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListPendingPush query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending messages: %w", err)
	}
	return scanMessages(rows)
}

// MarkPushed records that a peer acknowledged the message.
func (r *MessageRepository) MarkPushed(ctx context.Context, id string, at time.Time) error {
	query, args, err := psql.
		Update("chat_messages").
		Set("pushed_at", at).
		Where(sq.Eq{"id": id, "pushed_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build MarkPushed query for message %s: %w", id, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("mark message pushed: %w", err)
	}
	return nil
}
