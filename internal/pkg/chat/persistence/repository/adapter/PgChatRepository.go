package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-convo/internal/infrastructure/metrics"
	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

const selectConversation = `
	SELECT c.id::text, c.type, COALESCE(c.direct_key, ''), c.name, c.description, c.avatar,
	       c.created_by, c.created_at, c.last_activity, c.last_message, c.unread_count,
	       array_agg(p.username ORDER BY p.position),
	       COALESCE(array_agg(p.username ORDER BY p.position) FILTER (WHERE p.role = 1), '{}')
	FROM conversations c
	JOIN conversation_participants p ON p.conversation_id = c.id
`

func (r *PgChatRepository) FindDirectConversations(ctx context.Context, username string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	defer metrics.ObservePostgres(time.Now())

	rows, err := r.pool.Query(ctx, selectConversation+`
		WHERE c.type = 'direct'
		  AND EXISTS (
		      SELECT 1 FROM conversation_participants me
		      WHERE me.conversation_id = c.id AND me.username = $1
		  )
		GROUP BY c.id
		ORDER BY c.created_at
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (r *PgChatRepository) CreateDirectConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, bool, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, false, errors.New("PgChatRepository: nil pool")
	}
	if c.Type != chat.ConversationTypeDirect || c.DirectKey == "" {
		return chat.Conversation{}, false, errors.New("PgChatRepository: direct conversation needs a direct key")
	}
	defer metrics.ObservePostgres(time.Now())

	var (
		stored  chat.Conversation
		created bool
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO conversations (type, direct_key, name, description, avatar, created_by)
			VALUES ('direct', $1, $2, '', $3, $4)
			ON CONFLICT (direct_key) DO NOTHING
			RETURNING id::text, created_at, last_activity
		`, c.DirectKey, c.Name, c.Avatar, c.CreatedBy).Scan(&c.ID, &c.CreatedAt, &c.LastActivity)

		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// Lost the race or the pair already talks: hand back the stored row.
			existing, err := findByDirectKey(ctx, tx, c.DirectKey)
			if err != nil {
				return err
			}
			stored = existing
			return nil
		case err != nil:
			return err
		}

		if err := insertParticipants(ctx, tx, c); err != nil {
			return err
		}
		stored, created = c, true
		return nil
	})
	if err != nil {
		return chat.Conversation{}, false, err
	}
	return stored, created, nil
}

func (r *PgChatRepository) CreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	if len(c.Participants) == 0 {
		return chat.Conversation{}, errors.New("PgChatRepository: conversation without participants")
	}
	defer metrics.ObservePostgres(time.Now())

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO conversations (type, direct_key, name, description, avatar, created_by)
			VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
			RETURNING id::text, created_at, last_activity, unread_count
		`, string(c.Type), c.DirectKey, c.Name, c.Description, c.Avatar, c.CreatedBy,
		).Scan(&c.ID, &c.CreatedAt, &c.LastActivity, &c.UnreadCount)
		if err != nil {
			return err
		}
		return insertParticipants(ctx, tx, c)
	})
	if err != nil {
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PgChatRepository) IsParticipant(ctx context.Context, conversationID string, username string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	defer metrics.ObservePostgres(time.Now())

	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM conversation_participants
			WHERE conversation_id = $1::uuid AND username = $2
		)
	`, conversationID, username).Scan(&ok)
	return ok, err
}

func (r *PgChatRepository) ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	defer metrics.ObservePostgres(time.Now())

	rows, err := r.pool.Query(ctx, `
		SELECT username FROM conversation_participants
		WHERE conversation_id = $1::uuid
		ORDER BY position
	`, conversationID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func findByDirectKey(ctx context.Context, tx pgx.Tx, key string) (chat.Conversation, error) {
	row := tx.QueryRow(ctx, selectConversation+`
		WHERE c.direct_key = $1
		GROUP BY c.id
	`, key)
	c, err := scanConversation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, fmt.Errorf("direct conversation %q vanished after conflict", key)
	}
	return c, err
}

func insertParticipants(ctx context.Context, tx pgx.Tx, c chat.Conversation) error {
	batch := &pgx.Batch{}
	for _, p := range c.ParticipantRows() {
		batch.Queue(`
			INSERT INTO conversation_participants (conversation_id, username, position, role)
			VALUES ($1::uuid, $2, $3, $4)
		`, c.ID, p.Username, p.Position, int16(p.Role))
	}
	return tx.SendBatch(ctx, batch).Close()
}

func scanConversation(row pgx.Row) (chat.Conversation, error) {
	var (
		c    chat.Conversation
		kind string
	)
	err := row.Scan(
		&c.ID, &kind, &c.DirectKey, &c.Name, &c.Description, &c.Avatar,
		&c.CreatedBy, &c.CreatedAt, &c.LastActivity, &c.LastMessage, &c.UnreadCount,
		&c.Participants, &c.Admins,
	)
	c.Type = chat.ConversationType(kind)
	return c, err
}
