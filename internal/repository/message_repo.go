package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chatterbit/internal/domain"
)

// MessageRepository define el contrato de persistencia para mensajes.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListByConversationID(ctx context.Context, conversationID string) ([]domain.Message, error)
	// ListRecent devuelve los últimos `limit` mensajes en orden cronológico
	// ascendente (el más viejo de la ventana primero).
	ListRecent(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.ConversationID,
		message.Role,
		message.Content,
		message.CreatedAt,
	)
	return err
}

func (r *PgMessageRepository) ListByConversationID(ctx context.Context, conversationID string) ([]domain.Message, error) {
	const query = `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, seq ASC
	`
	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *PgMessageRepository) ListRecent(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	const query = `
		SELECT id, conversation_id, role, content, created_at
		FROM (
			SELECT id, conversation_id, role, content, created_at, seq
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, seq DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, seq ASC
	`
	rows, err := r.pool.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
