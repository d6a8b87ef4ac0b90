package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"chatterbit/internal/domain"
)

// ConversationRepository define el contrato de persistencia para conversaciones.
type ConversationRepository interface {
	Create(ctx context.Context, convo domain.Conversation) error
	GetByID(ctx context.Context, id string) (domain.Conversation, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.Conversation, error)
}

// PgConversationRepository implementa ConversationRepository usando pgxpool.
type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

func (r *PgConversationRepository) Create(ctx context.Context, convo domain.Conversation) error {
	const query = `
		INSERT INTO conversations (id, user_id, title, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		convo.ID,
		convo.UserID,
		convo.Title,
		convo.CreatedAt,
	)
	return err
}

func (r *PgConversationRepository) GetByID(ctx context.Context, id string) (domain.Conversation, error) {
	const query = `
		SELECT id, user_id, title, created_at
		FROM conversations
		WHERE id = $1
	`
	var convo domain.Conversation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&convo.ID,
		&convo.UserID,
		&convo.Title,
		&convo.CreatedAt,
	)
	if err != nil {
		return domain.Conversation{}, err
	}
	return convo, nil
}

func (r *PgConversationRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Conversation, error) {
	const query = `
		SELECT id, user_id, title, created_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convos []domain.Conversation
	for rows.Next() {
		var convo domain.Conversation
		if err := rows.Scan(&convo.ID, &convo.UserID, &convo.Title, &convo.CreatedAt); err != nil {
			return nil, err
		}
		convos = append(convos, convo)
	}
	return convos, rows.Err()
}
