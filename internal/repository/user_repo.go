package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"chatterbit/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	var name interface{}
	if user.Name != "" {
		name = user.Name
	}

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		name,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT id, email, password_hash, name, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, email, password_hash, name, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgUserRepository) scanOne(row rowScanner) (domain.User, error) {
	var (
		u    domain.User
		name *string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &u.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	if name != nil {
		u.Name = *name
	}
	return u, nil
}
