package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"chatterbit/internal/domain"
	"chatterbit/internal/repository"
)

// UserService coordina reglas de negocio para registro y login de usuarios.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	minPasswordLength = 8
	bcryptCost        = 12
)

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register valida los datos, hashea la contraseña con bcrypt y crea el usuario.
// El mismo email normalizado solo puede registrarse una vez.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		return domain.User{}, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return domain.User{}, ErrPasswordTooShort
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hashBytes),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Dos registros simultáneos pueden pasar ambos el chequeo previo;
		// el índice único decide y lo mapeamos al mismo conflicto.
		if isUniqueViolation(err) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// Authenticate verifica email y contraseña. Un email desconocido y una
// contraseña incorrecta devuelven el mismo error para no filtrar qué cuentas
// existen.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID devuelve el usuario para el endpoint /me.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
