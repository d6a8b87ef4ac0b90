package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"chatterbit/internal/domain"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func TestUserService_RegisterNormalizesEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  A@B.com ",
		Password: "supersecret",
		Name:     " Ana ",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Name != "Ana" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.PasswordHash == "" || user.PasswordHash == "supersecret" {
		t.Fatalf("expected hashed password")
	}
}

func TestUserService_RegisterDuplicateEmailAcrossCasing(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "A@B.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    " a@b.com ",
		Password: "othersecret",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_RegisterValidation(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "not-an-email",
		Password: "supersecret",
	}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "short",
	}); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}

	if len(repo.usersByID) != 0 {
		t.Fatalf("expected no users persisted, got %d", len(repo.usersByID))
	}
}

func TestUserService_AuthenticateSuccess(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	created, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), "User@Example.com", "supersecret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user %q, got %q", created.ID, user.ID)
	}
}

func TestUserService_AuthenticateUniformError(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Contraseña incorrecta y email inexistente deben ser indistinguibles.
	_, wrongPassErr := svc.Authenticate(context.Background(), "user@example.com", "wrongpassword")
	_, noUserErr := svc.Authenticate(context.Background(), "nobody@example.com", "supersecret")

	if !errors.Is(wrongPassErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassErr)
	}
	if !errors.Is(noUserErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", noUserErr)
	}
}

func TestUserService_GetByID(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	created, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
