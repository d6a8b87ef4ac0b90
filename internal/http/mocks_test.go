package http

import (
	"context"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"chatterbit/internal/domain"
	"chatterbit/internal/llm"
	"chatterbit/internal/service"
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

type mockConversationRepo struct {
	convos map[string]domain.Conversation
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{convos: make(map[string]domain.Conversation)}
}

func (m *mockConversationRepo) Create(_ context.Context, convo domain.Conversation) error {
	m.convos[convo.ID] = convo
	return nil
}

func (m *mockConversationRepo) GetByID(_ context.Context, id string) (domain.Conversation, error) {
	convo, ok := m.convos[id]
	if !ok {
		return domain.Conversation{}, pgx.ErrNoRows
	}
	return convo, nil
}

func (m *mockConversationRepo) ListByUserID(_ context.Context, userID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	for _, convo := range m.convos {
		if convo.UserID == userID {
			out = append(out, convo)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type mockMessageRepo struct {
	messages []domain.Message
}

func (m *mockMessageRepo) Create(_ context.Context, message domain.Message) error {
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) ListByConversationID(_ context.Context, conversationID string) ([]domain.Message, error) {
	return m.sorted(conversationID), nil
}

func (m *mockMessageRepo) ListRecent(_ context.Context, conversationID string, limit int) ([]domain.Message, error) {
	msgs := m.sorted(conversationID)
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (m *mockMessageRepo) sorted(conversationID string) []domain.Message {
	var msgs []domain.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			msgs = append(msgs, msg)
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs
}

type apiFixture struct {
	router   *gin.Engine
	jwtSvc   *service.JWTService
	users    *mockUserRepo
	convos   *mockConversationRepo
	messages *mockMessageRepo
	provider *llm.MockClient
}

func newAPIFixture() *apiFixture {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := newMockUserRepo()
	convos := newMockConversationRepo()
	messages := &mockMessageRepo{}
	provider := &llm.MockClient{Response: "stub reply"}

	jwtSvc := service.NewJWTService("test-secret", 24*time.Hour)
	userSvc := service.NewUserService(logger, users)
	chatSvc := service.NewChatService(logger, convos, messages, provider, 12, time.Second)

	authHandler := NewAuthHandler(logger, userSvc, jwtSvc)
	chatHandler := NewChatHandler(logger, chatSvc)
	router := NewRouter(logger, jwtSvc, nil, authHandler, chatHandler)

	return &apiFixture{
		router:   router,
		jwtSvc:   jwtSvc,
		users:    users,
		convos:   convos,
		messages: messages,
		provider: provider,
	}
}

func (f *apiFixture) tokenFor(userID string) string {
	token, err := f.jwtSvc.Issue(domain.User{ID: userID})
	if err != nil {
		panic(err)
	}
	return token
}
