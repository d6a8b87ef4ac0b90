package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"chatterbit/internal/domain"
	"chatterbit/internal/llm"
	"chatterbit/internal/repository"
)

// ChatService orquesta el intercambio de mensajes: verifica pertenencia,
// persiste el turno del usuario, arma la ventana de contexto y resuelve la
// respuesta del asistente con degradación ante fallas del proveedor.
type ChatService struct {
	logger   *zap.Logger
	convos   repository.ConversationRepository
	messages repository.MessageRepository
	provider llm.Client
	window   int
	timeout  time.Duration
}

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyContent         = errors.New("content required")
)

const (
	defaultTitle        = "New chat"
	defaultWindow       = 12
	systemPrompt        = "You are the Chatterbit assistant."
	replyUnavailable    = "🤖 I could not reach the AI right now. Please try again later or check billing."
	replyEmptyResponse  = "Sorry, I could not generate a response."
	defaultCallDeadline = 8 * time.Second
)

func NewChatService(
	logger *zap.Logger,
	convos repository.ConversationRepository,
	messages repository.MessageRepository,
	provider llm.Client,
	window int,
	timeout time.Duration,
) *ChatService {
	if window <= 0 {
		window = defaultWindow
	}
	if timeout <= 0 {
		timeout = defaultCallDeadline
	}
	return &ChatService{
		logger:   logger,
		convos:   convos,
		messages: messages,
		provider: provider,
		window:   window,
		timeout:  timeout,
	}
}

// CreateConversation crea una conversación para el usuario autenticado.
func (s *ChatService) CreateConversation(ctx context.Context, userID, title string) (domain.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}
	convo := domain.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.convos.Create(ctx, convo); err != nil {
		return domain.Conversation{}, err
	}
	return convo, nil
}

// ListConversations devuelve las conversaciones del usuario, más nuevas primero.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return s.convos.ListByUserID(ctx, userID)
}

// ListMessages devuelve los mensajes de una conversación propia, más viejos
// primero.
func (s *ChatService) ListMessages(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.messages.ListByConversationID(ctx, conversationID)
}

// SendMessage ejecuta un turno completo de chat. El mensaje del usuario se
// persiste antes de llamar al proveedor, y la conversación siempre gana
// exactamente un mensaje de asistente aunque el proveedor falle.
func (s *ChatService) SendMessage(ctx context.Context, userID, conversationID, content string) (domain.Message, error) {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return domain.Message{}, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, ErrEmptyContent
	}

	userMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return domain.Message{}, err
	}

	history, err := s.messages.ListRecent(ctx, conversationID, s.window)
	if err != nil {
		return domain.Message{}, err
	}

	reply := s.resolveReply(ctx, conversationID, history)

	assistantMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        reply,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return domain.Message{}, err
	}

	return assistantMsg, nil
}

// resolveReply consulta al proveedor con la ventana de historial. Las fallas
// del proveedor nunca salen de acá: se absorben en una respuesta fija.
func (s *ChatService) resolveReply(ctx context.Context, conversationID string, history []domain.Message) string {
	entries := make([]llm.Message, 0, len(history))
	for _, m := range history {
		entries = append(entries, llm.Message{Role: m.Role, Content: m.Content})
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.provider.Complete(callCtx, systemPrompt, entries)
	if err != nil {
		s.logger.Warn("llm completion failed",
			zap.Error(err),
			zap.String("conversation_id", conversationID),
		)
		return replyUnavailable
	}
	if strings.TrimSpace(reply) == "" {
		return replyEmptyResponse
	}
	return reply
}

// ownedConversation busca la conversación y verifica pertenencia. Una
// conversación inexistente y una ajena son indistinguibles para el caller.
func (s *ChatService) ownedConversation(ctx context.Context, userID, conversationID string) (domain.Conversation, error) {
	convo, err := s.convos.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Conversation{}, ErrConversationNotFound
		}
		return domain.Conversation{}, err
	}
	if convo.UserID != userID {
		return domain.Conversation{}, ErrConversationNotFound
	}
	return convo, nil
}
