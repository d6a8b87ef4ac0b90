package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatterbit/internal/domain"
	"chatterbit/internal/service"
)

// ChatHandler mantiene dependencias para endpoints de conversaciones y mensajes.
type ChatHandler struct {
	logger   *zap.Logger
	chatServ *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chatServ *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		chatServ: chatServ,
	}
}

// ListConversations maneja GET /chat/conversations.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	convos, err := h.chatServ.ListConversations(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list conversations failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if convos == nil {
		convos = []domain.Conversation{}
	}

	c.JSON(http.StatusOK, gin.H{"conversations": convos})
}

// CreateConversation maneja POST /chat/conversations.
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	// El body es opcional: sin título se usa el placeholder.
	_ = c.ShouldBindJSON(&req)

	convo, err := h.chatServ.CreateConversation(c.Request.Context(), claims.UserID, req.Title)
	if err != nil {
		h.logger.Error("create conversation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"conversation": convo})
}

// ListMessages maneja GET /chat/conversations/:id/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	messages, err := h.chatServ.ListMessages(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logger.Error("list messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostMessage maneja POST /chat/conversations/:id/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	// El contenido se valida en el servicio, después del chequeo de
	// pertenencia: una conversación ajena responde 404 aunque el body sea
	// inválido.
	_ = c.ShouldBindJSON(&req)

	msg, err := h.chatServ.SendMessage(c.Request.Context(), claims.UserID, c.Param("id"), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, service.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "content required"})
		default:
			h.logger.Error("send message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
