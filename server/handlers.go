package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"Vibella/ai"
	"Vibella/core"
	"Vibella/lib/sl"
	"Vibella/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	conf  *core.Config
	log   *slog.Logger
	chat  core.ChatService
	store storage.ConversationStorage
}

func NewHandler(conf *core.Config, log *slog.Logger, chat core.ChatService, store storage.ConversationStorage) *Handler {
	return &Handler{
		conf:  conf,
		log:   log.With(sl.Module("handler")),
		chat:  chat,
		store: store,
	}
}

type ChatRequest struct {
	Message string `json:"message"`
	Image   string `json:"image,omitempty"`
}

type ChatResponse struct {
	Response       string    `json:"response"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
	HasImage       bool      `json:"has_image"`
}

func (h *Handler) Root(c *gin.Context) {
	total, err := h.store.CountExchanges()
	if err != nil {
		h.log.Error("counting exchanges", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":             "Vibella API",
		"status":              "active",
		"total_conversations": total,
	})
}

func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	hasImage := req.Image != ""
	logText := message
	if len(logText) > 50 {
		logText = logText[:50] + "..."
	}
	h.log.With(
		slog.String("message", logText),
		slog.Bool("image", hasImage),
	).Info("incoming message")

	response := h.chat.GenerateResponse(message, req.Image)
	if strings.HasPrefix(response, ai.ErrorPrefix) {
		modelFailuresTotal.Inc()
	}

	id, err := h.store.SaveExchange(message, response, req.Image)
	if err != nil {
		h.log.Error("saving exchange", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save conversation"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:       response,
		Timestamp:      time.Now().UTC(),
		ConversationID: id,
		HasImage:       hasImage,
	})
}

func (h *Handler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limit must be 1-100"})
		return
	}

	exchanges, err := h.store.RecentExchanges(limit, false)
	if err != nil {
		h.log.Error("loading history", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         len(exchanges),
		"conversations": exchanges,
	})
}

func (h *Handler) Stats(c *gin.Context) {
	total, err := h.store.CountExchanges()
	if err != nil {
		h.log.Error("counting exchanges", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_conversations": total,
		"database":            h.store.Name(),
	})
}

// Health reports liveness only; it never checks the store or the model.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
