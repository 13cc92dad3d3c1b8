package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/gemini"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/service"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/storage"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	// An empty body is fine; the service picks a default title.
	_ = c.ShouldBindJSON(&req)

	session, err := h.sessions.CreateSession(c.Request.Context(), req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.sessions.GetSession(sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.sessions.DeleteSession(sessionID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.ListSessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]model.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, model.SessionResponse{
			SessionID:    s.ID,
			Title:        s.Title,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
			MessageCount: len(s.Messages),
		})
	}

	c.JSON(http.StatusOK, gin.H{"sessions": summaries})
}

func (h *SessionHandler) ClearSessions(c *gin.Context) {
	if err := h.sessions.ClearSessions(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All sessions cleared successfully"})
}

func (h *SessionHandler) SetField(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req model.SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.SetField(sessionID, req.Person, req.Field, req.Value)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) LoadExampleData(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.sessions.LoadExampleData(sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) SubmitAnalysis(c *gin.Context) {
	sessionID := c.Param("session_id")

	resp, err := h.sessions.SubmitAnalysis(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) SubmitImage(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req model.ImageRequest
	_ = c.ShouldBindJSON(&req)

	resp, err := h.sessions.SubmitImage(c.Request.Context(), sessionID, req.Prompt)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) SubmitChat(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req model.ChatRequest
	_ = c.ShouldBindJSON(&req)

	message, err := h.sessions.SubmitChat(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if message == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{SessionID: sessionID, Message: message})
}

func (h *SessionHandler) SubmitSearch(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req model.QueryRequest
	_ = c.ShouldBindJSON(&req)

	message, err := h.sessions.SubmitSearch(c.Request.Context(), sessionID, req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if message == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{SessionID: sessionID, Message: message})
}

func (h *SessionHandler) SubmitMaps(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req model.QueryRequest
	_ = c.ShouldBindJSON(&req)

	message, err := h.sessions.SubmitMaps(c.Request.Context(), sessionID, req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if message == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{SessionID: sessionID, Message: message})
}

func (h *SessionHandler) SubmitQuick(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req model.QueryRequest
	_ = c.ShouldBindJSON(&req)

	answer, err := h.sessions.SubmitQuick(c.Request.Context(), sessionID, req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.QuickResponse{Answer: answer})
}

// respondError maps service and provider errors onto HTTP statuses.
func (h *SessionHandler) respondError(c *gin.Context, err error) {
	var valErr *service.ValidationError
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, model.ValidationResponse{
			Notice:  valErr.Notice,
			ErrorsA: valErr.ErrorsA,
			ErrorsB: valErr.ErrorsB,
		})
	case errors.Is(err, storage.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOperationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, gemini.ErrAPIKeyMissing):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyImagePrompt),
		errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrUnknownPerson),
		errors.Is(err, service.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
