package handler

import (
	"net/http"

	"github.com/gamisaur/gccan/internal/service"
	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the visitor session's view-state transitions.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler instance.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Get returns the session's current state; unknown sessions start on landing.
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, session)
}

// StartChatRequest carries the terms acceptance for the landing -> chat
// transition.
type StartChatRequest struct {
	AcceptTerms bool `json:"acceptTerms"`
}

// StartChat moves the session from landing to chat.
func (h *SessionHandler) StartChat(c *gin.Context) {
	var req StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request payload"})
		return
	}

	session, err := h.sessionService.StartChat(c.Request.Context(), c.Param("id"), req.AcceptTerms)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, session)
}

// ReturnToLanding moves the session from chat back to landing, clearing the
// transcript.
func (h *SessionHandler) ReturnToLanding(c *gin.Context) {
	session, err := h.sessionService.ReturnToLanding(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, session)
}

// EnterLogin moves the session from landing to the login view.
func (h *SessionHandler) EnterLogin(c *gin.Context) {
	session, err := h.sessionService.EnterLogin(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, session)
}
