package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/service"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var chatUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatHandler drives the visitor conversation over HTTP and websocket.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler instance.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func sessionID(c *gin.Context) string {
	return c.GetHeader("X-Session-ID")
}

// GetTranscript returns the session's conversation so far.
func (h *ChatHandler) GetTranscript(c *gin.Context) {
	turns, err := h.chatService.Transcript(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, turns)
}

// AskFAQRequest identifies a clicked directory question.
type AskFAQRequest struct {
	Category string `json:"category"`
	Question string `json:"question"`
}

// AskFAQ answers a clicked directory question and appends the exchange to the
// transcript.
func (h *ChatHandler) AskFAQ(c *gin.Context) {
	var req AskFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request payload"})
		return
	}

	turns, err := h.chatService.AskFAQ(c.Request.Context(), sessionID(c), req.Category, req.Question)
	if err != nil {
		if errors.Is(err, service.ErrUnknownQuestion) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	respondOK(c, turns)
}

// AskRequest carries a free-text question.
type AskRequest struct {
	Question string `json:"question"`
}

// Ask answers a free-text question from the best-matching FAQ, or with the
// fallback answer.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request payload"})
		return
	}

	turns, err := h.chatService.Ask(c.Request.Context(), sessionID(c), req.Question)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, turns)
}

// chatMessage is one inbound websocket frame: a clicked directory question
// (type "faq") or a free-text one (type "ask").
type chatMessage struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Question string `json:"question"`
}

// Handle runs one websocket chat connection. Every answered question comes
// back as the appended turn pair.
func (h *ChatHandler) Handle(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		sid = c.Query("session")
	}
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "session id is required"})
		return
	}

	conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", err)
		return
	}
	defer conn.Close()

	log.Infof("chat websocket established for session %s", sid)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("failed to read websocket message: %v", err)
			break
		}

		var msg chatMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			errResp, _ := json.Marshal(map[string]string{"error": "invalid message format"})
			_ = conn.WriteMessage(websocket.TextMessage, errResp)
			continue
		}

		ctx := c.Request.Context()
		var (
			turns  []model.ChatTurn
			askErr error
		)
		switch msg.Type {
		case "faq":
			turns, askErr = h.chatService.AskFAQ(ctx, sid, msg.Category, msg.Question)
		default:
			turns, askErr = h.chatService.Ask(ctx, sid, msg.Question)
		}
		if askErr != nil {
			errResp, _ := json.Marshal(map[string]string{"error": askErr.Error()})
			_ = conn.WriteMessage(websocket.TextMessage, errResp)
			continue
		}

		if err := conn.WriteJSON(turns); err != nil {
			log.Warnf("failed to write websocket message: %v", err)
			break
		}
	}
}
