package handler

import (
	"net/http"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/service"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gamisaur/gccan/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// FeedbackHandler serves the visitor feedback form and the admin inbox,
// including its live websocket stream.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
	adminService    service.AdminService
	jwtManager      *token.JWTManager
}

// NewFeedbackHandler creates a new FeedbackHandler instance.
func NewFeedbackHandler(feedbackService service.FeedbackService, adminService service.AdminService, jwtManager *token.JWTManager) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		adminService:    adminService,
		jwtManager:      jwtManager,
	}
}

// SubmitFeedbackRequest is the visitor submission body.
type SubmitFeedbackRequest struct {
	Email    string `json:"email"`
	Feedback string `json:"feedback"`
}

// Submit stores one visitor submission.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "invalid request payload",
		})
		return
	}

	feedback, err := h.feedbackService.Submit(c.Request.Context(), req.Email, req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Infof("feedback %s submitted by %s", feedback.ID, feedback.Email)
	respondOK(c, feedback)
}

// List returns the current inbox snapshot, most recent first, along with the
// transient new-feedback banner state.
func (h *FeedbackHandler) List(c *gin.Context) {
	respondOK(c, gin.H{
		"entries":      h.feedbackService.Snapshot(),
		"bannerActive": h.feedbackService.BannerActive(),
	})
}

// Resolve marks one entry resolved after confirmation.
func (h *FeedbackHandler) Resolve(c *gin.Context) {
	id := c.Param("id")
	confirmed := c.Query("confirmed") == "true"

	if err := h.feedbackService.MarkResolved(c.Request.Context(), id, confirmed); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// Delete removes one entry after confirmation, at any lifecycle stage.
func (h *FeedbackHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	confirmed := c.Query("confirmed") == "true"

	if err := h.feedbackService.Remove(c.Request.Context(), id, confirmed); err != nil {
		respondError(c, err)
		return
	}

	log.Infof("feedback %s deleted", id)
	respondOK(c, nil)
}

// ReplyRequest is the body for replying to one feedback entry.
type ReplyRequest struct {
	Reply string `json:"reply"`
}

// Reply mails the reply to the submitter. The entry is marked resolved only
// when the mail actually went out; empty reply text is reported as a no-op.
func (h *FeedbackHandler) Reply(c *gin.Context) {
	id := c.Param("id")

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request payload"})
		return
	}

	sent, err := h.feedbackService.Reply(c.Request.Context(), id, req.Reply)
	if err != nil {
		log.Warnf("reply to feedback %s failed: %v", id, err)
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"sent": sent})
}

var feedbackUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Live streams inbox snapshots over a websocket: the current snapshot on
// connect, then one message per store emission until the client goes away.
// Websocket clients cannot set an Authorization header, so the access token
// rides in the path and the admins record is checked here.
func (h *FeedbackHandler) Live(c *gin.Context) {
	claims, err := h.jwtManager.VerifyToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "invalid token"})
		return
	}
	if _, err := h.adminService.GetProfile(claims.Email); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "admin record not found"})
		return
	}

	conn, err := feedbackUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", err)
		return
	}
	defer conn.Close()

	snapshots := make(chan []model.Feedback, 8)
	unregister := h.feedbackService.AddListener(func(snapshot []model.Feedback) {
		select {
		case snapshots <- snapshot:
		default:
			// A slow consumer skips intermediate snapshots; each one is
			// complete, so only the latest matters.
		}
	})
	defer unregister()

	if err := conn.WriteJSON(h.feedbackService.Snapshot()); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot := <-snapshots:
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
