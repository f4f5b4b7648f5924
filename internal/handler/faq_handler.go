package handler

import (
	"net/http"
	"strconv"

	"github.com/gamisaur/gccan/internal/service"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gin-gonic/gin"
)

// FAQHandler serves the FAQ directory to visitors and its management
// endpoints to the admin console.
type FAQHandler struct {
	faqService service.FAQService
}

// NewFAQHandler creates a new FAQHandler instance.
func NewFAQHandler(faqService service.FAQService) *FAQHandler {
	return &FAQHandler{faqService: faqService}
}

// GetDirectory returns the category -> question -> entry mapping the chat
// view renders its buttons from.
func (h *FAQHandler) GetDirectory(c *gin.Context) {
	respondOK(c, h.faqService.Directory())
}

// List returns the raw FAQ records for the admin console table.
func (h *FAQHandler) List(c *gin.Context) {
	respondOK(c, h.faqService.List())
}

// Refresh re-fetches the directory from the store on demand.
func (h *FAQHandler) Refresh(c *gin.Context) {
	if err := h.faqService.Refresh(); err != nil {
		log.Errorf("FAQ refresh failed: %v", err)
		respondError(c, err)
		return
	}
	respondOK(c, h.faqService.List())
}

// CreateFAQRequest is the body for adding one FAQ.
type CreateFAQRequest struct {
	Category  string `json:"category"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	MediaURL  string `json:"mediaUrl"`
	Confirmed bool   `json:"confirmed"`
}

// Create adds a new FAQ. The first submission without confirmed=true gets the
// confirmation payload back instead of a write.
func (h *FAQHandler) Create(c *gin.Context) {
	var req CreateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "invalid request payload",
		})
		return
	}

	faq, err := h.faqService.Create(c.Request.Context(), req.Category, req.Question, req.Answer, req.MediaURL, req.Confirmed)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Infof("FAQ %d created in category '%s'", faq.ID, faq.Category)
	respondOK(c, faq)
}

// UpdateAnswerRequest is the body for replacing one FAQ's answer.
type UpdateAnswerRequest struct {
	Answer string `json:"answer"`
}

// UpdateAnswer replaces the answer of one FAQ. Empty input is a no-op, not an
// error; the response reports whether anything changed.
func (h *FAQHandler) UpdateAnswer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid FAQ id"})
		return
	}

	var req UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request payload"})
		return
	}

	updated, err := h.faqService.UpdateAnswer(c.Request.Context(), uint(id), req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"updated": updated})
}

// Delete removes one FAQ. confirmed=true must be passed as a query parameter
// on the second attempt.
func (h *FAQHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid FAQ id"})
		return
	}
	confirmed := c.Query("confirmed") == "true"

	if err := h.faqService.Remove(c.Request.Context(), uint(id), confirmed); err != nil {
		respondError(c, err)
		return
	}

	log.Infof("FAQ %d deleted", id)
	respondOK(c, nil)
}
