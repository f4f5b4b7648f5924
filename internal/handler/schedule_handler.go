package handler

import (
	"net/http"
	"strconv"

	"github.com/gamisaur/gccan/internal/service"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves the faculty schedule directory and its management
// endpoints.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler instance.
func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// List returns the flattened schedule directory from the last refresh.
func (h *ScheduleHandler) List(c *gin.Context) {
	respondOK(c, h.scheduleService.Entries())
}

// Refresh re-runs the two-level fetch on demand.
func (h *ScheduleHandler) Refresh(c *gin.Context) {
	if err := h.scheduleService.Refresh(); err != nil {
		log.Errorf("schedule refresh failed: %v", err)
		respondError(c, err)
		return
	}
	respondOK(c, h.scheduleService.Entries())
}

// CreateScheduleRequest is the body for adding one schedule entry.
type CreateScheduleRequest struct {
	service.ScheduleForm
	Confirmed bool `json:"confirmed"`
}

// Create adds a schedule entry: the faculty record is merged in, the subject
// appended under it.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "invalid request payload",
		})
		return
	}

	if err := h.scheduleService.Create(req.ScheduleForm, req.Confirmed); err != nil {
		respondError(c, err)
		return
	}

	log.Infof("schedule entry created for faculty '%s'", req.FacultyEmail)
	respondOK(c, h.scheduleService.Entries())
}

// Delete removes one subject from under its faculty record. The faculty
// record itself stays.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	facultyEmail := c.Param("email")
	subjectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid subject id"})
		return
	}
	confirmed := c.Query("confirmed") == "true"

	if err := h.scheduleService.Remove(facultyEmail, uint(subjectID), confirmed); err != nil {
		respondError(c, err)
		return
	}

	log.Infof("subject %d deleted from faculty '%s'", subjectID, facultyEmail)
	respondOK(c, nil)
}

// SetClassTypeRequest is the body for switching a subject's class type.
type SetClassTypeRequest struct {
	ClassType string `json:"classType"`
}

// SetClassType switches one subject between Face-to-face and Online. The
// derived availability flips with it on the next listing.
func (h *ScheduleHandler) SetClassType(c *gin.Context) {
	facultyEmail := c.Param("email")
	subjectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid subject id"})
		return
	}

	var req SetClassTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request payload"})
		return
	}

	if err := h.scheduleService.SetClassType(facultyEmail, uint(subjectID), req.ClassType); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, h.scheduleService.Entries())
}
