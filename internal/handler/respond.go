// Package handler contains the controller logic for HTTP requests.
package handler

import (
	"errors"
	"net/http"

	"github.com/gamisaur/gccan/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps service-layer errors onto HTTP responses. Confirmation
// requests are not failures: they come back as a structured 409 payload the
// client re-submits with confirmed=true once the admin agrees.
func respondError(c *gin.Context, err error) {
	var confirmErr *service.ConfirmationRequiredError
	if errors.As(err, &confirmErr) {
		c.JSON(http.StatusConflict, gin.H{
			"code":    http.StatusConflict,
			"message": "confirmation required",
			"data": gin.H{
				"confirmationRequired": true,
				"kind":                 confirmErr.Kind,
				"prompt":               confirmErr.Prompt,
			},
		})
		return
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": validationErr.Message,
		})
		return
	}

	var transitionErr *service.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusConflict, gin.H{
			"code":    http.StatusConflict,
			"message": transitionErr.Error(),
		})
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "record not found",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    http.StatusInternalServerError,
		"message": err.Error(),
	})
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": data})
}
