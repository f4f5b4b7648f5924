package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gamisaur/gccan/internal/service"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles admin authentication and its session side effects.
type AuthHandler struct {
	adminService   service.AdminService
	sessionService service.SessionService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(adminService service.AdminService, sessionService service.SessionService) *AuthHandler {
	return &AuthHandler{adminService: adminService, sessionService: sessionService}
}

// LoginRequest is the admin login body. remember selects whether the session
// survives a browser restart.
type LoginRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Remember  bool   `json:"remember"`
	SessionID string `json:"sessionId"`
}

// Login authenticates an admin and, when a session id accompanies the
// request, moves that session from login to console. A failed authentication
// leaves the session where it is.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "email and password are required",
		})
		return
	}

	accessToken, refreshToken, admin, err := h.adminService.Login(req.Email, req.Password, req.Remember)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warnf("Login: authentication failed for '%s'", req.Email)
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "invalid email or password",
			})
			return
		}
		respondError(c, err)
		return
	}

	if req.SessionID != "" {
		if _, err := h.sessionService.CompleteLogin(c.Request.Context(), req.SessionID, admin.Email); err != nil {
			respondError(c, err)
			return
		}
	}

	log.Infof("admin '%s' logged in", admin.Email)
	respondOK(c, gin.H{
		"token":        accessToken,
		"refreshToken": refreshToken,
		"admin":        admin,
	})
}

// RefreshRequest carries the refresh token being exchanged.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "refresh token is required"})
		return
	}

	accessToken, refreshToken, err := h.adminService.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": err.Error()})
		return
	}

	respondOK(c, gin.H{"token": accessToken, "refreshToken": refreshToken})
}

// Logout blacklists the access token and moves the caller's session from
// console back to landing.
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	if err := h.adminService.Logout(tokenString); err != nil {
		log.Error("Logout: failed to revoke token", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "logout failed",
		})
		return
	}

	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		if _, err := h.sessionService.SignOut(c.Request.Context(), sid); err != nil {
			respondError(c, err)
			return
		}
	}

	respondOK(c, nil)
}
