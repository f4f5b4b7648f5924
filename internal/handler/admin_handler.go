package handler

import (
	"net/http"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/service"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gin-gonic/gin"
)

// maxAvatarSize caps avatar uploads at 5 MiB.
const maxAvatarSize = 5 << 20

// AdminHandler serves the admin profile endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func currentAdmin(c *gin.Context) (*model.Admin, bool) {
	adminValue, exists := c.Get("admin")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve admin identity"})
		return nil, false
	}
	admin, ok := adminValue.(*model.Admin)
	if !ok || admin == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected admin identity type"})
		return nil, false
	}
	return admin, true
}

// GetProfile returns the authenticated admin's profile. The admin record was
// injected by AuthMiddleware.
func (h *AdminHandler) GetProfile(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	respondOK(c, admin)
}

// UpdateDisplayNameRequest is the body for renaming the admin.
type UpdateDisplayNameRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
}

// UpdateDisplayName changes the authenticated admin's display name.
func (h *AdminHandler) UpdateDisplayName(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req UpdateDisplayNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "display name is required"})
		return
	}

	updated, err := h.adminService.UpdateDisplayName(admin.Email, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Infof("admin '%s' renamed to '%s'", admin.Email, updated.DisplayName)
	respondOK(c, updated)
}

// UploadAvatar accepts a multipart image upload, stores it in the object
// store and persists the presigned URL on the admin record.
func (h *AdminHandler) UploadAvatar(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "avatar file is required"})
		return
	}
	if fileHeader.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "avatar exceeds the 5MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	updated, err := h.adminService.UploadAvatar(
		c.Request.Context(),
		admin.Email,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		log.Errorf("avatar upload failed for '%s': %v", admin.Email, err)
		respondError(c, err)
		return
	}

	respondOK(c, updated)
}
