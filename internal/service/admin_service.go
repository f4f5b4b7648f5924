package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/gamisaur/gccan/internal/config"
	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/repository"
	"github.com/gamisaur/gccan/pkg/database"
	"github.com/gamisaur/gccan/pkg/hash"
	"github.com/gamisaur/gccan/pkg/storage"
	"github.com/gamisaur/gccan/pkg/token"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned on any failed authentication attempt. The
// caller cannot tell an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// avatarURLExpiry is the lifetime of the presigned avatar URL persisted on
// the admin record.
const avatarURLExpiry = 7 * 24 * time.Hour

// AdminService handles admin authentication and profile management.
// Authorization is the existence of an admins record: whoever can
// authenticate against one is an admin, nothing else grants access.
type AdminService interface {
	Login(email, password string, remember bool) (accessToken, refreshToken string, admin *model.Admin, err error)
	RefreshToken(refreshTokenString string) (newAccessToken, newRefreshToken string, err error)
	Logout(tokenString string) error
	GetProfile(email string) (*model.Admin, error)
	UpdateDisplayName(email, displayName string) (*model.Admin, error)
	UploadAvatar(ctx context.Context, email, filename, contentType string, r io.Reader, size int64) (*model.Admin, error)
}

type adminService struct {
	adminRepo  repository.AdminRepository
	jwtManager *token.JWTManager
	minioCfg   config.MinIOConfig
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(adminRepo repository.AdminRepository, jwtManager *token.JWTManager, minioCfg config.MinIOConfig) AdminService {
	return &adminService{
		adminRepo:  adminRepo,
		jwtManager: jwtManager,
		minioCfg:   minioCfg,
	}
}

// Login authenticates an admin by email and password and issues a token pair.
// remember selects the session persistence mode: a longer refresh lifetime
// that survives browser restarts, or a short session-only one.
func (s *adminService) Login(email, password string, remember bool) (string, string, *model.Admin, error) {
	admin, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, ErrInvalidCredentials
		}
		return "", "", nil, err
	}

	if !hash.CheckPasswordHash(password, admin.Password) {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return "", "", nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(admin.ID, admin.Email, remember)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, admin, nil
}

// RefreshToken validates a refresh token and issues a fresh pair. The admins
// record is re-checked so a deleted admin cannot keep refreshing.
func (s *adminService) RefreshToken(refreshTokenString string) (string, string, error) {
	claims, err := s.jwtManager.VerifyToken(refreshTokenString)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	admin, err := s.adminRepo.FindByEmail(claims.Email)
	if err != nil {
		return "", "", errors.New("admin not found")
	}

	newAccessToken, err := s.jwtManager.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return "", "", err
	}
	// A refresh keeps the session-only lifetime; persistence mode is chosen
	// at login.
	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(admin.ID, admin.Email, false)
	if err != nil {
		return "", "", err
	}

	return newAccessToken, newRefreshToken, nil
}

// Logout blacklists the access token in Redis for its remaining lifetime.
func (s *adminService) Logout(tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		return err
	}
	expiration := time.Until(claims.ExpiresAt.Time)
	return database.RDB.Set(context.Background(), "blacklist:"+tokenString, "true", expiration).Err()
}

// GetProfile returns an admin's profile by email.
func (s *adminService) GetProfile(email string) (*model.Admin, error) {
	return s.adminRepo.FindByEmail(email)
}

// UpdateDisplayName changes the admin's display name.
func (s *adminService) UpdateDisplayName(email, displayName string) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	admin.DisplayName = displayName
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// UploadAvatar stores the uploaded image in the object store and persists a
// presigned URL for it on the admin record.
func (s *adminService) UploadAvatar(ctx context.Context, email, filename, contentType string, r io.Reader, size int64) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("avatars/%d/%d%s", admin.ID, time.Now().UnixMilli(), path.Ext(filename))
	if err := storage.PutObject(ctx, s.minioCfg.BucketName, objectName, r, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	url, err := storage.GetPresignedURL(s.minioCfg.BucketName, objectName, avatarURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate avatar URL: %w", err)
	}

	admin.PhotoURL = url
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	return admin, nil
}
