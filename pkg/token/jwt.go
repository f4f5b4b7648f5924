// Package token generates and verifies the JSON Web Tokens used for admin
// console sessions.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager signs and verifies admin session tokens. The refresh-token
// lifetime depends on the persistence mode the admin picked at login:
// session-only logins get sessionDur, "remember me" logins get rememberDur.
type JWTManager struct {
	secretKey   []byte
	accessDur   time.Duration
	sessionDur  time.Duration
	rememberDur time.Duration
}

// AdminClaims is the claim set carried by every admin token.
type AdminClaims struct {
	AdminID uint   `json:"adminId"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a JWTManager.
// accessExpireHours is the access-token lifetime, sessionExpireHours the
// refresh lifetime for session-only logins, rememberExpireDays the refresh
// lifetime for persistent logins.
func NewJWTManager(secret string, accessExpireHours, sessionExpireHours, rememberExpireDays int) *JWTManager {
	return &JWTManager{
		secretKey:   []byte(secret),
		accessDur:   time.Duration(accessExpireHours) * time.Hour,
		sessionDur:  time.Duration(sessionExpireHours) * time.Hour,
		rememberDur: time.Duration(rememberExpireDays) * 24 * time.Hour,
	}
}

// GenerateToken issues a new access token for the given admin.
func (m *JWTManager) GenerateToken(adminID uint, email string) (string, error) {
	return m.generate(adminID, email, m.accessDur)
}

// GenerateRefreshToken issues a refresh token whose lifetime depends on the
// chosen persistence mode.
func (m *JWTManager) GenerateRefreshToken(adminID uint, email string, remember bool) (string, error) {
	dur := m.sessionDur
	if remember {
		dur = m.rememberDur
	}
	return m.generate(adminID, email, dur)
}

func (m *JWTManager) generate(adminID uint, email string, dur time.Duration) (string, error) {
	claims := AdminClaims{
		AdminID: adminID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(dur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secretKey)
}

// VerifyToken parses and validates a token string and returns its claims.
func (m *JWTManager) VerifyToken(tokenString string) (*AdminClaims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := t.Claims.(*AdminClaims); ok && t.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
