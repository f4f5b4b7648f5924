package token

import (
	"testing"
	"time"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewJWTManager("test-secret", 1, 12, 30)

	tokenString, err := m.GenerateToken(7, "admin@gccan.edu.ph")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.AdminID != 7 || claims.Email != "admin@gccan.edu.ph" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", 1, 12, 30)
	other := NewJWTManager("other-secret", 1, 12, 30)

	tokenString, err := m.GenerateToken(7, "admin@gccan.edu.ph")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := other.VerifyToken(tokenString); err == nil {
		t.Error("token signed with another secret must not verify")
	}
}

func TestRememberExtendsRefreshLifetime(t *testing.T) {
	m := NewJWTManager("test-secret", 1, 12, 30)

	sessionToken, err := m.GenerateRefreshToken(7, "admin@gccan.edu.ph", false)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	rememberToken, err := m.GenerateRefreshToken(7, "admin@gccan.edu.ph", true)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	sessionClaims, err := m.VerifyToken(sessionToken)
	if err != nil {
		t.Fatal(err)
	}
	rememberClaims, err := m.VerifyToken(rememberToken)
	if err != nil {
		t.Fatal(err)
	}

	diff := rememberClaims.ExpiresAt.Sub(sessionClaims.ExpiresAt.Time)
	if diff < 29*24*time.Hour {
		t.Errorf("remember token should outlive the session token by weeks, diff=%v", diff)
	}
}
