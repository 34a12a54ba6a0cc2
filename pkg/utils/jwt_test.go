package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sharebox/backend/internal/models"
)

func testUser(isAdmin bool) *models.User {
	user := &models.User{
		Username: "alice",
		Email:    "alice@test.com",
		IsAdmin:  isAdmin,
	}
	user.ID = uuid.New()
	return user
}

func TestGenerateAndValidateToken(t *testing.T) {
	ConfigureJWT("unit-test-secret", 24)

	user := testUser(false)
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims user id = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("claims email = %s, want %s", claims.Email, user.Email)
	}
	if claims.IsAdmin {
		t.Error("claims should not mark a regular user as admin")
	}
}

func TestTokenCarriesAdminFlag(t *testing.T) {
	ConfigureJWT("unit-test-secret", 24)

	token, err := GenerateToken(testUser(true))
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if !claims.IsAdmin {
		t.Error("claims should carry the admin flag")
	}
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	ConfigureJWT("unit-test-secret", 24)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	ConfigureJWT("secret-one", 24)
	token, err := GenerateToken(testUser(false))
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	ConfigureJWT("secret-two", 24)
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with a different secret should fail validation")
	}
}
