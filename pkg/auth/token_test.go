package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), time.Hour)
	user := &model.User{ID: uuid.New(), Name: "lead", Role: model.RoleTeamLead}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	principal, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if principal.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, principal.UserID)
	}
	if principal.Role != model.RoleTeamLead {
		t.Fatalf("expected role teamlead, got %q", principal.Role)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	manager := NewTokenManager([]byte("secret-a"), time.Hour)
	user := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	other := NewTokenManager([]byte("secret-b"), time.Hour)
	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), -time.Minute)
	user := &model.User{ID: uuid.New(), Role: model.RoleEmployee}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if _, err := manager.Validate(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if !CheckPassword("s3cret", hash) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("expected mismatched password to fail")
	}
}
