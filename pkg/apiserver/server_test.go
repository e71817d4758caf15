package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/auth"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/config"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
)

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	return cfg
}

func testToken(t *testing.T, cfg *config.Config, role model.Role) string {
	t.Helper()
	manager := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	token, err := manager.Generate(&model.User{
		ID:   uuid.New(),
		Name: "test user",
		Role: role,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestHealthEndpoint(t *testing.T) {
	server := NewServer(nil, testConfig(), zap.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var response healthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Fatalf("expected status ok, got %q", response.Status)
	}
}

func TestAPIAuthRequired(t *testing.T) {
	server := NewServer(nil, testConfig(), zap.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "missing authorization" {
		t.Fatalf("expected missing authorization error, got %q", response.Error)
	}
}

func TestAPIRejectsInvalidToken(t *testing.T) {
	server := NewServer(nil, testConfig(), zap.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "invalid token" {
		t.Fatalf("expected invalid token error, got %q", response.Error)
	}
}

func TestAdminRoutesRejectEmployee(t *testing.T) {
	cfg := testConfig()
	server := NewServer(nil, cfg, zap.NewNop(), nil)
	token := testToken(t, cfg, model.RoleEmployee)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "insufficient role" {
		t.Fatalf("expected insufficient role error, got %q", response.Error)
	}
}

func TestTeamLeadRoutesRejectEmployee(t *testing.T) {
	cfg := testConfig()
	server := NewServer(nil, cfg, zap.NewNop(), nil)
	token := testToken(t, cfg, model.RoleEmployee)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teamlead/projects/available", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, recorder.Code)
	}
}
