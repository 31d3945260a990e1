package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kopofin/hanabank/internal/cqrs"
	"github.com/kopofin/hanabank/internal/models"
	"github.com/kopofin/hanabank/internal/query"
)

type mockAuthenticator struct {
	loginFn   func(cqrs.LoginCommand) (*query.LoginResult, error)
	refreshFn func(cqrs.RefreshTokenCommand) (*query.LoginResult, error)
}

func (m *mockAuthenticator) Login(cmd cqrs.LoginCommand) (*query.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAuthenticator) RefreshToken(cmd cqrs.RefreshTokenCommand) (*query.LoginResult, error) {
	if m.refreshFn != nil {
		return m.refreshFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func newAuthTestRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(auth)
	api := r.Group("/api/auth")
	api.POST("/login", h.Login)
	api.POST("/refresh", h.Refresh)
	return r
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		loginFn        func(cqrs.LoginCommand) (*query.LoginResult, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]any{"email": "hana@example.com", "password": "secret"},
			loginFn: func(cmd cqrs.LoginCommand) (*query.LoginResult, error) {
				return &query.LoginResult{Token: "jwt", CustomerID: 7, Email: cmd.Email}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unauthorized - wrong password",
			body: map[string]any{"email": "hana@example.com", "password": "wrong"},
			loginFn: func(cqrs.LoginCommand) (*query.LoginResult, error) {
				return nil, models.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - invalid email",
			body:           map[string]any{"email": "not-an-email", "password": "secret"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]any{"email": "hana@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthenticator{loginFn: tt.loginFn})
			w := doRequest(router, http.MethodPost, "/api/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		refreshFn      func(cqrs.RefreshTokenCommand) (*query.LoginResult, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]any{"token": "old-jwt"},
			refreshFn: func(cqrs.RefreshTokenCommand) (*query.LoginResult, error) {
				return &query.LoginResult{Token: "fresh-jwt"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unauthorized - expired token",
			body: map[string]any{"token": "expired"},
			refreshFn: func(cqrs.RefreshTokenCommand) (*query.LoginResult, error) {
				return nil, models.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing token",
			body:           map[string]any{},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthenticator{refreshFn: tt.refreshFn})
			w := doRequest(router, http.MethodPost, "/api/auth/refresh", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
