package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kopofin/hanabank/internal/cqrs"
	"github.com/kopofin/hanabank/internal/middleware"
	"github.com/kopofin/hanabank/internal/models"
	"github.com/kopofin/hanabank/internal/query"
)

// Authenticator defines the operations used by AuthHandler.
type Authenticator interface {
	Login(cqrs.LoginCommand) (*query.LoginResult, error)
	RefreshToken(cqrs.RefreshTokenCommand) (*query.LoginResult, error)
}

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Token string `json:"token" validate:"required"`
}

// Login authenticates with email and password and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result, err := h.auth.Login(cqrs.LoginCommand{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			middleware.RespondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		middleware.RespondError(c, http.StatusInternalServerError, "Login failed")
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Login successful", result)
}

// Refresh exchanges a still-valid JWT for a fresh one.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result, err := h.auth.RefreshToken(cqrs.RefreshTokenCommand{Token: req.Token})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			middleware.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		middleware.RespondError(c, http.StatusInternalServerError, "Token refresh failed")
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Token refreshed", result)
}
