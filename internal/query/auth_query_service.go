package query

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kopofin/hanabank/internal/cqrs"
	"github.com/kopofin/hanabank/internal/middleware"
	"github.com/kopofin/hanabank/internal/models"
	"github.com/kopofin/hanabank/internal/utils"
)

// tokenTTL is the lifetime of a channel JWT.
const tokenTTL = 24 * time.Hour

// CredentialStore looks up customers for channel login.
type CredentialStore interface {
	GetByEmail(email string) (*models.Customer, error)
	GetByID(id int64) (*models.Customer, error)
}

// LoginResult is the successful authentication payload.
type LoginResult struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CustomerID int64     `json:"customerId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
}

// AuthQueryService authenticates the bank's own channel. The integration
// endpoints never touch this; they authenticate through group customer
// tokens.
type AuthQueryService struct {
	customers CredentialStore
}

func NewAuthQueryService(customers CredentialStore) *AuthQueryService {
	return &AuthQueryService{customers: customers}
}

// Login verifies the email/password pair and issues a signed JWT. An unknown
// email and a wrong password produce the same error.
func (s *AuthQueryService) Login(cmd cqrs.LoginCommand) (*LoginResult, error) {
	customer, err := s.customers.GetByEmail(cmd.Email)
	if err != nil {
		if errors.Is(err, models.ErrCustomerNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(cmd.Password, customer.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}
	return s.issue(customer)
}

// RefreshToken exchanges a still-valid JWT for a fresh one with a full
// lifetime. Expired tokens are rejected; the customer logs in again.
func (s *AuthQueryService) RefreshToken(cmd cqrs.RefreshTokenCommand) (*LoginResult, error) {
	claims := &middleware.Claims{}
	tok, err := jwt.ParseWithClaims(cmd.Token, claims, func(t *jwt.Token) (any, error) {
		return middleware.JWTSecret(), nil
	})
	if err != nil || !tok.Valid {
		return nil, models.ErrInvalidCredentials
	}

	customer, err := s.customers.GetByID(claims.CustomerID)
	if err != nil {
		if errors.Is(err, models.ErrCustomerNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if !customer.IsActive {
		return nil, models.ErrInvalidCredentials
	}
	return s.issue(customer)
}

func (s *AuthQueryService) issue(customer *models.Customer) (*LoginResult, error) {
	expiresAt := time.Now().Add(tokenTTL)
	claims := middleware.Claims{
		CustomerID: customer.ID,
		Email:      customer.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   customer.Email,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.JWTSecret())
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:      signed,
		ExpiresAt:  expiresAt,
		CustomerID: customer.ID,
		Name:       customer.Name,
		Email:      customer.Email,
	}, nil
}
