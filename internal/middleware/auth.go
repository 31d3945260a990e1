package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

// JWTSecret lazily loads the signing key. The process refuses to serve
// authenticated routes without one.
func JWTSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

// Claims is the JWT payload for the bank's own channel.
type Claims struct {
	CustomerID int64  `json:"customerId"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware guards channel endpoints with a Bearer JWT. The integration
// endpoints are not behind this middleware; they authenticate through group
// customer tokens instead.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			RespondError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			RespondError(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims := &Claims{}
		tok, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
			return JWTSecret(), nil
		})
		if err != nil || !tok.Valid {
			RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("customerId", claims.CustomerID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// GetCustomerID reads the authenticated customer id set by AuthMiddleware.
func GetCustomerID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("customerId")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
