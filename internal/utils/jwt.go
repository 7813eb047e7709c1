package utils

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidToken is returned for every token that does not yield a user id
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by an identity token
type Claims struct {
	UserID               string `json:"userId"` // Custom claim for user ID
	jwt.RegisteredClaims // Standard JWT claims (sub mirrors UserID)
}

// TokenService issues and verifies HS256 identity tokens
type TokenService struct {
	secret []byte           // Signing key
	ttl    time.Duration    // Token lifetime
	now    func() time.Time // Clock, replaceable in tests
}

// NewTokenService builds a token service around a signing key
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for a given user ID
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	// Set token claims
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,                             // Subject is the user ID
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)), // Expiry after the configured lifetime
			IssuedAt:  jwt.NewNumericDate(now),            // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(s.secret)                        // Sign the token with the secret
}

// Verify checks signature and expiry and returns the embedded user ID
func (s *TokenService) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Reject alg switching
		jwt.WithExpirationRequired(),                                 // Tokens without exp never validate
		jwt.WithTimeFunc(s.now),                                      // Same clock as Issue
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" || claims.UserID != claims.Subject {
		return "", ErrInvalidToken // Subject and custom claim must agree
	}
	return claims.Subject, nil
}
