// Package auth issues and verifies the credentials of the catalog API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the typ claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Issuer is the iss claim of every token.
const Issuer = "skylarbox-api"

// ErrWrongTokenType is returned when a refresh token is presented as an
// access token or the other way round.
var ErrWrongTokenType = errors.New("wrong token type")

// Claims represents the JWT claims for an access token.
type Claims struct {
	Email     string `json:"email,omitempty"`
	UserName  string `json:"user_name"`
	IsAdmin   bool   `json:"is_admin"`
	SessionID string `json:"sid"`
	Type      string `json:"typ"`
	jwt.RegisteredClaims
}

// RefreshClaims represents the JWT claims for a refresh token.
type RefreshClaims struct {
	SessionID string `json:"sid"`
	Type      string `json:"typ"`
	jwt.RegisteredClaims
}

// Identity is the user data embedded in an access token.
type Identity struct {
	UserID   string
	Email    string
	UserName string
	IsAdmin  bool
}

// TokenPair is an access and refresh token issued for one session.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	SessionID       string
	AccessExpiresAt time.Time
	ExpiresIn       int64
}

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager with the given secret and expiry durations.
func NewJWTManager(secret string, accessExpiry, refreshExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// GeneratePair issues an access and refresh token bound to a new session id.
func (m *JWTManager) GeneratePair(id Identity) (*TokenPair, error) {
	now := m.now()
	sid := uuid.NewString()

	access, err := m.sign(&Claims{
		Email:            id.Email,
		UserName:         id.UserName,
		IsAdmin:          id.IsAdmin,
		SessionID:        sid,
		Type:             TokenTypeAccess,
		RegisteredClaims: m.registered(id.UserID, now, m.accessExpiry),
	})
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := m.sign(&RefreshClaims{
		SessionID:        sid,
		Type:             TokenTypeRefresh,
		RegisteredClaims: m.registered(id.UserID, now, m.refreshExpiry),
	})
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		SessionID:       sid,
		AccessExpiresAt: now.Add(m.accessExpiry),
		ExpiresIn:       int64(m.accessExpiry / time.Second),
	}, nil
}

func (m *JWTManager) registered(userID string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    Issuer,
		ID:        uuid.NewString(),
	}
}

func (m *JWTManager) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateAccessToken parses and validates an access token, returning the claims.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates a refresh token, returning the claims.
func (m *JWTManager) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, fmt.Errorf("parse refresh token: %w", err)
	}
	if claims.Type != TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (m *JWTManager) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token claims")
	}
	return nil
}
