// Package token issues and verifies the stateless access and refresh
// tokens that identify users. Both tokens are self-contained HS256 JWTs
// carrying only the user id; there is no server-side revocation list,
// so logout is acknowledged without invalidating anything.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, wrong token kind, expiry.
var ErrInvalidToken = errors.New("invalid token")

const issuer = "costwatch"

// Claims is the signed token payload.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Manager signs access and refresh tokens with independent secrets and
// lifetimes.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// IssueAccess mints a short-lived access token for the user.
func (m *Manager) IssueAccess(userID string) (string, error) {
	return m.issue(userID, m.accessSecret, m.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for the user.
func (m *Manager) IssueRefresh(userID string) (string, error) {
	return m.issue(userID, m.refreshSecret, m.refreshTTL)
}

// VerifyAccess returns the user id carried by a valid access token.
func (m *Manager) VerifyAccess(raw string) (string, error) {
	return m.verify(raw, m.accessSecret)
}

// VerifyRefresh returns the user id carried by a valid refresh token.
// Callers use it only to mint a new access token.
func (m *Manager) VerifyRefresh(raw string) (string, error) {
	return m.verify(raw, m.refreshSecret)
}

func (m *Manager) issue(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *Manager) verify(raw string, secret []byte) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
