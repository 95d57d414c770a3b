package token

import (
	"testing"
	"time"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	raw, err := m.IssueAccess("1234567890")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	userID, err := m.VerifyAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", userID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	raw, err := m.IssueRefresh("42")
	require.NoError(t, err)

	userID, err := m.VerifyRefresh(raw)
	require.NoError(t, err)
	assert.Equal(t, "42", userID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	m := newTestManager()

	access, err := m.IssueAccess("42")
	require.NoError(t, err)
	refresh, err := m.IssueRefresh("42")
	require.NoError(t, err)

	_, err = m.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager(config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     -1 * time.Minute,
		RefreshTokenTTL:    -1 * time.Minute,
	})

	raw, err := m.IssueAccess("42")
	require.NoError(t, err)

	_, err = m.VerifyAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	m := newTestManager()

	for _, raw := range []string{"", "   ", "garbage", "a.b.c"} {
		_, err := m.VerifyAccess(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestDifferentSecretsRejected(t *testing.T) {
	m := newTestManager()
	other := NewManager(config.Config{
		AccessTokenSecret:  "another-access-secret",
		RefreshTokenSecret: "another-refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
	})

	raw, err := other.IssueAccess("42")
	require.NoError(t, err)

	_, err = m.VerifyAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
