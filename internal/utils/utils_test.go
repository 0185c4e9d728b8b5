package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("k", 12, "admin", 10)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), tok.Exp, 5*time.Second)

	id, err := ParseAccessToken("k", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 12, Role: "admin"}, id)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_RejectsMissingClaims(t *testing.T) {
	tok, err := NewAccessToken("k", 0, "admin", 10)
	require.NoError(t, err)
	_, err = ParseAccessToken("k", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, err = NewAccessToken("k", 3, "", 10)
	require.NoError(t, err)
	_, err = ParseAccessToken("k", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetToken(t *testing.T) {
	a, err := NewResetToken(time.Hour)
	require.NoError(t, err)
	b, err := NewResetToken(time.Hour)
	require.NoError(t, err)
	assert.Len(t, a.Raw, 64)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashToken(a.Raw), 64)
	assert.Equal(t, HashToken(a.Raw), HashToken(a.Raw))
	assert.NotEqual(t, a.Raw, HashToken(a.Raw))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secreto", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "secreto"))
	assert.False(t, VerifyPassword(hash, "Secreto"))
	assert.False(t, VerifyPassword("not-a-hash", "secreto"))

	_, err = HashPassword(strings.Repeat("x", 73), 4)
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err = HashPassword("secreto", 99)
	require.NoError(t, err, "out-of-range cost falls back to the default")
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("debug", "json")
	assert.Equal(t, logrus.DebugLevel, log.Level)
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.WithField("k", "v").Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())

	assert.Equal(t, logrus.InfoLevel, NewLogger("nonsense", "text").Level)
}
