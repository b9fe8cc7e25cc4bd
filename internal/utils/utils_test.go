package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 42, "supplier", 15)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
	assert.Equal(t, "supplier", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, tok.ID, claims.ID)
}

func TestParseAccessTokenRejects(t *testing.T) {
	good, err := NewAccessToken("s3cret", 1, "consumer", 5)
	require.NoError(t, err)

	expired, err := NewAccessToken("s3cret", 1, "consumer", -1)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "consumer", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong secret": good.Token,
		"expired":      expired.Token,
		"alg none":     none,
		"missing sub":  noSub,
		"missing exp":  noExp,
		"garbage":      "not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			secret := "s3cret"
			if name == "wrong secret" {
				secret = "other"
			}
			_, err := ParseAccessToken(secret, raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), a.Exp, 5*time.Second)

	h := HashRefreshRaw(a.Raw)
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw(a.Raw))
	assert.Equal(t, strings.ToLower(h), h)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "wrong horse"))
	assert.False(t, VerifyPassword("not-a-hash", "correct horse"))
}
