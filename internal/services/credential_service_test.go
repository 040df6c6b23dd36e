package services_test

import (
	"testing"
	"time"

	"formsheet/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

// fakeClock is a settable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func TestCredentialService_HashAndVerifyPassword(t *testing.T) {
	creds := services.NewCredentialService(testJWTSecret)

	hash, err := creds.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, creds.VerifyPassword("password123", hash))
	assert.False(t, creds.VerifyPassword("wrongpassword", hash))
	assert.False(t, creds.VerifyPassword("password123", "not-a-hash"))

	again, err := creds.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes must be salted")
}

func TestCredentialService_TokenExpiry(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issued}
	creds := services.NewCredentialServiceWithClock(testJWTSecret, clock.Now)

	token, err := creds.IssueToken("ann@example.com")
	require.NoError(t, err)

	clock.t = issued.Add(59 * time.Minute)
	subject, err := creds.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", subject)

	clock.t = issued.Add(61 * time.Minute)
	_, err = creds.VerifyToken(token)
	assert.ErrorIs(t, err, services.ErrTokenExpired)
}

func TestCredentialService_TokenClaims(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	creds := services.NewCredentialServiceWithClock(testJWTSecret, func() time.Time { return issued })

	token, err := creds.IssueToken("ann@example.com")
	require.NoError(t, err)

	var claims jwt.StandardClaims
	parser := &jwt.Parser{SkipClaimsValidation: true}
	_, err = parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", claims.Subject)
	assert.Equal(t, issued.Unix(), claims.IssuedAt)
	assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt)
}

func TestCredentialService_InvalidTokens(t *testing.T) {
	creds := services.NewCredentialService(testJWTSecret)

	_, err := creds.VerifyToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrTokenInvalid)

	_, err = creds.VerifyToken("")
	assert.ErrorIs(t, err, services.ErrTokenInvalid)

	// wrong secret
	other := services.NewCredentialService("another_secret")
	foreign, err := other.IssueToken("ann@example.com")
	require.NoError(t, err)
	_, err = creds.VerifyToken(foreign)
	assert.ErrorIs(t, err, services.ErrTokenInvalid)

	// wrong algorithm
	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.StandardClaims{
		Subject:   "ann@example.com",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	signed, err := hs512.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	_, err = creds.VerifyToken(signed)
	assert.ErrorIs(t, err, services.ErrTokenInvalid)

	// no subject
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	signed, err = anonymous.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	_, err = creds.VerifyToken(signed)
	assert.ErrorIs(t, err, services.ErrTokenInvalid)
}
