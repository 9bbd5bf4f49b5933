package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviehub/catalog/internal/utils"
)

const testSecret = "unit-test-secret"

func TestNewAuthTokenRoundTrip(t *testing.T) {
	tok, err := utils.NewAuthToken(testSecret, 42, "ana@x.com", "user", 7)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	// Expiry sits seven days out, give or take test runtime.
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), tok.Exp, time.Minute)

	claims, err := utils.ParseAuthToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestParseAuthTokenRejects(t *testing.T) {
	tok, err := utils.NewAuthToken(testSecret, 42, "ana@x.com", "user", 7)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"tampered signature", tok.Token + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := utils.ParseAuthToken(testSecret, tt.raw)
			assert.ErrorIs(t, err, utils.ErrInvalidToken)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, err := utils.ParseAuthToken("a-different-secret", tok.Token)
		assert.ErrorIs(t, err, utils.ErrInvalidToken)
	})
}

func TestParseAuthTokenExpired(t *testing.T) {
	// Sign a token whose exp is already in the past; it must never resolve
	// to an identity.
	past := time.Now().UTC().Add(-time.Hour)
	claims := jwt.MapClaims{
		"sub":   uint64(42),
		"email": "ana@x.com",
		"role":  "user",
		"exp":   past.Unix(),
		"iat":   past.Add(-7 * 24 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = utils.ParseAuthToken(testSecret, signed)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestParseAuthTokenMissingClaims(t *testing.T) {
	// A validly signed token without a subject or role is still unusable.
	claims := jwt.MapClaims{
		"exp": time.Now().UTC().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = utils.ParseAuthToken(testSecret, signed)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestParseAuthTokenStringSubject(t *testing.T) {
	// Tokens issued by other tooling may carry the subject as a numeric
	// string; the parser accepts it.
	claims := jwt.MapClaims{
		"sub":   "42",
		"email": "ana@x.com",
		"role":  "admin",
		"exp":   time.Now().UTC().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	got, err := utils.ParseAuthToken(testSecret, signed)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.UserID)
	assert.Equal(t, "admin", got.Role)
}
