package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"  // sentinel error for all token verification failures
	"strconv" // numeric string subjects
	"time"    // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken covers every way a presented token can be unusable: bad
// signature, unexpected algorithm, malformed payload or expired claims.
// Callers must not distinguish these cases in responses.
var ErrInvalidToken = errors.New("invalid token")

// AuthToken represents a signed JWT along with its expiry. The Token field
// contains the serialized JWT string; Exp stores the UTC expiration time.
// Tokens are sent in the Authorization header when calling protected
// endpoints. There is no refresh mechanism; expiry forces a new login.
type AuthToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the identity payload carried by an auth token.
type Claims struct {
	UserID uint64 // subject of the token
	Email  string // email at issuance time
	Role   string // role at issuance time ("user" or "admin")
}

// NewAuthToken builds and signs an HS256 JWT for a user. It takes the
// signing secret, the user's identity fields and a TTL in days. The JWT
// carries the standard subject (sub), expiration (exp) and issued-at (iat)
// claims plus email and role.
func NewAuthToken(secret string, userID uint64, email, role string, ttlDays int) (AuthToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AuthToken{}, err
	}
	return AuthToken{Token: signed, Exp: exp}, nil
}

// ParseAuthToken verifies the signature and expiry of a raw token string and
// returns its identity claims. Any failure collapses to ErrInvalidToken so
// that responses never reveal which check rejected the token.
func ParseAuthToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything other than HMAC; an attacker
		// controls the header and may claim a different algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var c Claims
	// JWT numbers decode as float64; subjects written by other tooling may
	// arrive as numeric strings.
	switch sub := mc["sub"].(type) {
	case float64:
		c.UserID = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return Claims{}, ErrInvalidToken
		}
		c.UserID = n
	default:
		return Claims{}, ErrInvalidToken
	}
	if v, ok := mc["email"].(string); ok {
		c.Email = v
	}
	if v, ok := mc["role"].(string); ok {
		c.Role = v
	}
	if c.UserID == 0 || c.Role == "" {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}
