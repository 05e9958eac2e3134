// Package session holds the operator's bearer token. The token is loaded
// once and passed into the API client as a capability object; there is no
// process-wide token state.
package session

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session wraps a bearer token for the platform API.
type Session struct {
	token string
}

// New builds a session around a raw token string.
func New(token string) *Session {
	return &Session{token: strings.TrimSpace(token)}
}

// Load reads the token from a file. A missing file yields an empty session;
// requests will then go out unauthenticated and surface as session-expired.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}
	return New(string(data)), nil
}

// Token returns the raw bearer token. Implements api.TokenProvider.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// SecondsRemaining parses the token as a JWT without verifying it (the
// client holds no signing secret) and returns seconds until the exp claim.
// The second return is false when the token is missing, not a JWT, or has
// no expiry.
func (s *Session) SecondsRemaining(now time.Time) (int, bool) {
	if s == nil || s.token == "" {
		return 0, false
	}
	token, _, err := jwt.NewParser().ParseUnverified(s.token, jwt.MapClaims{})
	if err != nil {
		return 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims == nil {
		return 0, false
	}
	rawExp, ok := claims["exp"].(float64)
	if !ok {
		return 0, false
	}
	remaining := int(time.Unix(int64(rawExp), 0).Sub(now).Seconds())
	return remaining, true
}

// Expired reports whether the token is known to be past its expiry. Tokens
// without a readable expiry are not considered expired; the server has the
// final say either way.
func (s *Session) Expired(now time.Time) bool {
	remaining, ok := s.SecondsRemaining(now)
	return ok && remaining <= 0
}
