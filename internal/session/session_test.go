package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return token
}

func TestLoad_MissingFileYieldsEmptySession(t *testing.T) {
	t.Parallel()

	sess, err := Load(filepath.Join(t.TempDir(), "no-token"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sess.Token() != "" {
		t.Fatalf("Token = %q, want empty", sess.Token())
	}
}

func TestLoad_TrimsTokenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  abc.def.ghi\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sess, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sess.Token() != "abc.def.ghi" {
		t.Fatalf("Token = %q, want trimmed token", sess.Token())
	}
}

func TestSecondsRemaining(t *testing.T) {
	t.Parallel()

	now := time.Now()
	sess := New(signedToken(t, jwt.MapClaims{"exp": float64(now.Add(90 * time.Second).Unix())}))

	remaining, ok := sess.SecondsRemaining(now)
	if !ok {
		t.Fatalf("SecondsRemaining ok = false, want true")
	}
	if remaining < 88 || remaining > 90 {
		t.Fatalf("remaining = %d, want about 90", remaining)
	}
}

func TestSecondsRemaining_NotAJWT(t *testing.T) {
	t.Parallel()

	if _, ok := New("opaque-token").SecondsRemaining(time.Now()); ok {
		t.Fatalf("SecondsRemaining ok = true, want false for a non-JWT token")
	}
	if _, ok := (&Session{}).SecondsRemaining(time.Now()); ok {
		t.Fatalf("SecondsRemaining ok = true, want false for an empty session")
	}
}

func TestSecondsRemaining_NoExpClaim(t *testing.T) {
	t.Parallel()

	sess := New(signedToken(t, jwt.MapClaims{"sub": "admin"}))
	if _, ok := sess.SecondsRemaining(time.Now()); ok {
		t.Fatalf("SecondsRemaining ok = true, want false without exp")
	}
}

func TestExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	live := New(signedToken(t, jwt.MapClaims{"exp": float64(now.Add(time.Hour).Unix())}))
	if live.Expired(now) {
		t.Fatalf("Expired = true, want false for a live token")
	}

	stale := New(signedToken(t, jwt.MapClaims{"exp": float64(now.Add(-time.Hour).Unix())}))
	if !stale.Expired(now) {
		t.Fatalf("Expired = false, want true for a past exp")
	}

	// No readable expiry: the server has the final say.
	opaque := New("opaque-token")
	if opaque.Expired(now) {
		t.Fatalf("Expired = true, want false for a token without expiry")
	}
}

func TestNilSessionToken(t *testing.T) {
	t.Parallel()

	var sess *Session
	if sess.Token() != "" {
		t.Fatalf("Token on nil session = %q, want empty", sess.Token())
	}
}
