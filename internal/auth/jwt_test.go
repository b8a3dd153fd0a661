package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sakif/videotube/internal/config"
)

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		AccessSecret:  "test-access-secret-16+",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "test-refresh-secret-16+",
		RefreshTTL:    24 * time.Hour,
	}
}

// newTestTokenService creates a TokenService with fixed secrets so tests are
// deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testTokenConfig())
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	cfg := testTokenConfig()
	cfg.RefreshSecret = "short"
	if _, err := NewTokenService(cfg); err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_NonPositiveTTL(t *testing.T) {
	cfg := testTokenConfig()
	cfg.AccessTTL = 0
	if _, err := NewTokenService(cfg); err == nil {
		t.Fatal("NewTokenService() should reject a zero access TTL")
	}
}

// =========================================================================
// ACCESS TOKENS
// =========================================================================

func TestAccess_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)
	want := Identity{UserID: "65f0c0ffee", Username: "ada", Email: "ada@x.com", FullName: "Ada L."}

	token, err := ts.IssueAccess(want)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("token doesn't look like a JWT: %q", token)
	}

	got, err := ts.ValidateAccess(token)
	if err != nil {
		t.Fatalf("ValidateAccess() error = %v", err)
	}
	if got != want {
		t.Errorf("ValidateAccess() = %+v, want %+v", got, want)
	}
}

func TestAccess_EmptySubjectRejected(t *testing.T) {
	ts := newTestTokenService(t)
	if _, err := ts.IssueAccess(Identity{}); err == nil {
		t.Fatal("IssueAccess() should refuse an empty user id")
	}
}

func TestAccess_Expired(t *testing.T) {
	ts := newTestTokenService(t)
	ts.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := ts.IssueAccess(Identity{UserID: "user-1"})
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	ts.now = time.Now
	_, err = ts.ValidateAccess(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("ValidateAccess() error = %v, want ErrTokenExpired", err)
	}
}

func TestAccess_Tampered(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.IssueAccess(Identity{UserID: "user-1"})

	tampered := token[:len(token)-3] + "xxx"
	if _, err := ts.ValidateAccess(tampered); err == nil {
		t.Fatal("ValidateAccess() should reject a tampered token")
	}
}

func TestAccess_Garbage(t *testing.T) {
	ts := newTestTokenService(t)
	for _, in := range []string{"", "not.a.jwt.token", "abc"} {
		if _, err := ts.ValidateAccess(in); err == nil {
			t.Errorf("ValidateAccess(%q) should fail", in)
		}
	}
}

// =========================================================================
// REFRESH TOKENS
// =========================================================================

func TestRefresh_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.IssueRefresh("user-42")
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}
	got, err := ts.ValidateRefresh(token)
	if err != nil {
		t.Fatalf("ValidateRefresh() error = %v", err)
	}
	if got != "user-42" {
		t.Errorf("ValidateRefresh() = %q, want %q", got, "user-42")
	}
}

func TestRefresh_ConsecutiveTokensDiffer(t *testing.T) {
	ts := newTestTokenService(t)
	frozen := time.Now()
	ts.now = func() time.Time { return frozen }

	a, _ := ts.IssueRefresh("user-1")
	b, _ := ts.IssueRefresh("user-1")
	if a == b {
		t.Fatal("two refresh tokens issued in the same instant must differ")
	}
}

func TestRefresh_Expired(t *testing.T) {
	ts := newTestTokenService(t)
	ts.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token, _ := ts.IssueRefresh("user-1")

	ts.now = time.Now
	if _, err := ts.ValidateRefresh(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("ValidateRefresh() error = %v, want ErrTokenExpired", err)
	}
}

// =========================================================================
// KIND SEPARATION
// =========================================================================

func TestKinds_AreNotInterchangeable(t *testing.T) {
	ts := newTestTokenService(t)

	access, _ := ts.IssueAccess(Identity{UserID: "user-1"})
	refresh, _ := ts.IssueRefresh("user-1")

	if _, err := ts.ValidateRefresh(access); err == nil {
		t.Error("an access token must not validate as a refresh token")
	}
	if _, err := ts.ValidateAccess(refresh); err == nil {
		t.Error("a refresh token must not validate as an access token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1 := newTestTokenService(t)
	cfg := testTokenConfig()
	cfg.AccessSecret = "a-completely-different-secret"
	ts2, err := NewTokenService(cfg)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, _ := ts1.IssueAccess(Identity{UserID: "user-1"})
	if _, err := ts2.ValidateAccess(token); err == nil {
		t.Fatal("ValidateAccess() should fail when using a different secret")
	}
}
