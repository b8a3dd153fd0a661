package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/auth"
	"github.com/sakif/videotube/internal/handler"
)

type tokenAuthenticator struct{}

func (tokenAuthenticator) Authenticate(_ context.Context, token string) (auth.Identity, error) {
	if token != "good" {
		return auth.Identity{}, apperror.Unauthorized("Invalid access token")
	}
	return auth.Identity{UserID: "65a1b2c3d4e5f60718293a4b"}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type countingLimiter struct {
	allow int
	calls int
}

func (l *countingLimiter) Allow(string) bool {
	l.calls++
	return l.calls <= l.allow
}

// newTestRouter mounts handlers whose services are nil: the requests below
// are all rejected before a service is reached.
func newTestRouter(limiter *countingLimiter) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Handlers{
		Users:         handler.NewUserHandler(nil, handler.CookieOptions{}, 1<<20, logger),
		Videos:        handler.NewVideoHandler(nil, 1<<20, logger),
		Comments:      handler.NewCommentHandler(nil, logger),
		Likes:         handler.NewLikeHandler(nil, logger),
		Subscriptions: handler.NewSubscriptionHandler(nil, logger),
		Playlists:     handler.NewPlaylistHandler(nil, logger),
		Tweets:        handler.NewTweetHandler(nil, logger),
		Dashboard:     handler.NewDashboardHandler(nil, logger),
		Health:        handler.NewHealthHandler(okPinger{}, logger),
	}
	return NewRouter(h, tokenAuthenticator{}, limiter, logger)
}

func TestRouter_HealthcheckIsPublic(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(&countingLimiter{allow: 100}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Content-Type"))
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(&countingLimiter{allow: 100})
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodGet, "/api/v1/users/current-user"},
		{http.MethodGet, "/api/v1/users/c/alice"},
		{http.MethodGet, "/api/v1/videos"},
		{http.MethodDelete, "/api/v1/videos/65a1b2c3d4e5f60718293a4b"},
		{http.MethodPatch, "/api/v1/videos/toggle/publish/65a1b2c3d4e5f60718293a4b"},
		{http.MethodGet, "/api/v1/comments/65a1b2c3d4e5f60718293a4b"},
		{http.MethodPost, "/api/v1/likes/toggle/v/65a1b2c3d4e5f60718293a4b"},
		{http.MethodGet, "/api/v1/likes/videos"},
		{http.MethodPost, "/api/v1/subscriptions/c/65a1b2c3d4e5f60718293a4b"},
		{http.MethodPatch, "/api/v1/playlist/add/a/b"},
		{http.MethodGet, "/api/v1/tweets/user/65a1b2c3d4e5f60718293a4b"},
		{http.MethodGet, "/api/v1/dashboard/stats"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rr.Code)

			rr = httptest.NewRecorder()
			req := httptest.NewRequest(rt.method, rt.path, nil)
			req.Header.Set("Authorization", "Bearer bad")
			router.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestRouter_AuthenticatedRequestReachesHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?limit=abc", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: "good"})
	rr := httptest.NewRecorder()

	newTestRouter(&countingLimiter{allow: 100}).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code, "handler rejected the query, so auth passed")
}

func TestRouter_AuthRoutesAreRateLimited(t *testing.T) {
	limiter := &countingLimiter{allow: 1}
	router := newTestRouter(limiter)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/v1/users/register", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Public reads are not counted.
	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	require.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, 2, limiter.calls)
}

func TestRouter_UnknownRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(&countingLimiter{allow: 100}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
