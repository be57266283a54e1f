package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBattle_Go/internal/handler"
	"github.com/osse101/CaseBattle_Go/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	const apiKey = "secret-key"
	mw := AuthMiddleware(apiKey, nil, NewSuspiciousActivityDetector())

	tests := []struct {
		name string
		key  string
		path string
		want int
	}{
		{"valid key", apiKey, "/api/v1/wallet", http.StatusOK},
		{"wrong key", "wrong-key", "/api/v1/wallet", http.StatusUnauthorized},
		{"missing key", "", "/api/v1/boxes", http.StatusUnauthorized},
		{"admin without key", "", "/api/v1/admin/seeds/rotate", http.StatusUnauthorized},
		{"healthz is public", "", "/healthz", http.StatusOK},
		{"readyz is public", "", "/readyz", http.StatusOK},
		{"version is public", "", "/version", http.StatusOK},
		{"metrics is public", "", "/metrics", http.StatusOK},
		{"public prefix is not a wildcard", "", "/versions", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.key != "" {
				req.Header.Set(HeaderAPIKey, tt.key)
			}
			rec := httptest.NewRecorder()
			mw(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthMiddleware_RecordsFailures(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	h := AuthMiddleware("secret-key", nil, detector)(okHandler)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 3, detector.FailedAuthCount("10.0.0.7"))
	assert.Zero(t, detector.FailedAuthCount("10.0.0.8"))
}

func TestDetector_RateLimitPerIP(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	h := SecurityLoggingMiddleware(nil, detector)(okHandler)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/battles", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < maxRequestsPerWindow; i++ {
		require.Equal(t, http.StatusOK, send("192.168.1.100"), "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, send("192.168.1.100"))
	assert.Equal(t, http.StatusOK, send("192.168.1.101"))
}

func TestDetector_WindowResets(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	detector := newDetectorWithClock(func() time.Time { return now })

	for i := 0; i < maxRequestsPerWindow; i++ {
		detector.RecordRequest("1.2.3.4")
	}
	detector.RecordFailedAuth("1.2.3.4")
	assert.False(t, detector.RecordRequest("1.2.3.4"))

	now = now.Add(detectorWindow)
	assert.True(t, detector.RecordRequest("1.2.3.4"))

	detector.RecordFailedAuth("5.6.7.8")
	now = now.Add(detectorWindow)
	detector.RecordFailedAuth("5.6.7.8")
	assert.Equal(t, 1, detector.FailedAuthCount("5.6.7.8"))
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trusted    []string
		want       string
	}{
		{"direct connection", "203.0.113.9:4000", "", nil, "203.0.113.9"},
		{"untrusted forwarder ignored", "203.0.113.9:4000", "198.51.100.1", nil, "203.0.113.9"},
		{"trusted proxy uses last hop", "10.0.0.1:4000", "198.51.100.1, 198.51.100.2", []string{"10.0.0.1"}, "198.51.100.2"},
		{"trusted proxy without header", "10.0.0.1:4000", "", []string{"10.0.0.1"}, "10.0.0.1"},
		{"trusted proxy with junk hop", "10.0.0.1:4000", "not-an-ip", []string{"10.0.0.1"}, "10.0.0.1"},
		{"unparsable remote addr", "garbage", "", nil, "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil))

	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	assert.Equal(t, HeaderValueDeny, rec.Header().Get(HeaderFrameOptions))
	assert.Equal(t, HeaderValueReferrerNone, rec.Header().Get(HeaderReferrerPolicy))
	assert.Equal(t, HeaderValueNoStore, rec.Header().Get(HeaderCacheControl))
}

func TestLoggingMiddleware_RedactsKeysAndTagsUser(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil)
	req.Header.Set(HeaderAPIKey, "secret-key-123")
	req.Header.Set(HeaderAuthorization, "Bearer mytoken")
	req.Header.Set(handler.HeaderUserID, "alice")
	req.Header.Set("User-Agent", "TestAgent")
	loggingMiddleware(okHandler).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, LogMsgRequestHeaders)
	assert.NotContains(t, out, "secret-key-123")
	assert.NotContains(t, out, "Bearer mytoken")
	assert.Contains(t, out, logger.RedactedValue)
	assert.Contains(t, out, "TestAgent")
	assert.Contains(t, out, "user_id=alice")
}

func TestLoggingMiddleware_SkipsProbes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	loggingMiddleware(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, buf.String())
}
