package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/osse101/CaseBattle_Go/internal/logger"
)

// AuthMiddleware requires the shared API key on every non-public path.
// Failed attempts are recorded against the client IP.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	proxies := proxySet(trustedProxies)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := clientIP(r, proxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps request bodies at maxBytes
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// windowCounter counts events per key and forgets everything once its window
// has elapsed.
type windowCounter struct {
	counts  map[string]int
	resetAt time.Time
}

func newWindowCounter(now time.Time) windowCounter {
	return windowCounter{counts: make(map[string]int), resetAt: now.Add(detectorWindow)}
}

func (c *windowCounter) incr(key string, now time.Time) int {
	if !now.Before(c.resetAt) {
		*c = newWindowCounter(now)
	}
	c.counts[key]++
	return c.counts[key]
}

// SuspiciousActivityDetector tracks failed logins and request volume per IP
type SuspiciousActivityDetector struct {
	mu         sync.Mutex
	now        func() time.Time
	failedAuth windowCounter
	requests   windowCounter
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return newDetectorWithClock(time.Now)
}

func newDetectorWithClock(now func() time.Time) *SuspiciousActivityDetector {
	start := now()
	return &SuspiciousActivityDetector{
		now:        now,
		failedAuth: newWindowCounter(start),
		requests:   newWindowCounter(start),
	}
}

// RecordFailedAuth counts a rejected API key and alerts past the threshold
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	n := s.failedAuth.incr(ip, s.now())
	s.mu.Unlock()

	if n >= failedAuthAlertCount {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// RecordRequest counts a request and reports whether ip is still under the
// per-window limit.
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	n := s.requests.incr(ip, s.now())
	s.mu.Unlock()

	if n <= maxRequestsPerWindow {
		return true
	}
	if n%highRateLogEveryNth == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n)
	}
	return false
}

// FailedAuthCount returns the failed attempts recorded for ip in this window
func (s *SuspiciousActivityDetector) FailedAuthCount(ip string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failedAuth.counts[ip]
}

// SecurityLoggingMiddleware rejects clients over the request rate limit
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	proxies := proxySet(trustedProxies)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.RecordRequest(clientIP(r, proxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func proxySet(trusted []string) map[string]struct{} {
	set := make(map[string]struct{}, len(trusted))
	for _, p := range trusted {
		set[strings.TrimSpace(p)] = struct{}{}
	}
	return set
}

func extractIP(r *http.Request, trustedProxies []string) string {
	return clientIP(r, proxySet(trustedProxies))
}

// clientIP returns the peer address, or the last X-Forwarded-For hop when the
// peer is a trusted proxy and that hop parses as an IP.
func clientIP(r *http.Request, proxies map[string]struct{}) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}
	if _, trusted := proxies[remoteIP]; !trusted {
		return remoteIP
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remoteIP
	}
	hops := strings.Split(forwarded, ",")
	last := strings.TrimSpace(hops[len(hops)-1])
	if net.ParseIP(last) == nil {
		return remoteIP
	}
	return last
}

// SecurityHeadersMiddleware sets browser hardening headers. Wallet and
// battle state is per-user so responses are never cacheable.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueDeny)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerNone)
			h.Set(HeaderCacheControl, HeaderValueNoStore)
			next.ServeHTTP(w, r)
		})
	}
}
