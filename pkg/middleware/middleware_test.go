package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"perfume-collection/pkg/metrics"
	"perfume-collection/pkg/ratelimit"
	"perfume-collection/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRateLimit_PerUserAndIP(t *testing.T) {
	limiter := ratelimit.New(0.001, 1)
	defer limiter.Stop()

	h := RateLimit(limiter, nil, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	anon := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/perfumes", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, anon().Code)
	limited := anon()
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	// an authenticated caller from the same address has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/api/perfumes", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req = req.WithContext(utils.SetIdentityContext(req.Context(), utils.Identity{UserID: uuid.New()}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP_IgnoresHeadersFromUntrustedPeers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:1234"
	assert.Equal(t, "192.168.1.9", clientIP(req, nil))

	req.Header.Set("X-Real-IP", "172.16.0.2")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "192.168.1.9", clientIP(req, nil))

	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	assert.Equal(t, "192.168.1.9", clientIP(req, trusted))
}

func TestClientIP_BehindTrustedProxy(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:443"

	// a client-supplied left-most hop is not believed
	req.Header.Set("X-Forwarded-For", "1.1.1.1, 203.0.113.7, 10.0.0.4")
	assert.Equal(t, "203.0.113.7", clientIP(req, trusted))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	assert.Equal(t, "203.0.113.8", clientIP(req, trusted))

	req.Header.Del("X-Real-IP")
	assert.Equal(t, "10.0.0.5", clientIP(req, trusted))
}

func TestRateLimit_SpoofedForwardedForDoesNotBypass(t *testing.T) {
	limiter := ratelimit.New(0.001, 1)
	defer limiter.Stop()

	h := RateLimit(limiter, nil, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/perfumes", nil)
		req.RemoteAddr = "198.51.100.20:4000"
		req.Header.Set("X-Forwarded-For", spoofed)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

type recordingProvisioner struct {
	seen []utils.Identity
	err  error
}

func (p *recordingProvisioner) EnsureProfile(_ context.Context, identity utils.Identity) error {
	p.seen = append(p.seen, identity)
	return p.err
}

func TestProvisionProfile(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	user := utils.Identity{UserID: uuid.New(), Email: "anna@example.com"}

	p := &recordingProvisioner{}
	h := ProvisionProfile(p, zap.NewNop())(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/perfumes", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, p.seen)

	req := httptest.NewRequest(http.MethodPost, "/api/perfumes", nil)
	req = req.WithContext(utils.SetIdentityContext(req.Context(), user))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, p.seen, 1)
	assert.Equal(t, user.UserID, p.seen[0].UserID)

	// store errors do not block the request
	p.err = errors.New("connection refused")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestLogger_RecordsRoutePattern(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(Logger(zap.NewNop(), m))
	r.Get("/api/perfumes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/perfumes/123", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(scrape.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `route="/api/perfumes/{id}"`)
	assert.NotContains(t, string(body), "/api/perfumes/123")
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/perfumes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
