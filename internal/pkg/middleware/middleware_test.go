package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golocales/internal/domain"
	"golocales/internal/pkg/cache"
	"golocales/internal/pkg/logger"
	"golocales/internal/pkg/token"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthAndPermission(t *testing.T) {
	tokens := token.NewService("segredo", time.Hour)
	h := Chain(okHandler, NewAuthMiddleware(tokens), PermissionMiddleware(domain.RoleGerente))

	gerente, err := tokens.GenerateToken("ana@mail.com", "Gerente")
	require.NoError(t, err)
	cliente, err := tokens.GenerateToken("bob@mail.com", "Cliente")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"sem header", "", http.StatusUnauthorized},
		{"malformado", "Token abc", http.StatusUnauthorized},
		{"inválido", "Bearer abc", http.StatusUnauthorized},
		{"papel errado", "Bearer " + cliente, http.StatusForbidden},
		{"gerente", "Bearer " + gerente, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/locales", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)

			if tt.status != http.StatusOK {
				var body domain.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.status, body.Code)
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/v1/locales", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/locales", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

// counterCache é um cache.Client em memória para o rate limiter.
type counterCache struct {
	counts map[string]int64
	err    error
}

func (c *counterCache) Get(ctx context.Context, key string) (string, error) {
	return "", cache.ErrCacheMiss
}
func (c *counterCache) GetInt(ctx context.Context, key string) (int, error) {
	return int(c.counts[key]), nil
}
func (c *counterCache) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return nil
}
func (c *counterCache) Incr(ctx context.Context, key string, exp time.Duration) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.counts[key]++
	return c.counts[key], nil
}
func (c *counterCache) Delete(ctx context.Context, key string) error { return nil }
func (c *counterCache) Close() error                                 { return nil }

func TestRateLimiter(t *testing.T) {
	c := &counterCache{counts: map[string]int64{}}
	h := RateLimiter(c, 2, time.Minute, logger.Nop())(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/locales", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_CacheDownLetsThrough(t *testing.T) {
	c := &counterCache{counts: map[string]int64{}, err: errors.New("redis down")}
	h := RateLimiter(c, 1, time.Minute, logger.Nop())(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/locales", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
