package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tenders/internal/auth"
	"tenders/internal/handlers"
	"tenders/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	tokens, err := auth.NewTokens("test-secret", time.Minute)
	require.NoError(t, err)

	employee := uuid.New()
	token, err := tokens.Issue(employee)
	require.NoError(t, err)

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.EmployeeFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	mw := handlers.Authenticate(tokens)(next)

	for _, tc := range []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"basic", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/api/bids/my", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			mw.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusNoContent {
				require.Equal(t, employee, seen)
			} else {
				require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestIPRateLimiter(t *testing.T) {
	limiter := handlers.NewIPRateLimiter(0.001, 2)

	require.True(t, limiter.Allow("10.0.0.1"))
	require.True(t, limiter.Allow("10.0.0.1"))
	require.False(t, limiter.Allow("10.0.0.1"))
	require.True(t, limiter.Allow("10.0.0.2"))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := limiter.Middleware(next)

	req := httptest.NewRequest(http.MethodPost, "/api/token", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, handlers.CodeRateLimited, decodeError(t, w.Body.Bytes()).Error.Code)
}

func TestRouter(t *testing.T) {
	tokens, err := auth.NewTokens("test-secret", time.Minute)
	require.NoError(t, err)

	employee := uuid.New()
	token, err := tokens.Issue(employee)
	require.NoError(t, err)

	mock := &MockService{
		MyBidsFunc: func(ctx context.Context, actorID uuid.UUID) ([]models.Bid, error) {
			require.Equal(t, employee, actorID)
			return nil, nil
		},
		ListTendersFunc: func(ctx context.Context, serviceType string, limit, offset int) ([]models.Tender, error) {
			return nil, nil
		},
	}
	router := handlers.NewRouter(handlers.NewHandler(mock), handlers.RouterDeps{
		Tokens:  tokens,
		Limiter: handlers.NewIPRateLimiter(100, 100),
	})

	// публичный список без токена
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tenders", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bids/my", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/bids/my", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
