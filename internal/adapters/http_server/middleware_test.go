package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"hotel_booking/internal/adapters/auth"
	"hotel_booking/internal/domain"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestRateLimit_PerClient(t *testing.T) {
	h := RateLimit(0.001, 2)(okHandler())

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusOK, hit("10.0.0.1"))
	require.Equal(t, http.StatusOK, hit("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	// another client has its own bucket
	require.Equal(t, http.StatusOK, hit("10.0.0.2"))
}

type stubAuth struct {
	uid int64
	err error
}

func (s stubAuth) Authenticate(ctx context.Context, token string) (int64, error) { return s.uid, s.err }

func TestRequireAuth(t *testing.T) {
	var seen int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		a      stubAuth
		want   int
	}{
		{"no header", "", stubAuth{uid: 1}, http.StatusUnauthorized},
		{"not bearer", "Basic abc", stubAuth{uid: 1}, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", stubAuth{uid: 1}, http.StatusUnauthorized},
		{"rejected", "Bearer x", stubAuth{err: domain.ErrNoSession}, http.StatusUnauthorized},
		{"backend down", "Bearer x", stubAuth{err: context.DeadlineExceeded}, http.StatusInternalServerError},
		{"ok", "Bearer x", stubAuth{uid: 42}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = 0
			req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			RequireAuth(tc.a)(next).ServeHTTP(rr, req)
			require.Equal(t, tc.want, rr.Code)
			if tc.want == http.StatusOK {
				require.Equal(t, int64(42), seen)
			}
		})
	}
}
