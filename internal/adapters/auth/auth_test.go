package auth_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/adapters/auth"
	"hotel_booking/internal/domain"
)

const secret = "test-secret"

type fakeSessions struct {
	byToken map[string]domain.Session
	calls   atomic.Int32
	err     error
}

func (f *fakeSessions) FindSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	if f.err != nil {
		return domain.Session{}, f.err
	}
	s, ok := f.byToken[token]
	if !ok {
		return domain.Session{}, domain.ErrNoSession
	}
	return s, nil
}

type mapCache struct{ m map[string]domain.Session }

func (c *mapCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	s, ok := c.m[key]
	if ok {
		*dst.(*domain.Session) = s
	}
	return ok, nil
}
func (c *mapCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.m[key] = v.(domain.Session)
	return nil
}
func (c *mapCache) Del(ctx context.Context, key string) error           { delete(c.m, key); return nil }
func (c *mapCache) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func TestAuthenticate_ValidSession(t *testing.T) {
	tok, err := auth.Sign(secret, 7)
	require.NoError(t, err)
	sessions := &fakeSessions{byToken: map[string]domain.Session{tok: {ID: 1, UserID: 7, Token: tok}}}
	cache := &mapCache{m: map[string]domain.Session{}}
	v := auth.NewVerifier(secret, sessions, cache, time.Minute)

	uid, err := v.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, int64(7), uid)

	// second call is answered from cache
	uid, err = v.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, int64(7), uid)
	require.Equal(t, int32(1), sessions.calls.Load())
	for _, s := range cache.m {
		require.Empty(t, s.Token)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	good, err := auth.Sign(secret, 7)
	require.NoError(t, err)
	otherSecret, err := auth.Sign("other", 7)
	require.NoError(t, err)
	none := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{UserID: 7})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	mismatched, err := auth.Sign(secret, 8)
	require.NoError(t, err)

	sessions := &fakeSessions{byToken: map[string]domain.Session{
		good:       {UserID: 7},
		mismatched: {UserID: 9},
	}}
	v := auth.NewVerifier(secret, sessions, nil, time.Minute)

	cases := map[string]struct {
		token string
		want  error
	}{
		"garbage":       {"lorem", auth.ErrInvalidToken},
		"wrong secret":  {otherSecret, auth.ErrInvalidToken},
		"alg none":      {unsigned, auth.ErrInvalidToken},
		"user mismatch": {mismatched, auth.ErrInvalidToken},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Authenticate(context.Background(), tc.token)
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestAuthenticate_NoSession(t *testing.T) {
	tok, err := auth.Sign(secret, 7)
	require.NoError(t, err)
	v := auth.NewVerifier(secret, &fakeSessions{byToken: map[string]domain.Session{}}, nil, time.Minute)

	_, err = v.Authenticate(context.Background(), tok)
	require.ErrorIs(t, err, domain.ErrNoSession)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_StorageErrorPropagates(t *testing.T) {
	tok, err := auth.Sign(secret, 7)
	require.NoError(t, err)
	boom := errors.New("db down")
	v := auth.NewVerifier(secret, &fakeSessions{err: boom}, nil, time.Minute)

	_, err = v.Authenticate(context.Background(), tok)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_SharedLookupIgnoresCallerCancellation(t *testing.T) {
	tok, err := auth.Sign(secret, 7)
	require.NoError(t, err)
	sessions := &fakeSessions{byToken: map[string]domain.Session{tok: {ID: 1, UserID: 7, Token: tok}}}
	v := auth.NewVerifier(secret, sessions, nil, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uid, err := v.Authenticate(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, int64(7), uid)
}

func TestAuthenticate_ZeroTTLSkipsSessionCache(t *testing.T) {
	tok, err := auth.Sign(secret, 7)
	require.NoError(t, err)
	sessions := &fakeSessions{byToken: map[string]domain.Session{tok: {ID: 1, UserID: 7, Token: tok}}}
	cache := &mapCache{m: map[string]domain.Session{}}
	v := auth.NewVerifier(secret, sessions, cache, 0)

	for i := 0; i < 2; i++ {
		_, err := v.Authenticate(context.Background(), tok)
		require.NoError(t, err)
	}
	require.Empty(t, cache.m)
	require.Equal(t, int32(2), sessions.calls.Load())
}

func TestUserIDContext(t *testing.T) {
	_, ok := auth.UserID(context.Background())
	require.False(t, ok)

	id, ok := auth.UserID(auth.WithUserID(context.Background(), 3))
	require.True(t, ok)
	require.Equal(t, int64(3), id)

	_, ok = auth.UserID(auth.WithUserID(context.Background(), 0))
	require.False(t, ok)
}
