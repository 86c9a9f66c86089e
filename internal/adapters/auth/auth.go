// Package auth verifies bearer tokens. A token is accepted only when its HS256
// signature checks out and a session row holding that exact token exists.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hotel_booking/internal/domain"
)

var ErrInvalidToken = fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)

// Claims carries the user id the way the session service signs it.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret   []byte
	sessions domain.SessionRepository
	cache    domain.Cache
	cacheTTL time.Duration
	group    singleflight.Group
}

func NewVerifier(secret string, sessions domain.SessionRepository, cache domain.Cache, ttl time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), sessions: sessions, cache: cache, cacheTTL: ttl}
}

// Sign issues a token for userID. Sessions are created by the sign-in flow;
// this is used by tooling and tests that need to mint a matching token.
func Sign(secret string, userID int64) (string, error) {
	c := Claims{
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// Authenticate returns the user id bound to token.
func (v *Verifier) Authenticate(ctx context.Context, token string) (int64, error) {
	var c Claims
	tok, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid || c.UserID <= 0 {
		return 0, ErrInvalidToken
	}

	s, err := v.session(ctx, token)
	if err != nil {
		return 0, err
	}
	if s.UserID != c.UserID {
		log.Warn().Int64("claim_user", c.UserID).Int64("session_user", s.UserID).Msg("token and session disagree")
		return 0, ErrInvalidToken
	}
	return s.UserID, nil
}

func (v *Verifier) session(ctx context.Context, token string) (domain.Session, error) {
	sum := sha256.Sum256([]byte(token))
	key := "session:" + hex.EncodeToString(sum[:])

	var s domain.Session
	if v.cache != nil {
		if ok, _ := v.cache.Get(ctx, key, &s); ok {
			return s, nil
		}
	}

	// concurrent requests with the same token share one lookup, which must
	// outlive whichever caller started it
	res, err, _ := v.group.Do(key, func() (any, error) {
		return v.sessions.FindSessionByToken(context.WithoutCancel(ctx), token)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return domain.Session{}, domain.ErrNoSession
		}
		return domain.Session{}, err
	}
	s = res.(domain.Session)
	s.Token = "" // never cache the raw token

	if ttl := int(v.cacheTTL.Seconds()); v.cache != nil && ttl > 0 {
		_ = v.cache.Set(ctx, key, s, ttl)
	}
	return s, nil
}

type ctxKey struct{}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserID returns the authenticated user id stored by the auth middleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok && id > 0
}
