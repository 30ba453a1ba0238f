package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/bilgisen/peacenet/internal/cache"
	"github.com/bilgisen/peacenet/internal/logger"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/rs/zerolog"
)

const revokedPrefix = "revoked:"

// Gate exchanges the admin secret for short-lived admin tokens and keeps
// the revocation list of tokens that were locked before expiry
type Gate struct {
	secret []byte
	tokens *Tokens
	cache  cache.Cache
	ttl    time.Duration
	log    zerolog.Logger
}

func NewGate(secret string, tokens *Tokens, c cache.Cache, ttl time.Duration) *Gate {
	return &Gate{
		secret: []byte(secret),
		tokens: tokens,
		cache:  c,
		ttl:    ttl,
		log:    logger.Component("admin_gate"),
	}
}

// Unlock checks secret in constant time and issues an admin token
func (g *Gate) Unlock(ctx context.Context, secret string) (string, models.AdminSession, error) {
	if len(g.secret) == 0 || subtle.ConstantTimeCompare([]byte(secret), g.secret) != 1 {
		return "", models.AdminSession{}, fmt.Errorf("%w: incorrect admin password", models.ErrAuth)
	}

	token, claims, err := g.tokens.Issue(RoleAdmin, RoleAdmin, g.ttl, "", "")
	if err != nil {
		return "", models.AdminSession{}, err
	}

	g.log.Info().Str("token_id", claims.ID).Msg("Admin session unlocked")
	return token, sessionFrom(claims), nil
}

// Verify returns the session of a valid, unrevoked admin token
func (g *Gate) Verify(ctx context.Context, token string) (models.AdminSession, error) {
	claims, err := g.tokens.Parse(token, RoleAdmin)
	if err != nil {
		return models.AdminSession{}, err
	}

	revoked, err := g.cache.Exists(ctx, revokedPrefix+claims.ID)
	if err != nil {
		return models.AdminSession{}, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return models.AdminSession{}, fmt.Errorf("%w: admin session locked", models.ErrAuth)
	}
	return sessionFrom(claims), nil
}

// Lock revokes token until it would have expired
func (g *Gate) Lock(ctx context.Context, token string) error {
	session, err := g.Verify(ctx, token)
	if err != nil {
		return err
	}

	remaining := session.ExpiresAt.Sub(g.tokens.now())
	if remaining <= 0 {
		return nil
	}
	if err := g.cache.Set(ctx, revokedPrefix+session.TokenID, []byte("1"), remaining); err != nil {
		return fmt.Errorf("failed to revoke admin token: %w", err)
	}

	g.log.Info().Str("token_id", session.TokenID).Msg("Admin session locked")
	return nil
}

func sessionFrom(claims *Claims) models.AdminSession {
	return models.AdminSession{
		Authenticated: true,
		TokenID:       claims.ID,
		ExpiresAt:     claims.ExpiresAt.Time,
	}
}
