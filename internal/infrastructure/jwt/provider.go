package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/markclone/shop-api/internal/config"
)

// Token kinds embedded in the claims. The verifier accepts both; callers
// that care (middleware, refresh path) check the kind themselves.
const (
	KindAccess  = "Access"
	KindRefresh = "Refresh"
)

// ErrTokenInvalid is the single outcome exposed for any verification
// failure. Expired, forged and malformed tokens are deliberately
// indistinguishable to callers; the wrapped cause stays available for logs.
var ErrTokenInvalid = errors.New("token invalid")

// Claims holds the JWT payload fields.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	TokenKind string `json:"token_kind"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a process-wide secret.
type Provider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("signing secret is empty")
	}
	return &Provider{
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// Sign issues a token of the given kind with expiry now + the configured
// duration for that kind.
func (p *Provider) Sign(userID, email, phone, kind string) (string, error) {
	ttl := p.accessTTL
	if kind == KindRefresh {
		ttl = p.refreshTTL
	}
	return p.signAt(userID, email, phone, kind, time.Now().Add(ttl))
}

// SignExpiredAt issues a token whose expiry is the given absolute time,
// typically already in the past. The logout path uses this to hand the
// client a backdated replacement credential.
func (p *Provider) SignExpiredAt(c *Claims, expiry time.Time) (string, error) {
	return p.signAt(c.UserID, c.Email, c.Phone, KindAccess, expiry)
}

func (p *Provider) signAt(userID, email, phone, kind string, expiry time.Time) (string, error) {
	claims := Claims{
		UserID:    userID,
		Email:     email,
		Phone:     phone,
		TokenKind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify checks signature and expiry. Every failure collapses into
// ErrTokenInvalid with the underlying cause wrapped for logging.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: bad claims", ErrTokenInvalid)
	}
	return claims, nil
}
