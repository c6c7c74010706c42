package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/markclone/shop-api/internal/config"
	jwtinfra "github.com/markclone/shop-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRefresher struct{ mock.Mock }

func (m *mockRefresher) RefreshAccess(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{
		SecretKey:       "test-secret-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

// okHandler records whether the inner handler ran and what claims it saw.
func okHandler(ran *bool, claims **jwtinfra.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		if c, ok := ClaimsFromContext(r.Context()); ok {
			*claims = c
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingHeader(t *testing.T) {
	provider := newTestProvider(t)
	var ran bool
	var claims *jwtinfra.Claims
	h := Auth(provider, &mockRefresher{})(okHandler(&ran, &claims))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ran)
}

func TestAuth_ValidAccessTokenInjectsClaims(t *testing.T) {
	provider := newTestProvider(t)
	token, err := provider.Sign("u1", "a@x.com", "123", jwtinfra.KindAccess)
	require.NoError(t, err)

	var ran bool
	var claims *jwtinfra.Claims
	h := Auth(provider, &mockRefresher{})(okHandler(&ran, &claims))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ran)
	require.NotNil(t, claims)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestAuth_RefreshTokenPresentedAsAccessIsRejected(t *testing.T) {
	provider := newTestProvider(t)
	token, err := provider.Sign("u1", "a@x.com", "123", jwtinfra.KindRefresh)
	require.NoError(t, err)

	var ran bool
	var claims *jwtinfra.Claims
	h := Auth(provider, &mockRefresher{})(okHandler(&ran, &claims))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ran)
}

func TestAuth_ExpiredTokenWithUserIDGetsReplacement(t *testing.T) {
	provider := newTestProvider(t)
	expired, err := provider.SignExpiredAt(
		&jwtinfra.Claims{UserID: "u1", TokenKind: jwtinfra.KindAccess},
		time.Now().Add(-time.Minute),
	)
	require.NoError(t, err)

	refresher := &mockRefresher{}
	refresher.On("RefreshAccess", mock.Anything, "u1").Return("fresh-access", nil)

	var ran bool
	var claims *jwtinfra.Claims
	h := Auth(provider, refresher)(okHandler(&ran, &claims))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	req.Header.Set(UserIDHeader, "u1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ran)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Token not valid", body["msg"])
	assert.Equal(t, "fresh-access", body["access"])
}

func TestAuth_ExpiredTokenWithoutUserIDIsPlain401(t *testing.T) {
	provider := newTestProvider(t)
	expired, err := provider.SignExpiredAt(
		&jwtinfra.Claims{UserID: "u1", TokenKind: jwtinfra.KindAccess},
		time.Now().Add(-time.Minute),
	)
	require.NoError(t, err)

	refresher := &mockRefresher{}

	var ran bool
	var claims *jwtinfra.Claims
	h := Auth(provider, refresher)(okHandler(&ran, &claims))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "access")
	refresher.AssertNotCalled(t, "RefreshAccess", mock.Anything, mock.Anything)
}

func TestAuth_RefreshFallbackFailureIsPlain401(t *testing.T) {
	provider := newTestProvider(t)

	refresher := &mockRefresher{}
	refresher.On("RefreshAccess", mock.Anything, "u1").Return("", assert.AnError)

	var ran bool
	var claims *jwtinfra.Claims
	h := Auth(provider, refresher)(okHandler(&ran, &claims))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer not-even-a-jwt")
	req.Header.Set(UserIDHeader, "u1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ran)
	assert.NotContains(t, rec.Body.String(), "fresh-access")
}
