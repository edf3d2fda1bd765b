package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"noteweaver/internal/domain/entity"
	"noteweaver/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	subject string
	err     error
}

func (s stubTokens) Parse(string) (string, error) {
	return s.subject, s.err
}

type stubLoader struct {
	user   *entity.User
	apierr apierror.ErrorResponse
	calls  int
	lastID string
}

func (s *stubLoader) LoadUser(raw string) (*entity.User, apierror.ErrorResponse) {
	s.calls++
	s.lastID = raw
	return s.user, s.apierr
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, reached
}

func TestAuthMiddleware_ResolvesPrincipal(t *testing.T) {
	loader := &stubLoader{user: &entity.User{ID: 42, Username: "margaret"}}
	mw := NewAuthMiddleware(&AuthMiddlewareConfig{
		Tokens: stubTokens{subject: "42"},
		Loader: loader,
	})

	rec, reached := invoke(t, mw, "Bearer sometoken")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Resolved exactly once per request, with the token subject.
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, "42", loader.lastID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	loader := &stubLoader{}
	mw := NewAuthMiddleware(&AuthMiddlewareConfig{
		Tokens: stubTokens{subject: "42"},
		Loader: loader,
	})

	rec, reached := invoke(t, mw, "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, loader.calls)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	mw := NewAuthMiddleware(&AuthMiddlewareConfig{
		Tokens: stubTokens{err: errors.New("expired")},
		Loader: &stubLoader{},
	})

	rec, reached := invoke(t, mw, "Bearer expiredtoken")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_UnknownPrincipal(t *testing.T) {
	// Valid token whose user is gone from the database.
	mw := NewAuthMiddleware(&AuthMiddlewareConfig{
		Tokens: stubTokens{subject: "999999"},
		Loader: &stubLoader{user: nil},
	})

	rec, reached := invoke(t, mw, "Bearer sometoken")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_LoaderError(t *testing.T) {
	mw := NewAuthMiddleware(&AuthMiddlewareConfig{
		Tokens: stubTokens{subject: "abc"},
		Loader: &stubLoader{apierr: apierror.InvalidIDError},
	})

	rec, reached := invoke(t, mw, "Bearer sometoken")
	assert.False(t, reached)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
