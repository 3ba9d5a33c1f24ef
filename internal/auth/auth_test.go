package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator(t *testing.T) {
	validator := NewTokenValidator("test-secret")
	anu := user.User{Email: "anu@anywhereworks.in", Name: "Anu", Role: user.Admin}

	t.Run("should accept its own tokens", func(t *testing.T) {
		token, err := validator.Issue(anu, time.Hour)
		require.NoError(t, err)

		u, err := validator.Validate(token)

		require.NoError(t, err)
		assert.Equal(t, anu, u)
	})

	t.Run("should reject tokens signed with another secret", func(t *testing.T) {
		token, err := NewTokenValidator("other").Issue(anu, time.Hour)
		require.NoError(t, err)

		_, err = validator.Validate(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject expired tokens", func(t *testing.T) {
		token, err := validator.Issue(anu, -time.Minute)
		require.NoError(t, err)

		_, err = validator.Validate(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject tokens without identity", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "admin"}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = validator.Validate(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should default unknown roles to employee", func(t *testing.T) {
		token, err := validator.Issue(user.User{Email: "binu@anywhereworks.in", Role: "intern"}, time.Hour)
		require.NoError(t, err)

		u, err := validator.Validate(token)

		require.NoError(t, err)
		assert.Equal(t, user.Employee, u.Role)
	})
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := BearerToken(req)
	assert.ErrorIs(t, err, ErrMissingToken)

	req.Header.Set("Authorization", "Basic abc")
	_, err = BearerToken(req)
	assert.ErrorIs(t, err, ErrMissingToken)

	req.Header.Set("Authorization", "Bearer abc.def")
	token, err := BearerToken(req)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)
}
