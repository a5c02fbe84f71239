package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/drawer/internal/typeid"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("secret")
	require.True(t, svc.Enabled())

	userID := typeid.NewUserID()
	token, err := svc.IssueToken(userID, time.Hour)
	require.NoError(t, err)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewService("secret")

	expired, err := svc.IssueToken("user_1", -time.Minute)
	require.NoError(t, err)
	foreign, err := NewService("other").IssueToken("user_1", time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":    "not-a-token",
		"expired":    expired,
		"foreign":    foreign,
		"no subject": noSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIssueTokenNeedsSecret(t *testing.T) {
	svc := NewService("")
	assert.False(t, svc.Enabled())
	_, err := svc.IssueToken("user_1", time.Hour)
	assert.Error(t, err)
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserIDFromContext(r.Context())))
	})
}

func TestMiddleware(t *testing.T) {
	svc := NewService("secret")
	token, err := svc.IssueToken("user_42", time.Hour)
	require.NoError(t, err)
	h := svc.AuthMiddleware(echoUser())

	tests := []struct {
		name   string
		target string
		header string
		status int
		user   string
	}{
		{"bearer header", "/ws", "Bearer " + token, http.StatusOK, "user_42"},
		{"query token", "/ws?token=" + token, "", http.StatusOK, "user_42"},
		{"missing", "/ws", "", http.StatusUnauthorized, ""},
		{"bad scheme", "/ws", "Basic " + token, http.StatusUnauthorized, ""},
		{"bad token", "/ws?token=nope", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.user, rec.Body.String())
			}
		})
	}
}

func TestMiddlewareAnonymous(t *testing.T) {
	h := NewService("").AuthMiddleware(echoUser())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "anon-"))
}
