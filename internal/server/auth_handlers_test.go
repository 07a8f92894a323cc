package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "newcomer",
		"email":    "newcomer@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "newcomer", user["username"])
	assert.Nil(t, user["password"])
}

func TestSignup_Validation(t *testing.T) {
	_, app := newTestServer(t)

	cases := []struct {
		name    string
		payload map[string]string
	}{
		{"missing fields", map[string]string{"username": "someone"}},
		{"short password", map[string]string{
			"username": "someone", "email": "someone@example.com", "password": "abc1",
		}},
		{"letters only password", map[string]string{
			"username": "someone", "email": "someone@example.com", "password": "passwordonly",
		}},
		{"bad email", map[string]string{
			"username": "someone", "email": "not-an-email", "password": "password123",
		}},
		{"bad username", map[string]string{
			"username": "x", "email": "someone@example.com", "password": "password123",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", tc.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	srv, app := newTestServer(t)
	existing := seedUser(t, srv)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "impostor",
		"email":    existing.Email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	srv, app := newTestServer(t)
	u := seedUser(t, srv)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    u.Email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv, app := newTestServer(t)
	u := seedUser(t, srv)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    u.Email,
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_RevokesToken(t *testing.T) {
	srv, app := newTestServer(t)
	u := seedUser(t, srv)
	auth := bearer(t, srv, u)

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The jti is blacklisted, so the same token is rejected from now on.
	resp = doJSON(t, app, http.MethodGet, "/api/users/me", auth, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/users/me", "Bearer garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/users/me", "Basic abc123", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
