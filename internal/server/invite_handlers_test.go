package server

import (
	"fmt"
	"net/http"
	"testing"

	"teampot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInviteHandler(t *testing.T) {
	srv, app := newTestServer(t)
	admin := seedUser(t, srv)
	space := seedScope(t, srv, "Acme", "acme", models.ScopeKindSpace, nil)
	seedRole(t, srv, space, admin, models.RoleAdmin)

	resp := doJSON(t, app, http.MethodPost, "/api/invites/", bearer(t, srv, admin), map[string]any{
		"scope_id":     space.ID,
		"default_role": string(models.RoleMember),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["hash"])
	assert.Equal(t, string(models.RoleMember), body["default_role"])
}

func TestCreateInviteHandler_MissingScope(t *testing.T) {
	srv, app := newTestServer(t)
	auth := bearer(t, srv, seedUser(t, srv))

	resp := doJSON(t, app, http.MethodPost, "/api/invites/", auth, map[string]any{
		"default_role": string(models.RoleMember),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateInviteHandler_MemberCeiling(t *testing.T) {
	srv, app := newTestServer(t)
	member := seedUser(t, srv)
	space := seedScope(t, srv, "Acme", "acme", models.ScopeKindSpace, nil)
	seedRole(t, srv, space, member, models.RoleMember)

	// Members cannot mint admin invites.
	resp := doJSON(t, app, http.MethodPost, "/api/invites/", bearer(t, srv, member), map[string]any{
		"scope_id":     space.ID,
		"default_role": string(models.RoleAdmin),
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAcceptInviteHandler(t *testing.T) {
	srv, app := newTestServer(t)
	admin := seedUser(t, srv)
	joiner := seedUser(t, srv)
	space := seedScope(t, srv, "Acme", "acme", models.ScopeKindSpace, nil)
	seedRole(t, srv, space, admin, models.RoleAdmin)

	resp := doJSON(t, app, http.MethodPost, "/api/invites/", bearer(t, srv, admin), map[string]any{
		"scope_id":     space.ID,
		"default_role": string(models.RoleMember),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	hash := decodeBody(t, resp)["hash"].(string)

	target := fmt.Sprintf("/api/invites/%s/accept", hash)
	resp = doJSON(t, app, http.MethodPost, target, bearer(t, srv, joiner), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var role models.ScopeRole
	require.NoError(t, srv.db.Where("scope_id = ? AND user_id = ?", space.ID, joiner.ID).First(&role).Error)
	assert.Equal(t, models.RoleMember, role.Role)
}

func TestAcceptInviteHandler_UnknownHash(t *testing.T) {
	srv, app := newTestServer(t)
	auth := bearer(t, srv, seedUser(t, srv))

	resp := doJSON(t, app, http.MethodPost, "/api/invites/deadbeef/accept", auth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
