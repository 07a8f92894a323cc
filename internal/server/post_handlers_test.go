package server

import (
	"fmt"
	"net/http"
	"testing"

	"teampot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateScopePostHandler(t *testing.T) {
	srv, app := newTestServer(t)
	author := seedUser(t, srv)
	recipient := seedUser(t, srv)
	space := seedScope(t, srv, "Acme", "acme", models.ScopeKindSpace, nil)
	seedRole(t, srv, space, author, models.RoleMember)
	seedRole(t, srv, space, recipient, models.RoleMember)

	target := fmt.Sprintf("/api/scopes/%d/posts", space.ID)
	resp := doJSON(t, app, http.MethodPost, target, bearer(t, srv, author), map[string]any{
		"type":         string(models.PostTypeFine),
		"recipient_id": recipient.ID,
		"amount_cents": 500,
		"note":         "late again",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, string(models.PostTypeFine), body["type"])
	assert.Equal(t, float64(500), body["amount_cents"])
	assert.Equal(t, float64(author.ID), body["author_id"])
}

func TestCreateScopePostHandler_Validation(t *testing.T) {
	srv, app := newTestServer(t)
	author := seedUser(t, srv)
	space := seedScope(t, srv, "Acme", "acme", models.ScopeKindSpace, nil)
	seedRole(t, srv, space, author, models.RoleMember)

	target := fmt.Sprintf("/api/scopes/%d/posts", space.ID)
	resp := doJSON(t, app, http.MethodPost, target, bearer(t, srv, author), map[string]any{
		"type":         "SONNET",
		"recipient_id": author.ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateScopePostHandler_Outsider(t *testing.T) {
	srv, app := newTestServer(t)
	member := seedUser(t, srv)
	outsider := seedUser(t, srv)
	space := seedScope(t, srv, "Acme", "acme", models.ScopeKindSpace, nil)
	seedRole(t, srv, space, member, models.RoleMember)

	target := fmt.Sprintf("/api/scopes/%d/posts", space.ID)
	resp := doJSON(t, app, http.MethodPost, target, bearer(t, srv, outsider), map[string]any{
		"type":         string(models.PostTypeFine),
		"recipient_id": member.ID,
		"amount_cents": 100,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateScopePostHandler_OverrideBlocks(t *testing.T) {
	srv, app := newTestServer(t)
	admin := seedUser(t, srv)
	member := seedUser(t, srv)
	space := seedScope(t, srv, "Acme", "acme", models.ScopeKindSpace, nil)
	seedRole(t, srv, space, admin, models.RoleAdmin)
	seedRole(t, srv, space, member, models.RoleMember)

	// Narrow fine posting to admins only.
	permTarget := fmt.Sprintf("/api/scopes/%d/permissions", space.ID)
	resp := doJSON(t, app, http.MethodPut, permTarget, bearer(t, srv, admin), map[string]any{
		"action":    string(models.PostActionPost),
		"post_type": string(models.PostTypeFine),
		"roles":     []string{string(models.RoleAdmin)},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	target := fmt.Sprintf("/api/scopes/%d/posts", space.ID)
	resp = doJSON(t, app, http.MethodPost, target, bearer(t, srv, member), map[string]any{
		"type":         string(models.PostTypeFine),
		"recipient_id": admin.ID,
		"amount_cents": 100,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetScopePostsHandler(t *testing.T) {
	srv, app := newTestServer(t)
	member := seedUser(t, srv)
	outsider := seedUser(t, srv)
	space := seedScope(t, srv, "Acme", "acme", models.ScopeKindSpace, nil)
	seedRole(t, srv, space, member, models.RoleMember)
	require.NoError(t, srv.db.Create(&models.Post{
		ScopeID: space.ID, AuthorID: member.ID, RecipientID: member.ID,
		Type: models.PostTypeWin, Note: "shipped it",
	}).Error)

	target := fmt.Sprintf("/api/scopes/%d/posts", space.ID)
	resp := doJSON(t, app, http.MethodGet, target, bearer(t, srv, member), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var posts []map[string]any
	require.NoError(t, jsonDecode(resp, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, string(models.PostTypeWin), posts[0]["type"])

	// Outsiders get the same response as for a missing scope.
	resp = doJSON(t, app, http.MethodGet, target, bearer(t, srv, outsider), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
