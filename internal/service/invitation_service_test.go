package service

import (
	"context"
	"testing"
	"time"

	"teampot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInviteService(env *testEnv) *InvitationService {
	return NewInvitationService(env.invRepo, env.roleRepo, env.abilities)
}

func TestCreateInvite_RoleCeilings(t *testing.T) {
	env := newTestEnv(t)
	svc := newInviteService(env)
	ctx := context.Background()

	admin := env.user(t)
	member := env.user(t)
	guest := env.user(t)
	space := env.space(t, "invites")
	base := time.Now().Add(-time.Hour)
	env.role(t, space, admin, models.RoleAdmin, base)
	env.role(t, space, member, models.RoleMember, base)
	env.role(t, space, guest, models.RoleGuest, base)

	_, err := svc.CreateInvite(ctx, space.ID, models.RoleAdmin, admin.ID)
	assert.NoError(t, err, "admins may invite admins")

	_, err = svc.CreateInvite(ctx, space.ID, models.RoleMember, member.ID)
	assert.NoError(t, err, "members may invite members")

	_, err = svc.CreateInvite(ctx, space.ID, models.RoleAdmin, member.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code, "members may not invite admins")

	_, err = svc.CreateInvite(ctx, space.ID, models.RoleGuest, guest.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code, "guests may not invite at all")
}

func TestCreateInvite_OutsiderForbidden(t *testing.T) {
	env := newTestEnv(t)
	svc := newInviteService(env)

	outsider := env.user(t)
	space := env.space(t, "gated")

	_, err := svc.CreateInvite(context.Background(), space.ID, models.RoleMember, outsider.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestCreateInvite_ReusesValidInvite(t *testing.T) {
	env := newTestEnv(t)
	svc := newInviteService(env)
	ctx := context.Background()

	admin := env.user(t)
	space := env.space(t, "reuse")
	env.role(t, space, admin, models.RoleAdmin, time.Now().Add(-time.Hour))

	first, err := svc.CreateInvite(ctx, space.ID, models.RoleMember, admin.ID)
	require.NoError(t, err)

	second, err := svc.CreateInvite(ctx, space.ID, models.RoleMember, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Hash, second.Hash)

	// A different role gets its own invite.
	third, err := svc.CreateInvite(ctx, space.ID, models.RoleGuest, admin.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Hash, third.Hash)
}

func TestCreateInvite_ExpiredInviteNotReused(t *testing.T) {
	env := newTestEnv(t)
	svc := newInviteService(env)
	ctx := context.Background()

	admin := env.user(t)
	space := env.space(t, "expiry")
	env.role(t, space, admin, models.RoleAdmin, time.Now().Add(-time.Hour))

	first, err := svc.CreateInvite(ctx, space.ID, models.RoleMember, admin.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(models.InvitationTTL + time.Minute) }
	second, err := svc.CreateInvite(ctx, space.ID, models.RoleMember, admin.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestCreateInvite_UnknownRole(t *testing.T) {
	env := newTestEnv(t)
	svc := newInviteService(env)

	_, err := svc.CreateInvite(context.Background(), 1, models.Role("OVERLORD"), 1)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestAcceptInvite(t *testing.T) {
	env := newTestEnv(t)
	svc := newInviteService(env)
	ctx := context.Background()

	admin := env.user(t)
	joiner := env.user(t)
	space := env.space(t, "join")
	env.role(t, space, admin, models.RoleAdmin, time.Now().Add(-time.Hour))

	invite, err := svc.CreateInvite(ctx, space.ID, models.RoleGuest, admin.ID)
	require.NoError(t, err)

	role, err := svc.AcceptInvite(ctx, invite.Hash, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, role.Role)
	assert.Equal(t, space.ID, role.ScopeID)

	stored, ok := env.roleOf(t, space.ID, joiner.ID)
	require.True(t, ok)
	assert.Equal(t, models.RoleGuest, stored)
}

func TestAcceptInvite_ExistingRoleUnchanged(t *testing.T) {
	env := newTestEnv(t)
	svc := newInviteService(env)
	ctx := context.Background()

	admin := env.user(t)
	member := env.user(t)
	space := env.space(t, "rejoin")
	base := time.Now().Add(-time.Hour)
	env.role(t, space, admin, models.RoleAdmin, base)
	env.role(t, space, member, models.RoleMember, base)

	invite, err := svc.CreateInvite(ctx, space.ID, models.RoleGuest, admin.ID)
	require.NoError(t, err)

	role, err := svc.AcceptInvite(ctx, invite.Hash, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, role.Role, "redeeming must not demote an existing member")
}

func TestAcceptInvite_ExpiredBehavesAsMissing(t *testing.T) {
	env := newTestEnv(t)
	svc := newInviteService(env)
	ctx := context.Background()

	admin := env.user(t)
	joiner := env.user(t)
	space := env.space(t, "tardy")
	env.role(t, space, admin, models.RoleAdmin, time.Now().Add(-time.Hour))

	invite, err := svc.CreateInvite(ctx, space.ID, models.RoleMember, admin.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(models.InvitationTTL + time.Minute) }
	_, err = svc.AcceptInvite(ctx, invite.Hash, joiner.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestAcceptInvite_UnknownHash(t *testing.T) {
	env := newTestEnv(t)
	svc := newInviteService(env)

	_, err := svc.AcceptInvite(context.Background(), "nosuchhash", 1)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
