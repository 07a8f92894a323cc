package service

import (
	"context"
	"testing"
	"time"

	"teampot/internal/ability"
	"teampot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveRoles_DerivedTeamAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	boss := env.user(t)
	space := env.space(t, "firm")
	teamA := env.team(t, space, "firm-a")
	teamB := env.team(t, space, "firm-b")
	env.role(t, space, boss, models.RoleAdmin, time.Now().Add(-time.Hour))

	effective, err := env.abilities.EffectiveRoles(ctx, boss.ID)
	require.NoError(t, err)
	require.Len(t, effective, 3)

	derived := map[uint]bool{}
	for _, er := range effective {
		if er.Derived {
			derived[er.ScopeID] = true
			assert.Equal(t, models.RoleAdmin, er.Role)
		}
	}
	assert.True(t, derived[teamA.ID])
	assert.True(t, derived[teamB.ID])
}

func TestComputeAbilities_CrossScopeIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	memberOfOne := env.user(t)
	spaceOne := env.space(t, "one")
	spaceTwo := env.space(t, "two")
	env.role(t, spaceOne, memberOfOne, models.RoleMember, time.Now().Add(-time.Hour))

	abilities, err := env.abilities.ComputeAbilities(ctx, memberOfOne.ID)
	require.NoError(t, err)

	assert.True(t, abilities.Can(ability.ActionAccess, ability.ScopeSubject{ID: spaceOne.ID}))
	assert.False(t, abilities.Can(ability.ActionAccess, ability.ScopeSubject{ID: spaceTwo.ID}))
}

func TestComputeAbilities_OverridesCoverDerivedScopes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	boss := env.user(t)
	member := env.user(t)
	space := env.space(t, "firm2")
	team := env.team(t, space, "firm2-t")
	base := time.Now().Add(-time.Hour)
	env.role(t, space, boss, models.RoleAdmin, base)
	env.role(t, team, member, models.RoleMember, base)

	perm := models.ScopePostPermission{ScopeID: team.ID, Action: models.PostActionPost, PostType: models.PostTypeFine}
	perm.SetAllowedRoles([]models.Role{models.RoleAdmin})
	require.NoError(t, env.db.Create(&perm).Error)

	// The member is shut out by the override.
	abilities, err := env.abilities.ComputeAbilities(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, abilities.Can(ability.ActionPost, ability.PostSubject{ScopeID: team.ID, Type: models.PostTypeFine}))

	// The boss holds team admin only by derivation, and the override for
	// the derived scope still gets loaded and honored.
	abilities, err = env.abilities.ComputeAbilities(ctx, boss.ID)
	require.NoError(t, err)
	assert.True(t, abilities.Can(ability.ActionPost, ability.PostSubject{ScopeID: team.ID, Type: models.PostTypeFine}))
}

func TestComputeAbilities_NoRoles(t *testing.T) {
	env := newTestEnv(t)

	loner := env.user(t)
	abilities, err := env.abilities.ComputeAbilities(context.Background(), loner.ID)
	require.NoError(t, err)
	assert.False(t, abilities.Can(ability.ActionAccess, ability.ScopeSubject{ID: 1}))
}
