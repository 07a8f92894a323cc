package ability

import (
	"testing"

	"teampot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopeOf(id uint, kind models.ScopeKind, parent *uint) *models.Scope {
	return &models.Scope{ID: id, Kind: kind, ParentScopeID: parent}
}

func TestExpandRoles_SpaceAdminGainsChildTeams(t *testing.T) {
	spaceID := uint(1)
	raw := []models.ScopeRole{
		{ScopeID: 1, UserID: 10, Role: models.RoleAdmin, Scope: scopeOf(1, models.ScopeKindSpace, nil)},
	}
	children := []models.Scope{
		{ID: 2, Kind: models.ScopeKindTeam, ParentScopeID: &spaceID},
		{ID: 3, Kind: models.ScopeKindTeam, ParentScopeID: &spaceID},
	}

	effective := ExpandRoles(raw, children)
	require.Len(t, effective, 3)

	byScope := map[uint]EffectiveRole{}
	for _, er := range effective {
		byScope[er.ScopeID] = er
	}
	assert.Equal(t, models.RoleAdmin, byScope[2].Role)
	assert.True(t, byScope[2].Derived)
	assert.Equal(t, models.RoleAdmin, byScope[3].Role)
	assert.False(t, byScope[1].Derived)
}

func TestExpandRoles_SpaceMemberGainsNothing(t *testing.T) {
	spaceID := uint(1)
	raw := []models.ScopeRole{
		{ScopeID: 1, UserID: 10, Role: models.RoleMember, Scope: scopeOf(1, models.ScopeKindSpace, nil)},
	}
	children := []models.Scope{
		{ID: 2, Kind: models.ScopeKindTeam, ParentScopeID: &spaceID},
	}

	effective := ExpandRoles(raw, children)
	require.Len(t, effective, 1)
	assert.Equal(t, uint(1), effective[0].ScopeID)
}

func TestExpandRoles_ExplicitChildRoleCoexists(t *testing.T) {
	spaceID := uint(1)
	raw := []models.ScopeRole{
		{ScopeID: 1, UserID: 10, Role: models.RoleAdmin, Scope: scopeOf(1, models.ScopeKindSpace, nil)},
		{ScopeID: 2, UserID: 10, Role: models.RoleGuest, Scope: scopeOf(2, models.ScopeKindTeam, &spaceID)},
	}
	children := []models.Scope{
		{ID: 2, Kind: models.ScopeKindTeam, ParentScopeID: &spaceID},
	}

	effective := ExpandRoles(raw, children)
	require.Len(t, effective, 3)

	var roles []models.Role
	for _, er := range effective {
		if er.ScopeID == 2 {
			roles = append(roles, er.Role)
		}
	}
	assert.ElementsMatch(t, []models.Role{models.RoleGuest, models.RoleAdmin}, roles)
}

func TestExpandRoles_ExplicitChildAdminNotDuplicated(t *testing.T) {
	spaceID := uint(1)
	raw := []models.ScopeRole{
		{ScopeID: 1, UserID: 10, Role: models.RoleAdmin, Scope: scopeOf(1, models.ScopeKindSpace, nil)},
		{ScopeID: 2, UserID: 10, Role: models.RoleAdmin, Scope: scopeOf(2, models.ScopeKindTeam, &spaceID)},
	}
	children := []models.Scope{
		{ID: 2, Kind: models.ScopeKindTeam, ParentScopeID: &spaceID},
	}

	effective := ExpandRoles(raw, children)
	assert.Len(t, effective, 2)
}

func TestExpandRoles_TeamAdminIsNotSuper(t *testing.T) {
	teamID := uint(2)
	raw := []models.ScopeRole{
		{ScopeID: 2, UserID: 10, Role: models.RoleAdmin, Scope: scopeOf(2, models.ScopeKindTeam, nil)},
	}
	children := []models.Scope{
		{ID: 3, Kind: models.ScopeKindTeam, ParentScopeID: &teamID},
	}

	effective := ExpandRoles(raw, children)
	assert.Len(t, effective, 1)
}

func TestSuperScopeIDs(t *testing.T) {
	raw := []models.ScopeRole{
		{ScopeID: 1, Role: models.RoleAdmin, Scope: scopeOf(1, models.ScopeKindSpace, nil)},
		{ScopeID: 2, Role: models.RoleMember, Scope: scopeOf(2, models.ScopeKindSpace, nil)},
		{ScopeID: 3, Role: models.RoleAdmin, Scope: scopeOf(3, models.ScopeKindTeam, nil)},
		{ScopeID: 4, Role: models.RoleAdmin, Scope: scopeOf(4, models.ScopeKindSpace, nil)},
	}

	assert.Equal(t, []uint{1, 4}, SuperScopeIDs(raw))
}
