package ability

import "teampot/internal/models"

// EffectiveRole is one entry in a user's expanded role set. Derived marks
// roles synthesized from space-admin authority rather than stored rows.
type EffectiveRole struct {
	ScopeID   uint
	ScopeKind models.ScopeKind
	Role      models.Role
	Derived   bool
}

// ExpandRoles derives the effective role set from the user's raw role rows
// and the child scopes of the spaces the user administers. Each raw row must
// carry its Scope so the scope kind is known. A space admin receives a
// synthesized admin role on every child team; a genuine explicit role on a
// child coexists with the synthesized one.
func ExpandRoles(raw []models.ScopeRole, childScopes []models.Scope) []EffectiveRole {
	effective := make([]EffectiveRole, 0, len(raw)+len(childScopes))
	superScopes := make(map[uint]struct{})

	for _, row := range raw {
		kind := models.ScopeKindTeam
		if row.Scope != nil {
			kind = row.Scope.Kind
		}
		effective = append(effective, EffectiveRole{
			ScopeID:   row.ScopeID,
			ScopeKind: kind,
			Role:      row.Role,
		})
		if kind == models.ScopeKindSpace && row.Role == models.RoleAdmin {
			superScopes[row.ScopeID] = struct{}{}
		}
	}

	seen := make(map[uint]struct{}, len(childScopes))
	for _, er := range effective {
		if er.Role == models.RoleAdmin {
			seen[er.ScopeID] = struct{}{}
		}
	}

	for _, child := range childScopes {
		if child.ParentScopeID == nil {
			continue
		}
		if _, ok := superScopes[*child.ParentScopeID]; !ok {
			continue
		}
		if _, dup := seen[child.ID]; dup {
			continue
		}
		seen[child.ID] = struct{}{}
		effective = append(effective, EffectiveRole{
			ScopeID:   child.ID,
			ScopeKind: models.ScopeKindTeam,
			Role:      models.RoleAdmin,
			Derived:   true,
		})
	}

	return effective
}

// SuperScopeIDs returns the ids of spaces the user administers, in the order
// the rows were given. Callers use it to fetch child scopes for expansion.
func SuperScopeIDs(raw []models.ScopeRole) []uint {
	ids := make([]uint, 0, len(raw))
	for _, row := range raw {
		if row.Scope != nil && row.Scope.Kind == models.ScopeKindSpace && row.Role == models.RoleAdmin {
			ids = append(ids, row.ScopeID)
		}
	}
	return ids
}
