// Package ability computes the fine-grained permission predicate that gates
// every protected operation. Grants are derived in two pure passes: a
// baseline per role tier, then scope overrides that can only revoke.
package ability

import (
	"teampot/internal/models"
)

// Actions evaluated against scope subjects.
const (
	ActionAccess = "access"
	ActionRead   = "read"
	ActionInvite = "invite"
	ActionEdit   = "edit"
)

// Actions evaluated against post subjects. They mirror the override table's
// action column so a single override row maps to a single grant key.
const (
	ActionPost       = string(models.PostActionPost)
	ActionViewAuthor = string(models.PostActionViewAuthor)
)

// Subject is anything an action can be checked against.
type Subject interface {
	isSubject()
}

// ScopeSubject targets a scope. InviteRole optionally narrows an invite
// check to the role being offered.
type ScopeSubject struct {
	ID         uint
	InviteRole models.Role
}

func (ScopeSubject) isSubject() {}

// PostSubject targets posts of one type within a scope.
type PostSubject struct {
	ScopeID uint
	Type    models.PostType
}

func (PostSubject) isSubject() {}

// grantKey identifies one grant. The qualifier carries the invite role for
// scope subjects and the post type for post subjects; empty otherwise.
type grantKey struct {
	action    string
	scopeID   uint
	qualifier string
}

// Ability answers Can/Cannot for one user. It is a value computed per
// request from fresh store reads; it holds no live references to the store.
type Ability struct {
	grants       map[grantKey]struct{}
	rolesByScope map[uint][]models.Role
}

var postActions = []models.PostAction{
	models.PostActionPost,
	models.PostActionRead,
	models.PostActionViewAuthor,
}

var postTypes = []models.PostType{
	models.PostTypeFine,
	models.PostTypeWin,
	models.PostTypePayment,
}

// New builds an Ability from the user's effective roles and the permission
// override rows for the scopes those roles cover. The baseline is computed
// across all effective roles first, so a user granted by either a direct
// role or a synthesized super-role stays granted; overrides then subtract.
func New(effective []EffectiveRole, overrides []models.ScopePostPermission) *Ability {
	a := &Ability{
		grants:       make(map[grantKey]struct{}),
		rolesByScope: make(map[uint][]models.Role),
	}

	for _, er := range effective {
		a.rolesByScope[er.ScopeID] = append(a.rolesByScope[er.ScopeID], er.Role)
		a.grantBaseline(er)
	}

	for _, override := range overrides {
		a.applyOverride(override)
	}

	return a
}

func (a *Ability) grant(action string, scopeID uint, qualifier string) {
	a.grants[grantKey{action: action, scopeID: scopeID, qualifier: qualifier}] = struct{}{}
}

func (a *Ability) grantBaseline(er EffectiveRole) {
	a.grant(ActionAccess, er.ScopeID, "")

	switch er.Role {
	case models.RoleAdmin:
		a.grant(ActionRead, er.ScopeID, "")
		a.grant(ActionEdit, er.ScopeID, "")
		a.grant(ActionInvite, er.ScopeID, "")
		a.grant(ActionInvite, er.ScopeID, string(models.RoleMember))
		a.grant(ActionInvite, er.ScopeID, string(models.RoleGuest))
		a.grant(ActionInvite, er.ScopeID, string(models.RoleAdmin))
	case models.RoleMember:
		a.grant(ActionRead, er.ScopeID, "")
		a.grant(ActionInvite, er.ScopeID, "")
		a.grant(ActionInvite, er.ScopeID, string(models.RoleMember))
		a.grant(ActionInvite, er.ScopeID, string(models.RoleGuest))
	case models.RoleGuest:
		// Space guests cannot read the space itself.
		if er.ScopeKind == models.ScopeKindTeam {
			a.grant(ActionRead, er.ScopeID, "")
		}
	}

	for _, action := range postActions {
		// Space guests are denied posting for the whole scope.
		if action == models.PostActionPost &&
			er.Role == models.RoleGuest && er.ScopeKind == models.ScopeKindSpace {
			continue
		}
		for _, postType := range postTypes {
			a.grant(string(action), er.ScopeID, string(postType))
		}
	}
}

// applyOverride revokes the baseline grant for the override's exact
// (action, scope, post type) tuple unless at least one of the user's
// effective roles in that scope is explicitly permitted.
func (a *Ability) applyOverride(override models.ScopePostPermission) {
	for _, role := range a.rolesByScope[override.ScopeID] {
		if override.Allows(role) {
			return
		}
	}
	delete(a.grants, grantKey{
		action:    string(override.Action),
		scopeID:   override.ScopeID,
		qualifier: string(override.PostType),
	})
}

// Can reports whether the action is granted for the subject. Anything
// without a matching grant, including unknown actions, is denied.
func (a *Ability) Can(action string, subject Subject) bool {
	var key grantKey
	switch s := subject.(type) {
	case ScopeSubject:
		key = grantKey{action: action, scopeID: s.ID, qualifier: string(s.InviteRole)}
	case PostSubject:
		key = grantKey{action: action, scopeID: s.ScopeID, qualifier: string(s.Type)}
	default:
		return false
	}
	_, ok := a.grants[key]
	return ok
}

// Cannot is the logical negation of Can.
func (a *Ability) Cannot(action string, subject Subject) bool {
	return !a.Can(action, subject)
}
