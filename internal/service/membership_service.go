package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"teampot/internal/cache"
	"teampot/internal/models"

	"gorm.io/gorm"
)

// MembershipService removes a user's participation in scopes while keeping
// the invariant that a non-empty scope always has at least one admin. Every
// per-scope removal runs as a single transaction; cascades across scopes
// commit scope by scope and report how far they got on failure.
type MembershipService struct {
	db *gorm.DB
}

// NewMembershipService returns a new MembershipService.
func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// CascadeError reports a multi-scope removal that failed partway. Scopes in
// Processed were each committed before the failure; the failing scope rolled
// back atomically.
type CascadeError struct {
	FailedScopeID uint
	Processed     []uint
	Err           error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("removal failed at scope %d after %d scopes: %v", e.FailedScopeID, len(e.Processed), e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}

// removalPlan is a pure description of the mutations one scope removal
// needs. Computing it from reads first, then executing it, keeps the
// transaction free of interleaved read-modify-write recursion.
type removalPlan struct {
	deleteRole  bool
	deletePosts bool
	promote     *models.ScopeRole
	deleteScope bool
}

// planScopeRemoval decides what removing the given role entails. remaining
// must hold every other role row of the scope in stable succession order
// (earliest created first, then lowest user id).
func planScopeRemoval(role *models.ScopeRole, remaining []models.ScopeRole) removalPlan {
	if role.Role != models.RoleAdmin {
		return removalPlan{deleteRole: true, deletePosts: true}
	}

	if len(remaining) == 0 {
		return removalPlan{deleteScope: true}
	}

	plan := removalPlan{deleteRole: true}
	for i := range remaining {
		if remaining[i].Role == models.RoleAdmin {
			return plan
		}
	}
	plan.promote = &remaining[0]
	return plan
}

// RemoveUserFromScope removes the user's role in the scope, promoting a
// successor admin or deleting the whole scope as required. A missing role is
// a benign no-op so concurrent removals of the same pair serialize cleanly.
func (s *MembershipService) RemoveUserFromScope(ctx context.Context, scopeID, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.ScopeRole
		if err := tx.Where("scope_id = ? AND user_id = ?", scopeID, userID).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // already removed
			}
			return models.NewInternalError(err)
		}

		var remaining []models.ScopeRole
		if role.Role == models.RoleAdmin {
			if err := tx.Where("scope_id = ? AND user_id <> ?", scopeID, userID).
				Order("created_at ASC, user_id ASC").
				Find(&remaining).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		return s.execute(tx, scopeID, userID, planScopeRemoval(&role, remaining))
	})
}

func (s *MembershipService) execute(tx *gorm.DB, scopeID, userID uint, plan removalPlan) error {
	if plan.deleteScope {
		return deleteScopeCascade(tx, scopeID)
	}

	if plan.promote != nil {
		if err := tx.Model(&models.ScopeRole{}).
			Where("scope_id = ? AND user_id = ?", plan.promote.ScopeID, plan.promote.UserID).
			Update("role", models.RoleAdmin).Error; err != nil {
			return models.NewInternalError(err)
		}
	}

	if plan.deleteRole {
		if err := tx.Where("scope_id = ? AND user_id = ?", scopeID, userID).
			Delete(&models.ScopeRole{}).Error; err != nil {
			return models.NewInternalError(err)
		}
	}

	if plan.deletePosts {
		if err := tx.Where("scope_id = ? AND (author_id = ? OR recipient_id = ?)", scopeID, userID, userID).
			Delete(&models.Post{}).Error; err != nil {
			return models.NewInternalError(err)
		}
	}

	return nil
}

// deleteScopeCascade removes a scope and everything hanging off it. Child
// teams of a space are themselves cascaded first.
func deleteScopeCascade(tx *gorm.DB, scopeID uint) error {
	var children []models.Scope
	if err := tx.Where("parent_scope_id = ?", scopeID).Find(&children).Error; err != nil {
		return models.NewInternalError(err)
	}
	for _, child := range children {
		if err := deleteScopeCascade(tx, child.ID); err != nil {
			return err
		}
	}

	for _, del := range []interface{}{
		&models.Post{},
		&models.ScopeRole{},
		&models.ScopePostPermission{},
		&models.Invitation{},
	} {
		if err := tx.Where("scope_id = ?", scopeID).Delete(del).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	if err := tx.Where("scope_id = ?", scopeID).Delete(&models.SubscriptionScope{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateEntitlement(tx.Statement.Context, scopeID)

	if err := tx.Delete(&models.Scope{}, scopeID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// LeaveSpace removes the user from every child team they belong to, then
// from the space itself. Children go first so no team is left referencing
// stale derived authority from the parent space.
func (s *MembershipService) LeaveSpace(ctx context.Context, spaceID, userID uint) error {
	var space models.Scope
	if err := s.db.WithContext(ctx).First(&space, spaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // already gone
		}
		return models.NewInternalError(err)
	}
	if space.Kind != models.ScopeKindSpace {
		return models.NewValidationError("scope is not a space")
	}

	var memberTeams []models.ScopeRole
	if err := s.db.WithContext(ctx).
		Joins("JOIN scopes ON scopes.id = scope_roles.scope_id").
		Where("scope_roles.user_id = ? AND scopes.parent_scope_id = ?", userID, spaceID).
		Order("scope_roles.created_at ASC").
		Find(&memberTeams).Error; err != nil {
		return models.NewInternalError(err)
	}

	processed := make([]uint, 0, len(memberTeams)+1)
	for _, teamRole := range memberTeams {
		if err := s.RemoveUserFromScope(ctx, teamRole.ScopeID, userID); err != nil {
			return &CascadeError{FailedScopeID: teamRole.ScopeID, Processed: processed, Err: err}
		}
		processed = append(processed, teamRole.ScopeID)
	}

	if err := s.RemoveUserFromScope(ctx, spaceID, userID); err != nil {
		return &CascadeError{FailedScopeID: spaceID, Processed: processed, Err: err}
	}
	return nil
}

// DeleteAccount removes the user from every scope they participate in and
// then deletes the account record with its loose ends (authored invitations,
// remaining posts, the user's subscription).
func (s *MembershipService) DeleteAccount(ctx context.Context, userID uint) error {
	var roles []models.ScopeRole
	if err := s.db.WithContext(ctx).
		Preload("Scope").
		Where("user_id = ?", userID).
		Find(&roles).Error; err != nil {
		return models.NewInternalError(err)
	}

	// Teams before spaces, so each space removal sees child memberships
	// already gone.
	sort.SliceStable(roles, func(i, j int) bool {
		iTeam := roles[i].Scope != nil && roles[i].Scope.Kind == models.ScopeKindTeam
		jTeam := roles[j].Scope != nil && roles[j].Scope.Kind == models.ScopeKindTeam
		return iTeam && !jTeam
	})

	processed := make([]uint, 0, len(roles))
	for _, role := range roles {
		if err := s.RemoveUserFromScope(ctx, role.ScopeID, userID); err != nil {
			return &CascadeError{FailedScopeID: role.ScopeID, Processed: processed, Err: err}
		}
		processed = append(processed, role.ScopeID)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("created_by_user_id = ?", userID).Delete(&models.Invitation{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("author_id = ? OR recipient_id = ?", userID, userID).Delete(&models.Post{}).Error; err != nil {
			return models.NewInternalError(err)
		}

		var sub models.Subscription
		err := tx.Where("user_id = ?", userID).First(&sub).Error
		switch {
		case err == nil:
			var links []models.SubscriptionScope
			if err := tx.Where("subscription_id = ?", sub.ID).Find(&links).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := tx.Where("subscription_id = ?", sub.ID).Delete(&models.SubscriptionScope{}).Error; err != nil {
				return models.NewInternalError(err)
			}
			for _, link := range links {
				cache.InvalidateEntitlement(ctx, link.ScopeID)
			}
			if err := tx.Delete(&sub).Error; err != nil {
				return models.NewInternalError(err)
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return models.NewInternalError(err)
		}

		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			return models.NewInternalError(err)
		}
		cache.InvalidateUser(ctx, userID)
		return nil
	})
}
