package service

import (
	"context"

	"teampot/internal/ability"
	"teampot/internal/models"
	"teampot/internal/repository"
	"teampot/internal/validation"

	"gorm.io/gorm"
)

// ScopeService creates spaces and teams and handles admin-facing scope
// mutations: role changes and permission overrides.
type ScopeService struct {
	db        *gorm.DB
	scopeRepo repository.ScopeRepository
	roleRepo  repository.RoleRepository
	permRepo  repository.PermissionRepository
	abilities *AbilityService
}

// NewScopeService returns a new ScopeService.
func NewScopeService(db *gorm.DB, scopeRepo repository.ScopeRepository, roleRepo repository.RoleRepository, permRepo repository.PermissionRepository, abilities *AbilityService) *ScopeService {
	return &ScopeService{
		db:        db,
		scopeRepo: scopeRepo,
		roleRepo:  roleRepo,
		permRepo:  permRepo,
		abilities: abilities,
	}
}

// CreateSpace creates a root space with the creator as its admin.
func (s *ScopeService) CreateSpace(ctx context.Context, name, slug string, creatorID uint) (*models.Scope, error) {
	return s.createScope(ctx, models.Scope{
		Name: name,
		Slug: slug,
		Kind: models.ScopeKindSpace,
	}, creatorID)
}

// CreateTeam creates a team under the space. Only someone able to edit the
// space may add teams to it.
func (s *ScopeService) CreateTeam(ctx context.Context, spaceID uint, name, slug string, creatorID uint) (*models.Scope, error) {
	space, err := s.scopeRepo.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsSpace() {
		return nil, models.NewValidationError("teams can only be created under a space")
	}

	abilities, err := s.abilities.ComputeAbilities(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if abilities.Cannot(ability.ActionEdit, ability.ScopeSubject{ID: spaceID}) {
		return nil, models.NewForbiddenError("you cannot add teams to this space")
	}

	return s.createScope(ctx, models.Scope{
		Name:          name,
		Slug:          slug,
		Kind:          models.ScopeKindTeam,
		ParentScopeID: &spaceID,
	}, creatorID)
}

func (s *ScopeService) createScope(ctx context.Context, scope models.Scope, creatorID uint) (*models.Scope, error) {
	if err := validation.ValidateScopeSlug(scope.Slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if scope.Name == "" {
		return nil, models.NewValidationError("name is required")
	}

	count, err := s.scopeRepo.CountBySlug(ctx, scope.Slug)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.NewValidationError("slug is already in use")
	}

	// Scope and creator-admin role commit together.
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&scope).Error; err != nil {
			return models.NewInternalError(err)
		}
		role := models.ScopeRole{
			ScopeID: scope.ID,
			UserID:  creatorID,
			Role:    models.RoleAdmin,
		}
		if err := tx.Create(&role).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &scope, nil
}

// ChangeRole sets a member's role. Only scope editors may do it, and the
// last admin of a non-empty scope cannot be demoted.
func (s *ScopeService) ChangeRole(ctx context.Context, scopeID, targetUserID uint, newRole models.Role, actorID uint) error {
	if !models.ValidRole(newRole) {
		return models.NewValidationError("unknown role")
	}

	abilities, err := s.abilities.ComputeAbilities(ctx, actorID)
	if err != nil {
		return err
	}
	if abilities.Cannot(ability.ActionEdit, ability.ScopeSubject{ID: scopeID}) {
		return models.NewForbiddenError("you cannot manage roles in this scope")
	}

	current, err := s.roleRepo.GetRole(ctx, scopeID, targetUserID)
	if err != nil {
		return err
	}
	if current.Role == newRole {
		return nil
	}

	if current.Role == models.RoleAdmin && newRole != models.RoleAdmin {
		others, err := s.roleRepo.GetRolesForScope(ctx, scopeID)
		if err != nil {
			return err
		}
		admins := 0
		for _, r := range others {
			if r.Role == models.RoleAdmin && r.UserID != targetUserID {
				admins++
			}
		}
		if admins == 0 {
			return models.NewValidationError("scope must keep at least one admin")
		}
	}

	return s.roleRepo.UpdateRole(ctx, scopeID, targetUserID, newRole)
}

// SetPostPermission narrows which roles may perform a post action for a post
// type within the scope. Admin only. An empty role list denies every role.
func (s *ScopeService) SetPostPermission(ctx context.Context, scopeID uint, action models.PostAction, postType models.PostType, roles []models.Role, actorID uint) (*models.ScopePostPermission, error) {
	if !models.ValidPostAction(action) {
		return nil, models.NewValidationError("unknown action")
	}
	if !models.ValidPostType(postType) {
		return nil, models.NewValidationError("unknown post type")
	}
	for _, r := range roles {
		if !models.ValidRole(r) {
			return nil, models.NewValidationError("unknown role")
		}
	}

	abilities, err := s.abilities.ComputeAbilities(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if abilities.Cannot(ability.ActionEdit, ability.ScopeSubject{ID: scopeID}) {
		return nil, models.NewForbiddenError("you cannot edit permissions in this scope")
	}

	permission := &models.ScopePostPermission{
		ScopeID:  scopeID,
		Action:   action,
		PostType: postType,
	}
	permission.SetAllowedRoles(roles)
	if err := s.permRepo.Upsert(ctx, permission); err != nil {
		return nil, err
	}
	return permission, nil
}

// ClearPostPermission restores the role-tier default for the tuple.
func (s *ScopeService) ClearPostPermission(ctx context.Context, scopeID uint, action models.PostAction, postType models.PostType, actorID uint) error {
	abilities, err := s.abilities.ComputeAbilities(ctx, actorID)
	if err != nil {
		return err
	}
	if abilities.Cannot(ability.ActionEdit, ability.ScopeSubject{ID: scopeID}) {
		return models.NewForbiddenError("you cannot edit permissions in this scope")
	}
	return s.permRepo.Delete(ctx, scopeID, action, postType)
}
