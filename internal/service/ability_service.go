// Package service contains the business logic of the application.
package service

import (
	"context"

	"teampot/internal/ability"
	"teampot/internal/repository"
)

// AbilityService computes per-request ability values from fresh store reads.
// Role and override data can change between requests, so nothing here is
// cached beyond the returned value's lifetime.
type AbilityService struct {
	roleRepo  repository.RoleRepository
	scopeRepo repository.ScopeRepository
	permRepo  repository.PermissionRepository
}

// NewAbilityService returns a new AbilityService.
func NewAbilityService(roleRepo repository.RoleRepository, scopeRepo repository.ScopeRepository, permRepo repository.PermissionRepository) *AbilityService {
	return &AbilityService{
		roleRepo:  roleRepo,
		scopeRepo: scopeRepo,
		permRepo:  permRepo,
	}
}

// EffectiveRoles expands the user's raw role rows with super-roles derived
// from space-admin authority.
func (s *AbilityService) EffectiveRoles(ctx context.Context, userID uint) ([]ability.EffectiveRole, error) {
	raw, err := s.roleRepo.GetRolesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	children, err := s.scopeRepo.GetChildScopes(ctx, ability.SuperScopeIDs(raw))
	if err != nil {
		return nil, err
	}

	return ability.ExpandRoles(raw, children), nil
}

// ComputeAbilities builds the ability value governing every protected
// operation for the user. Any store failure propagates so the caller denies
// access rather than guessing.
func (s *AbilityService) ComputeAbilities(ctx context.Context, userID uint) (*ability.Ability, error) {
	effective, err := s.EffectiveRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	scopeIDs := make([]uint, 0, len(effective))
	seen := make(map[uint]struct{}, len(effective))
	for _, er := range effective {
		if _, ok := seen[er.ScopeID]; ok {
			continue
		}
		seen[er.ScopeID] = struct{}{}
		scopeIDs = append(scopeIDs, er.ScopeID)
	}

	overrides, err := s.permRepo.GetForScopes(ctx, scopeIDs)
	if err != nil {
		return nil, err
	}

	return ability.New(effective, overrides), nil
}
