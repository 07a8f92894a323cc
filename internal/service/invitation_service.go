package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"teampot/internal/ability"
	"teampot/internal/models"
	"teampot/internal/repository"

	"github.com/google/uuid"
)

// InvitationService issues and redeems scope invitations. Creation is
// idempotent per (scope, role, creator) while a valid invite exists; expired
// invites are indistinguishable from missing ones.
type InvitationService struct {
	invRepo   repository.InvitationRepository
	roleRepo  repository.RoleRepository
	abilities *AbilityService
	now       func() time.Time
}

// NewInvitationService returns a new InvitationService.
func NewInvitationService(invRepo repository.InvitationRepository, roleRepo repository.RoleRepository, abilities *AbilityService) *InvitationService {
	return &InvitationService{
		invRepo:   invRepo,
		roleRepo:  roleRepo,
		abilities: abilities,
		now:       time.Now,
	}
}

// CreateInvite issues (or reuses) an invitation offering defaultRole in the
// scope. Inviting as admin requires the creator to be an admin themselves.
func (s *InvitationService) CreateInvite(ctx context.Context, scopeID uint, defaultRole models.Role, creatorID uint) (*models.Invitation, error) {
	if !models.ValidRole(defaultRole) {
		return nil, models.NewValidationError("unknown role")
	}

	abilities, err := s.abilities.ComputeAbilities(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if abilities.Cannot(ability.ActionInvite, ability.ScopeSubject{ID: scopeID, InviteRole: defaultRole}) {
		return nil, models.NewForbiddenError("you cannot invite with that role")
	}

	now := s.now()
	if existing, err := s.invRepo.FindReusable(ctx, scopeID, defaultRole, creatorID, now); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	invitation := &models.Invitation{
		Hash:            strings.ReplaceAll(uuid.NewString(), "-", ""),
		ScopeID:         scopeID,
		DefaultRole:     defaultRole,
		CreatedByUserID: creatorID,
		ExpiresAt:       now.Add(models.InvitationTTL),
	}
	if err := s.invRepo.Create(ctx, invitation); err != nil {
		return nil, err
	}
	return invitation, nil
}

// AcceptInvite redeems an invitation hash for the user, creating their role
// row. A user who already holds a role in the scope keeps it unchanged.
func (s *InvitationService) AcceptInvite(ctx context.Context, hash string, userID uint) (*models.ScopeRole, error) {
	invitation, err := s.invRepo.GetValidByHash(ctx, hash, s.now())
	if err != nil {
		return nil, err
	}

	existing, err := s.roleRepo.GetRole(ctx, invitation.ScopeID, userID)
	if err == nil {
		return existing, nil
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		return nil, err
	}

	role := &models.ScopeRole{
		ScopeID: invitation.ScopeID,
		UserID:  userID,
		Role:    invitation.DefaultRole,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	role.Scope = invitation.Scope
	return role, nil
}
