package repository

import (
	"context"
	"errors"
	"time"

	"teampot/internal/models"

	"gorm.io/gorm"
)

// InvitationRepository defines the interface for invitation data operations
type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetValidByHash(ctx context.Context, hash string, now time.Time) (*models.Invitation, error)
	FindReusable(ctx context.Context, scopeID uint, role models.Role, createdBy uint, now time.Time) (*models.Invitation, error)
	DeleteExpired(ctx context.Context, now time.Time) error
	DeleteByScope(ctx context.Context, scopeID uint) error
}

// invitationRepository implements InvitationRepository
type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if err := r.db.WithContext(ctx).Create(invitation).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetValidByHash treats expired invitations exactly like missing ones so the
// lookup does not leak existence to unauthenticated callers.
func (r *invitationRepository) GetValidByHash(ctx context.Context, hash string, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).
		Preload("Scope").
		Where("hash = ? AND expires_at > ?", hash, now).
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Invitation", hash)
		}
		return nil, models.NewInternalError(err)
	}
	return &invitation, nil
}

func (r *invitationRepository) FindReusable(ctx context.Context, scopeID uint, role models.Role, createdBy uint, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).
		Where("scope_id = ? AND default_role = ? AND created_by_user_id = ? AND expires_at > ?",
			scopeID, role, createdBy, now).
		Order("expires_at DESC").
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // nothing to reuse
		}
		return nil, models.NewInternalError(err)
	}
	return &invitation, nil
}

func (r *invitationRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if err := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.Invitation{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *invitationRepository) DeleteByScope(ctx context.Context, scopeID uint) error {
	if err := r.db.WithContext(ctx).
		Where("scope_id = ?", scopeID).
		Delete(&models.Invitation{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
