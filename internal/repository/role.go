// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"teampot/internal/models"

	"gorm.io/gorm"
)

// RoleRepository defines the interface for scope role data operations
type RoleRepository interface {
	Create(ctx context.Context, role *models.ScopeRole) error
	GetRole(ctx context.Context, scopeID, userID uint) (*models.ScopeRole, error)
	GetRolesForUser(ctx context.Context, userID uint) ([]models.ScopeRole, error)
	GetRolesForScope(ctx context.Context, scopeID uint) ([]models.ScopeRole, error)
	UpdateRole(ctx context.Context, scopeID, userID uint, role models.Role) error
	Delete(ctx context.Context, scopeID, userID uint) error
}

// roleRepository implements RoleRepository
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *models.ScopeRole) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *roleRepository) GetRole(ctx context.Context, scopeID, userID uint) (*models.ScopeRole, error) {
	var role models.ScopeRole
	if err := r.db.WithContext(ctx).
		Preload("Scope").
		Where("scope_id = ? AND user_id = ?", scopeID, userID).
		First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Role", scopeID)
		}
		return nil, models.NewInternalError(err)
	}
	return &role, nil
}

func (r *roleRepository) GetRolesForUser(ctx context.Context, userID uint) ([]models.ScopeRole, error) {
	var roles []models.ScopeRole
	if err := r.db.WithContext(ctx).
		Preload("Scope").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&roles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return roles, nil
}

func (r *roleRepository) GetRolesForScope(ctx context.Context, scopeID uint) ([]models.ScopeRole, error) {
	var roles []models.ScopeRole

	// Stable order so succession picks the earliest-created role.
	if err := r.db.WithContext(ctx).
		Where("scope_id = ?", scopeID).
		Order("created_at ASC, user_id ASC").
		Find(&roles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return roles, nil
}

func (r *roleRepository) UpdateRole(ctx context.Context, scopeID, userID uint, role models.Role) error {
	if err := r.db.WithContext(ctx).
		Model(&models.ScopeRole{}).
		Where("scope_id = ? AND user_id = ?", scopeID, userID).
		Update("role", role).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *roleRepository) Delete(ctx context.Context, scopeID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("scope_id = ? AND user_id = ?", scopeID, userID).
		Delete(&models.ScopeRole{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
