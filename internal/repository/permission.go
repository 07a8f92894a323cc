package repository

import (
	"context"

	"teampot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PermissionRepository defines the interface for permission override data operations
type PermissionRepository interface {
	GetForScopes(ctx context.Context, scopeIDs []uint) ([]models.ScopePostPermission, error)
	Upsert(ctx context.Context, permission *models.ScopePostPermission) error
	Delete(ctx context.Context, scopeID uint, action models.PostAction, postType models.PostType) error
}

// permissionRepository implements PermissionRepository
type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) GetForScopes(ctx context.Context, scopeIDs []uint) ([]models.ScopePostPermission, error) {
	if len(scopeIDs) == 0 {
		return nil, nil
	}

	var overrides []models.ScopePostPermission
	if err := r.db.WithContext(ctx).
		Where("scope_id IN ?", scopeIDs).
		Find(&overrides).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return overrides, nil
}

func (r *permissionRepository) Upsert(ctx context.Context, permission *models.ScopePostPermission) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "scope_id"}, {Name: "action"}, {Name: "post_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"roles", "updated_at"}),
	}).Create(permission).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *permissionRepository) Delete(ctx context.Context, scopeID uint, action models.PostAction, postType models.PostType) error {
	if err := r.db.WithContext(ctx).
		Where("scope_id = ? AND action = ? AND post_type = ?", scopeID, action, postType).
		Delete(&models.ScopePostPermission{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
