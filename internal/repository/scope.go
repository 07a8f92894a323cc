package repository

import (
	"context"
	"errors"

	"teampot/internal/models"

	"gorm.io/gorm"
)

// ScopeRepository defines the interface for scope data operations
type ScopeRepository interface {
	Create(ctx context.Context, scope *models.Scope) error
	GetByID(ctx context.Context, id uint) (*models.Scope, error)
	GetBySlug(ctx context.Context, slug string) (*models.Scope, error)
	GetChildScopes(ctx context.Context, parentIDs []uint) ([]models.Scope, error)
	CountBySlug(ctx context.Context, slug string) (int64, error)
}

// scopeRepository implements ScopeRepository
type scopeRepository struct {
	db *gorm.DB
}

// NewScopeRepository creates a new scope repository
func NewScopeRepository(db *gorm.DB) ScopeRepository {
	return &scopeRepository{db: db}
}

func (r *scopeRepository) Create(ctx context.Context, scope *models.Scope) error {
	if err := r.db.WithContext(ctx).Create(scope).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *scopeRepository) GetByID(ctx context.Context, id uint) (*models.Scope, error) {
	var scope models.Scope
	if err := r.db.WithContext(ctx).First(&scope, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Scope", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &scope, nil
}

func (r *scopeRepository) GetBySlug(ctx context.Context, slug string) (*models.Scope, error) {
	var scope models.Scope
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&scope).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Scope", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &scope, nil
}

func (r *scopeRepository) GetChildScopes(ctx context.Context, parentIDs []uint) ([]models.Scope, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var scopes []models.Scope
	if err := r.db.WithContext(ctx).
		Where("parent_scope_id IN ?", parentIDs).
		Order("id ASC").
		Find(&scopes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return scopes, nil
}

func (r *scopeRepository) CountBySlug(ctx context.Context, slug string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Scope{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
