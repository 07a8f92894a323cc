package repository

import (
	"context"
	"errors"

	"teampot/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByScopeID(ctx context.Context, scopeID uint, limit, offset int) ([]models.Post, error)
	DeleteByUserInScope(ctx context.Context, scopeID, userID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Recipient").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByScopeID(ctx context.Context, scopeID uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Recipient").
		Where("scope_id = ?", scopeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) DeleteByUserInScope(ctx context.Context, scopeID, userID uint) error {
	// Both directions: posts the user authored and posts addressed to them.
	if err := r.db.WithContext(ctx).
		Where("scope_id = ? AND (author_id = ? OR recipient_id = ?)", scopeID, userID, userID).
		Delete(&models.Post{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
