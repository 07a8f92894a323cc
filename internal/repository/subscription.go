package repository

import (
	"context"
	"errors"

	"teampot/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	Save(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id uint) (*models.Subscription, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Subscription, error)
	GetByExternalCustomerID(ctx context.Context, customerID string) (*models.Subscription, error)
	GetByExternalSubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, error)
	GetByScopeID(ctx context.Context, scopeID uint) (*models.Subscription, error)
	GetScopeLink(ctx context.Context, scopeID uint) (*models.SubscriptionScope, error)
	ListScopes(ctx context.Context, subscriptionID uint) ([]models.SubscriptionScope, error)
	CountScopes(ctx context.Context, subscriptionID uint) (int64, error)
	AddScope(ctx context.Context, link *models.SubscriptionScope) error
	RemoveScope(ctx context.Context, subscriptionID, scopeID uint) error
	RemoveScopeLinks(ctx context.Context, scopeID uint) error
}

// subscriptionRepository implements SubscriptionRepository
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	if err := r.db.WithContext(ctx).Create(subscription).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) Save(ctx context.Context, subscription *models.Subscription) error {
	if err := r.db.WithContext(ctx).Save(subscription).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := r.db.WithContext(ctx).Where(query, args...).First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Subscription", args[0])
		}
		return nil, models.NewInternalError(err)
	}
	return &subscription, nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id uint) (*models.Subscription, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID uint) (*models.Subscription, error) {
	return r.getOne(ctx, "user_id = ?", userID)
}

func (r *subscriptionRepository) GetByExternalCustomerID(ctx context.Context, customerID string) (*models.Subscription, error) {
	return r.getOne(ctx, "external_customer_id = ?", customerID)
}

func (r *subscriptionRepository) GetByExternalSubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return r.getOne(ctx, "external_subscription_id = ?", subscriptionID)
}

func (r *subscriptionRepository) GetByScopeID(ctx context.Context, scopeID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := r.db.WithContext(ctx).
		Joins("JOIN subscription_scopes ss ON ss.subscription_id = subscriptions.id").
		Where("ss.scope_id = ?", scopeID).
		First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Subscription", scopeID)
		}
		return nil, models.NewInternalError(err)
	}
	return &subscription, nil
}

func (r *subscriptionRepository) GetScopeLink(ctx context.Context, scopeID uint) (*models.SubscriptionScope, error) {
	var link models.SubscriptionScope
	if err := r.db.WithContext(ctx).
		Where("scope_id = ?", scopeID).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // scope is unclaimed
		}
		return nil, models.NewInternalError(err)
	}
	return &link, nil
}

func (r *subscriptionRepository) ListScopes(ctx context.Context, subscriptionID uint) ([]models.SubscriptionScope, error) {
	var links []models.SubscriptionScope
	if err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("added_at ASC").
		Find(&links).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return links, nil
}

func (r *subscriptionRepository) CountScopes(ctx context.Context, subscriptionID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SubscriptionScope{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *subscriptionRepository) AddScope(ctx context.Context, link *models.SubscriptionScope) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) RemoveScope(ctx context.Context, subscriptionID, scopeID uint) error {
	if err := r.db.WithContext(ctx).
		Where("subscription_id = ? AND scope_id = ?", subscriptionID, scopeID).
		Delete(&models.SubscriptionScope{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) RemoveScopeLinks(ctx context.Context, scopeID uint) error {
	if err := r.db.WithContext(ctx).
		Where("scope_id = ?", scopeID).
		Delete(&models.SubscriptionScope{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
