package models

import "time"

// SubscriptionStatus tracks the billing state of a subscription.
type SubscriptionStatus string

const (
	// SubscriptionStatusPending means created but not yet paid.
	SubscriptionStatusPending SubscriptionStatus = "PENDING"
	// SubscriptionStatusActive means paid for the current period.
	SubscriptionStatusActive SubscriptionStatus = "ACTIVE"
	// SubscriptionStatusCancelled means cancelled by the owner or provider.
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
	// SubscriptionStatusFailed means the last payment attempt failed.
	SubscriptionStatusFailed SubscriptionStatus = "FAILED"
)

// MaxScopesPerSubscription caps how many teams a subscription can cover.
const MaxScopesPerSubscription = 3

// Subscription is one user's billing relationship covering premium features
// for up to MaxScopesPerSubscription teams.
type Subscription struct {
	ID                     uint               `gorm:"primaryKey" json:"id"`
	UserID                 uint               `gorm:"not null;uniqueIndex" json:"user_id"`
	User                   *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status                 SubscriptionStatus `gorm:"type:varchar(10);not null;default:'PENDING'" json:"status"`
	CurrentPeriodStart     *time.Time         `json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time         `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd      bool               `gorm:"not null;default:false" json:"cancel_at_period_end"`
	ExternalCustomerID     string             `gorm:"size:64;index" json:"external_customer_id"`
	ExternalSubscriptionID string             `gorm:"size:64;index" json:"external_subscription_id"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Subscription) TableName() string {
	return "subscriptions"
}

// EntitlesAt reports whether the subscription grants premium features at the
// given time: active status and an unexpired (or open-ended) period.
func (s *Subscription) EntitlesAt(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.CurrentPeriodEnd == nil || s.CurrentPeriodEnd.After(now)
}

// SubscriptionScope attaches one team to a subscription. The unique index on
// scope_id keeps a scope claimed by at most one subscription system-wide.
type SubscriptionScope struct {
	SubscriptionID uint          `gorm:"primaryKey;autoIncrement:false" json:"subscription_id"`
	Subscription   *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
	ScopeID        uint          `gorm:"primaryKey;autoIncrement:false;uniqueIndex" json:"scope_id"`
	Scope          *Scope        `gorm:"foreignKey:ScopeID" json:"scope,omitempty"`
	AddedByUserID  uint          `gorm:"not null" json:"added_by_user_id"`
	AddedAt        time.Time     `gorm:"autoCreateTime" json:"added_at"`
}

// TableName specifies the table name for GORM.
func (SubscriptionScope) TableName() string {
	return "subscription_scopes"
}
