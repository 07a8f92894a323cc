package models

import "time"

// InvitationTTL is how long an invitation stays redeemable after creation.
const InvitationTTL = 24 * time.Hour

// Invitation is a single-use-in-intent invite link for a scope. A still
// valid invitation for the same (scope, role, creator) is reused rather
// than duplicated; expired invitations behave as not found.
type Invitation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Hash            string    `gorm:"size:64;not null;uniqueIndex" json:"hash"`
	ScopeID         uint      `gorm:"not null;index" json:"scope_id"`
	Scope           *Scope    `gorm:"foreignKey:ScopeID" json:"scope,omitempty"`
	DefaultRole     Role      `gorm:"type:varchar(10);not null;default:'MEMBER'" json:"default_role"`
	CreatedByUserID uint      `gorm:"not null;index" json:"created_by_user_id"`
	CreatedByUser   *User     `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
	ExpiresAt       time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Invitation) TableName() string {
	return "invitations"
}

// Expired reports whether the invitation is past its expiry at the given time.
func (i *Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}
