package models

import "time"

// Role is a tier of authority held by a user within one scope.
type Role string

const (
	// RoleAdmin can administer the scope, its memberships, and its overrides.
	RoleAdmin Role = "ADMIN"
	// RoleMember is the default full-participation role.
	RoleMember Role = "MEMBER"
	// RoleGuest is a restricted role. Space guests cannot read the space.
	RoleGuest Role = "GUEST"
)

// ValidRole reports whether r is one of the known role tiers.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleMember, RoleGuest:
		return true
	}
	return false
}

// ScopeRole maps users to scopes and tracks role. The composite primary key
// on (scope_id, user_id) enforces one active role per user per scope.
type ScopeRole struct {
	ScopeID   uint      `gorm:"primaryKey;autoIncrement:false" json:"scope_id"`
	Scope     *Scope    `gorm:"foreignKey:ScopeID" json:"scope,omitempty"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      Role      `gorm:"type:varchar(10);not null;default:'MEMBER'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ScopeRole) TableName() string {
	return "scope_roles"
}
