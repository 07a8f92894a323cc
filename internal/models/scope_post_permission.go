package models

import (
	"strings"
	"time"
)

// PostAction is a post-related action that can be narrowed per scope.
type PostAction string

const (
	// PostActionPost covers creating a post of the given type.
	PostActionPost PostAction = "post"
	// PostActionRead covers reading posts of the given type.
	PostActionRead PostAction = "read"
	// PostActionViewAuthor covers seeing who authored a post.
	PostActionViewAuthor PostAction = "view_author"
)

// ValidPostAction reports whether a is one of the known post actions.
func ValidPostAction(a PostAction) bool {
	switch a {
	case PostActionPost, PostActionRead, PostActionViewAuthor:
		return true
	}
	return false
}

// ScopePostPermission narrows which roles may perform a post action for a
// post type within a scope. Absence of a row means the role-tier default
// applies; a row can only revoke, never widen beyond the baseline.
type ScopePostPermission struct {
	ScopeID  uint       `gorm:"primaryKey;autoIncrement:false" json:"scope_id"`
	Scope    *Scope     `gorm:"foreignKey:ScopeID" json:"scope,omitempty"`
	Action   PostAction `gorm:"primaryKey;type:varchar(20)" json:"action"`
	PostType PostType   `gorm:"primaryKey;type:varchar(10)" json:"post_type"`
	// Roles holds the explicitly permitted roles as a comma-separated list.
	Roles     string    `gorm:"size:40;not null" json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ScopePostPermission) TableName() string {
	return "scope_post_permissions"
}

// AllowedRoles returns the permitted roles parsed from the stored list.
func (p *ScopePostPermission) AllowedRoles() []Role {
	parts := strings.Split(p.Roles, ",")
	roles := make([]Role, 0, len(parts))
	for _, part := range parts {
		r := Role(strings.TrimSpace(part))
		if ValidRole(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// SetAllowedRoles stores the permitted roles as a comma-separated list.
func (p *ScopePostPermission) SetAllowedRoles(roles []Role) {
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		parts = append(parts, string(r))
	}
	p.Roles = strings.Join(parts, ",")
}

// Allows reports whether r is in the explicitly permitted role set.
func (p *ScopePostPermission) Allows(r Role) bool {
	for _, allowed := range p.AllowedRoles() {
		if allowed == r {
			return true
		}
	}
	return false
}
