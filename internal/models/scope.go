// Package models contains data structures for the application's domain models.
package models

import "time"

// ScopeKind discriminates root spaces from their child teams.
type ScopeKind string

const (
	// ScopeKindSpace is a root container. Spaces never have a parent.
	ScopeKindSpace ScopeKind = "SPACE"
	// ScopeKindTeam is a child container. Teams always belong to a space.
	ScopeKindTeam ScopeKind = "TEAM"
)

// Scope is a named container of membership and content: a space or a team.
type Scope struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:120;not null" json:"name"`
	Slug          string    `gorm:"size:24;not null;uniqueIndex" json:"slug"`
	Kind          ScopeKind `gorm:"type:varchar(10);not null;index" json:"kind"`
	ParentScopeID *uint     `gorm:"index" json:"parent_scope_id,omitempty"`
	ParentScope   *Scope    `gorm:"foreignKey:ParentScopeID" json:"parent_scope,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Scope) TableName() string {
	return "scopes"
}

// IsSpace reports whether the scope is a root space.
func (s *Scope) IsSpace() bool {
	return s.Kind == ScopeKindSpace
}
