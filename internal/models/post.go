package models

import "time"

// PostType classifies pot entries.
type PostType string

const (
	// PostTypeFine charges the recipient into the team pot.
	PostTypeFine PostType = "FINE"
	// PostTypeWin celebrates the recipient.
	PostTypeWin PostType = "WIN"
	// PostTypePayment records a settled amount against the pot.
	PostTypePayment PostType = "PAYMENT"
)

// ValidPostType reports whether t is one of the known post types.
func ValidPostType(t PostType) bool {
	switch t {
	case PostTypeFine, PostTypeWin, PostTypePayment:
		return true
	}
	return false
}

// Post is a fine, win, or payment entry addressed to a scope member.
type Post struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	ScopeID     uint     `gorm:"not null;index" json:"scope_id"`
	Scope       *Scope   `gorm:"foreignKey:ScopeID" json:"scope,omitempty"`
	Type        PostType `gorm:"type:varchar(10);not null;index" json:"type"`
	AuthorID    uint     `gorm:"not null;index" json:"author_id"`
	Author      *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	RecipientID uint     `gorm:"not null;index" json:"recipient_id"`
	Recipient   *User    `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	AmountCents int      `gorm:"not null;default:0" json:"amount_cents"`
	Note        string   `gorm:"type:text" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}
