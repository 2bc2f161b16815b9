package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is a publication written by a user, filed under exactly one category,
// optionally labeled with tags. Name and slug are unique among posts.
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:80;not null;uniqueIndex"`
	Slug        string    `json:"slug" gorm:"size:80;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text;not null"`
	AuthorID    uuid.UUID `json:"author_id" gorm:"type:char(36);not null;index"`
	CategoryID  uint      `json:"category_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Author   User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags     []Tag    `json:"tags,omitempty" gorm:"many2many:posts_tags"`
}
