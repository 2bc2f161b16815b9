package model

import "time"

// Category groups posts. Name and slug are both unique among categories.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:80;not null;uniqueIndex"`
	Slug      string    `json:"slug" gorm:"size:80;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}
