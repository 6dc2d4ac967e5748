package models

import "time"

// Collection is a named grouping of items, optionally nested via ParentID and
// optionally exposed read-only under a globally unique public slug.
type Collection struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsPublic    bool      `gorm:"default:false;index" json:"is_public"`
	SlugPublic  *string   `gorm:"type:varchar(255);uniqueIndex" json:"slug_public,omitempty"`
	CoverImage  string    `gorm:"type:varchar(1000)" json:"cover_image,omitempty"`
	ParentID    *uint     `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []Item `gorm:"many2many:collection_items;" json:"items,omitempty"`
}

type CollectionItem struct {
	CollectionID uint      `gorm:"primaryKey" json:"collection_id"`
	ItemID       uint      `gorm:"primaryKey" json:"item_id"`
	CreatedAt    time.Time `json:"created_at"`
}
