package models

import "time"

type ItemType string

const (
	ItemTypeFile ItemType = "FILE"
	ItemTypeLink ItemType = "LINK"
	ItemTypeNote ItemType = "NOTE"
)

type Importance string

const (
	ImportanceLow    Importance = "LOW"
	ImportanceMedium Importance = "MEDIUM"
	ImportanceHigh   Importance = "HIGH"
	ImportanceUrgent Importance = "URGENT"
)

// ImportanceRank gives the explicit sort order LOW < MEDIUM < HIGH < URGENT.
func ImportanceRank(i Importance) int {
	switch i {
	case ImportanceLow:
		return 0
	case ImportanceMedium:
		return 1
	case ImportanceHigh:
		return 2
	case ImportanceUrgent:
		return 3
	}
	return -1
}

func ValidImportance(i Importance) bool {
	return ImportanceRank(i) >= 0
}

func ValidItemType(t ItemType) bool {
	return t == ItemTypeFile || t == ItemTypeLink || t == ItemTypeNote
}

// Item is a user's unit of saved content. Type is immutable; URL is set only
// for LINK, Content only for NOTE, attached files only for FILE. The item
// service is the single chokepoint enforcing that.
type Item struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Type        ItemType   `gorm:"type:varchar(10);not null;index" json:"type"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Category    string     `gorm:"type:varchar(100);index" json:"category,omitempty"`
	Project     string     `gorm:"type:varchar(100);index" json:"project,omitempty"`
	Importance  Importance `gorm:"type:varchar(10);default:MEDIUM;index" json:"importance"`
	IsPinned    bool       `gorm:"default:false;index" json:"is_pinned"`
	URL         string     `gorm:"type:varchar(2000)" json:"url,omitempty"`
	Domain      string     `gorm:"type:varchar(255);index" json:"domain,omitempty"`
	Content     string     `gorm:"type:longtext" json:"content,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Files []ItemFile `gorm:"foreignKey:ItemID" json:"files,omitempty"`
	Tags  []Tag      `gorm:"many2many:item_tags;" json:"tags,omitempty"`
}

// ItemFile attaches a stored file to an item. Position defines display order
// within the item; at most one row per item has IsPrimary set.
type ItemFile struct {
	ItemID    uint      `gorm:"primaryKey" json:"item_id"`
	FileID    uint      `gorm:"primaryKey" json:"file_id"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	Position  int       `gorm:"not null;index:idx_item_position" json:"position"`
	CreatedAt time.Time `json:"created_at"`

	File StoredFile `gorm:"foreignKey:FileID" json:"file"`
}
