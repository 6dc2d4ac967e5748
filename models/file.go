package models

import "time"

// StoredFile is one stored blob. StorageKey is immutable after creation; the
// same row may be attached to several items, the object on disk is removed
// only once no item_files row references it.
type StoredFile struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	StorageKey   string    `gorm:"type:varchar(1000);uniqueIndex:idx_storage_key,length:255;not null" json:"storage_key"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	MimeType     string    `gorm:"type:varchar(100)" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	Checksum     string    `gorm:"type:varchar(32);index" json:"checksum"`
	ThumbnailKey string    `gorm:"type:varchar(1000)" json:"thumbnail_key"`
	IsImage      bool      `gorm:"default:false" json:"is_image"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
