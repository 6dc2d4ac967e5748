package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"type:varchar(255);not null" json:"-"`
	Role            Role      `gorm:"type:varchar(10);default:USER" json:"role"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	IsEmailVerified bool      `gorm:"default:false" json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserUsage tracks per-user resource counters against their limits.
// Counters are updated in the same transaction as the mutation they account for.
type UserUsage struct {
	UserID           uint      `gorm:"primaryKey" json:"user_id"`
	UsedStorageBytes int64     `gorm:"default:0" json:"used_storage_bytes"`
	MaxStorageBytes  int64     `gorm:"not null" json:"max_storage_bytes"`
	ItemCount        int64     `gorm:"default:0" json:"item_count"`
	MaxItems         int64     `gorm:"not null" json:"max_items"`
	CollectionCount  int64     `gorm:"default:0" json:"collection_count"`
	MaxCollections   int64     `gorm:"not null" json:"max_collections"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (UserUsage) TableName() string {
	return "user_usage"
}
