package models

import "time"

// SharedLink is a token-addressable public view of one item. Token is
// generated once and never changes; the only forward transitions are
// active -> revoked (soft) and active -> deleted (hard).
type SharedLink struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	ItemID       uint      `gorm:"not null;index" json:"item_id"`
	Token        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`
	Revoked      bool      `gorm:"default:false;index" json:"revoked"`
	AccessCount  int64     `gorm:"default:0" json:"access_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Item Item `gorm:"foreignKey:ItemID" json:"-"`
}

func (l SharedLink) HasPassword() bool {
	return l.PasswordHash != ""
}

func (l SharedLink) ExpiredAt(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// ShareAccessLog records public access attempts for owner-side analytics.
type ShareAccessLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SharedLinkID uint      `gorm:"not null;index" json:"shared_link_id"`
	IPAddress    string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent    string    `gorm:"type:varchar(500)" json:"user_agent"`
	Granted      bool      `gorm:"not null" json:"granted"`
	AccessTime   time.Time `gorm:"index;autoCreateTime" json:"access_time"`
}
