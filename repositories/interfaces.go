package repositories

import (
	"context"
	"time"

	"stashbox/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	CountByEmail(ctx context.Context, email string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uint) (models.User, error)
}

type UsageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, usage *models.UserUsage) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID uint) (models.UserUsage, error)
	AddStorageUsed(ctx context.Context, tx *gorm.DB, userID uint, delta int64) error
	AddItemCount(ctx context.Context, tx *gorm.DB, userID uint, delta int64) error
	AddCollectionCount(ctx context.Context, tx *gorm.DB, userID uint, delta int64) error
}

type ItemFilter struct {
	UserID     uint
	Type       string
	Category   string
	Project    string
	Domain     string
	Importance string
	IsPinned   *bool
	TagIDs     []uint
	Search     string
}

type ListItemsInput struct {
	Filter ItemFilter
	SortBy string
	Order  string
	Offset int
	Limit  int
}

type ItemRepository interface {
	Create(ctx context.Context, tx *gorm.DB, item *models.Item) error
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, itemID uint, userID uint, preload bool) (models.Item, error)
	GetByID(ctx context.Context, tx *gorm.DB, itemID uint, preload bool) (models.Item, error)
	Count(ctx context.Context, tx *gorm.DB, filter ItemFilter) (int64, error)
	List(ctx context.Context, tx *gorm.DB, in ListItemsInput) ([]models.Item, error)
	UpdateByIDAndUser(ctx context.Context, tx *gorm.DB, itemID uint, userID uint, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, itemID uint) error
}

type ItemFileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, link *models.ItemFile) error
	ListByItem(ctx context.Context, tx *gorm.DB, itemID uint, preloadFile bool) ([]models.ItemFile, error)
	GetByItemAndFile(ctx context.Context, tx *gorm.DB, itemID uint, fileID uint) (models.ItemFile, error)
	Update(ctx context.Context, tx *gorm.DB, itemID uint, fileID uint, updates map[string]interface{}) error
	ClearPrimary(ctx context.Context, tx *gorm.DB, itemID uint) error
	DeleteByItemAndFile(ctx context.Context, tx *gorm.DB, itemID uint, fileID uint) error
	DeleteByItem(ctx context.Context, tx *gorm.DB, itemID uint) error
	CountByFile(ctx context.Context, tx *gorm.DB, fileID uint) (int64, error)
}

type ItemTagRepository interface {
	// Attach is idempotent: attaching an already linked tag is a no-op.
	Attach(ctx context.Context, tx *gorm.DB, itemID uint, tagID uint) error
	DeleteByItem(ctx context.Context, tx *gorm.DB, itemID uint) error
	DeleteByTag(ctx context.Context, tx *gorm.DB, tagID uint) error
}

type TagRepository interface {
	Create(ctx context.Context, tx *gorm.DB, tag *models.Tag) error
	GetByID(ctx context.Context, tx *gorm.DB, tagID uint) (models.Tag, error)
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, tagID uint, userID uint) (models.Tag, error)
	GetByIDsAndUser(ctx context.Context, tx *gorm.DB, userID uint, tagIDs []uint) ([]models.Tag, error)
	GetByNameAndUser(ctx context.Context, tx *gorm.DB, userID uint, name string) (models.Tag, error)
	GetByNameFoldAndUser(ctx context.Context, tx *gorm.DB, userID uint, name string) (models.Tag, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]models.Tag, error)
	CountByNameAndUser(ctx context.Context, tx *gorm.DB, userID uint, name string, excludeID uint) (int64, error)
	UpdateByIDAndUser(ctx context.Context, tx *gorm.DB, tagID uint, userID uint, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, tagID uint) error
}

type FileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, file *models.StoredFile) error
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, fileID uint, userID uint) (models.StoredFile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uint) ([]models.StoredFile, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uint) error
	// ListOrphans returns files no item references anymore, created before the
	// cutoff. Used by the cleanup sweeper.
	ListOrphans(ctx context.Context, tx *gorm.DB, before time.Time, limit int) ([]models.StoredFile, error)
}

type CollectionFilter struct {
	UserID   uint
	Search   string
	IsPublic *bool
	ParentID *uint
}

type CollectionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, collection *models.Collection) error
	GetByID(ctx context.Context, tx *gorm.DB, collectionID uint) (models.Collection, error)
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, collectionID uint, userID uint, preloadItems bool) (models.Collection, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (models.Collection, error)
	List(ctx context.Context, tx *gorm.DB, filter CollectionFilter) ([]models.Collection, error)
	CountBySlug(ctx context.Context, tx *gorm.DB, slug string, excludeID uint) (int64, error)
	UpdateByIDAndUser(ctx context.Context, tx *gorm.DB, collectionID uint, userID uint, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, collectionID uint) error
}

type CollectionItemRepository interface {
	// Attach reports whether a membership row was actually created.
	Attach(ctx context.Context, tx *gorm.DB, collectionID uint, itemID uint) (bool, error)
	// Detach reports whether a membership row was actually removed.
	Detach(ctx context.Context, tx *gorm.DB, collectionID uint, itemID uint) (bool, error)
	DeleteByCollection(ctx context.Context, tx *gorm.DB, collectionID uint) error
	DeleteByItem(ctx context.Context, tx *gorm.DB, itemID uint) error
}

type SharedLinkFilter struct {
	UserID  uint
	ItemID  uint
	Revoked *bool
}

type SharedLinkRepository interface {
	Create(ctx context.Context, tx *gorm.DB, link *models.SharedLink) error
	GetByID(ctx context.Context, tx *gorm.DB, linkID uint) (models.SharedLink, error)
	GetByToken(ctx context.Context, tx *gorm.DB, token string) (models.SharedLink, error)
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, linkID uint, userID uint) (models.SharedLink, error)
	ListByUser(ctx context.Context, tx *gorm.DB, filter SharedLinkFilter) ([]models.SharedLink, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, linkID uint, updates map[string]interface{}) error
	IncrementAccessCount(ctx context.Context, tx *gorm.DB, linkID uint) error
	DeleteByID(ctx context.Context, tx *gorm.DB, linkID uint) error
	DeleteByItem(ctx context.Context, tx *gorm.DB, itemID uint) error
	ListExpiredBefore(ctx context.Context, tx *gorm.DB, before time.Time) ([]models.SharedLink, error)
	CreateAccessLog(ctx context.Context, tx *gorm.DB, entry *models.ShareAccessLog) error
}

// ShareThrottleRepository limits wrong-password attempts on public share
// access. Backed by Redis; counters carry their own TTL.
type ShareThrottleRepository interface {
	Failures(ctx context.Context, token string, ip string) (int64, error)
	RegisterFailure(ctx context.Context, token string, ip string, lockSeconds int) (int64, error)
	Reset(ctx context.Context, token string, ip string) error
}

type Container struct {
	TxManager       TxManager
	Users           UserRepository
	Usage           UsageRepository
	Items           ItemRepository
	ItemFiles       ItemFileRepository
	ItemTags        ItemTagRepository
	Files           FileRepository
	Tags            TagRepository
	Collections     CollectionRepository
	CollectionItems CollectionItemRepository
	SharedLinks     SharedLinkRepository
	ShareThrottle   ShareThrottleRepository
}
