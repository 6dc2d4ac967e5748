package repositories

import (
	"context"
	"time"

	"stashbox/models"

	"gorm.io/gorm"
)

type GormSharedLinkRepository struct {
	db *gorm.DB
}

func NewGormSharedLinkRepository(db *gorm.DB) *GormSharedLinkRepository {
	return &GormSharedLinkRepository{db: db}
}

func (r *GormSharedLinkRepository) Create(_ context.Context, tx *gorm.DB, link *models.SharedLink) error {
	return useTx(r.db, tx).Create(link).Error
}

func (r *GormSharedLinkRepository) GetByID(_ context.Context, tx *gorm.DB, linkID uint) (models.SharedLink, error) {
	var link models.SharedLink
	err := useTx(r.db, tx).First(&link, linkID).Error
	return link, err
}

func (r *GormSharedLinkRepository) GetByToken(_ context.Context, tx *gorm.DB, token string) (models.SharedLink, error) {
	var link models.SharedLink
	err := useTx(r.db, tx).Where("token = ?", token).First(&link).Error
	return link, err
}

func (r *GormSharedLinkRepository) GetByIDAndUser(_ context.Context, tx *gorm.DB, linkID uint, userID uint) (models.SharedLink, error) {
	var link models.SharedLink
	err := useTx(r.db, tx).Where("id = ? AND user_id = ?", linkID, userID).First(&link).Error
	return link, err
}

func (r *GormSharedLinkRepository) ListByUser(_ context.Context, tx *gorm.DB, filter SharedLinkFilter) ([]models.SharedLink, error) {
	query := useTx(r.db, tx).Where("user_id = ?", filter.UserID)
	if filter.ItemID > 0 {
		query = query.Where("item_id = ?", filter.ItemID)
	}
	if filter.Revoked != nil {
		query = query.Where("revoked = ?", *filter.Revoked)
	}
	var links []models.SharedLink
	err := query.Order("created_at DESC").Find(&links).Error
	return links, err
}

func (r *GormSharedLinkRepository) UpdateByID(_ context.Context, tx *gorm.DB, linkID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.SharedLink{}).Where("id = ?", linkID).Updates(updates).Error
}

func (r *GormSharedLinkRepository) IncrementAccessCount(_ context.Context, tx *gorm.DB, linkID uint) error {
	return useTx(r.db, tx).Model(&models.SharedLink{}).
		Where("id = ?", linkID).
		UpdateColumn("access_count", gorm.Expr("access_count + 1")).Error
}

func (r *GormSharedLinkRepository) DeleteByID(_ context.Context, tx *gorm.DB, linkID uint) error {
	return useTx(r.db, tx).Delete(&models.SharedLink{}, linkID).Error
}

func (r *GormSharedLinkRepository) DeleteByItem(_ context.Context, tx *gorm.DB, itemID uint) error {
	return useTx(r.db, tx).Where("item_id = ?", itemID).Delete(&models.SharedLink{}).Error
}

func (r *GormSharedLinkRepository) ListExpiredBefore(_ context.Context, tx *gorm.DB, before time.Time) ([]models.SharedLink, error) {
	var links []models.SharedLink
	err := useTx(r.db, tx).Where("expires_at < ?", before).Find(&links).Error
	return links, err
}

func (r *GormSharedLinkRepository) CreateAccessLog(_ context.Context, tx *gorm.DB, entry *models.ShareAccessLog) error {
	return useTx(r.db, tx).Create(entry).Error
}
