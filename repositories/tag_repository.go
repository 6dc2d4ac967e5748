package repositories

import (
	"context"

	"stashbox/models"

	"gorm.io/gorm"
)

type GormTagRepository struct {
	db *gorm.DB
}

func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

func (r *GormTagRepository) Create(_ context.Context, tx *gorm.DB, tag *models.Tag) error {
	return useTx(r.db, tx).Create(tag).Error
}

func (r *GormTagRepository) GetByID(_ context.Context, tx *gorm.DB, tagID uint) (models.Tag, error) {
	var tag models.Tag
	err := useTx(r.db, tx).First(&tag, tagID).Error
	return tag, err
}

func (r *GormTagRepository) GetByIDAndUser(_ context.Context, tx *gorm.DB, tagID uint, userID uint) (models.Tag, error) {
	var tag models.Tag
	err := useTx(r.db, tx).Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error
	return tag, err
}

func (r *GormTagRepository) GetByIDsAndUser(_ context.Context, tx *gorm.DB, userID uint, tagIDs []uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := useTx(r.db, tx).Where("user_id = ? AND id IN ?", userID, tagIDs).Find(&tags).Error
	return tags, err
}

func (r *GormTagRepository) GetByNameAndUser(_ context.Context, tx *gorm.DB, userID uint, name string) (models.Tag, error) {
	var tag models.Tag
	err := useTx(r.db, tx).Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
	return tag, err
}

// GetByNameFoldAndUser matches case-insensitively; used when reusing tags
// named during item create/update.
func (r *GormTagRepository) GetByNameFoldAndUser(_ context.Context, tx *gorm.DB, userID uint, name string) (models.Tag, error) {
	var tag models.Tag
	err := useTx(r.db, tx).Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).First(&tag).Error
	return tag, err
}

func (r *GormTagRepository) ListByUser(_ context.Context, tx *gorm.DB, userID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := useTx(r.db, tx).Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *GormTagRepository) CountByNameAndUser(_ context.Context, tx *gorm.DB, userID uint, name string, excludeID uint) (int64, error) {
	query := useTx(r.db, tx).Model(&models.Tag{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *GormTagRepository) UpdateByIDAndUser(_ context.Context, tx *gorm.DB, tagID uint, userID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Tag{}).
		Where("id = ? AND user_id = ?", tagID, userID).
		Updates(updates).Error
}

func (r *GormTagRepository) DeleteByID(_ context.Context, tx *gorm.DB, tagID uint) error {
	return useTx(r.db, tx).Delete(&models.Tag{}, tagID).Error
}
