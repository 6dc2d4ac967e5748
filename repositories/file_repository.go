package repositories

import (
	"context"
	"time"

	"stashbox/models"

	"gorm.io/gorm"
)

type GormFileRepository struct {
	db *gorm.DB
}

func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

func (r *GormFileRepository) Create(_ context.Context, tx *gorm.DB, file *models.StoredFile) error {
	return useTx(r.db, tx).Create(file).Error
}

func (r *GormFileRepository) GetByIDAndUser(_ context.Context, tx *gorm.DB, fileID uint, userID uint) (models.StoredFile, error) {
	var file models.StoredFile
	err := useTx(r.db, tx).Where("id = ? AND user_id = ?", fileID, userID).First(&file).Error
	return file, err
}

func (r *GormFileRepository) GetByIDs(_ context.Context, tx *gorm.DB, fileIDs []uint) ([]models.StoredFile, error) {
	var files []models.StoredFile
	err := useTx(r.db, tx).Where("id IN ?", fileIDs).Find(&files).Error
	return files, err
}

func (r *GormFileRepository) DeleteByIDs(_ context.Context, tx *gorm.DB, fileIDs []uint) error {
	if len(fileIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Where("id IN ?", fileIDs).Delete(&models.StoredFile{}).Error
}

func (r *GormFileRepository) ListOrphans(_ context.Context, tx *gorm.DB, before time.Time, limit int) ([]models.StoredFile, error) {
	var files []models.StoredFile
	err := useTx(r.db, tx).
		Where("created_at < ?", before).
		Where("NOT EXISTS (SELECT 1 FROM item_files WHERE item_files.file_id = stored_files.id)").
		Limit(limit).
		Find(&files).Error
	return files, err
}
