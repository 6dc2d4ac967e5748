package repositories

import (
	"context"

	"stashbox/models"

	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CountByEmail(_ context.Context, email string) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) Create(_ context.Context, tx *gorm.DB, user *models.User) error {
	return useTx(r.db, tx).Create(user).Error
}

func (r *GormUserRepository) GetByEmail(_ context.Context, tx *gorm.DB, email string) (models.User, error) {
	var user models.User
	err := useTx(r.db, tx).Where("email = ?", email).First(&user).Error
	return user, err
}

func (r *GormUserRepository) GetByID(_ context.Context, tx *gorm.DB, userID uint) (models.User, error) {
	var user models.User
	err := useTx(r.db, tx).First(&user, userID).Error
	return user, err
}

type GormUsageRepository struct {
	db *gorm.DB
}

func NewGormUsageRepository(db *gorm.DB) *GormUsageRepository {
	return &GormUsageRepository{db: db}
}

func (r *GormUsageRepository) Create(_ context.Context, tx *gorm.DB, usage *models.UserUsage) error {
	return useTx(r.db, tx).Create(usage).Error
}

func (r *GormUsageRepository) GetByUser(_ context.Context, tx *gorm.DB, userID uint) (models.UserUsage, error) {
	var usage models.UserUsage
	err := useTx(r.db, tx).Where("user_id = ?", userID).First(&usage).Error
	return usage, err
}

func (r *GormUsageRepository) addCounter(tx *gorm.DB, userID uint, column string, delta int64) error {
	db := useTx(r.db, tx)
	if delta < 0 {
		return db.Model(&models.UserUsage{}).Where("user_id = ?", userID).
			UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta)).Error
	}
	return db.Model(&models.UserUsage{}).Where("user_id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func (r *GormUsageRepository) AddStorageUsed(_ context.Context, tx *gorm.DB, userID uint, delta int64) error {
	return r.addCounter(tx, userID, "used_storage_bytes", delta)
}

func (r *GormUsageRepository) AddItemCount(_ context.Context, tx *gorm.DB, userID uint, delta int64) error {
	return r.addCounter(tx, userID, "item_count", delta)
}

func (r *GormUsageRepository) AddCollectionCount(_ context.Context, tx *gorm.DB, userID uint, delta int64) error {
	return r.addCounter(tx, userID, "collection_count", delta)
}
