package repositories

import (
	"context"
	"errors"

	"stashbox/models"

	"gorm.io/gorm"
)

type GormCollectionRepository struct {
	db *gorm.DB
}

func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

func (r *GormCollectionRepository) Create(_ context.Context, tx *gorm.DB, collection *models.Collection) error {
	return useTx(r.db, tx).Omit("Items").Create(collection).Error
}

func (r *GormCollectionRepository) GetByID(_ context.Context, tx *gorm.DB, collectionID uint) (models.Collection, error) {
	var collection models.Collection
	err := useTx(r.db, tx).First(&collection, collectionID).Error
	return collection, err
}

func (r *GormCollectionRepository) GetByIDAndUser(_ context.Context, tx *gorm.DB, collectionID uint, userID uint, preloadItems bool) (models.Collection, error) {
	db := useTx(r.db, tx)
	if preloadItems {
		db = db.Preload("Items").Preload("Items.Tags")
	}
	var collection models.Collection
	err := db.Where("id = ? AND user_id = ?", collectionID, userID).First(&collection).Error
	return collection, err
}

func (r *GormCollectionRepository) GetBySlug(_ context.Context, tx *gorm.DB, slug string) (models.Collection, error) {
	var collection models.Collection
	err := useTx(r.db, tx).
		Where("slug_public = ? AND is_public = ?", slug, true).
		Preload("Items").
		First(&collection).Error
	return collection, err
}

func (r *GormCollectionRepository) List(_ context.Context, tx *gorm.DB, filter CollectionFilter) ([]models.Collection, error) {
	query := useTx(r.db, tx).Where("user_id = ?", filter.UserID)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(name LIKE ? OR description LIKE ?)", like, like)
	}
	if filter.IsPublic != nil {
		query = query.Where("is_public = ?", *filter.IsPublic)
	}
	if filter.ParentID != nil {
		if *filter.ParentID == 0 {
			query = query.Where("parent_id IS NULL")
		} else {
			query = query.Where("parent_id = ?", *filter.ParentID)
		}
	}
	var collections []models.Collection
	err := query.Order("name ASC").Find(&collections).Error
	return collections, err
}

func (r *GormCollectionRepository) CountBySlug(_ context.Context, tx *gorm.DB, slug string, excludeID uint) (int64, error) {
	query := useTx(r.db, tx).Model(&models.Collection{}).Where("slug_public = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *GormCollectionRepository) UpdateByIDAndUser(_ context.Context, tx *gorm.DB, collectionID uint, userID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Collection{}).
		Where("id = ? AND user_id = ?", collectionID, userID).
		Updates(updates).Error
}

func (r *GormCollectionRepository) DeleteByID(_ context.Context, tx *gorm.DB, collectionID uint) error {
	return useTx(r.db, tx).Delete(&models.Collection{}, collectionID).Error
}

type GormCollectionItemRepository struct {
	db *gorm.DB
}

func NewGormCollectionItemRepository(db *gorm.DB) *GormCollectionItemRepository {
	return &GormCollectionItemRepository{db: db}
}

func (r *GormCollectionItemRepository) Attach(_ context.Context, tx *gorm.DB, collectionID uint, itemID uint) (bool, error) {
	db := useTx(r.db, tx)
	var existing models.CollectionItem
	err := db.Where("collection_id = ? AND item_id = ?", collectionID, itemID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	link := models.CollectionItem{CollectionID: collectionID, ItemID: itemID}
	if err := db.Create(&link).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *GormCollectionItemRepository) Detach(_ context.Context, tx *gorm.DB, collectionID uint, itemID uint) (bool, error) {
	result := useTx(r.db, tx).
		Where("collection_id = ? AND item_id = ?", collectionID, itemID).
		Delete(&models.CollectionItem{})
	return result.RowsAffected > 0, result.Error
}

func (r *GormCollectionItemRepository) DeleteByCollection(_ context.Context, tx *gorm.DB, collectionID uint) error {
	return useTx(r.db, tx).Where("collection_id = ?", collectionID).Delete(&models.CollectionItem{}).Error
}

func (r *GormCollectionItemRepository) DeleteByItem(_ context.Context, tx *gorm.DB, itemID uint) error {
	return useTx(r.db, tx).Where("item_id = ?", itemID).Delete(&models.CollectionItem{}).Error
}
