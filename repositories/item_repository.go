package repositories

import (
	"context"
	"strings"

	"stashbox/models"

	"gorm.io/gorm"
)

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) applyFilter(db *gorm.DB, f ItemFilter) *gorm.DB {
	query := db.Where("items.user_id = ?", f.UserID)
	if f.Type != "" {
		query = query.Where("items.type = ?", f.Type)
	}
	if f.Category != "" {
		query = query.Where("items.category = ?", f.Category)
	}
	if f.Project != "" {
		query = query.Where("items.project = ?", f.Project)
	}
	if f.Domain != "" {
		query = query.Where("items.domain = ?", f.Domain)
	}
	if f.Importance != "" {
		query = query.Where("items.importance = ?", f.Importance)
	}
	if f.IsPinned != nil {
		query = query.Where("items.is_pinned = ?", *f.IsPinned)
	}
	if len(f.TagIDs) > 0 {
		// AND semantics: the item must carry every listed tag.
		query = query.Where(
			"(SELECT COUNT(DISTINCT it.tag_id) FROM item_tags it WHERE it.item_id = items.id AND it.tag_id IN ?) = ?",
			f.TagIDs, len(f.TagIDs),
		)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where(
			"(items.title LIKE ? OR items.description LIKE ? OR EXISTS ("+
				"SELECT 1 FROM item_tags it JOIN tags t ON t.id = it.tag_id "+
				"WHERE it.item_id = items.id AND t.name LIKE ?))",
			like, like, like,
		)
	}
	return query
}

func (r *GormItemRepository) Count(_ context.Context, tx *gorm.DB, filter ItemFilter) (int64, error) {
	var total int64
	err := r.applyFilter(useTx(r.db, tx).Model(&models.Item{}), filter).Count(&total).Error
	return total, err
}

var itemSortColumns = map[string]string{
	"created_at": "items.created_at",
	"updated_at": "items.updated_at",
	"title":      "items.title",
}

const importanceRankExpr = "CASE items.importance " +
	"WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 WHEN 'HIGH' THEN 2 WHEN 'URGENT' THEN 3 ELSE 1 END"

func (r *GormItemRepository) List(_ context.Context, tx *gorm.DB, in ListItemsInput) ([]models.Item, error) {
	query := r.applyFilter(useTx(r.db, tx).Model(&models.Item{}), in.Filter).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("item_files.position ASC") }).
		Preload("Files.File").
		Preload("Tags")

	order := strings.ToUpper(in.Order)
	if order != "ASC" {
		order = "DESC"
	}

	sortCol := itemSortColumns[in.SortBy]
	switch {
	case in.SortBy == "importance":
		sortCol = importanceRankExpr
	case sortCol == "":
		sortCol = itemSortColumns["created_at"]
	}

	var items []models.Item
	err := query.Order(sortCol + " " + order).Order("items.id " + order).
		Offset(in.Offset).Limit(in.Limit).Find(&items).Error
	return items, err
}

func (r *GormItemRepository) Create(_ context.Context, tx *gorm.DB, item *models.Item) error {
	return useTx(r.db, tx).Omit("Files", "Tags").Create(item).Error
}

func (r *GormItemRepository) getOne(db *gorm.DB, preload bool, conds ...interface{}) (models.Item, error) {
	if preload {
		db = db.Preload("Files", func(q *gorm.DB) *gorm.DB { return q.Order("item_files.position ASC") }).
			Preload("Files.File").
			Preload("Tags")
	}
	var item models.Item
	err := db.First(&item, conds...).Error
	return item, err
}

func (r *GormItemRepository) GetByIDAndUser(_ context.Context, tx *gorm.DB, itemID uint, userID uint, preload bool) (models.Item, error) {
	return r.getOne(useTx(r.db, tx), preload, "id = ? AND user_id = ?", itemID, userID)
}

func (r *GormItemRepository) GetByID(_ context.Context, tx *gorm.DB, itemID uint, preload bool) (models.Item, error) {
	return r.getOne(useTx(r.db, tx), preload, "id = ?", itemID)
}

func (r *GormItemRepository) UpdateByIDAndUser(_ context.Context, tx *gorm.DB, itemID uint, userID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Item{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Updates(updates).Error
}

func (r *GormItemRepository) DeleteByID(_ context.Context, tx *gorm.DB, itemID uint) error {
	return useTx(r.db, tx).Delete(&models.Item{}, itemID).Error
}

type GormItemFileRepository struct {
	db *gorm.DB
}

func NewGormItemFileRepository(db *gorm.DB) *GormItemFileRepository {
	return &GormItemFileRepository{db: db}
}

func (r *GormItemFileRepository) Create(_ context.Context, tx *gorm.DB, link *models.ItemFile) error {
	return useTx(r.db, tx).Create(link).Error
}

func (r *GormItemFileRepository) ListByItem(_ context.Context, tx *gorm.DB, itemID uint, preloadFile bool) ([]models.ItemFile, error) {
	db := useTx(r.db, tx)
	if preloadFile {
		db = db.Preload("File")
	}
	var links []models.ItemFile
	err := db.Where("item_id = ?", itemID).Order("position ASC").Find(&links).Error
	return links, err
}

func (r *GormItemFileRepository) GetByItemAndFile(_ context.Context, tx *gorm.DB, itemID uint, fileID uint) (models.ItemFile, error) {
	var link models.ItemFile
	err := useTx(r.db, tx).Where("item_id = ? AND file_id = ?", itemID, fileID).First(&link).Error
	return link, err
}

func (r *GormItemFileRepository) Update(_ context.Context, tx *gorm.DB, itemID uint, fileID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.ItemFile{}).
		Where("item_id = ? AND file_id = ?", itemID, fileID).
		Updates(updates).Error
}

func (r *GormItemFileRepository) ClearPrimary(_ context.Context, tx *gorm.DB, itemID uint) error {
	return useTx(r.db, tx).Model(&models.ItemFile{}).
		Where("item_id = ?", itemID).
		Update("is_primary", false).Error
}

func (r *GormItemFileRepository) DeleteByItemAndFile(_ context.Context, tx *gorm.DB, itemID uint, fileID uint) error {
	return useTx(r.db, tx).Where("item_id = ? AND file_id = ?", itemID, fileID).Delete(&models.ItemFile{}).Error
}

func (r *GormItemFileRepository) DeleteByItem(_ context.Context, tx *gorm.DB, itemID uint) error {
	return useTx(r.db, tx).Where("item_id = ?", itemID).Delete(&models.ItemFile{}).Error
}

func (r *GormItemFileRepository) CountByFile(_ context.Context, tx *gorm.DB, fileID uint) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.ItemFile{}).Where("file_id = ?", fileID).Count(&count).Error
	return count, err
}

type GormItemTagRepository struct {
	db *gorm.DB
}

func NewGormItemTagRepository(db *gorm.DB) *GormItemTagRepository {
	return &GormItemTagRepository{db: db}
}

func (r *GormItemTagRepository) Attach(_ context.Context, tx *gorm.DB, itemID uint, tagID uint) error {
	link := models.ItemTag{ItemID: itemID, TagID: tagID}
	return useTx(r.db, tx).
		Where("item_id = ? AND tag_id = ?", itemID, tagID).
		FirstOrCreate(&link).Error
}

func (r *GormItemTagRepository) DeleteByItem(_ context.Context, tx *gorm.DB, itemID uint) error {
	return useTx(r.db, tx).Where("item_id = ?", itemID).Delete(&models.ItemTag{}).Error
}

func (r *GormItemTagRepository) DeleteByTag(_ context.Context, tx *gorm.DB, tagID uint) error {
	return useTx(r.db, tx).Where("tag_id = ?", tagID).Delete(&models.ItemTag{}).Error
}
