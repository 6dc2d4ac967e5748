package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"stashbox/config"
	"stashbox/models"
	"stashbox/repositories"

	"gorm.io/gorm"
)

func setTestConfig() {
	config.AppConfig = &config.Config{
		Storage: config.StorageConfig{
			BasePath:     "/tmp/stashbox-test",
			MaxFileSize:  10 << 20,
			MaxFileCount: 10,
		},
		Quota: config.QuotaConfig{
			DefaultStorageBytes:   1 << 30,
			DefaultMaxItems:       100,
			DefaultMaxCollections: 10,
		},
		Share: config.ShareConfig{
			PublicBaseURL:       "http://localhost:8080",
			DefaultExpireHours:  168,
			MaxExpireHours:      720,
			PasswordMaxAttempts: 3,
			PasswordLockSeconds: 900,
		},
		Thumbnail:  config.ThumbnailConfig{Width: 300, Height: 300, Quality: 80},
		Pagination: config.PaginationConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Cleanup: config.CleanupConfig{
			Enabled:            true,
			IntervalSeconds:    3600,
			ExpiredLinkDays:    30,
			OrphanSweepBatch:   100,
			OrphanGraceMinutes: 60,
		},
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
	}
}

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeUsageRepo struct {
	usages map[uint]*models.UserUsage
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{usages: map[uint]*models.UserUsage{}}
}

func (r *fakeUsageRepo) seed(userID uint) *models.UserUsage {
	usage := &models.UserUsage{
		UserID:          userID,
		MaxStorageBytes: 1 << 30,
		MaxItems:        100,
		MaxCollections:  10,
	}
	r.usages[userID] = usage
	return usage
}

func (r *fakeUsageRepo) Create(_ context.Context, _ *gorm.DB, usage *models.UserUsage) error {
	r.usages[usage.UserID] = usage
	return nil
}

func (r *fakeUsageRepo) GetByUser(_ context.Context, _ *gorm.DB, userID uint) (models.UserUsage, error) {
	usage, ok := r.usages[userID]
	if !ok {
		return models.UserUsage{}, gorm.ErrRecordNotFound
	}
	return *usage, nil
}

func (r *fakeUsageRepo) AddStorageUsed(_ context.Context, _ *gorm.DB, userID uint, delta int64) error {
	if usage, ok := r.usages[userID]; ok {
		usage.UsedStorageBytes += delta
		if usage.UsedStorageBytes < 0 {
			usage.UsedStorageBytes = 0
		}
	}
	return nil
}

func (r *fakeUsageRepo) AddItemCount(_ context.Context, _ *gorm.DB, userID uint, delta int64) error {
	if usage, ok := r.usages[userID]; ok {
		usage.ItemCount += delta
		if usage.ItemCount < 0 {
			usage.ItemCount = 0
		}
	}
	return nil
}

func (r *fakeUsageRepo) AddCollectionCount(_ context.Context, _ *gorm.DB, userID uint, delta int64) error {
	if usage, ok := r.usages[userID]; ok {
		usage.CollectionCount += delta
		if usage.CollectionCount < 0 {
			usage.CollectionCount = 0
		}
	}
	return nil
}

type fakeItemRepo struct {
	items     map[uint]*models.Item
	nextID    uint
	itemFiles *fakeItemFileRepo
	itemTags  *fakeItemTagRepo
	tags      *fakeTagRepo
}

func newFakeItemRepo(itemFiles *fakeItemFileRepo, itemTags *fakeItemTagRepo, tags *fakeTagRepo) *fakeItemRepo {
	return &fakeItemRepo{
		items:     map[uint]*models.Item{},
		nextID:    1,
		itemFiles: itemFiles,
		itemTags:  itemTags,
		tags:      tags,
	}
}

func (r *fakeItemRepo) Create(_ context.Context, _ *gorm.DB, item *models.Item) error {
	if item.ID == 0 {
		item.ID = r.nextID
		r.nextID++
	}
	stored := *item
	stored.Files = nil
	stored.Tags = nil
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeItemRepo) hydrate(item models.Item) models.Item {
	if r.itemFiles != nil {
		item.Files = r.itemFiles.linksFor(item.ID)
	}
	if r.itemTags != nil && r.tags != nil {
		for _, tagID := range r.itemTags.tagsFor(item.ID) {
			if tag, ok := r.tags.tags[tagID]; ok {
				item.Tags = append(item.Tags, *tag)
			}
		}
	}
	return item
}

func (r *fakeItemRepo) GetByIDAndUser(_ context.Context, _ *gorm.DB, itemID uint, userID uint, preload bool) (models.Item, error) {
	item, ok := r.items[itemID]
	if !ok || item.UserID != userID {
		return models.Item{}, gorm.ErrRecordNotFound
	}
	if preload {
		return r.hydrate(*item), nil
	}
	return *item, nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, _ *gorm.DB, itemID uint, preload bool) (models.Item, error) {
	item, ok := r.items[itemID]
	if !ok {
		return models.Item{}, gorm.ErrRecordNotFound
	}
	if preload {
		return r.hydrate(*item), nil
	}
	return *item, nil
}

func (r *fakeItemRepo) matches(item *models.Item, filter repositories.ItemFilter) bool {
	if item.UserID != filter.UserID {
		return false
	}
	if filter.Type != "" && string(item.Type) != filter.Type {
		return false
	}
	if filter.Category != "" && item.Category != filter.Category {
		return false
	}
	if filter.Project != "" && item.Project != filter.Project {
		return false
	}
	if filter.Domain != "" && item.Domain != filter.Domain {
		return false
	}
	if filter.Importance != "" && string(item.Importance) != filter.Importance {
		return false
	}
	if filter.IsPinned != nil && item.IsPinned != *filter.IsPinned {
		return false
	}
	if len(filter.TagIDs) > 0 {
		// AND semantics: the item must carry every listed tag.
		attached := map[uint]bool{}
		if r.itemTags != nil {
			for _, tagID := range r.itemTags.tagsFor(item.ID) {
				attached[tagID] = true
			}
		}
		for _, tagID := range filter.TagIDs {
			if !attached[tagID] {
				return false
			}
		}
	}
	if filter.Search != "" && !strings.Contains(strings.ToLower(item.Title), strings.ToLower(filter.Search)) {
		return false
	}
	return true
}

func (r *fakeItemRepo) Count(_ context.Context, _ *gorm.DB, filter repositories.ItemFilter) (int64, error) {
	var count int64
	for _, item := range r.items {
		if r.matches(item, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeItemRepo) List(_ context.Context, _ *gorm.DB, in repositories.ListItemsInput) ([]models.Item, error) {
	var result []models.Item
	for _, item := range r.items {
		if r.matches(item, in.Filter) {
			result = append(result, r.hydrate(*item))
		}
	}

	compare := func(a, b models.Item) int {
		switch in.SortBy {
		case "importance":
			ra, rb := models.ImportanceRank(a.Importance), models.ImportanceRank(b.Importance)
			if ra < 0 {
				ra = 1
			}
			if rb < 0 {
				rb = 1
			}
			return ra - rb
		case "title":
			return strings.Compare(a.Title, b.Title)
		case "updated_at":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	asc := strings.EqualFold(in.Order, "asc")
	sort.Slice(result, func(i, j int) bool {
		c := compare(result[i], result[j])
		if c == 0 {
			c = int(result[i].ID) - int(result[j].ID)
		}
		if asc {
			return c < 0
		}
		return c > 0
	})

	start := in.Offset
	if start > len(result) {
		start = len(result)
	}
	end := len(result)
	if in.Limit > 0 && start+in.Limit < end {
		end = start + in.Limit
	}
	return result[start:end], nil
}

func (r *fakeItemRepo) UpdateByIDAndUser(_ context.Context, _ *gorm.DB, itemID uint, userID uint, updates map[string]interface{}) error {
	item, ok := r.items[itemID]
	if !ok || item.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "title":
			item.Title = value.(string)
		case "description":
			item.Description = value.(string)
		case "category":
			item.Category = value.(string)
		case "project":
			item.Project = value.(string)
		case "importance":
			item.Importance = value.(models.Importance)
		case "is_pinned":
			item.IsPinned = value.(bool)
		case "url":
			item.URL = value.(string)
		case "domain":
			item.Domain = value.(string)
		case "content":
			item.Content = value.(string)
		}
	}
	return nil
}

func (r *fakeItemRepo) DeleteByID(_ context.Context, _ *gorm.DB, itemID uint) error {
	delete(r.items, itemID)
	return nil
}

type fakeItemFileRepo struct {
	links []*models.ItemFile
	files *fakeFileRepo
}

func newFakeItemFileRepo(files *fakeFileRepo) *fakeItemFileRepo {
	return &fakeItemFileRepo{files: files}
}

func (r *fakeItemFileRepo) linksFor(itemID uint) []models.ItemFile {
	var out []models.ItemFile
	for _, link := range r.links {
		if link.ItemID == itemID {
			copied := *link
			if file, ok := r.files.files[link.FileID]; ok {
				copied.File = *file
			}
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (r *fakeItemFileRepo) Create(_ context.Context, _ *gorm.DB, link *models.ItemFile) error {
	copied := *link
	r.links = append(r.links, &copied)
	return nil
}

func (r *fakeItemFileRepo) ListByItem(ctx context.Context, tx *gorm.DB, itemID uint, _ bool) ([]models.ItemFile, error) {
	return r.linksFor(itemID), nil
}

func (r *fakeItemFileRepo) GetByItemAndFile(_ context.Context, _ *gorm.DB, itemID uint, fileID uint) (models.ItemFile, error) {
	for _, link := range r.links {
		if link.ItemID == itemID && link.FileID == fileID {
			return *link, nil
		}
	}
	return models.ItemFile{}, gorm.ErrRecordNotFound
}

func (r *fakeItemFileRepo) Update(_ context.Context, _ *gorm.DB, itemID uint, fileID uint, updates map[string]interface{}) error {
	for _, link := range r.links {
		if link.ItemID == itemID && link.FileID == fileID {
			for key, value := range updates {
				switch key {
				case "is_primary":
					link.IsPrimary = value.(bool)
				case "position":
					link.Position = value.(int)
				}
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeItemFileRepo) ClearPrimary(_ context.Context, _ *gorm.DB, itemID uint) error {
	for _, link := range r.links {
		if link.ItemID == itemID {
			link.IsPrimary = false
		}
	}
	return nil
}

func (r *fakeItemFileRepo) DeleteByItemAndFile(_ context.Context, _ *gorm.DB, itemID uint, fileID uint) error {
	kept := r.links[:0]
	for _, link := range r.links {
		if !(link.ItemID == itemID && link.FileID == fileID) {
			kept = append(kept, link)
		}
	}
	r.links = kept
	return nil
}

func (r *fakeItemFileRepo) DeleteByItem(_ context.Context, _ *gorm.DB, itemID uint) error {
	kept := r.links[:0]
	for _, link := range r.links {
		if link.ItemID != itemID {
			kept = append(kept, link)
		}
	}
	r.links = kept
	return nil
}

func (r *fakeItemFileRepo) CountByFile(_ context.Context, _ *gorm.DB, fileID uint) (int64, error) {
	var count int64
	for _, link := range r.links {
		if link.FileID == fileID {
			count++
		}
	}
	return count, nil
}

type fakeItemTagRepo struct {
	links map[[2]uint]bool
}

func newFakeItemTagRepo() *fakeItemTagRepo {
	return &fakeItemTagRepo{links: map[[2]uint]bool{}}
}

func (r *fakeItemTagRepo) tagsFor(itemID uint) []uint {
	var out []uint
	for key := range r.links {
		if key[0] == itemID {
			out = append(out, key[1])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *fakeItemTagRepo) Attach(_ context.Context, _ *gorm.DB, itemID uint, tagID uint) error {
	r.links[[2]uint{itemID, tagID}] = true
	return nil
}

func (r *fakeItemTagRepo) DeleteByItem(_ context.Context, _ *gorm.DB, itemID uint) error {
	for key := range r.links {
		if key[0] == itemID {
			delete(r.links, key)
		}
	}
	return nil
}

func (r *fakeItemTagRepo) DeleteByTag(_ context.Context, _ *gorm.DB, tagID uint) error {
	for key := range r.links {
		if key[1] == tagID {
			delete(r.links, key)
		}
	}
	return nil
}

type fakeTagRepo struct {
	tags   map[uint]*models.Tag
	nextID uint
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: map[uint]*models.Tag{}, nextID: 1}
}

func (r *fakeTagRepo) Create(_ context.Context, _ *gorm.DB, tag *models.Tag) error {
	if tag.ID == 0 {
		tag.ID = r.nextID
		r.nextID++
	}
	copied := *tag
	r.tags[tag.ID] = &copied
	return nil
}

func (r *fakeTagRepo) GetByID(_ context.Context, _ *gorm.DB, tagID uint) (models.Tag, error) {
	tag, ok := r.tags[tagID]
	if !ok {
		return models.Tag{}, gorm.ErrRecordNotFound
	}
	return *tag, nil
}

func (r *fakeTagRepo) GetByIDAndUser(_ context.Context, _ *gorm.DB, tagID uint, userID uint) (models.Tag, error) {
	tag, ok := r.tags[tagID]
	if !ok || tag.UserID != userID {
		return models.Tag{}, gorm.ErrRecordNotFound
	}
	return *tag, nil
}

func (r *fakeTagRepo) GetByIDsAndUser(_ context.Context, _ *gorm.DB, userID uint, tagIDs []uint) ([]models.Tag, error) {
	var out []models.Tag
	seen := map[uint]bool{}
	for _, id := range tagIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if tag, ok := r.tags[id]; ok && tag.UserID == userID {
			out = append(out, *tag)
		}
	}
	return out, nil
}

func (r *fakeTagRepo) GetByNameAndUser(_ context.Context, _ *gorm.DB, userID uint, name string) (models.Tag, error) {
	for _, tag := range r.tags {
		if tag.UserID == userID && tag.Name == name {
			return *tag, nil
		}
	}
	return models.Tag{}, gorm.ErrRecordNotFound
}

func (r *fakeTagRepo) GetByNameFoldAndUser(_ context.Context, _ *gorm.DB, userID uint, name string) (models.Tag, error) {
	for _, tag := range r.tags {
		if tag.UserID == userID && strings.EqualFold(tag.Name, name) {
			return *tag, nil
		}
	}
	return models.Tag{}, gorm.ErrRecordNotFound
}

func (r *fakeTagRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uint) ([]models.Tag, error) {
	var out []models.Tag
	for _, tag := range r.tags {
		if tag.UserID == userID {
			out = append(out, *tag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTagRepo) CountByNameAndUser(_ context.Context, _ *gorm.DB, userID uint, name string, excludeID uint) (int64, error) {
	var count int64
	for _, tag := range r.tags {
		if tag.UserID == userID && tag.Name == name && tag.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTagRepo) UpdateByIDAndUser(_ context.Context, _ *gorm.DB, tagID uint, userID uint, updates map[string]interface{}) error {
	tag, ok := r.tags[tagID]
	if !ok || tag.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "name":
			tag.Name = value.(string)
		case "color":
			tag.Color = value.(string)
		}
	}
	return nil
}

func (r *fakeTagRepo) DeleteByID(_ context.Context, _ *gorm.DB, tagID uint) error {
	delete(r.tags, tagID)
	return nil
}

type fakeFileRepo struct {
	files   map[uint]*models.StoredFile
	nextID  uint
	orphans []models.StoredFile
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[uint]*models.StoredFile{}, nextID: 1}
}

func (r *fakeFileRepo) Create(_ context.Context, _ *gorm.DB, file *models.StoredFile) error {
	if file.ID == 0 {
		file.ID = r.nextID
		r.nextID++
	}
	copied := *file
	r.files[file.ID] = &copied
	return nil
}

func (r *fakeFileRepo) GetByIDAndUser(_ context.Context, _ *gorm.DB, fileID uint, userID uint) (models.StoredFile, error) {
	file, ok := r.files[fileID]
	if !ok || file.UserID != userID {
		return models.StoredFile{}, gorm.ErrRecordNotFound
	}
	return *file, nil
}

func (r *fakeFileRepo) GetByIDs(_ context.Context, _ *gorm.DB, fileIDs []uint) ([]models.StoredFile, error) {
	var out []models.StoredFile
	for _, id := range fileIDs {
		if file, ok := r.files[id]; ok {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) DeleteByIDs(_ context.Context, _ *gorm.DB, fileIDs []uint) error {
	for _, id := range fileIDs {
		delete(r.files, id)
	}
	return nil
}

func (r *fakeFileRepo) ListOrphans(_ context.Context, _ *gorm.DB, _ time.Time, limit int) ([]models.StoredFile, error) {
	if len(r.orphans) > limit {
		return r.orphans[:limit], nil
	}
	return r.orphans, nil
}

type fakeCollectionRepo struct {
	collections map[uint]*models.Collection
	nextID      uint
	items       *fakeCollectionItemRepo
	itemRepo    *fakeItemRepo
}

func newFakeCollectionRepo(items *fakeCollectionItemRepo, itemRepo *fakeItemRepo) *fakeCollectionRepo {
	return &fakeCollectionRepo{collections: map[uint]*models.Collection{}, nextID: 1, items: items, itemRepo: itemRepo}
}

func (r *fakeCollectionRepo) hydrate(collection models.Collection) models.Collection {
	if r.items == nil || r.itemRepo == nil {
		return collection
	}
	for _, itemID := range r.items.itemsFor(collection.ID) {
		if item, ok := r.itemRepo.items[itemID]; ok {
			collection.Items = append(collection.Items, r.itemRepo.hydrate(*item))
		}
	}
	return collection
}

func (r *fakeCollectionRepo) Create(_ context.Context, _ *gorm.DB, collection *models.Collection) error {
	if collection.ID == 0 {
		collection.ID = r.nextID
		r.nextID++
	}
	copied := *collection
	copied.Items = nil
	r.collections[collection.ID] = &copied
	return nil
}

func (r *fakeCollectionRepo) GetByID(_ context.Context, _ *gorm.DB, collectionID uint) (models.Collection, error) {
	collection, ok := r.collections[collectionID]
	if !ok {
		return models.Collection{}, gorm.ErrRecordNotFound
	}
	return *collection, nil
}

func (r *fakeCollectionRepo) GetByIDAndUser(_ context.Context, _ *gorm.DB, collectionID uint, userID uint, preloadItems bool) (models.Collection, error) {
	collection, ok := r.collections[collectionID]
	if !ok || collection.UserID != userID {
		return models.Collection{}, gorm.ErrRecordNotFound
	}
	if preloadItems {
		return r.hydrate(*collection), nil
	}
	return *collection, nil
}

func (r *fakeCollectionRepo) GetBySlug(_ context.Context, _ *gorm.DB, slug string) (models.Collection, error) {
	for _, collection := range r.collections {
		if collection.IsPublic && collection.SlugPublic != nil && *collection.SlugPublic == slug {
			return r.hydrate(*collection), nil
		}
	}
	return models.Collection{}, gorm.ErrRecordNotFound
}

func (r *fakeCollectionRepo) List(_ context.Context, _ *gorm.DB, filter repositories.CollectionFilter) ([]models.Collection, error) {
	var out []models.Collection
	for _, collection := range r.collections {
		if collection.UserID != filter.UserID {
			continue
		}
		if filter.IsPublic != nil && collection.IsPublic != *filter.IsPublic {
			continue
		}
		if filter.ParentID != nil {
			if *filter.ParentID == 0 {
				if collection.ParentID != nil {
					continue
				}
			} else if collection.ParentID == nil || *collection.ParentID != *filter.ParentID {
				continue
			}
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(collection.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *collection)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCollectionRepo) CountBySlug(_ context.Context, _ *gorm.DB, slug string, excludeID uint) (int64, error) {
	var count int64
	for _, collection := range r.collections {
		if collection.SlugPublic != nil && *collection.SlugPublic == slug && collection.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCollectionRepo) UpdateByIDAndUser(_ context.Context, _ *gorm.DB, collectionID uint, userID uint, updates map[string]interface{}) error {
	collection, ok := r.collections[collectionID]
	if !ok || collection.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "name":
			collection.Name = value.(string)
		case "description":
			collection.Description = value.(string)
		case "cover_image":
			collection.CoverImage = value.(string)
		case "is_public":
			collection.IsPublic = value.(bool)
		case "slug_public":
			if value == nil {
				collection.SlugPublic = nil
			} else {
				slug := value.(string)
				collection.SlugPublic = &slug
			}
		case "parent_id":
			if value == nil {
				collection.ParentID = nil
			} else {
				parentID := value.(uint)
				collection.ParentID = &parentID
			}
		}
	}
	return nil
}

func (r *fakeCollectionRepo) DeleteByID(_ context.Context, _ *gorm.DB, collectionID uint) error {
	delete(r.collections, collectionID)
	return nil
}

type fakeCollectionItemRepo struct {
	links map[[2]uint]bool
}

func newFakeCollectionItemRepo() *fakeCollectionItemRepo {
	return &fakeCollectionItemRepo{links: map[[2]uint]bool{}}
}

func (r *fakeCollectionItemRepo) itemsFor(collectionID uint) []uint {
	var out []uint
	for key := range r.links {
		if key[0] == collectionID {
			out = append(out, key[1])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *fakeCollectionItemRepo) Attach(_ context.Context, _ *gorm.DB, collectionID uint, itemID uint) (bool, error) {
	key := [2]uint{collectionID, itemID}
	if r.links[key] {
		return false, nil
	}
	r.links[key] = true
	return true, nil
}

func (r *fakeCollectionItemRepo) Detach(_ context.Context, _ *gorm.DB, collectionID uint, itemID uint) (bool, error) {
	key := [2]uint{collectionID, itemID}
	if !r.links[key] {
		return false, nil
	}
	delete(r.links, key)
	return true, nil
}

func (r *fakeCollectionItemRepo) DeleteByCollection(_ context.Context, _ *gorm.DB, collectionID uint) error {
	for key := range r.links {
		if key[0] == collectionID {
			delete(r.links, key)
		}
	}
	return nil
}

func (r *fakeCollectionItemRepo) DeleteByItem(_ context.Context, _ *gorm.DB, itemID uint) error {
	for key := range r.links {
		if key[1] == itemID {
			delete(r.links, key)
		}
	}
	return nil
}

type fakeSharedLinkRepo struct {
	links  map[uint]*models.SharedLink
	logs   []models.ShareAccessLog
	nextID uint
}

func newFakeSharedLinkRepo() *fakeSharedLinkRepo {
	return &fakeSharedLinkRepo{links: map[uint]*models.SharedLink{}, nextID: 1}
}

func (r *fakeSharedLinkRepo) Create(_ context.Context, _ *gorm.DB, link *models.SharedLink) error {
	if link.ID == 0 {
		link.ID = r.nextID
		r.nextID++
	}
	copied := *link
	r.links[link.ID] = &copied
	return nil
}

func (r *fakeSharedLinkRepo) GetByID(_ context.Context, _ *gorm.DB, linkID uint) (models.SharedLink, error) {
	link, ok := r.links[linkID]
	if !ok {
		return models.SharedLink{}, gorm.ErrRecordNotFound
	}
	return *link, nil
}

func (r *fakeSharedLinkRepo) GetByToken(_ context.Context, _ *gorm.DB, token string) (models.SharedLink, error) {
	for _, link := range r.links {
		if link.Token == token {
			return *link, nil
		}
	}
	return models.SharedLink{}, gorm.ErrRecordNotFound
}

func (r *fakeSharedLinkRepo) GetByIDAndUser(_ context.Context, _ *gorm.DB, linkID uint, userID uint) (models.SharedLink, error) {
	link, ok := r.links[linkID]
	if !ok || link.UserID != userID {
		return models.SharedLink{}, gorm.ErrRecordNotFound
	}
	return *link, nil
}

func (r *fakeSharedLinkRepo) ListByUser(_ context.Context, _ *gorm.DB, filter repositories.SharedLinkFilter) ([]models.SharedLink, error) {
	var out []models.SharedLink
	for _, link := range r.links {
		if link.UserID != filter.UserID {
			continue
		}
		if filter.ItemID > 0 && link.ItemID != filter.ItemID {
			continue
		}
		if filter.Revoked != nil && link.Revoked != *filter.Revoked {
			continue
		}
		out = append(out, *link)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSharedLinkRepo) UpdateByID(_ context.Context, _ *gorm.DB, linkID uint, updates map[string]interface{}) error {
	link, ok := r.links[linkID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "revoked":
			link.Revoked = value.(bool)
		}
	}
	return nil
}

func (r *fakeSharedLinkRepo) IncrementAccessCount(_ context.Context, _ *gorm.DB, linkID uint) error {
	link, ok := r.links[linkID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	link.AccessCount++
	return nil
}

func (r *fakeSharedLinkRepo) DeleteByID(_ context.Context, _ *gorm.DB, linkID uint) error {
	delete(r.links, linkID)
	return nil
}

func (r *fakeSharedLinkRepo) DeleteByItem(_ context.Context, _ *gorm.DB, itemID uint) error {
	for id, link := range r.links {
		if link.ItemID == itemID {
			delete(r.links, id)
		}
	}
	return nil
}

func (r *fakeSharedLinkRepo) ListExpiredBefore(_ context.Context, _ *gorm.DB, before time.Time) ([]models.SharedLink, error) {
	var out []models.SharedLink
	for _, link := range r.links {
		if link.ExpiresAt.Before(before) {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (r *fakeSharedLinkRepo) CreateAccessLog(_ context.Context, _ *gorm.DB, entry *models.ShareAccessLog) error {
	r.logs = append(r.logs, *entry)
	return nil
}

type fakeThrottleRepo struct {
	failures map[string]int64
}

func newFakeThrottleRepo() *fakeThrottleRepo {
	return &fakeThrottleRepo{failures: map[string]int64{}}
}

func throttleKey(token, ip string) string {
	return token + "|" + ip
}

func (r *fakeThrottleRepo) Failures(_ context.Context, token string, ip string) (int64, error) {
	return r.failures[throttleKey(token, ip)], nil
}

func (r *fakeThrottleRepo) RegisterFailure(_ context.Context, token string, ip string, _ int) (int64, error) {
	r.failures[throttleKey(token, ip)]++
	return r.failures[throttleKey(token, ip)], nil
}

func (r *fakeThrottleRepo) Reset(_ context.Context, token string, ip string) error {
	delete(r.failures, throttleKey(token, ip))
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.objects[key] = data
	return int64(len(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) AbsPath(key string) string {
	return "/tmp/stashbox-test/" + key
}

func (s *fakeStorage) PublicURL(key string) string {
	return fmt.Sprintf("http://files.test/%s", key)
}

// testEnv wires every fake behind the real service constructors.
type testEnv struct {
	usage           *fakeUsageRepo
	items           *fakeItemRepo
	itemFiles       *fakeItemFileRepo
	itemTags        *fakeItemTagRepo
	files           *fakeFileRepo
	tags            *fakeTagRepo
	collections     *fakeCollectionRepo
	collectionItems *fakeCollectionItemRepo
	sharedLinks     *fakeSharedLinkRepo
	throttle        *fakeThrottleRepo
	storage         *fakeStorage

	itemSvc       ItemService
	tagSvc        TagService
	collectionSvc CollectionService
	sharedLinkSvc SharedLinkService
	cleanupSvc    CleanupService
}

func newTestEnv() *testEnv {
	setTestConfig()

	env := &testEnv{
		usage:           newFakeUsageRepo(),
		itemTags:        newFakeItemTagRepo(),
		files:           newFakeFileRepo(),
		tags:            newFakeTagRepo(),
		collectionItems: newFakeCollectionItemRepo(),
		sharedLinks:     newFakeSharedLinkRepo(),
		throttle:        newFakeThrottleRepo(),
		storage:         newFakeStorage(),
	}
	env.itemFiles = newFakeItemFileRepo(env.files)
	env.items = newFakeItemRepo(env.itemFiles, env.itemTags, env.tags)
	env.collections = newFakeCollectionRepo(env.collectionItems, env.items)

	tx := fakeTxManager{}
	env.itemSvc = NewItemService(tx, env.usage, env.items, env.itemFiles, env.itemTags, env.files, env.tags, env.collectionItems, env.sharedLinks, env.storage)
	env.tagSvc = NewTagService(tx, env.tags, env.itemTags)
	env.collectionSvc = NewCollectionService(tx, env.usage, env.collections, env.collectionItems, env.items, env.storage)
	env.sharedLinkSvc = NewSharedLinkService(tx, env.sharedLinks, env.items, env.throttle, env.storage)
	env.cleanupSvc = NewCleanupService(tx, env.sharedLinks, env.files, env.usage, env.storage)
	return env
}

func appErrCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr.HTTPCode
	}
	return -1
}
