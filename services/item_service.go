package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"net/url"
	"strings"

	"stashbox/config"
	applog "stashbox/logger"
	"stashbox/models"
	"stashbox/repositories"
	"stashbox/utils"

	"gorm.io/gorm"
)

// FileUpload is one incoming blob, already bounded by the API layer's
// per-request size and count caps.
type FileUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

type NewTagInput struct {
	Name  string
	Color string
}

type CreateItemInput struct {
	Type         models.ItemType
	Title        string
	Description  string
	Category     string
	Project      string
	Importance   models.Importance
	IsPinned     bool
	URL          string
	Content      string
	TagIDs       []uint
	NewTags      []NewTagInput
	PrimaryIndex *int
}

type UpdateItemInput struct {
	Type          *models.ItemType
	Title         *string
	Description   *string
	Category      *string
	Project       *string
	Importance    *models.Importance
	IsPinned      *bool
	URL           *string
	Content       *string
	TagIDs        *[]uint
	NewTags       []NewTagInput
	RemoveFileIDs []uint
}

type ItemListQuery struct {
	Type       string
	Category   string
	Project    string
	Domain     string
	Importance string
	IsPinned   *bool
	TagIDs     []uint
	Search     string
	SortBy     string
	Order      string
	Page       int
	Limit      int
}

type ItemListOutput struct {
	Items      []models.Item
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ItemService interface {
	Create(ctx context.Context, userID uint, in CreateItemInput, uploads []FileUpload) (models.Item, error)
	List(ctx context.Context, userID uint, q ItemListQuery) (ItemListOutput, error)
	Get(ctx context.Context, userID uint, itemID uint) (models.Item, error)
	Update(ctx context.Context, userID uint, itemID uint, in UpdateItemInput, uploads []FileUpload) (models.Item, error)
	Delete(ctx context.Context, userID uint, itemID uint) error
	TogglePin(ctx context.Context, userID uint, itemID uint) (models.Item, error)
	SetPrimaryFile(ctx context.Context, userID uint, itemID uint, fileID uint) error
	ReorderFiles(ctx context.Context, userID uint, itemID uint, fileIDs []uint) error
}

type itemService struct {
	txManager       TxManager
	usage           repositories.UsageRepository
	items           repositories.ItemRepository
	itemFiles       repositories.ItemFileRepository
	itemTags        repositories.ItemTagRepository
	files           repositories.FileRepository
	tags            repositories.TagRepository
	collectionItems repositories.CollectionItemRepository
	sharedLinks     repositories.SharedLinkRepository
	storage         ObjectStorage
}

func NewItemService(
	txManager TxManager,
	usage repositories.UsageRepository,
	items repositories.ItemRepository,
	itemFiles repositories.ItemFileRepository,
	itemTags repositories.ItemTagRepository,
	files repositories.FileRepository,
	tags repositories.TagRepository,
	collectionItems repositories.CollectionItemRepository,
	sharedLinks repositories.SharedLinkRepository,
	storage ObjectStorage,
) ItemService {
	return &itemService{
		txManager:       txManager,
		usage:           usage,
		items:           items,
		itemFiles:       itemFiles,
		itemTags:        itemTags,
		files:           files,
		tags:            tags,
		collectionItems: collectionItems,
		sharedLinks:     sharedLinks,
		storage:         storage,
	}
}

// deriveDomain extracts the host of a link URL, without the www prefix.
func deriveDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func validateItemPayload(t models.ItemType, urlField, content string, fileCount int) error {
	switch t {
	case models.ItemTypeLink:
		if strings.TrimSpace(urlField) == "" {
			return newValidationError("url is required for LINK items")
		}
	case models.ItemTypeNote:
		if strings.TrimSpace(content) == "" {
			return newValidationError("content is required for NOTE items")
		}
	case models.ItemTypeFile:
		if fileCount < 1 {
			return newValidationError("at least one file is required for FILE items")
		}
	default:
		return newValidationError("invalid item type")
	}
	return nil
}

func (s *itemService) Create(ctx context.Context, userID uint, in CreateItemInput, uploads []FileUpload) (models.Item, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Item{}, newValidationError("title is required")
	}
	if err := validateItemPayload(in.Type, in.URL, in.Content, len(uploads)); err != nil {
		return models.Item{}, err
	}
	if in.Importance == "" {
		in.Importance = models.ImportanceMedium
	}
	if !models.ValidImportance(in.Importance) {
		return models.Item{}, newValidationError("invalid importance")
	}
	if in.PrimaryIndex != nil && (*in.PrimaryIndex < 0 || *in.PrimaryIndex >= len(uploads)) {
		return models.Item{}, newValidationError("primary file index out of range")
	}

	usage, err := s.usage.GetByUser(ctx, nil, userID)
	if err != nil {
		return models.Item{}, newInternalError("failed to query usage", err)
	}
	if err := checkItemQuota(usage); err != nil {
		return models.Item{}, err
	}

	item := models.Item{
		UserID:      userID,
		Type:        in.Type,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Project:     in.Project,
		Importance:  in.Importance,
		IsPinned:    in.IsPinned,
	}
	// Cross-variant fields never survive the chokepoint: a LINK carries no
	// content, a NOTE carries no url, only FILE items carry attachments.
	switch in.Type {
	case models.ItemTypeLink:
		item.URL = in.URL
		item.Domain = deriveDomain(in.URL)
	case models.ItemTypeNote:
		item.Content = in.Content
	}

	var stored []models.StoredFile
	var totalSize int64
	if in.Type == models.ItemTypeFile {
		for _, up := range uploads {
			totalSize += up.Size
		}
		if err := checkStorageQuota(usage, totalSize); err != nil {
			return models.Item{}, err
		}
		stored, err = s.persistUploads(ctx, userID, uploads)
		if err != nil {
			return models.Item{}, err
		}
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.items.Create(ctx, tx, &item); err != nil {
			return err
		}
		for i := range stored {
			if err := s.files.Create(ctx, tx, &stored[i]); err != nil {
				return err
			}
			primary := i == 0
			if in.PrimaryIndex != nil {
				primary = i == *in.PrimaryIndex
			}
			link := models.ItemFile{ItemID: item.ID, FileID: stored[i].ID, IsPrimary: primary, Position: i}
			if err := s.itemFiles.Create(ctx, tx, &link); err != nil {
				return err
			}
		}
		tagIDs, err := s.resolveTagIDs(ctx, tx, userID, in.TagIDs, in.NewTags)
		if err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := s.itemTags.Attach(ctx, tx, item.ID, tagID); err != nil {
				return err
			}
		}
		if err := s.usage.AddItemCount(ctx, tx, userID, 1); err != nil {
			return err
		}
		if totalSize > 0 {
			return s.usage.AddStorageUsed(ctx, tx, userID, totalSize)
		}
		return nil
	})
	if err != nil {
		s.discardObjects(ctx, stored)
		var appErr *AppError
		if errors.As(err, &appErr) {
			return models.Item{}, appErr
		}
		return models.Item{}, newInternalError("failed to create item", err)
	}

	return s.reload(ctx, userID, item.ID)
}

// persistUploads writes blobs to object storage before the row transaction
// opens; the caller discards them if the transaction fails.
func (s *itemService) persistUploads(ctx context.Context, userID uint, uploads []FileUpload) ([]models.StoredFile, error) {
	stored := make([]models.StoredFile, 0, len(uploads))
	for _, up := range uploads {
		key := buildStorageKey(userID, up.Filename)
		hasher := md5.New()
		written, err := s.storage.Save(ctx, key, io.TeeReader(up.Content, hasher))
		if err != nil {
			s.discardObjects(ctx, stored)
			return nil, newInternalError("failed to store file", err)
		}

		mimeType := up.ContentType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		file := models.StoredFile{
			UserID:       userID,
			StorageKey:   key,
			OriginalName: sanitizeFilename(up.Filename),
			MimeType:     mimeType,
			Size:         written,
			Checksum:     hex.EncodeToString(hasher.Sum(nil)),
			IsImage:      IsImageFile(up.Filename),
		}
		if file.IsImage {
			absPath := s.storage.AbsPath(key)
			if w, h, dimErr := GetImageDimensions(absPath); dimErr == nil {
				file.Width, file.Height = w, h
			}
			thumbKey := buildThumbnailKey(key)
			if err := GenerateThumbnail(absPath, s.storage.AbsPath(thumbKey)); err == nil {
				file.ThumbnailKey = thumbKey
			}
		}
		stored = append(stored, file)
	}
	return stored, nil
}

// discardObjects removes written blobs after a failed transaction. Best
// effort: a leaked object is preferable to a dangling row.
func (s *itemService) discardObjects(ctx context.Context, files []models.StoredFile) {
	for _, f := range files {
		if err := s.storage.Delete(ctx, f.StorageKey); err != nil {
			applog.Warnf("discard object %s: %v", f.StorageKey, err)
		}
		if f.ThumbnailKey != "" {
			if err := s.storage.Delete(ctx, f.ThumbnailKey); err != nil {
				applog.Warnf("discard thumbnail %s: %v", f.ThumbnailKey, err)
			}
		}
	}
}

// resolveTagIDs turns explicit tag ids plus new tag names into a final id
// set. Ids must belong to the user; names reuse existing tags
// case-insensitively and create the rest.
func (s *itemService) resolveTagIDs(ctx context.Context, tx *gorm.DB, userID uint, tagIDs []uint, newTags []NewTagInput) ([]uint, error) {
	resolved := make([]uint, 0, len(tagIDs)+len(newTags))
	seen := make(map[uint]bool)

	if len(tagIDs) > 0 {
		existing, err := s.tags.GetByIDsAndUser(ctx, tx, userID, tagIDs)
		if err != nil {
			return nil, newInternalError("failed to query tags", err)
		}
		if len(existing) != len(uniqueIDs(tagIDs)) {
			return nil, newValidationError("one or more tag ids do not exist")
		}
		for _, t := range existing {
			if !seen[t.ID] {
				seen[t.ID] = true
				resolved = append(resolved, t.ID)
			}
		}
	}

	for _, nt := range newTags {
		name := strings.TrimSpace(nt.Name)
		if name == "" {
			return nil, newValidationError("tag name is required")
		}
		tag, err := s.tags.GetByNameFoldAndUser(ctx, tx, userID, name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newInternalError("failed to query tag by name", err)
			}
			tag = models.Tag{UserID: userID, Name: name, Color: nt.Color}
			if err := s.tags.Create(ctx, tx, &tag); err != nil {
				return nil, newInternalError("failed to create tag", err)
			}
		}
		if !seen[tag.ID] {
			seen[tag.ID] = true
			resolved = append(resolved, tag.ID)
		}
	}
	return resolved, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *itemService) reload(ctx context.Context, userID uint, itemID uint) (models.Item, error) {
	item, err := s.items.GetByIDAndUser(ctx, nil, itemID, userID, true)
	if err != nil {
		return models.Item{}, newInternalError("failed to load item", err)
	}
	return item, nil
}

var allowedItemSorts = map[string]bool{
	"created_at": true, "updated_at": true, "title": true, "importance": true,
}

func (s *itemService) List(ctx context.Context, userID uint, q ItemListQuery) (ItemListOutput, error) {
	cfg := config.AppConfig.Pagination
	page, limit := utils.ClampPage(q.Page, q.Limit, cfg.DefaultPageSize, cfg.MaxPageSize)

	sortBy := q.SortBy
	if !allowedItemSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToLower(q.Order)
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	filter := repositories.ItemFilter{
		UserID:     userID,
		Type:       q.Type,
		Category:   q.Category,
		Project:    q.Project,
		Domain:     q.Domain,
		Importance: q.Importance,
		IsPinned:   q.IsPinned,
		TagIDs:     q.TagIDs,
		Search:     q.Search,
	}

	total, err := s.items.Count(ctx, nil, filter)
	if err != nil {
		return ItemListOutput{}, newInternalError("failed to count items", err)
	}

	items, err := s.items.List(ctx, nil, repositories.ListItemsInput{
		Filter: filter,
		SortBy: sortBy,
		Order:  order,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return ItemListOutput{}, newInternalError("failed to list items", err)
	}
	if items == nil {
		// A page past the end must serialize as an empty array, not null.
		items = []models.Item{}
	}

	return ItemListOutput{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: utils.TotalPages(total, limit),
	}, nil
}

func (s *itemService) getOwned(ctx context.Context, userID uint, itemID uint, preload bool) (models.Item, error) {
	item, err := s.items.GetByID(ctx, nil, itemID, preload)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Item{}, newNotFoundError("item not found")
		}
		return models.Item{}, newInternalError("failed to query item", err)
	}
	if err := ensureOwner(item.UserID, userID); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

func (s *itemService) Get(ctx context.Context, userID uint, itemID uint) (models.Item, error) {
	return s.getOwned(ctx, userID, itemID, true)
}

func (s *itemService) Update(ctx context.Context, userID uint, itemID uint, in UpdateItemInput, uploads []FileUpload) (models.Item, error) {
	item, err := s.getOwned(ctx, userID, itemID, true)
	if err != nil {
		return models.Item{}, err
	}

	if in.Type != nil && *in.Type != item.Type {
		return models.Item{}, newValidationError("item type cannot be changed")
	}
	if item.Type != models.ItemTypeFile && (len(uploads) > 0 || len(in.RemoveFileIDs) > 0) {
		return models.Item{}, newValidationError("file attachments apply only to FILE items")
	}
	if item.Type != models.ItemTypeLink && in.URL != nil {
		return models.Item{}, newValidationError("url applies only to LINK items")
	}
	if item.Type != models.ItemTypeNote && in.Content != nil {
		return models.Item{}, newValidationError("content applies only to NOTE items")
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return models.Item{}, newValidationError("title is required")
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Project != nil {
		updates["project"] = *in.Project
	}
	if in.Importance != nil {
		if !models.ValidImportance(*in.Importance) {
			return models.Item{}, newValidationError("invalid importance")
		}
		updates["importance"] = *in.Importance
	}
	if in.IsPinned != nil {
		updates["is_pinned"] = *in.IsPinned
	}
	if in.URL != nil {
		if strings.TrimSpace(*in.URL) == "" {
			return models.Item{}, newValidationError("url is required for LINK items")
		}
		updates["url"] = *in.URL
		updates["domain"] = deriveDomain(*in.URL)
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return models.Item{}, newValidationError("content is required for NOTE items")
		}
		updates["content"] = *in.Content
	}

	// A FILE item must keep at least one attachment.
	removeSet := make(map[uint]bool, len(in.RemoveFileIDs))
	for _, id := range in.RemoveFileIDs {
		removeSet[id] = true
	}
	if item.Type == models.ItemTypeFile {
		remaining := 0
		for _, link := range item.Files {
			if !removeSet[link.FileID] {
				remaining++
			}
		}
		for id := range removeSet {
			found := false
			for _, link := range item.Files {
				if link.FileID == id {
					found = true
					break
				}
			}
			if !found {
				return models.Item{}, newValidationError("file is not attached to this item")
			}
		}
		if remaining+len(uploads) < 1 {
			return models.Item{}, newValidationError("a FILE item must keep at least one file")
		}
	}

	var addedSize int64
	var stored []models.StoredFile
	if len(uploads) > 0 {
		usage, err := s.usage.GetByUser(ctx, nil, userID)
		if err != nil {
			return models.Item{}, newInternalError("failed to query usage", err)
		}
		for _, up := range uploads {
			addedSize += up.Size
		}
		if err := checkStorageQuota(usage, addedSize); err != nil {
			return models.Item{}, err
		}
		stored, err = s.persistUploads(ctx, userID, uploads)
		if err != nil {
			return models.Item{}, err
		}
	}

	var removedObjects []models.StoredFile
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := s.items.UpdateByIDAndUser(ctx, tx, itemID, userID, updates); err != nil {
				return err
			}
		}

		removedPrimary := false
		var freedSize int64
		for _, link := range item.Files {
			if !removeSet[link.FileID] {
				continue
			}
			if link.IsPrimary {
				removedPrimary = true
			}
			if err := s.itemFiles.DeleteByItemAndFile(ctx, tx, itemID, link.FileID); err != nil {
				return err
			}
			refs, err := s.itemFiles.CountByFile(ctx, tx, link.FileID)
			if err != nil {
				return err
			}
			if refs == 0 {
				if err := s.files.DeleteByIDs(ctx, tx, []uint{link.FileID}); err != nil {
					return err
				}
				removedObjects = append(removedObjects, link.File)
				freedSize += link.File.Size
			}
		}

		position := 0
		for _, link := range item.Files {
			if !removeSet[link.FileID] {
				if link.Position != position {
					if err := s.itemFiles.Update(ctx, tx, itemID, link.FileID, map[string]interface{}{"position": position}); err != nil {
						return err
					}
				}
				position++
			}
		}
		for i := range stored {
			if err := s.files.Create(ctx, tx, &stored[i]); err != nil {
				return err
			}
			link := models.ItemFile{ItemID: itemID, FileID: stored[i].ID, Position: position}
			position++
			if err := s.itemFiles.Create(ctx, tx, &link); err != nil {
				return err
			}
		}

		if removedPrimary {
			links, err := s.itemFiles.ListByItem(ctx, tx, itemID, false)
			if err != nil {
				return err
			}
			if len(links) > 0 {
				if err := s.itemFiles.Update(ctx, tx, itemID, links[0].FileID, map[string]interface{}{"is_primary": true}); err != nil {
					return err
				}
			}
		}

		if in.TagIDs != nil || len(in.NewTags) > 0 {
			var ids []uint
			if in.TagIDs != nil {
				ids = *in.TagIDs
			}
			tagIDs, err := s.resolveTagIDs(ctx, tx, userID, ids, in.NewTags)
			if err != nil {
				return err
			}
			if err := s.itemTags.DeleteByItem(ctx, tx, itemID); err != nil {
				return err
			}
			for _, tagID := range tagIDs {
				if err := s.itemTags.Attach(ctx, tx, itemID, tagID); err != nil {
					return err
				}
			}
		}

		delta := addedSize - freedSize
		if delta != 0 {
			return s.usage.AddStorageUsed(ctx, tx, userID, delta)
		}
		return nil
	})
	if err != nil {
		s.discardObjects(ctx, stored)
		var appErr *AppError
		if errors.As(err, &appErr) {
			return models.Item{}, appErr
		}
		return models.Item{}, newInternalError("failed to update item", err)
	}

	// Rows are gone; object removal is best effort and never blocks the call.
	s.discardObjects(ctx, removedObjects)

	return s.reload(ctx, userID, itemID)
}

func (s *itemService) Delete(ctx context.Context, userID uint, itemID uint) error {
	item, err := s.getOwned(ctx, userID, itemID, true)
	if err != nil {
		return err
	}

	var removedObjects []models.StoredFile
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		var freedSize int64
		if err := s.itemFiles.DeleteByItem(ctx, tx, itemID); err != nil {
			return err
		}
		for _, link := range item.Files {
			refs, err := s.itemFiles.CountByFile(ctx, tx, link.FileID)
			if err != nil {
				return err
			}
			if refs == 0 {
				if err := s.files.DeleteByIDs(ctx, tx, []uint{link.FileID}); err != nil {
					return err
				}
				removedObjects = append(removedObjects, link.File)
				freedSize += link.File.Size
			}
		}
		if err := s.itemTags.DeleteByItem(ctx, tx, itemID); err != nil {
			return err
		}
		if err := s.collectionItems.DeleteByItem(ctx, tx, itemID); err != nil {
			return err
		}
		if err := s.sharedLinks.DeleteByItem(ctx, tx, itemID); err != nil {
			return err
		}
		if err := s.items.DeleteByID(ctx, tx, itemID); err != nil {
			return err
		}
		if err := s.usage.AddItemCount(ctx, tx, userID, -1); err != nil {
			return err
		}
		if freedSize > 0 {
			return s.usage.AddStorageUsed(ctx, tx, userID, -freedSize)
		}
		return nil
	})
	if err != nil {
		return newInternalError("failed to delete item", err)
	}

	s.discardObjects(ctx, removedObjects)
	return nil
}

func (s *itemService) TogglePin(ctx context.Context, userID uint, itemID uint) (models.Item, error) {
	item, err := s.getOwned(ctx, userID, itemID, false)
	if err != nil {
		return models.Item{}, err
	}
	if err := s.items.UpdateByIDAndUser(ctx, nil, itemID, userID, map[string]interface{}{"is_pinned": !item.IsPinned}); err != nil {
		return models.Item{}, newInternalError("failed to toggle pin", err)
	}
	return s.reload(ctx, userID, itemID)
}

func (s *itemService) SetPrimaryFile(ctx context.Context, userID uint, itemID uint, fileID uint) error {
	item, err := s.getOwned(ctx, userID, itemID, false)
	if err != nil {
		return err
	}
	if item.Type != models.ItemTypeFile {
		return newValidationError("primary file applies only to FILE items")
	}
	if _, err := s.itemFiles.GetByItemAndFile(ctx, nil, itemID, fileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("file is not attached to this item")
		}
		return newInternalError("failed to query attachment", err)
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.itemFiles.ClearPrimary(ctx, tx, itemID); err != nil {
			return err
		}
		return s.itemFiles.Update(ctx, tx, itemID, fileID, map[string]interface{}{"is_primary": true})
	})
	if err != nil {
		return newInternalError("failed to set primary file", err)
	}
	return nil
}

func (s *itemService) ReorderFiles(ctx context.Context, userID uint, itemID uint, fileIDs []uint) error {
	item, err := s.getOwned(ctx, userID, itemID, false)
	if err != nil {
		return err
	}
	if item.Type != models.ItemTypeFile {
		return newValidationError("reorder applies only to FILE items")
	}

	links, err := s.itemFiles.ListByItem(ctx, nil, itemID, false)
	if err != nil {
		return newInternalError("failed to query attachments", err)
	}

	// The full set is required: a partial list leaves the leftover positions
	// ambiguous, so it is rejected outright.
	if len(fileIDs) != len(links) {
		return newValidationError("reorder must list every attached file exactly once")
	}
	existing := make(map[uint]bool, len(links))
	for _, link := range links {
		existing[link.FileID] = true
	}
	seen := make(map[uint]bool, len(fileIDs))
	for _, id := range fileIDs {
		if !existing[id] || seen[id] {
			return newValidationError("reorder must list every attached file exactly once")
		}
		seen[id] = true
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		for pos, id := range fileIDs {
			if err := s.itemFiles.Update(ctx, tx, itemID, id, map[string]interface{}{"position": pos}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return newInternalError("failed to reorder files", err)
	}
	return nil
}
