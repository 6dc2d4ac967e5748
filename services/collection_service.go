package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"stashbox/models"
	"stashbox/repositories"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CreateCollectionInput struct {
	Name        string
	Description string
	IsPublic    bool
	SlugPublic  string
	CoverImage  string
	ParentID    *uint
}

type UpdateCollectionInput struct {
	Name        *string
	Description *string
	IsPublic    *bool
	SlugPublic  *string
	CoverImage  *string
}

type CollectionListQuery struct {
	Search   string
	IsPublic *bool
	ParentID *uint
}

type MembershipResult struct {
	Requested int `json:"requested"`
	Changed   int `json:"changed"`
}

type CollectionService interface {
	Create(ctx context.Context, userID uint, in CreateCollectionInput) (models.Collection, error)
	List(ctx context.Context, userID uint, q CollectionListQuery) ([]models.Collection, error)
	Get(ctx context.Context, userID uint, collectionID uint) (models.Collection, error)
	Update(ctx context.Context, userID uint, collectionID uint, in UpdateCollectionInput) (models.Collection, error)
	Move(ctx context.Context, userID uint, collectionID uint, newParentID *uint) (models.Collection, error)
	Delete(ctx context.Context, userID uint, collectionID uint) error
	AddItems(ctx context.Context, userID uint, collectionID uint, itemIDs []uint) (MembershipResult, error)
	RemoveItems(ctx context.Context, userID uint, collectionID uint, itemIDs []uint) (MembershipResult, error)
	GetPublicBySlug(ctx context.Context, slug string) (PublicCollectionView, error)
}

type collectionService struct {
	txManager       TxManager
	usage           repositories.UsageRepository
	collections     repositories.CollectionRepository
	collectionItems repositories.CollectionItemRepository
	items           repositories.ItemRepository
	storage         ObjectStorage
}

func NewCollectionService(
	txManager TxManager,
	usage repositories.UsageRepository,
	collections repositories.CollectionRepository,
	collectionItems repositories.CollectionItemRepository,
	items repositories.ItemRepository,
	storage ObjectStorage,
) CollectionService {
	return &collectionService{
		txManager:       txManager,
		usage:           usage,
		collections:     collections,
		collectionItems: collectionItems,
		items:           items,
		storage:         storage,
	}
}

func normalizeSlug(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return "", newValidationError("a public collection requires a slug")
	}
	if !slugPattern.MatchString(slug) {
		return "", newValidationError("slug may contain only lowercase letters, digits and hyphens")
	}
	return slug, nil
}

// ensureSlugFree enforces global slug uniqueness across all users.
func (s *collectionService) ensureSlugFree(ctx context.Context, slug string, excludeID uint) error {
	count, err := s.collections.CountBySlug(ctx, nil, slug, excludeID)
	if err != nil {
		return newInternalError("failed to check slug", err)
	}
	if count > 0 {
		return newConflictError("slug is already taken")
	}
	return nil
}

func (s *collectionService) getOwned(ctx context.Context, userID uint, collectionID uint, preloadItems bool) (models.Collection, error) {
	collection, err := s.collections.GetByID(ctx, nil, collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Collection{}, newNotFoundError("collection not found")
		}
		return models.Collection{}, newInternalError("failed to query collection", err)
	}
	if err := ensureOwner(collection.UserID, userID); err != nil {
		return models.Collection{}, err
	}
	if preloadItems {
		collection, err = s.collections.GetByIDAndUser(ctx, nil, collectionID, userID, true)
		if err != nil {
			return models.Collection{}, newInternalError("failed to load collection", err)
		}
	}
	return collection, nil
}

func (s *collectionService) Create(ctx context.Context, userID uint, in CreateCollectionInput) (models.Collection, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Collection{}, newValidationError("collection name is required")
	}

	usage, err := s.usage.GetByUser(ctx, nil, userID)
	if err != nil {
		return models.Collection{}, newInternalError("failed to query usage", err)
	}
	if err := checkCollectionQuota(usage); err != nil {
		return models.Collection{}, err
	}

	collection := models.Collection{
		UserID:      userID,
		Name:        name,
		Description: in.Description,
		IsPublic:    in.IsPublic,
		CoverImage:  in.CoverImage,
	}
	if in.IsPublic {
		slug, err := normalizeSlug(in.SlugPublic)
		if err != nil {
			return models.Collection{}, err
		}
		if err := s.ensureSlugFree(ctx, slug, 0); err != nil {
			return models.Collection{}, err
		}
		collection.SlugPublic = &slug
	}
	if in.ParentID != nil {
		parent, err := s.getOwned(ctx, userID, *in.ParentID, false)
		if err != nil {
			return models.Collection{}, err
		}
		collection.ParentID = &parent.ID
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.collections.Create(ctx, tx, &collection); err != nil {
			return err
		}
		return s.usage.AddCollectionCount(ctx, tx, userID, 1)
	})
	if err != nil {
		return models.Collection{}, newInternalError("failed to create collection", err)
	}
	return collection, nil
}

func (s *collectionService) List(ctx context.Context, userID uint, q CollectionListQuery) ([]models.Collection, error) {
	collections, err := s.collections.List(ctx, nil, repositories.CollectionFilter{
		UserID:   userID,
		Search:   q.Search,
		IsPublic: q.IsPublic,
		ParentID: q.ParentID,
	})
	if err != nil {
		return nil, newInternalError("failed to list collections", err)
	}
	if collections == nil {
		collections = []models.Collection{}
	}
	return collections, nil
}

func (s *collectionService) Get(ctx context.Context, userID uint, collectionID uint) (models.Collection, error) {
	return s.getOwned(ctx, userID, collectionID, true)
}

func (s *collectionService) Update(ctx context.Context, userID uint, collectionID uint, in UpdateCollectionInput) (models.Collection, error) {
	collection, err := s.getOwned(ctx, userID, collectionID, false)
	if err != nil {
		return models.Collection{}, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return models.Collection{}, newValidationError("collection name is required")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.CoverImage != nil {
		updates["cover_image"] = *in.CoverImage
	}

	isPublic := collection.IsPublic
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
		updates["is_public"] = isPublic
	}
	switch {
	case isPublic:
		slugValue := ""
		if in.SlugPublic != nil {
			slugValue = *in.SlugPublic
		} else if collection.SlugPublic != nil {
			slugValue = *collection.SlugPublic
		}
		slug, err := normalizeSlug(slugValue)
		if err != nil {
			return models.Collection{}, err
		}
		if collection.SlugPublic == nil || *collection.SlugPublic != slug {
			if err := s.ensureSlugFree(ctx, slug, collectionID); err != nil {
				return models.Collection{}, err
			}
			updates["slug_public"] = slug
		}
	case collection.SlugPublic != nil:
		// Going private frees the slug for reuse.
		updates["slug_public"] = nil
	}

	if len(updates) > 0 {
		if err := s.collections.UpdateByIDAndUser(ctx, nil, collectionID, userID, updates); err != nil {
			return models.Collection{}, newInternalError("failed to update collection", err)
		}
	}
	return s.getOwned(ctx, userID, collectionID, true)
}

// Move re-parents a collection. The new parent must belong to the same user
// and must not be the collection itself or any of its descendants.
func (s *collectionService) Move(ctx context.Context, userID uint, collectionID uint, newParentID *uint) (models.Collection, error) {
	if _, err := s.getOwned(ctx, userID, collectionID, false); err != nil {
		return models.Collection{}, err
	}

	if newParentID != nil {
		if *newParentID == collectionID {
			return models.Collection{}, newValidationError("a collection cannot be its own parent")
		}
		parent, err := s.getOwned(ctx, userID, *newParentID, false)
		if err != nil {
			return models.Collection{}, err
		}
		// Walk the ancestor chain of the target parent; finding the moved
		// collection there means the move would create a cycle.
		const maxDepth = 100
		cursor := parent
		for depth := 0; cursor.ParentID != nil && depth < maxDepth; depth++ {
			if *cursor.ParentID == collectionID {
				return models.Collection{}, newValidationError("cannot move a collection under one of its descendants")
			}
			cursor, err = s.collections.GetByID(ctx, nil, *cursor.ParentID)
			if err != nil {
				return models.Collection{}, newInternalError("failed to walk collection tree", err)
			}
		}
	}

	var parentValue interface{}
	if newParentID != nil {
		parentValue = *newParentID
	}
	if err := s.collections.UpdateByIDAndUser(ctx, nil, collectionID, userID, map[string]interface{}{"parent_id": parentValue}); err != nil {
		return models.Collection{}, newInternalError("failed to move collection", err)
	}
	return s.getOwned(ctx, userID, collectionID, false)
}

// Delete removes the collection and its membership rows. Items survive and
// direct children are promoted to the deleted collection's parent.
func (s *collectionService) Delete(ctx context.Context, userID uint, collectionID uint) error {
	collection, err := s.getOwned(ctx, userID, collectionID, false)
	if err != nil {
		return err
	}

	children, err := s.collections.List(ctx, nil, repositories.CollectionFilter{UserID: userID, ParentID: &collectionID})
	if err != nil {
		return newInternalError("failed to list child collections", err)
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		var parentValue interface{}
		if collection.ParentID != nil {
			parentValue = *collection.ParentID
		}
		for _, child := range children {
			if err := s.collections.UpdateByIDAndUser(ctx, tx, child.ID, userID, map[string]interface{}{"parent_id": parentValue}); err != nil {
				return err
			}
		}
		if err := s.collectionItems.DeleteByCollection(ctx, tx, collectionID); err != nil {
			return err
		}
		if err := s.collections.DeleteByID(ctx, tx, collectionID); err != nil {
			return err
		}
		return s.usage.AddCollectionCount(ctx, tx, userID, -1)
	})
	if err != nil {
		return newInternalError("failed to delete collection", err)
	}
	return nil
}

// AddItems attaches the given items; already attached items are skipped, so
// the call is idempotent. Changed reports how many rows were actually added.
func (s *collectionService) AddItems(ctx context.Context, userID uint, collectionID uint, itemIDs []uint) (MembershipResult, error) {
	if len(itemIDs) == 0 {
		return MembershipResult{}, newValidationError("item ids are required")
	}
	if _, err := s.getOwned(ctx, userID, collectionID, false); err != nil {
		return MembershipResult{}, err
	}

	result := MembershipResult{Requested: len(itemIDs)}
	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, itemID := range itemIDs {
			item, err := s.items.GetByID(ctx, tx, itemID, false)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return newNotFoundError("item not found")
				}
				return err
			}
			if err := ensureOwner(item.UserID, userID); err != nil {
				return err
			}
			created, err := s.collectionItems.Attach(ctx, tx, collectionID, itemID)
			if err != nil {
				return err
			}
			if created {
				result.Changed++
			}
		}
		return nil
	})
	if err != nil {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return MembershipResult{}, appErr
		}
		return MembershipResult{}, newInternalError("failed to add items", err)
	}
	return result, nil
}

// RemoveItems detaches the given items; missing memberships are skipped.
func (s *collectionService) RemoveItems(ctx context.Context, userID uint, collectionID uint, itemIDs []uint) (MembershipResult, error) {
	if len(itemIDs) == 0 {
		return MembershipResult{}, newValidationError("item ids are required")
	}
	if _, err := s.getOwned(ctx, userID, collectionID, false); err != nil {
		return MembershipResult{}, err
	}

	result := MembershipResult{Requested: len(itemIDs)}
	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, itemID := range itemIDs {
			removed, err := s.collectionItems.Detach(ctx, tx, collectionID, itemID)
			if err != nil {
				return err
			}
			if removed {
				result.Changed++
			}
		}
		return nil
	})
	if err != nil {
		return MembershipResult{}, newInternalError("failed to remove items", err)
	}
	return result, nil
}

func (s *collectionService) GetPublicBySlug(ctx context.Context, slug string) (PublicCollectionView, error) {
	collection, err := s.collections.GetBySlug(ctx, nil, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PublicCollectionView{}, newNotFoundError("collection not found")
		}
		return PublicCollectionView{}, newInternalError("failed to query collection", err)
	}
	return buildPublicCollectionView(collection, s.storage), nil
}
